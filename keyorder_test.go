package keyorder

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, opts ...Option) (*Pool, *SymbolTable) {
	t.Helper()
	p := New(append([]Option{WithMetrics(false)}, opts...)...)
	t.Cleanup(p.Stop)
	return p, NewSymbolTable()
}

func TestInterningIdentityAcrossConstructionPaths(t *testing.T) {
	assert := assert.New(t)
	p, syms := newTestPool(t)
	a, b, c := syms.Intern("a"), syms.Intern("b"), syms.Intern("c")

	viaInsert := p.Empty().Insert(a).Insert(b).Insert(c)
	viaMake := p.Make([]*Key{a, b, c})
	viaArray := p.ForArray(Strs(a, b, c))
	viaRemove := p.Make([]*Key{a, b, syms.Intern("d"), c}).Remove(syms.Intern("d"))

	assert.True(viaInsert.Valid())
	assert.Equal(viaInsert, viaMake)
	assert.Equal(viaMake, viaArray)
	assert.True(viaRemove.Equal(viaMake))
	assert.Equal(viaMake.ID(), viaArray.ID())
	assert.NotEqual(viaMake, p.Make([]*Key{c, b, a}))
}

func TestInsertIdempotent(t *testing.T) {
	p, syms := newTestPool(t)
	k := syms.Intern("k")
	o := p.Make(syms.InternAll("x", "y"))

	once := o.Insert(k)
	assert.Equal(t, once, once.Insert(k))
	assert.Equal(t, 3, once.Size())
}

func TestPopUndoesInsert(t *testing.T) {
	p, syms := newTestPool(t, WithMaxStructKeys(4))
	o := p.Make(syms.InternAll("a", "b", "c"))
	require.Less(t, o.Size(), p.MaxStructKeys())

	assert.Equal(t, o, o.Insert(syms.Intern("z")).Pop())
}

func TestInvalidAbsorbs(t *testing.T) {
	assert := assert.New(t)
	syms := NewSymbolTable()
	k := syms.Intern("k")

	inv := Invalid()
	assert.False(inv.Valid())
	assert.False(inv.Empty())
	assert.Equal(inv, inv.Insert(k))
	assert.Equal(inv, inv.Remove(k))
	assert.Equal(inv, inv.Pop())
	assert.Nil(inv.Slice())
	assert.Equal("<invalid>", inv.String())
	assert.Equal(uint64(0), inv.ID())
}

func TestInsertTransientKeyPoisons(t *testing.T) {
	p, syms := newTestPool(t)
	o := p.Make(syms.InternAll("a"))

	assert.False(t, o.Insert(NewTransientKey("b")).Valid())
	assert.False(t, o.Insert(nil).Valid())
}

func TestOverflowFreezesOrder(t *testing.T) {
	assert := assert.New(t)
	const limit = 3
	p, syms := newTestPool(t, WithMaxStructKeys(limit))

	o := p.Empty()
	for i := 0; i <= limit; i++ {
		o = o.Insert(syms.Intern(fmt.Sprintf("k%d", i)))
	}

	require.True(t, o.Valid())
	assert.Equal(limit+1, o.Size())
	assert.True(o.Overflowed())
	assert.Same(OverflowKey, o.At(limit))
	assert.False(o.Contains(syms.Intern(fmt.Sprintf("k%d", limit))))

	for i := 10; i < 15; i++ {
		assert.Equal(o, o.Insert(syms.Intern(fmt.Sprintf("k%d", i))))
	}
	assert.Equal(`["k0","k1","k2","..."]`, o.String())
}

func TestMarkerIsNotARealKey(t *testing.T) {
	p, syms := newTestPool(t, WithMaxStructKeys(1))
	dots := syms.Intern("...")
	require.NotSame(t, OverflowKey, dots)

	withDots := p.Make([]*Key{dots})
	overflowed := p.Make(syms.InternAll("a", "b"))

	assert.False(t, withDots.Overflowed())
	assert.True(t, overflowed.Overflowed())
	assert.False(t, withDots.Equal(p.Make([]*Key{OverflowKey})))
}

func TestRemoveOverflowMarker(t *testing.T) {
	p, syms := newTestPool(t, WithMaxStructKeys(2))
	a, b := syms.Intern("a"), syms.Intern("b")

	o := p.Make([]*Key{a, b, syms.Intern("c")})
	require.True(t, o.Overflowed())

	assert.Equal(t, p.Make([]*Key{a, b}), o.Remove(OverflowKey))
	assert.Equal(t, o, o.Remove(syms.Intern("missing")))
}

func TestHardCeiling(t *testing.T) {
	assert := assert.New(t)
	p, syms := newTestPool(t, WithMaxStructKeys(MaxTrackedKeyOrderSize+10))

	o := p.Empty()
	for i := 0; i < MaxTrackedKeyOrderSize; i++ {
		o = o.Insert(syms.Intern(fmt.Sprintf("k%03d", i)))
		require.True(t, o.Valid())
	}
	assert.Equal(MaxTrackedKeyOrderSize, o.Size())

	tooLong := o.Insert(syms.Intern("one-more"))
	assert.False(tooLong.Valid())
	assert.True(tooLong.TooLong())
	assert.NotEqual(Invalid(), tooLong)

	assert.Equal(tooLong, tooLong.Insert(syms.Intern("again")))
	assert.Equal(tooLong, tooLong.Pop())
	assert.Equal(tooLong, tooLong.Remove(syms.Intern("k000")))
	assert.Panics(func() { tooLong.Size() })
	assert.Panics(func() { tooLong.Contains(syms.Intern("k000")) })
	assert.Len(tooLong.Slice(), MaxTrackedKeyOrderSize+1)
}

func TestPreconditionsPanicOnInvalid(t *testing.T) {
	inv := Invalid()
	assert.Panics(t, func() { inv.Size() })
	assert.Panics(t, func() { inv.Contains(OverflowKey) })
	assert.Panics(t, func() { inv.Keys() })
	assert.Panics(t, func() { inv.At(0) })
}

func TestPopEmpty(t *testing.T) {
	p, _ := newTestPool(t)
	empty := p.Empty()

	assert.True(t, empty.Empty())
	assert.True(t, empty.Valid())
	assert.Equal(t, empty, empty.Pop())
	assert.Equal(t, "[]", empty.String())
}

func TestIterationOrder(t *testing.T) {
	p, syms := newTestPool(t, WithMaxStructKeys(2))
	o := p.Make(syms.InternAll("z", "a", "m"))

	var texts []string
	for k := range o.Keys() {
		texts = append(texts, k.Text())
	}
	assert.Equal(t, []string{"z", "a", "..."}, texts)

	for i, k := range o.All() {
		assert.Same(t, o.At(i), k)
	}
	assert.True(t, slices.Equal(o.Slice(), []*Key{o.At(0), o.At(1), OverflowKey}))
}
