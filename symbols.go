package keyorder

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// SymbolTable hands out static keys: one *Key per distinct text for the
// lifetime of the table. Safe for concurrent use.
type SymbolTable struct {
	keys *xsync.MapOf[string, *Key]
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		keys: xsync.NewMapOf[string, *Key](),
	}
}

// Intern returns the static key for text, creating it on first use.
func (t *SymbolTable) Intern(text string) *Key {
	if k, ok := t.keys.Load(text); ok {
		return k
	}
	k, _ := t.keys.LoadOrCompute(text, func() *Key {
		return newKey(text, true)
	})
	return k
}

// InternAll interns every text in order.
func (t *SymbolTable) InternAll(texts ...string) []*Key {
	out := make([]*Key, len(texts))
	for i, s := range texts {
		out[i] = t.Intern(s)
	}
	return out
}

func (t *SymbolTable) Lookup(text string) (*Key, bool) {
	return t.keys.Load(text)
}

func (t *SymbolTable) Len() int {
	return t.keys.Size()
}

var (
	symbolsOnce sync.Once
	symbols     *SymbolTable
)

// Symbols returns the process-wide symbol table.
func Symbols() *SymbolTable {
	symbolsOnce.Do(func() {
		symbols = NewSymbolTable()
	})
	return symbols
}
