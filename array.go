package keyorder

import "strconv"

// Array is the dictionary abstraction ForArray reads from. IterateKeys
// calls fn for each key in the dictionary's own order and stops early
// once fn returns true.
type Array interface {
	IterateKeys(fn func(k ArrayKey) (stop bool))
}

// ArrayKey is a dictionary key: either a string key or an integer key.
type ArrayKey struct {
	str   *Key
	num   int64
	isNum bool
}

func StrKey(k *Key) ArrayKey {
	return ArrayKey{str: k}
}

func IntKey(n int64) ArrayKey {
	return ArrayKey{num: n, isNum: true}
}

// Key returns the string key, or nil for an integer key.
func (k ArrayKey) Key() *Key {
	return k.str
}

func (k ArrayKey) IsInt() bool {
	return k.isNum
}

func (k ArrayKey) Int() int64 {
	return k.num
}

// trackable reports whether the key may appear in a KeyOrder.
func (k ArrayKey) trackable() bool {
	return !k.isNum && k.str.Static()
}

func (k ArrayKey) String() string {
	if k.isNum {
		return strconv.FormatInt(k.num, 10)
	}
	if k.str == nil {
		return "<nil>"
	}
	return k.str.String()
}

// KeyList is a slice-backed Array.
type KeyList []ArrayKey

func (l KeyList) IterateKeys(fn func(k ArrayKey) bool) {
	for _, k := range l {
		if fn(k) {
			return
		}
	}
}

// Strs builds a KeyList of string keys.
func Strs(keys ...*Key) KeyList {
	l := make(KeyList, len(keys))
	for i, k := range keys {
		l[i] = StrKey(k)
	}
	return l
}
