// Package observe loads recorded dictionary key observations and turns
// them into keyorder frequency maps.
//
// An observation file is a YAML (or JSON) list of records, each a keys
// list plus an optional count:
//
//	[{keys: [id, name, email], count: 120}, {keys: [id, 7]}]
//
// Keys may be strings or integers; count defaults to 1.
package observe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Krishna8167/keyorder"
)

// Key is a single recorded dictionary key.
type Key struct {
	Text  string
	Int   int64
	IsInt bool
}

func (k *Key) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: key must be a scalar", value.Line)
	}
	switch value.ShortTag() {
	case "!!int":
		n, err := strconv.ParseInt(value.Value, 0, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*k = Key{Int: n, IsInt: true}
	case "!!str":
		*k = Key{Text: value.Value}
	default:
		return fmt.Errorf("line %d: key %q must be a string or an integer", value.Line, value.Value)
	}
	return nil
}

func (k Key) String() string {
	if k.IsInt {
		return strconv.FormatInt(k.Int, 10)
	}
	return strconv.Quote(k.Text)
}

// Record is one observed dictionary shape and how often it was seen.
type Record struct {
	Keys  []Key   `yaml:"keys"`
	Count *uint64 `yaml:"count,omitempty"`
}

func (r Record) count() uint64 {
	if r.Count == nil {
		return 1
	}
	return *r.Count
}

// Array converts r into a dictionary key list, interning string keys in
// syms. Duplicate keys are rejected since no dictionary can hold them.
func (r Record) Array(syms *keyorder.SymbolTable) (keyorder.KeyList, error) {
	list := make(keyorder.KeyList, 0, len(r.Keys))
	seen := make(map[Key]struct{}, len(r.Keys))
	for _, k := range r.Keys {
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("duplicate key %s", k)
		}
		seen[k] = struct{}{}
		if k.IsInt {
			list = append(list, keyorder.IntKey(k.Int))
		} else {
			list = append(list, keyorder.StrKey(syms.Intern(k.Text)))
		}
	}
	return list, nil
}

// Decode reads a list of records.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}

func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// Accumulate adds every record to a new frequency map built with p.
func Accumulate(p *keyorder.Pool, syms *keyorder.SymbolTable, records []Record) (keyorder.FrequencyMap, error) {
	m := keyorder.FrequencyMap{}
	for i, rec := range records {
		arr, err := rec.Array(syms)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		m.Add(p.ForArray(arr), rec.count())
	}
	return m, nil
}

// LoadFiles loads every path concurrently and merges the results. The pool
// and symbol table are shared; each file accumulates into its own map.
func LoadFiles(ctx context.Context, p *keyorder.Pool, syms *keyorder.SymbolTable, paths []string) (keyorder.FrequencyMap, error) {
	maps := make([]keyorder.FrequencyMap, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := LoadFile(path)
			if err != nil {
				return err
			}
			m, err := Accumulate(p, syms, records)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			maps[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := keyorder.FrequencyMap{}
	for _, m := range maps {
		keyorder.Merge(merged, m)
	}
	return merged, nil
}
