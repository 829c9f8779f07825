// Package objtable is the ordered collection of entities produced by one
// analysis run, keyed by tag.
package objtable

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ardanlabs/babbisch/model"
)

// Entry is one (tag, entity) pair.
type Entry struct {
	Tag    string
	Object model.Object
}

// Table maps tags to entities and iterates in insertion order. Inserting
// under an existing tag replaces the entity but keeps the original
// position, so output stays diff-stable across runs.
type Table struct {
	m *orderedmap.OrderedMap[string, model.Object]
}

func New() *Table {
	return &Table{m: orderedmap.New[string, model.Object]()}
}

// Insert stores obj under tag and returns the entity it replaced, if any.
func (t *Table) Insert(tag string, obj model.Object) (model.Object, bool) {
	return t.m.Set(tag, obj)
}

func (t *Table) Get(tag string) (model.Object, bool) {
	return t.m.Get(tag)
}

func (t *Table) Len() int {
	return t.m.Len()
}

// Each calls fn for every entry in insertion order.
func (t *Table) Each(fn func(tag string, obj model.Object)) {
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Entries returns a snapshot of the table in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, t.m.Len())
	t.Each(func(tag string, obj model.Object) {
		out = append(out, Entry{Tag: tag, Object: obj})
	})
	return out
}

// Tags returns the tags in insertion order.
func (t *Table) Tags() []string {
	out := make([]string, 0, t.m.Len())
	t.Each(func(tag string, _ model.Object) {
		out = append(out, tag)
	})
	return out
}

// CountByClass returns how many entities of each class the table holds.
func (t *Table) CountByClass() map[string]int {
	counts := make(map[string]int)
	t.Each(func(_ string, obj model.Object) {
		counts[obj.Class()]++
	})
	return counts
}
