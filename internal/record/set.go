package record

import "iter"

// Set is a deduplicated, read-only collection of records.
//
// A Set is produced by a Builder and never changes afterwards, so it is
// safe to share between goroutines. The zero value and a nil *Set are
// both empty.
type Set struct {
	index   map[Key]int
	records []Record
}

// NewSet builds a Set from records, dropping duplicates.
func NewSet(records ...Record) *Set {
	b := NewBuilder(len(records))
	for _, r := range records {
		b.Add(r)
	}
	return b.Build()
}

// Len returns the number of distinct records.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Contains reports whether an equal record is in the set. Amortized O(1).
func (s *Set) Contains(r Record) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[r.Key()]
	return ok
}

// All yields the records in first-insertion order.
func (s *Set) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if s == nil {
			return
		}
		for _, r := range s.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Builder accumulates records into a Set.
// A Builder is not safe for concurrent use.
type Builder struct {
	set *Set
}

// NewBuilder returns a Builder with room for sizeHint records.
func NewBuilder(sizeHint int) *Builder {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Builder{set: &Set{
		index:   make(map[Key]int, sizeHint),
		records: make([]Record, 0, sizeHint),
	}}
}

// Add inserts r and reports whether it was not already present.
// Panics if called after Build.
func (b *Builder) Add(r Record) bool {
	if b.set == nil {
		panic("record: Builder.Add called after Build")
	}
	k := r.Key()
	if _, ok := b.set.index[k]; ok {
		return false
	}
	b.set.index[k] = len(b.set.records)
	b.set.records = append(b.set.records, r)
	return true
}

// Len returns the number of distinct records added so far.
func (b *Builder) Len() int {
	return b.set.Len()
}

// Build seals and returns the set. The Builder cannot be reused.
func (b *Builder) Build() *Set {
	s := b.set
	b.set = nil
	if s == nil {
		return &Set{}
	}
	return s
}
