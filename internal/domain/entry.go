package domain

import (
	"fmt"
	"strings"
)

// Pair is a bare source/target couple as produced by a generator or an
// import file, before it becomes an entry.
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// VocabEntry is one vocabulary pair plus its review statistics.
type VocabEntry struct {
	Source string     `json:"source"`
	Target string     `json:"target"`
	Stats  Statistics `json:"stats"`
}

// NormalizeKey returns the dedup key for a source string.
func NormalizeKey(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}

// NewVocabEntry creates an entry with zeroed statistics.
// Source and target are trimmed and must not be empty.
func NewVocabEntry(source, target string) (VocabEntry, error) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	if source == "" || target == "" {
		return VocabEntry{}, fmt.Errorf("%w: source=%q target=%q", ErrEmptyField, source, target)
	}

	return VocabEntry{
		Source: source,
		Target: target,
		Stats:  NewStatistics(),
	}, nil
}

// Key returns the normalized dedup key of the entry.
func (e VocabEntry) Key() string {
	return NormalizeKey(e.Source)
}

// Pair returns the entry's source and target.
func (e VocabEntry) Pair() Pair {
	return Pair{Source: e.Source, Target: e.Target}
}

// Clone returns a deep copy of the entry.
func (e VocabEntry) Clone() VocabEntry {
	e.Stats = e.Stats.Clone()
	return e
}
