// Package selector decides which entries enter a learning session.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/domain/difficulty"
	"github.com/phrazzld/vokabel/internal/rng"
)

// Common errors
var (
	ErrNoEntries           = errors.New("no entries to learn")
	ErrNoQualifyingEntries = errors.New("no entries match the selection policy")
	ErrInvalidStackSize    = errors.New("stack size must be at least 1")
	ErrUnknownPolicy       = errors.New("unknown selection policy")
)

// Policy names a stack-building strategy.
type Policy string

// Supported policies.
const (
	// PolicyNormal puts never-shown entries first, then previously shown ones.
	PolicyNormal Policy = "normal"
	// PolicyHardOnly keeps only entries with a defined rate below 70%.
	PolicyHardOnly Policy = "hard-only"
	// PolicyGated first guarantees exposure in several sessions, then samples
	// by a linear wrong/correct weight.
	PolicyGated Policy = "gated"
	// PolicyWeighted samples by the weighted difficulty score.
	PolicyWeighted Policy = "weighted"
)

// Policies lists every supported policy.
var Policies = []Policy{PolicyNormal, PolicyHardOnly, PolicyGated, PolicyWeighted}

// ParsePolicy converts a user-supplied name. An empty name means PolicyNormal.
func ParsePolicy(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return PolicyNormal, nil
	}
	for _, p := range Policies {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Selector builds stacks using a random source and difficulty parameters.
type Selector struct {
	params *difficulty.Params
	rnd    rng.Source
}

// New creates a Selector. A nil params uses difficulty.NewDefaultParams.
func New(rnd rng.Source, params *difficulty.Params) *Selector {
	if rnd == nil {
		panic("selector: random source cannot be nil")
	}
	if params == nil {
		params = difficulty.NewDefaultParams()
	}
	return &Selector{params: params, rnd: rnd}
}

// BuildStack is a convenience wrapper using default parameters.
func BuildStack(pool []domain.VocabEntry, size int, policy Policy, rnd rng.Source) ([]domain.VocabEntry, error) {
	return New(rnd, nil).BuildStack(pool, size, policy)
}

// BuildStack returns at most size distinct entries from pool, ordered for
// presentation. Returned entries are copies.
func (s *Selector) BuildStack(pool []domain.VocabEntry, size int, policy Policy) ([]domain.VocabEntry, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStackSize, size)
	}
	if len(pool) == 0 {
		return nil, ErrNoEntries
	}

	candidates := distinct(pool)

	var stack []domain.VocabEntry
	switch policy {
	case PolicyNormal, "":
		stack = s.unseenFirst(candidates)
	case PolicyHardOnly:
		stack = s.hardOnly(candidates)
		if len(stack) == 0 {
			return nil, ErrNoQualifyingEntries
		}
	case PolicyGated:
		stack = s.sample(candidates, size, s.gatedPick)
	case PolicyWeighted:
		stack = s.sample(candidates, size, s.weightedPick)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}

	if len(stack) > size {
		stack = stack[:size]
	}
	return stack, nil
}

func (s *Selector) unseenFirst(pool []domain.VocabEntry) []domain.VocabEntry {
	var unseen, seen []domain.VocabEntry
	for _, e := range pool {
		if e.Stats.TimesShown == 0 {
			unseen = append(unseen, e)
		} else {
			seen = append(seen, e)
		}
	}
	rng.Shuffle(s.rnd, unseen)
	rng.Shuffle(s.rnd, seen)
	return append(unseen, seen...)
}

func (s *Selector) hardOnly(pool []domain.VocabEntry) []domain.VocabEntry {
	var hard []domain.VocabEntry
	for _, e := range pool {
		if s.params.IsHard(e.Stats) {
			hard = append(hard, e)
		}
	}
	rng.Shuffle(s.rnd, hard)
	return hard
}

// sample draws without replacement until size entries are picked or the
// pool runs dry.
func (s *Selector) sample(pool []domain.VocabEntry, size int, pick func([]domain.VocabEntry) int) []domain.VocabEntry {
	remaining := append([]domain.VocabEntry{}, pool...)
	stack := make([]domain.VocabEntry, 0, min(size, len(pool)))
	for len(stack) < size && len(remaining) > 0 {
		i := pick(remaining)
		stack = append(stack, remaining[i])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	return stack
}

// gatedPick serves entries that still need exposure first, choosing
// uniformly among those seen in the fewest sessions. Once every remaining
// entry has enough exposure it samples by GatedWeight.
func (s *Selector) gatedPick(remaining []domain.VocabEntry) int {
	minSessions := -1
	var group []int
	for i, e := range remaining {
		if !s.params.NeedsExposure(e.Stats) {
			continue
		}
		n := e.Stats.SessionCount()
		switch {
		case minSessions < 0 || n < minSessions:
			minSessions = n
			group = []int{i}
		case n == minSessions:
			group = append(group, i)
		}
	}
	if len(group) > 0 {
		return group[rng.Pick(s.rnd, len(group))]
	}

	weights := make([]float64, len(remaining))
	for i, e := range remaining {
		weights[i] = s.params.GatedWeight(e.Stats)
	}
	return weightedOrFirst(s.rnd, weights)
}

func (s *Selector) weightedPick(remaining []domain.VocabEntry) int {
	weights := make([]float64, len(remaining))
	for i, e := range remaining {
		weights[i] = s.params.SelectionWeight(e.Stats)
	}
	return weightedOrFirst(s.rnd, weights)
}

func weightedOrFirst(rnd rng.Source, weights []float64) int {
	if i := rng.WeightedIndex(rnd, weights); i >= 0 {
		return i
	}
	return 0
}

// distinct copies pool, keeping the first entry per key.
func distinct(pool []domain.VocabEntry) []domain.VocabEntry {
	seen := make(map[string]struct{}, len(pool))
	out := make([]domain.VocabEntry, 0, len(pool))
	for _, e := range pool {
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		out = append(out, e.Clone())
	}
	return out
}
