package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/vokabel/internal/domain"
)

// wirePair accepts both the {de, es} shape the prompt asks for and the
// {source, target} shape used elsewhere.
type wirePair struct {
	De     string `json:"de"`
	Es     string `json:"es"`
	Source string `json:"source"`
	Target string `json:"target"`
}

func (w wirePair) pair() domain.Pair {
	p := domain.Pair{Source: w.Source, Target: w.Target}
	if p.Source == "" {
		p.Source = w.De
	}
	if p.Target == "" {
		p.Target = w.Es
	}
	return p
}

// ParsePairs extracts the pair list from a model reply.
//
// Text outside the outermost brackets is ignored, a single object is treated
// as a one-element list, and the result is cut to count when count > 0.
// Pairs are returned as the model wrote them; blank fields are left for the
// caller to skip.
func ParsePairs(content string, count int) ([]domain.Pair, error) {
	text := strings.TrimSpace(content)
	first := strings.Index(text, "[")
	last := strings.LastIndex(text, "]")
	if first != -1 && last > first {
		text = text[first : last+1]
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrInvalidResponse)
	}

	var raw []json.RawMessage
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("%w: reply is not a JSON array: %v", ErrInvalidResponse, err)
		}
	} else {
		raw = []json.RawMessage{json.RawMessage(text)}
	}

	pairs := make([]domain.Pair, 0, len(raw))
	for _, item := range raw {
		var w wirePair
		if err := json.Unmarshal(item, &w); err != nil {
			// Non-object items are unusable, not fatal.
			pairs = append(pairs, domain.Pair{})
			continue
		}
		pairs = append(pairs, w.pair())
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary list", ErrInvalidResponse)
	}
	if count > 0 && len(pairs) > count {
		pairs = pairs[:count]
	}
	return pairs, nil
}

// WireList converts pairs to the {de, es} list served by the proxy route.
func WireList(pairs []domain.Pair) []map[string]string {
	out := make([]map[string]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, map[string]string{"de": p.Source, "es": p.Target})
	}
	return out
}
