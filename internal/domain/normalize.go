package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Field aliases accepted by Normalize. The first name in each list is the
// one written by this package; the rest are legacy names found in older
// persisted data and in generator output.
var (
	sourceFields   = []string{"source", "de"}
	targetFields   = []string{"target", "es"}
	correctFields  = []string{"correctCount", "correct"}
	wrongFields    = []string{"wrongCount", "wrong"}
	shownFields    = []string{"timesShown"}
	sessionFields  = []string{"sessionsSeen", "sessions"}
	lastFields     = []string{"lastSessionId", "lastSession"}
	outcomesFields = []string{"recentOutcomes"}
)

// Normalize turns one raw JSON entry into a VocabEntry. It is the only place
// where stored, merged, imported or generated data is migrated.
//
// An entry whose source or target is missing, not a string, or blank is
// rejected with ErrMalformedEntry. Statistics sub-fields that are missing or
// of the wrong shape are defaulted instead of rejected.
func Normalize(raw json.RawMessage) (VocabEntry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return VocabEntry{}, fmt.Errorf("%w: not an object", ErrMalformedEntry)
	}

	source, ok := stringField(fields, sourceFields)
	if !ok {
		return VocabEntry{}, fmt.Errorf("%w: missing source", ErrMalformedEntry)
	}
	target, ok := stringField(fields, targetFields)
	if !ok {
		return VocabEntry{}, fmt.Errorf("%w: missing target", ErrMalformedEntry)
	}

	entry, err := NewVocabEntry(source, target)
	if err != nil {
		return VocabEntry{}, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}

	var statsFields map[string]json.RawMessage
	if rawStats, ok := fields["stats"]; ok {
		_ = json.Unmarshal(rawStats, &statsFields)
	}
	if statsFields != nil {
		entry.Stats = normalizeStats(statsFields)
	}

	return entry, nil
}

// NormalizeList decodes a JSON array of raw entries. Malformed entries are
// skipped and counted; entries sharing a key are folded into the first one
// with Statistics.Merge. A payload that is not a JSON array is an error.
func NormalizeList(data []byte) ([]VocabEntry, int, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, fmt.Errorf("%w: entry list is not an array: %v", ErrMalformedEntry, err)
	}

	entries := make([]VocabEntry, 0, len(raws))
	index := make(map[string]int, len(raws))
	dropped := 0
	for _, raw := range raws {
		entry, err := Normalize(raw)
		if err != nil {
			dropped++
			continue
		}
		if i, exists := index[entry.Key()]; exists {
			entries[i].Stats = entries[i].Stats.Merge(entry.Stats)
			continue
		}
		index[entry.Key()] = len(entries)
		entries = append(entries, entry)
	}

	return entries, dropped, nil
}

func normalizeStats(fields map[string]json.RawMessage) Statistics {
	stats := NewStatistics()
	stats.CorrectCount = countField(fields, correctFields)
	stats.WrongCount = countField(fields, wrongFields)
	stats.TimesShown = countField(fields, shownFields)

	if raw, ok := lookup(fields, sessionFields); ok {
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) == nil {
			for _, item := range items {
				if id, ok := integer(item); ok {
					stats.SessionsSeen = append(stats.SessionsSeen, id)
				}
			}
			slices.Sort(stats.SessionsSeen)
			stats.SessionsSeen = slices.Compact(stats.SessionsSeen)
		}
	}

	if raw, ok := lookup(fields, lastFields); ok {
		if id, ok := integer(raw); ok {
			stats.LastSessionID = &id
		}
	}

	if raw, ok := lookup(fields, outcomesFields); ok {
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) == nil {
			for _, item := range items {
				var b bool
				if json.Unmarshal(item, &b) == nil {
					stats.RecentOutcomes = append(stats.RecentOutcomes, b)
				}
			}
			stats.RecentOutcomes = trimOutcomes(stats.RecentOutcomes)
		}
	}

	return stats
}

func lookup(fields map[string]json.RawMessage, names []string) (json.RawMessage, bool) {
	for _, name := range names {
		if raw, ok := fields[name]; ok && string(raw) != "null" {
			return raw, true
		}
	}
	return nil, false
}

func stringField(fields map[string]json.RawMessage, names []string) (string, bool) {
	raw, ok := lookup(fields, names)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, strings.TrimSpace(s) != ""
}

func countField(fields map[string]json.RawMessage, names []string) int {
	raw, ok := lookup(fields, names)
	if !ok {
		return 0
	}
	n, ok := integer(raw)
	if !ok || n < 0 {
		return 0
	}
	return int(n)
}

// integer accepts any finite JSON number and truncates it.
func integer(raw json.RawMessage) (int64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
		return 0, false
	}
	return int64(f), true
}
