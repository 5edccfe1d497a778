package domain

import "slices"

const (
	// MaxRecentOutcomes bounds Statistics.RecentOutcomes.
	MaxRecentOutcomes = 50

	// TrailLength is how many recent outcomes are shown as a visual trail.
	TrailLength = 5
)

// Statistics is the review history of a single entry.
//
// Values are treated as immutable: the Record* and Merge methods return a new
// Statistics and never alias the receiver's slices.
type Statistics struct {
	CorrectCount   int     `json:"correctCount"`
	WrongCount     int     `json:"wrongCount"`
	TimesShown     int     `json:"timesShown"`
	SessionsSeen   []int64 `json:"sessionsSeen"`   // distinct session ids, ascending
	LastSessionID  *int64  `json:"lastSessionId"`  // nil until first shown
	RecentOutcomes []bool  `json:"recentOutcomes"` // most recent last, at most MaxRecentOutcomes
}

// NewStatistics returns zeroed statistics with non-nil collections.
func NewStatistics() Statistics {
	return Statistics{
		SessionsSeen:   []int64{},
		RecentOutcomes: []bool{},
	}
}

// Clone returns a deep copy.
func (s Statistics) Clone() Statistics {
	out := s
	out.SessionsSeen = append([]int64{}, s.SessionsSeen...)
	out.RecentOutcomes = append([]bool{}, s.RecentOutcomes...)
	if s.LastSessionID != nil {
		id := *s.LastSessionID
		out.LastSessionID = &id
	}
	return out
}

// RecordShown counts one display of the entry in the given session.
func (s Statistics) RecordShown(sessionID int64) Statistics {
	out := s.Clone()
	out.TimesShown++
	out.SessionsSeen = addSession(out.SessionsSeen, sessionID)
	out.LastSessionID = &sessionID
	return out
}

// RecordOutcome counts one judgment and appends it to the outcome history,
// keeping only the last MaxRecentOutcomes.
func (s Statistics) RecordOutcome(correct bool) Statistics {
	out := s.Clone()
	if correct {
		out.CorrectCount++
	} else {
		out.WrongCount++
	}
	out.RecentOutcomes = trimOutcomes(append(out.RecentOutcomes, correct))
	return out
}

// Merge folds other into s. Counters are summed, sessions are unioned,
// outcomes are appended (s first, then other) and trimmed, and the last
// session id of s wins unless it is unset.
func (s Statistics) Merge(other Statistics) Statistics {
	out := s.Clone()
	out.CorrectCount += other.CorrectCount
	out.WrongCount += other.WrongCount
	out.TimesShown += other.TimesShown
	for _, id := range other.SessionsSeen {
		out.SessionsSeen = addSession(out.SessionsSeen, id)
	}
	out.RecentOutcomes = trimOutcomes(append(out.RecentOutcomes, other.RecentOutcomes...))
	if out.LastSessionID == nil && other.LastSessionID != nil {
		id := *other.LastSessionID
		out.LastSessionID = &id
	}
	return out
}

// Since returns what s recorded after base: counters are differences
// clamped at zero and outcomes are the judgments made since base. Sessions
// and the last session id are kept whole; Merge unions them.
func (s Statistics) Since(base Statistics) Statistics {
	out := s.Clone()
	out.CorrectCount = max(s.CorrectCount-base.CorrectCount, 0)
	out.WrongCount = max(s.WrongCount-base.WrongCount, 0)
	out.TimesShown = max(s.TimesShown-base.TimesShown, 0)
	out.RecentOutcomes = s.LastOutcomes(out.CorrectCount + out.WrongCount)
	return out
}

// Empty reports whether no showing or judgment is counted.
func (s Statistics) Empty() bool {
	return s.CorrectCount == 0 && s.WrongCount == 0 && s.TimesShown == 0 && len(s.RecentOutcomes) == 0
}

// SessionCount returns the number of distinct sessions the entry was shown in.
func (s Statistics) SessionCount() int {
	return len(s.SessionsSeen)
}

// SeenIn reports whether the entry was shown in the given session.
func (s Statistics) SeenIn(sessionID int64) bool {
	_, found := slices.BinarySearch(s.SessionsSeen, sessionID)
	return found
}

// Trail returns up to the last TrailLength outcomes, oldest first.
func (s Statistics) Trail() []bool {
	return s.LastOutcomes(TrailLength)
}

// LastOutcomes returns up to n most recent outcomes, oldest first.
func (s Statistics) LastOutcomes(n int) []bool {
	if n <= 0 {
		return []bool{}
	}
	start := len(s.RecentOutcomes) - n
	if start < 0 {
		start = 0
	}
	return append([]bool{}, s.RecentOutcomes[start:]...)
}

// Consistent reports whether correct+wrong does not exceed times shown.
// The relationship is advisory; merged or imported data may break it.
func (s Statistics) Consistent() bool {
	return s.CorrectCount+s.WrongCount <= s.TimesShown
}

func addSession(sessions []int64, id int64) []int64 {
	i, found := slices.BinarySearch(sessions, id)
	if found {
		return sessions
	}
	return slices.Insert(sessions, i, id)
}

func trimOutcomes(outcomes []bool) []bool {
	if len(outcomes) <= MaxRecentOutcomes {
		return outcomes
	}
	return append([]bool{}, outcomes[len(outcomes)-MaxRecentOutcomes:]...)
}
