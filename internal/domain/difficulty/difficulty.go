// Package difficulty computes mastery and difficulty signals from an entry's
// statistics. Everything here is a pure function of domain.Statistics.
package difficulty

import (
	"math"

	"github.com/phrazzld/vokabel/internal/domain"
)

// Band is a display bucket for a correctness rate.
type Band string

// Bands ordered from weakest to strongest.
const (
	BandVeryPoor  Band = "very-poor"
	BandPoor      Band = "poor"
	BandGood      Band = "good"
	BandExcellent Band = "excellent"
)

var defaultParams = NewDefaultParams()

// Rate returns round(correct/timesShown*100). The second return value is
// false when the entry has never been shown.
func Rate(s domain.Statistics) (int, bool) {
	if s.TimesShown <= 0 {
		return 0, false
	}
	return int(math.Round(float64(s.CorrectCount) / float64(s.TimesShown) * 100)), true
}

// BandOf maps a rate to its band.
func BandOf(rate int) Band {
	switch {
	case rate < 40:
		return BandVeryPoor
	case rate < 70:
		return BandPoor
	case rate < 90:
		return BandGood
	default:
		return BandExcellent
	}
}

// RateBand combines Rate and BandOf.
func RateBand(s domain.Statistics) (int, Band, bool) {
	rate, ok := Rate(s)
	if !ok {
		return 0, "", false
	}
	return rate, BandOf(rate), true
}

// Score returns the weighted difficulty score using default parameters.
func Score(s domain.Statistics) float64 { return defaultParams.Score(s) }

// SelectionWeight returns the floored sampling weight for Score.
func SelectionWeight(s domain.Statistics) float64 { return defaultParams.SelectionWeight(s) }

// GatedWeight returns the floored linear weight used by the gated policy.
func GatedWeight(s domain.Statistics) float64 { return defaultParams.GatedWeight(s) }

// IsHard reports whether the entry has a defined rate below the threshold.
func IsHard(s domain.Statistics) bool { return defaultParams.IsHard(s) }

// Score is wrong*1.5 - correct*0.4 + recentWrongRate*4, plus a bonus for
// entries shown fewer than three times. It may be negative.
func (p *Params) Score(s domain.Statistics) float64 {
	score := float64(s.WrongCount)*p.WrongWeight -
		float64(s.CorrectCount)*p.CorrectWeight +
		p.RecentWrongRate(s)*p.RecentWrongWeight
	if s.TimesShown < p.NewEntryShown {
		score += p.NewEntryBonus
	}
	return score
}

// RecentWrongRate is the fraction of wrong outcomes in the recent window.
func (p *Params) RecentWrongRate(s domain.Statistics) float64 {
	window := s.LastOutcomes(p.RecentWindow)
	if len(window) == 0 {
		return 0
	}
	wrong := 0
	for _, ok := range window {
		if !ok {
			wrong++
		}
	}
	return float64(wrong) / float64(len(window))
}

// SelectionWeight floors Score at MinWeight.
func (p *Params) SelectionWeight(s domain.Statistics) float64 {
	return math.Max(p.Score(s), p.MinWeight)
}

// GatedWeight is max(1 + wrong*2 - correct*0.5, MinWeight).
func (p *Params) GatedWeight(s domain.Statistics) float64 {
	w := p.GatedBase + float64(s.WrongCount)*p.GatedWrongFactor - float64(s.CorrectCount)*p.GatedCorrectFactor
	return math.Max(w, p.MinWeight)
}

// IsHard reports whether the entry has a defined rate below HardRateThreshold.
func (p *Params) IsHard(s domain.Statistics) bool {
	rate, ok := Rate(s)
	return ok && rate < p.HardRateThreshold
}

// NeedsExposure reports whether the entry has been seen in fewer sessions
// than the gated policy requires before weighting applies.
func (p *Params) NeedsExposure(s domain.Statistics) bool {
	return s.SessionCount() < p.GatedSessions
}
