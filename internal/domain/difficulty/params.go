package difficulty

// Params defines the tunable constants of the difficulty model.
type Params struct {
	// Weighted score
	WrongWeight       float64
	CorrectWeight     float64
	RecentWrongWeight float64
	RecentWindow      int
	NewEntryBonus     float64
	NewEntryShown     int

	// Floor applied to every sampling weight
	MinWeight float64

	// Rate below which an entry counts as hard
	HardRateThreshold int

	// Linear weight used by the session-gated policy
	GatedBase          float64
	GatedWrongFactor   float64
	GatedCorrectFactor float64
	GatedSessions      int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		WrongWeight:       1.5,
		CorrectWeight:     0.4,
		RecentWrongWeight: 4,
		RecentWindow:      5,
		NewEntryBonus:     0.5,
		NewEntryShown:     3,

		MinWeight: 0.2,

		HardRateThreshold: 70,

		GatedBase:          1,
		GatedWrongFactor:   2,
		GatedCorrectFactor: 0.5,
		GatedSessions:      3,
	}
}
