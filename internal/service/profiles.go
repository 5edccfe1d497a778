package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/vokabel/internal/rng"
	"github.com/phrazzld/vokabel/internal/session"
	"github.com/phrazzld/vokabel/internal/store"
	"github.com/phrazzld/vokabel/internal/vocab"
)

// profileRule restricts ids to characters that are safe inside slot names.
const profileRule = "required,max=64,excludesall=: /\\"

// Profile is the runtime state of one profile.
type Profile struct {
	ID    string
	Vocab *vocab.Store

	mu          sync.Mutex
	opened      bool
	sessionID   int64
	engine      *session.Engine
	generating  bool
	loadWarning string
}

// Lock serializes access to the profile's session and generation state.
func (p *Profile) Lock() { p.mu.Lock() }

// Unlock releases Lock.
func (p *Profile) Unlock() { p.mu.Unlock() }

// Profiles loads profiles on first use and keeps them for the lifetime of
// the process.
type Profiles struct {
	slots    store.SlotStore
	rnd      rng.Source
	logger   *slog.Logger
	validate *validator.Validate

	mu   sync.Mutex
	byID map[string]*Profile
}

// NewProfiles creates a registry over slots. rnd feeds the session engines
// and may be nil for a process-wide random source.
func NewProfiles(slots store.SlotStore, rnd rng.Source, logger *slog.Logger) (*Profiles, error) {
	if slots == nil {
		return nil, fmt.Errorf("slot store cannot be nil")
	}
	if rnd == nil {
		rnd = rng.NewRandom()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiles{
		slots:    slots,
		rnd:      rnd,
		logger:   logger.With(slog.String("component", "profiles")),
		validate: validator.New(),
		byID:     map[string]*Profile{},
	}, nil
}

// ValidateID checks a profile id.
func (r *Profiles) ValidateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if err := r.validate.Var(id, profileRule); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfile, id)
	}
	return id, nil
}

// Get returns the profile, loading its vocabulary on first access.
func (r *Profiles) Get(ctx context.Context, id string) (*Profile, error) {
	id, err := r.ValidateID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.byID[id]; ok {
		return p, nil
	}

	vs, err := vocab.New(id, r.slots, r.logger)
	if err != nil {
		return nil, err
	}
	res := vs.Load(ctx)
	r.logger.InfoContext(ctx, "profile loaded",
		slog.String("profile", id),
		slog.Int("entries", res.Loaded),
		slog.Int("dropped", res.Dropped))

	p := &Profile{ID: id, Vocab: vs, loadWarning: res.Warning}
	r.byID[id] = p
	return p, nil
}

// open assigns a fresh session id and engine. The caller holds p's lock.
// A counter persistence failure is returned as a warning.
func (r *Profiles) open(ctx context.Context, p *Profile) (string, error) {
	id, err := p.Vocab.NextSessionID(ctx)
	var warning string
	if err != nil {
		if !vocab.IsWarning(err) {
			return "", err
		}
		warning = err.Error()
	}

	engine, err := session.NewEngine(id, p.Vocab, r.rnd, r.logger)
	if err != nil {
		return "", err
	}
	p.sessionID = id
	p.engine = engine
	p.opened = true
	return warning, nil
}

// ensureOpen opens p unless it already has a session id. The caller holds
// p's lock.
func (r *Profiles) ensureOpen(ctx context.Context, p *Profile) ([]string, error) {
	if p.opened {
		return nil, nil
	}
	warning, err := r.open(ctx, p)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		return []string{warning}, nil
	}
	return nil, nil
}

// Opened returns the ids of profiles opened in this process, sorted.
func (r *Profiles) Opened() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.byID))
	for id, p := range r.byID {
		p.Lock()
		opened := p.opened
		p.Unlock()
		if opened {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
