// Package session hosts per-user simulator sessions. Each Session owns one
// character State and one combat Engagement and serializes every operation
// on them behind its own mutex.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/spacegothic/internal/game/character"
	"github.com/cory-johannsen/spacegothic/internal/game/combat"
	"github.com/cory-johannsen/spacegothic/internal/game/inventory"
)

// ErrNotGenerated is returned by operations that need an attribute set before
// one has been generated.
var ErrNotGenerated = errors.New("attributes have not been generated")

// SheetStore is the persistence hook for finished character sheets.
type SheetStore interface {
	// SaveSheet stores sheet and returns it with ID and CreatedAt set.
	SaveSheet(ctx context.Context, sheet *character.Sheet) (*character.Sheet, error)
}

// Session is one user's simulator context. All methods are safe for concurrent use.
type Session struct {
	// ID uniquely identifies this session.
	ID string
	// UserID is the opaque caller-supplied identifier sheets are keyed by.
	UserID string

	mu         sync.Mutex
	state      *character.State
	engagement *combat.Engagement
	dossier    character.Dossier

	engine   *character.Engine
	resolver *combat.Resolver
	logger   *zap.Logger
}

func newSession(userID string, rules Rules, engine *character.Engine, resolver *combat.Resolver, logger *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		ID:         id,
		UserID:     userID,
		state:      character.NewState(rules.RerollLimit),
		engagement: combat.NewEngagement(rules.Weapon),
		dossier:    character.Dossier{},
		engine:     engine,
		resolver:   resolver,
		logger:     logger.With(zap.String("session_id", id), zap.String("user_id", userID)),
	}
}

// Character returns a snapshot of the character state.
func (s *Session) Character() *character.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Engagement returns a snapshot of the firing context.
func (s *Session) Engagement() *combat.Engagement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engagement.Clone()
}

// Generate starts a new generation cycle.
//
// Postcondition: returns the new state; budget and trait log are reset.
func (s *Session) Generate() *character.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Generate(s.state)
	s.logger.Info("character generated", zap.Ints("attributes", s.state.Attributes[:]))
	return s.state.Clone()
}

// Reroll redraws attribute a.
//
// Precondition: a.Valid() (panics otherwise).
// Postcondition: returns ErrNotGenerated before the first Generate and
// character.ErrBudgetExhausted once the budget is spent; state is unchanged on error.
func (s *Session) Reroll(a character.Attribute) (*character.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Attributes.Generated() {
		return s.state.Clone(), ErrNotGenerated
	}
	if err := s.engine.Reroll(s.state, a); err != nil {
		s.logger.Debug("reroll refused", zap.Stringer("attribute", a), zap.Error(err))
		return s.state.Clone(), err
	}
	return s.state.Clone(), nil
}

// RollTrait rolls one special trait against the shared budget.
func (s *Session) RollTrait() (character.Trait, *character.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.engine.RollTrait(s.state)
	if err != nil {
		s.logger.Debug("trait roll refused", zap.Error(err))
	}
	return t, s.state.Clone(), err
}

// RollMonthlyWage draws a new monthly wage.
func (s *Session) RollMonthlyWage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.RollMonthlyWage(s.state)
}

// SelectRange sets the engagement band and returns the final hit chance.
func (s *Session) SelectRange(band inventory.RangeBand) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engagement.SelectRange(band)
}

// Fire fires one volley in mode and returns it with the magazine after firing.
//
// Postcondition: returns combat.ErrOutOfAmmo with the magazine unchanged when
// too few rounds are loaded.
func (s *Session) Fire(mode inventory.FireMode) (combat.VolleyResult, inventory.Magazine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.resolver.Fire(s.engagement, mode)
	return res, *s.engagement.Magazine, err
}

// Reload refills the magazine.
func (s *Session) Reload() inventory.Magazine {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver.Reload(s.engagement)
	return *s.engagement.Magazine
}

// SetDossierField sets one personal dossier field.
//
// Postcondition: returns an error wrapping character.ErrUnknownDossierField
// for fields outside the form.
func (s *Session) SetDossierField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dossier.Set(field, value)
}

// Dossier returns a copy of the personal dossier.
func (s *Session) Dossier() character.Dossier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dossier.Clone()
}

// Sheet snapshots the finished character sheet.
//
// Postcondition: returns ErrNotGenerated before the first Generate.
func (s *Session) Sheet() (*character.Sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Attributes.Generated() {
		return nil, ErrNotGenerated
	}
	return character.NewSheet(s.UserID, s.state, s.dossier), nil
}

// Save hands the current sheet to store.
//
// Precondition: store must be non-nil.
// Postcondition: returns the stored sheet, ErrNotGenerated, or a wrapped store error.
func (s *Session) Save(ctx context.Context, store SheetStore) (*character.Sheet, error) {
	sheet, err := s.Sheet()
	if err != nil {
		return nil, err
	}
	saved, err := store.SaveSheet(ctx, sheet)
	if err != nil {
		s.logger.Error("saving character sheet", zap.Error(err))
		return nil, fmt.Errorf("saving character sheet: %w", err)
	}
	s.logger.Info("character sheet saved", zap.String("sheet_id", saved.ID))
	return saved, nil
}
