package character

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/spacegothic/internal/game/dice"
)

// wageFormula is the monthly wage draw in energy units: U[3,30] + 20.
var wageFormula = Formula{Min: 3, Max: 30, Offset: 20}

// State is the mutable character context the Engine operates on. The Engine
// keeps no state of its own; everything a cycle touches lives here.
type State struct {
	Attributes  AttributeSet
	Derived     DerivedStats
	Budget      RerollBudget
	Traits      TraitLog
	MonthlyWage int // 0 until RollMonthlyWage is first called
}

// NewState returns an ungenerated State with the given reroll limit.
//
// Precondition: rerollLimit >= 0 (panics otherwise).
func NewState(rerollLimit int) *State {
	if rerollLimit < 0 {
		panic("character: NewState: reroll limit must be >= 0")
	}
	return &State{Budget: RerollBudget{Limit: rerollLimit}}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	c.Traits = append(TraitLog(nil), s.Traits...)
	return &c
}

// Engine applies the attribute rules to a State using an injected Source.
type Engine struct {
	src    dice.Source
	logger *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: src and logger must be non-nil.
func NewEngine(src dice.Source, logger *zap.Logger) *Engine {
	return &Engine{src: src, logger: logger}
}

func (e *Engine) draw(a Attribute) int {
	f := attributeFormulas[a]
	return dice.Between(e.src, f.Min, f.Max) + f.Offset
}

// Generate draws a fresh AttributeSet, resets the budget, clears the trait log
// and recomputes every derived stat. The monthly wage is left untouched.
//
// Postcondition: s.Attributes.Generated(); s.Budget.Used == 0; len(s.Traits) == 0.
func (e *Engine) Generate(s *State) {
	for i := range s.Attributes {
		s.Attributes[i] = e.draw(Attribute(i))
	}
	s.Budget.Used = 0
	s.Traits = nil
	for _, stat := range allDerived {
		s.Derived.recompute(stat, s.Attributes, e.src)
	}
	e.logger.Debug("attributes generated",
		zap.Ints("attributes", s.Attributes[:]),
		zap.Int("luck", s.Derived.Luck),
		zap.Int("career_skill_points", s.Derived.CareerSkillPoints),
		zap.Int("free_skill_points", s.Derived.FreeSkillPoints),
	)
}

// Reroll redraws one attribute and recomputes the derived stats that depend on it.
//
// Precondition: a.Valid() (panics otherwise); s.Attributes.Generated().
// Postcondition: on success s.Budget.Used increases by 1; returns
// ErrBudgetExhausted with s unchanged when no rerolls remain.
func (e *Engine) Reroll(s *State, a Attribute) error {
	mustValid(a)
	if !s.Attributes.Generated() {
		panic("character: Engine.Reroll: attributes have not been generated")
	}
	if err := s.Budget.spend(); err != nil {
		return err
	}
	old := s.Attributes[a]
	s.Attributes[a] = e.draw(a)
	for _, stat := range dependents[a] {
		s.Derived.recompute(stat, s.Attributes, e.src)
	}
	e.logger.Debug("attribute rerolled",
		zap.Stringer("attribute", a),
		zap.Int("old", old),
		zap.Int("new", s.Attributes[a]),
		zap.Int("rerolls_used", s.Budget.Used),
	)
	return nil
}

// RollTrait draws one trait uniformly from the catalog and appends it to the log.
//
// Postcondition: on success the trait is the last log entry and one budget unit
// is consumed; returns ErrBudgetExhausted with s unchanged otherwise.
func (e *Engine) RollTrait(s *State) (Trait, error) {
	if err := s.Budget.spend(); err != nil {
		return "", err
	}
	t := traitCatalog[e.src.Intn(len(traitCatalog))]
	s.Traits = append(s.Traits, t)
	e.logger.Debug("trait rolled",
		zap.String("trait", string(t)),
		zap.Int("rerolls_used", s.Budget.Used),
	)
	return t, nil
}

// RollMonthlyWage draws a new wage, overwriting any previous one. It does not
// touch the reroll budget.
//
// Postcondition: 23 <= s.MonthlyWage <= 50.
func (e *Engine) RollMonthlyWage(s *State) int {
	s.MonthlyWage = dice.Between(e.src, wageFormula.Min, wageFormula.Max) + wageFormula.Offset
	return s.MonthlyWage
}
