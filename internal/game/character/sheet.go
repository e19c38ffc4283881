package character

import "time"

// Sheet is a finished character sheet handed to the persistence hook.
//
// ID and CreatedAt are set by the persistence layer; zero values indicate an unsaved sheet.
type Sheet struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Attributes  AttributeSet `json:"attributes"`
	Derived     DerivedStats `json:"derived"`
	Traits      []string     `json:"traits"`
	MonthlyWage int          `json:"monthly_wage"`
	Dossier     Dossier      `json:"dossier"`

	CreatedAt time.Time `json:"created_at"`
}

// NewSheet snapshots s for userID. The sheet shares no memory with s or d.
//
// Precondition: s must be non-nil.
func NewSheet(userID string, s *State, d Dossier) *Sheet {
	if d == nil {
		d = Dossier{}
	}
	return &Sheet{
		UserID:      userID,
		Attributes:  s.Attributes,
		Derived:     s.Derived,
		Traits:      s.Traits.Strings(),
		MonthlyWage: s.MonthlyWage,
		Dossier:     d.Clone(),
	}
}
