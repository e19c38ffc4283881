package character

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDossierField is returned when setting a field that is not part of
// the Terran Security Archive form.
var ErrUnknownDossierField = errors.New("unknown dossier field")

var dossierFields = []string{
	"Name", "Surname", "Gender", "Date of birth", "Place of birth",
	"Home Planet", "Hair Color", "Eye Color", "Height", "Weight",
	"Body Type", "Marital Status", "Age", "Handedness", "Religion",
	"Monthly Wage (Energy Units)", "Savings (Energy Units)", "Skillpoints",
	"Usual Whereabouts", "Educational Level", "Military Service", "Rank",
	"Unit", "Criminal Record", "Hobbies", "Miscellaneous Information",
}

// DossierFields returns the personal dossier form fields in display order.
func DossierFields() []string {
	return append([]string(nil), dossierFields...)
}

// CanonicalDossierField resolves field case-insensitively to its form spelling.
func CanonicalDossierField(field string) (string, bool) {
	field = strings.TrimSpace(field)
	for _, f := range dossierFields {
		if strings.EqualFold(f, field) {
			return f, true
		}
	}
	return "", false
}

// Dossier holds free-text personal details keyed by form field.
type Dossier map[string]string

// Set stores value under the canonical spelling of field. An empty value
// clears the field.
func (d Dossier) Set(field, value string) error {
	canon, ok := CanonicalDossierField(field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDossierField, field)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		delete(d, canon)
		return nil
	}
	d[canon] = value
	return nil
}

// Clone returns a copy of d.
func (d Dossier) Clone() Dossier {
	out := make(Dossier, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
