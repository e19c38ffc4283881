package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/spacegothic/internal/game/character"
)

// ErrSheetNotFound is returned when a sheet lookup yields no results.
var ErrSheetNotFound = errors.New("character sheet not found")

const sheetColumns = `id::text, user_id,
	strength, agility, willpower, endurance, luck_base, experience, weight, intelligence,
	luck, career_skill_points, free_skill_points,
	traits, monthly_wage, dossier, created_at`

// SheetRepository persists finished character sheets.
type SheetRepository struct {
	db *pgxpool.Pool
}

// NewSheetRepository creates a SheetRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSheetRepository(db *pgxpool.Pool) *SheetRepository {
	return &SheetRepository{db: db}
}

// SaveSheet inserts sheet as a new row.
//
// Precondition: sheet.UserID must be non-empty and the attribute set generated.
// Postcondition: Returns a copy of sheet with ID and CreatedAt set by the database.
func (r *SheetRepository) SaveSheet(ctx context.Context, sheet *character.Sheet) (*character.Sheet, error) {
	if sheet.UserID == "" {
		return nil, errors.New("sheet user id must not be empty")
	}
	dossier, err := json.Marshal(sheet.Dossier)
	if err != nil {
		return nil, fmt.Errorf("encoding dossier: %w", err)
	}
	traits := sheet.Traits
	if traits == nil {
		traits = []string{}
	}
	a := sheet.Attributes
	row := r.db.QueryRow(ctx, `
		INSERT INTO character_sheets
			(user_id, strength, agility, willpower, endurance, luck_base, experience, weight, intelligence,
			 luck, career_skill_points, free_skill_points, traits, monthly_wage, dossier)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING `+sheetColumns,
		sheet.UserID,
		a[character.Strength], a[character.Agility], a[character.Willpower], a[character.Endurance],
		a[character.LuckBase], a[character.Experience], a[character.Weight], a[character.Intelligence],
		sheet.Derived.Luck, sheet.Derived.CareerSkillPoints, sheet.Derived.FreeSkillPoints,
		traits, sheet.MonthlyWage, dossier,
	)
	out, err := scanSheet(row)
	if err != nil {
		return nil, fmt.Errorf("inserting character sheet: %w", err)
	}
	return out, nil
}

// GetByID retrieves a sheet by its primary key.
//
// Postcondition: Returns the Sheet or ErrSheetNotFound.
func (r *SheetRepository) GetByID(ctx context.Context, id string) (*character.Sheet, error) {
	out, err := scanSheet(r.db.QueryRow(ctx,
		`SELECT `+sheetColumns+` FROM character_sheets WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("querying character sheet: %w", err)
	}
	return out, nil
}

// ListByUser returns all sheets saved by userID, oldest first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SheetRepository) ListByUser(ctx context.Context, userID string) ([]*character.Sheet, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sheetColumns+` FROM character_sheets WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing character sheets: %w", err)
	}
	defer rows.Close()

	sheets := make([]*character.Sheet, 0)
	for rows.Next() {
		s, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character sheet row: %w", err)
		}
		sheets = append(sheets, s)
	}
	return sheets, rows.Err()
}

func scanSheet(row pgx.Row) (*character.Sheet, error) {
	var (
		s       character.Sheet
		dossier []byte
	)
	a := &s.Attributes
	err := row.Scan(
		&s.ID, &s.UserID,
		&a[character.Strength], &a[character.Agility], &a[character.Willpower], &a[character.Endurance],
		&a[character.LuckBase], &a[character.Experience], &a[character.Weight], &a[character.Intelligence],
		&s.Derived.Luck, &s.Derived.CareerSkillPoints, &s.Derived.FreeSkillPoints,
		&s.Traits, &s.MonthlyWage, &dossier, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Dossier = character.Dossier{}
	if len(dossier) > 0 {
		if err := json.Unmarshal(dossier, &s.Dossier); err != nil {
			return nil, fmt.Errorf("decoding dossier: %w", err)
		}
	}
	return &s, nil
}
