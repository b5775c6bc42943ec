package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oubliette-games/oubliette/internal/game/character"
	"github.com/oubliette-games/oubliette/internal/game/mutation"
	"github.com/oubliette-games/oubliette/internal/game/species"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name already used by the account.
var ErrCharacterNameTaken = errors.New("character name already taken")

// mutationState is the JSONB row form of one mutation on a character.
type mutationState struct {
	ID     string `json:"id"`
	Level  int    `json:"level"`
	Innate int    `json:"innate"`
}

func mutationsToRows(set *mutation.Set) []mutationState {
	states := set.All()
	rows := make([]mutationState, 0, len(states))
	for _, st := range states {
		rows = append(rows, mutationState{ID: st.ID, Level: st.Level, Innate: st.Innate})
	}
	return rows
}

func mutationsFromRows(rows []mutationState) *mutation.Set {
	states := make([]mutation.State, 0, len(rows))
	for _, r := range rows {
		states = append(states, mutation.State{ID: r.ID, Level: r.Level, Innate: r.Innate})
	}
	return mutation.FromStates(states)
}

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character and returns it with timestamps set.
//
// Precondition: c.AccountID must reference an existing account; c.Name must be non-empty;
// c.ID must be set.
// Postcondition: Returns the created character, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	out := *c
	err := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(id, account_id, name, species, species_name, level,
			 str, int, dex, skill_points, equipment, mutations, max_hp, max_mp)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at`,
		c.ID, c.AccountID, c.Name, c.Species, c.SpeciesName, c.Level,
		c.Stats.Str, c.Stats.Int, c.Stats.Dex,
		c.SkillPoints, c.Equipment, mutationsToRows(c.Mutations),
		c.MaxHP, c.MaxMP,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return &out, nil
}

const characterColumns = `id, account_id, name, species, species_name, level,
	str, int, dex, skill_points, equipment, mutations, max_hp, max_mp,
	created_at, updated_at`

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var (
		c         character.Character
		mutRows   []mutationState
		skills    map[string]int
		equipment map[species.Slot]string
	)
	err := row.Scan(
		&c.ID, &c.AccountID, &c.Name, &c.Species, &c.SpeciesName, &c.Level,
		&c.Stats.Str, &c.Stats.Int, &c.Stats.Dex,
		&skills, &equipment, &mutRows,
		&c.MaxHP, &c.MaxMP, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = make(map[string]int)
	}
	if equipment == nil {
		equipment = make(map[species.Slot]string)
	}
	c.SkillPoints = skills
	c.Equipment = equipment
	c.Mutations = mutationsFromRows(mutRows)
	return &c, nil
}

// ListByAccount returns all characters for the given account ID, ordered by created_at.
//
// Precondition: accountID must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListByAccount(ctx context.Context, accountID int64) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE account_id = $1 ORDER BY created_at ASC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// GetByID retrieves a character by its primary key.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// GetByName retrieves a character by account and name.
//
// Precondition: accountID must be > 0; name must be non-empty.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByName(ctx context.Context, accountID int64, name string) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE account_id = $1 AND name = $2`,
		accountID, name,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// Save persists the full mutable state of a character: species, level,
// stats, skill points, equipment, mutations, and derived attributes.
//
// Precondition: c must have been created previously.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET
			species = $2, species_name = $3, level = $4,
			str = $5, int = $6, dex = $7,
			skill_points = $8, equipment = $9, mutations = $10,
			max_hp = $11, max_mp = $12, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Species, c.SpeciesName, c.Level,
		c.Stats.Str, c.Stats.Int, c.Stats.Dex,
		c.SkillPoints, c.Equipment, mutationsToRows(c.Mutations),
		c.MaxHP, c.MaxMP,
	)
	if err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}
