// Package repository holds the SQL persistence layer. Queries use ?
// placeholders; the database layer rewrites them per dialect.
package repository

import (
	"database/sql"

	"sentencecraft/internal/database"
	"sentencecraft/internal/models"
)

// PupilRepository handles pupil database operations.
type PupilRepository struct {
	db *database.DB
}

// NewPupilRepository creates a new pupil repository.
func NewPupilRepository(db *database.DB) *PupilRepository {
	return &PupilRepository{db: db}
}

// Create inserts a new pupil and returns it with its assigned ID.
func (r *PupilRepository) Create(username, displayName string, yearGroup int, guardianEmail, accessCodeHash string) (*models.Pupil, error) {
	query := `
		INSERT INTO pupils (username, display_name, year_group, guardian_email, access_code_hash)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, username, displayName, yearGroup, guardianEmail, accessCodeHash)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a pupil by ID.
func (r *PupilRepository) GetByID(id int64) (*models.Pupil, error) {
	query := `
		SELECT id, username, display_name, year_group, guardian_email, access_code_hash,
		       created_at, updated_at
		FROM pupils
		WHERE id = ?
	`

	pupil := &models.Pupil{}
	err := r.db.QueryRow(query, id).Scan(
		&pupil.ID,
		&pupil.Username,
		&pupil.DisplayName,
		&pupil.YearGroup,
		&pupil.GuardianEmail,
		&pupil.AccessCodeHash,
		&pupil.CreatedAt,
		&pupil.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return pupil, nil
}

// GetByUsername retrieves a pupil by username. Returns nil without error
// when no pupil matches.
func (r *PupilRepository) GetByUsername(username string) (*models.Pupil, error) {
	query := `
		SELECT id, username, display_name, year_group, guardian_email, access_code_hash,
		       created_at, updated_at
		FROM pupils
		WHERE username = ?
	`

	pupil := &models.Pupil{}
	err := r.db.QueryRow(query, username).Scan(
		&pupil.ID,
		&pupil.Username,
		&pupil.DisplayName,
		&pupil.YearGroup,
		&pupil.GuardianEmail,
		&pupil.AccessCodeHash,
		&pupil.CreatedAt,
		&pupil.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return pupil, nil
}
