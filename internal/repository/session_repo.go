package repository

import (
	"database/sql"
	"strings"
	"time"

	"sentencecraft/internal/curriculum"
	"sentencecraft/internal/database"
	"sentencecraft/internal/models"
)

// SessionRepository handles practice session, formula and attempt
// database operations.
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession inserts a session and its formulas in one transaction and
// returns the stored session.
func (r *SessionRepository) CreateSession(pupilID int64, lessonNumber int, subjectText, subjectType string, formulas []models.Formula) (*models.PracticeSession, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sessionQuery := r.db.Dialect.RewriteQuery(`
		INSERT INTO practice_sessions (pupil_id, lesson_number, subject_text, subject_type, formulas_total)
		VALUES (?, ?, ?, ?, ?)
	`)

	var sessionID int64
	if r.db.Dialect.SupportsLastInsertId() {
		result, err := tx.Exec(sessionQuery, pupilID, lessonNumber, subjectText, subjectType, len(formulas))
		if err != nil {
			return nil, err
		}
		sessionID, err = result.LastInsertId()
		if err != nil {
			return nil, err
		}
	} else {
		returning := strings.TrimSpace(sessionQuery) + " RETURNING id"
		if err := tx.QueryRow(returning, pupilID, lessonNumber, subjectText, subjectType, len(formulas)).Scan(&sessionID); err != nil {
			return nil, err
		}
	}

	formulaQuery := r.db.Dialect.RewriteQuery(`
		INSERT INTO session_formulas (session_id, formula_number, structure, labelled_example, word_bank, new_elements, hint)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	for _, f := range formulas {
		_, err := tx.Exec(formulaQuery,
			sessionID,
			f.Number,
			curriculum.JoinStructure(f.Structure),
			f.LabelledExample,
			joinWords(f.WordBank),
			joinWords(f.NewElements),
			f.Hint,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetSessionByID(sessionID)
}

// GetSessionByID retrieves a practice session by ID. Returns nil without
// error when no session matches.
func (r *SessionRepository) GetSessionByID(sessionID int64) (*models.PracticeSession, error) {
	query := `
		SELECT id, pupil_id, lesson_number, subject_text, subject_type,
		       formulas_total, formulas_completed, status, accuracy_percentage,
		       started_at, completed_at
		FROM practice_sessions
		WHERE id = ?
	`

	session := &models.PracticeSession{}
	var accuracy sql.NullInt64
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.PupilID,
		&session.LessonNumber,
		&session.SubjectText,
		&session.SubjectType,
		&session.FormulasTotal,
		&session.FormulasCompleted,
		&session.Status,
		&accuracy,
		&session.StartedAt,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if accuracy.Valid {
		v := int(accuracy.Int64)
		session.AccuracyPercentage = &v
	}
	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}

	return session, nil
}

// GetFormula retrieves one formula of a session by its 1-based number.
// Returns nil without error when no formula matches.
func (r *SessionRepository) GetFormula(sessionID int64, number int) (*models.Formula, error) {
	query := formulaSelect + ` WHERE session_id = ? AND formula_number = ?`

	row := r.db.QueryRow(query, sessionID, number)
	formula, err := scanFormula(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return formula, nil
}

// GetFormulas retrieves all formulas of a session in order.
func (r *SessionRepository) GetFormulas(sessionID int64) ([]models.Formula, error) {
	query := formulaSelect + ` WHERE session_id = ? ORDER BY formula_number ASC`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var formulas []models.Formula
	for rows.Next() {
		formula, err := scanFormula(rows.Scan)
		if err != nil {
			return nil, err
		}
		formulas = append(formulas, *formula)
	}

	return formulas, rows.Err()
}

const formulaSelect = `
	SELECT id, session_id, formula_number, structure, labelled_example,
	       word_bank, new_elements, hint, pupil_sentence, attempts, is_correct, completed_at
	FROM session_formulas`

func scanFormula(scan func(...interface{}) error) (*models.Formula, error) {
	formula := &models.Formula{}
	var structure, wordBank, newElements string
	var completedAt sql.NullTime

	err := scan(
		&formula.ID,
		&formula.SessionID,
		&formula.Number,
		&structure,
		&formula.LabelledExample,
		&wordBank,
		&newElements,
		&formula.Hint,
		&formula.PupilSentence,
		&formula.Attempts,
		&formula.IsCorrect,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	formula.Structure = curriculum.ParseStructure(structure)
	formula.WordBank = splitWords(wordBank)
	formula.NewElements = splitWords(newElements)
	if completedAt.Valid {
		formula.CompletedAt = &completedAt.Time
	}

	return formula, nil
}

// RecordAttempt appends an immutable attempt record and bumps the
// formula's attempt counter in one transaction.
func (r *SessionRepository) RecordAttempt(formulaID int64, attemptNumber int, sentence string, issues []string, feedback string) (*models.FormulaAttempt, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insertQuery := r.db.Dialect.RewriteQuery(`
		INSERT INTO formula_attempts (formula_id, attempt_number, pupil_sentence, issues_detected, feedback_provided)
		VALUES (?, ?, ?, ?, ?)
	`)

	var id int64
	if r.db.Dialect.SupportsLastInsertId() {
		result, err := tx.Exec(insertQuery, formulaID, attemptNumber, sentence, joinIssues(issues), feedback)
		if err != nil {
			return nil, err
		}
		id, err = result.LastInsertId()
		if err != nil {
			return nil, err
		}
	} else {
		returning := strings.TrimSpace(insertQuery) + " RETURNING id"
		if err := tx.QueryRow(returning, formulaID, attemptNumber, sentence, joinIssues(issues), feedback).Scan(&id); err != nil {
			return nil, err
		}
	}

	update := r.db.Dialect.RewriteQuery(`UPDATE session_formulas SET attempts = ? WHERE id = ?`)
	if _, err := tx.Exec(update, attemptNumber, formulaID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.FormulaAttempt{
		ID:             id,
		FormulaID:      formulaID,
		AttemptNumber:  attemptNumber,
		PupilSentence:  sentence,
		IssuesDetected: issues,
		Feedback:       feedback,
		CreatedAt:      time.Now(),
	}, nil
}

// GetAttempts retrieves all attempts for a formula in submission order.
func (r *SessionRepository) GetAttempts(formulaID int64) ([]models.FormulaAttempt, error) {
	query := `
		SELECT id, formula_id, attempt_number, pupil_sentence, issues_detected, feedback_provided, created_at
		FROM formula_attempts
		WHERE formula_id = ?
		ORDER BY attempt_number ASC
	`

	rows, err := r.db.Query(query, formulaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.FormulaAttempt
	for rows.Next() {
		var attempt models.FormulaAttempt
		var issues string
		err := rows.Scan(
			&attempt.ID,
			&attempt.FormulaID,
			&attempt.AttemptNumber,
			&attempt.PupilSentence,
			&issues,
			&attempt.Feedback,
			&attempt.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		attempt.IssuesDetected = splitIssues(issues)
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// AcceptFormula stores the accepted sentence, marks the formula correct
// and advances the session's completed count.
func (r *SessionRepository) AcceptFormula(formulaID, sessionID int64, sentence string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	formulaQuery := r.db.Dialect.RewriteQuery(`
		UPDATE session_formulas
		SET pupil_sentence = ?, is_correct = ?, completed_at = ?
		WHERE id = ?
	`)
	if _, err := tx.Exec(formulaQuery, sentence, true, time.Now(), formulaID); err != nil {
		return err
	}

	sessionQuery := r.db.Dialect.RewriteQuery(`
		UPDATE practice_sessions
		SET formulas_completed = formulas_completed + 1
		WHERE id = ?
	`)
	if _, err := tx.Exec(sessionQuery, sessionID); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateWordBank replaces a formula's word bank.
func (r *SessionRepository) UpdateWordBank(formulaID int64, words []string) error {
	query := `UPDATE session_formulas SET word_bank = ? WHERE id = ?`
	_, err := r.db.Exec(query, joinWords(words), formulaID)
	return err
}

// CompleteSession marks a session completed and stores its accuracy.
func (r *SessionRepository) CompleteSession(sessionID int64, accuracy int) error {
	query := `
		UPDATE practice_sessions
		SET status = ?, accuracy_percentage = ?, completed_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, models.SessionCompleted, accuracy, time.Now(), sessionID)
	return err
}

// GetPupilSessions retrieves a pupil's sessions, newest first.
func (r *SessionRepository) GetPupilSessions(pupilID int64, limit int) ([]models.PracticeSession, error) {
	query := `
		SELECT id, pupil_id, lesson_number, subject_text, subject_type,
		       formulas_total, formulas_completed, status, accuracy_percentage,
		       started_at, completed_at
		FROM practice_sessions
		WHERE pupil_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, pupilID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.PracticeSession
	for rows.Next() {
		var session models.PracticeSession
		var accuracy sql.NullInt64
		var completedAt sql.NullTime

		err := rows.Scan(
			&session.ID,
			&session.PupilID,
			&session.LessonNumber,
			&session.SubjectText,
			&session.SubjectType,
			&session.FormulasTotal,
			&session.FormulasCompleted,
			&session.Status,
			&accuracy,
			&session.StartedAt,
			&completedAt,
		)
		if err != nil {
			return nil, err
		}

		if accuracy.Valid {
			v := int(accuracy.Int64)
			session.AccuracyPercentage = &v
		}
		if completedAt.Valid {
			session.CompletedAt = &completedAt.Time
		}

		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func joinWords(words []string) string {
	return strings.Join(words, ",")
}

func splitWords(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Issue messages may contain commas, so they get their own separator.
func joinIssues(issues []string) string {
	return strings.Join(issues, "|")
}

func splitIssues(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}
