// Package service implements the application logic between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"sentencecraft/internal/models"
	"sentencecraft/internal/validator"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrFormulaNotFound  = errors.New("formula not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrFormulaCompleted = errors.New("formula already completed")
)

// SessionStore is the persistence surface the practice service needs for
// sessions, formulas and attempts.
type SessionStore interface {
	CreateSession(pupilID int64, lessonNumber int, subjectText, subjectType string, formulas []models.Formula) (*models.PracticeSession, error)
	GetSessionByID(sessionID int64) (*models.PracticeSession, error)
	GetFormula(sessionID int64, number int) (*models.Formula, error)
	GetFormulas(sessionID int64) ([]models.Formula, error)
	RecordAttempt(formulaID int64, attemptNumber int, sentence string, issues []string, feedback string) (*models.FormulaAttempt, error)
	AcceptFormula(formulaID, sessionID int64, sentence string) error
	UpdateWordBank(formulaID int64, words []string) error
	CompleteSession(sessionID int64, accuracy int) error
	GetPupilSessions(pupilID int64, limit int) ([]models.PracticeSession, error)
}

// PupilStore is the persistence surface for pupils.
type PupilStore interface {
	GetByID(id int64) (*models.Pupil, error)
}

// FormulaGenerator builds the formula sequence for a new session.
type FormulaGenerator interface {
	Generate(lessonNumber int, subject, subjectType string) ([]models.Formula, error)
}

// SentenceJudge gives the qualitative verdict for sentences that pass
// the rule checks.
type SentenceJudge interface {
	Validate(ctx context.Context, sentence string, structure, newElements []string) validator.Verdict
}

// SummaryMailer notifies a guardian when a session completes.
type SummaryMailer interface {
	SendSessionSummaryEmail(ctx context.Context, toEmail, pupilName string, lessonNumber int, summary models.SessionSummary) error
}

// SubmissionResult is the outcome of one sentence submission.
type SubmissionResult struct {
	IsCorrect   bool                    `json:"is_correct"`
	Feedback    Feedback                `json:"feedback"`
	NextFormula *models.Formula         `json:"next_formula"`
	Session     *models.PracticeSession `json:"session"`
}

// Feedback is what the pupil sees after a submission.
type Feedback struct {
	Type      string   `json:"type"`
	Message   string   `json:"message"`
	Issues    []string `json:"issues,omitempty"`
	Questions []string `json:"socratic_questions,omitempty"`
}

// PracticeService drives practice sessions: generation, validation and
// recording.
type PracticeService struct {
	sessions  SessionStore
	pupils    PupilStore
	generator FormulaGenerator
	judge     SentenceJudge
	mailer    SummaryMailer
}

// NewPracticeService creates a new practice service. The mailer may be
// nil when guardian email is not configured.
func NewPracticeService(sessions SessionStore, pupils PupilStore, generator FormulaGenerator, judge SentenceJudge, mailer SummaryMailer) *PracticeService {
	return &PracticeService{
		sessions:  sessions,
		pupils:    pupils,
		generator: generator,
		judge:     judge,
		mailer:    mailer,
	}
}

// StartSession generates the formulas for (pupil, lesson, subject) and
// persists the session with its formulas.
func (s *PracticeService) StartSession(pupilID int64, lessonNumber int, subject, subjectType string) (*models.PracticeSession, []models.Formula, error) {
	formulas, err := s.generator.Generate(lessonNumber, subject, subjectType)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.sessions.CreateSession(pupilID, lessonNumber, subject, subjectType, formulas)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	stored, err := s.sessions.GetFormulas(session.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load formulas: %w", err)
	}

	return session, stored, nil
}

// SubmitSentence validates one sentence against one formula and records
// the attempt. Rule checks run first and fail fast; sentences that pass
// go to the AI judge. An accepted sentence advances the session and
// seeds the next formula's word bank.
func (s *PracticeService) SubmitSentence(ctx context.Context, sessionID int64, formulaNumber int, sentence string) (*SubmissionResult, error) {
	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrSessionCompleted
	}

	formula, err := s.sessions.GetFormula(sessionID, formulaNumber)
	if err != nil {
		return nil, fmt.Errorf("load formula: %w", err)
	}
	if formula == nil {
		return nil, ErrFormulaNotFound
	}
	// An accepted formula never takes another submission: re-accepting
	// would advance formulas_completed past formulas_total.
	if formula.IsCorrect {
		return nil, ErrFormulaCompleted
	}

	attemptNumber := formula.Attempts + 1

	ruleResult := validator.CheckStructure(sentence, formula.Structure)
	if !ruleResult.Valid {
		feedback := Feedback{
			Type:    validator.FeedbackError,
			Message: ruleResult.Issues[0],
			Issues:  ruleResult.Issues,
		}
		if _, err := s.sessions.RecordAttempt(formula.ID, attemptNumber, sentence, ruleResult.Issues, feedback.Message); err != nil {
			return nil, fmt.Errorf("record attempt: %w", err)
		}
		return &SubmissionResult{IsCorrect: false, Feedback: feedback, Session: session}, nil
	}

	verdict := s.judge.Validate(ctx, sentence, formula.Structure, formula.NewElements)
	feedback := Feedback{
		Type:      verdict.Type,
		Message:   verdict.Message,
		Questions: verdict.Questions,
	}

	if _, err := s.sessions.RecordAttempt(formula.ID, attemptNumber, sentence, nil, verdict.Message); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	if !verdict.IsCorrect {
		return &SubmissionResult{IsCorrect: false, Feedback: feedback, Session: session}, nil
	}

	if err := s.sessions.AcceptFormula(formula.ID, sessionID, sentence); err != nil {
		return nil, fmt.Errorf("accept formula: %w", err)
	}

	next, err := s.sessions.GetFormula(sessionID, formulaNumber+1)
	if err != nil {
		return nil, fmt.Errorf("load next formula: %w", err)
	}

	if next != nil {
		if err := s.sessions.UpdateWordBank(next.ID, sentenceTokens(sentence)); err != nil {
			return nil, fmt.Errorf("update word bank: %w", err)
		}
		next.WordBank = sentenceTokens(sentence)
	} else {
		if _, err := s.finishSession(ctx, session); err != nil {
			return nil, err
		}
	}

	session, err = s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("reload session: %w", err)
	}

	return &SubmissionResult{
		IsCorrect:   true,
		Feedback:    feedback,
		NextFormula: next,
		Session:     session,
	}, nil
}

// CompleteSession closes a session and returns its summary. Completing an
// already completed session returns the stored summary unchanged.
func (s *PracticeService) CompleteSession(ctx context.Context, sessionID int64) (*models.SessionSummary, error) {
	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status == models.SessionCompleted {
		return summaryOf(session), nil
	}

	return s.finishSession(ctx, session)
}

// finishSession computes accuracy, stores it and notifies the guardian
// best-effort.
func (s *PracticeService) finishSession(ctx context.Context, session *models.PracticeSession) (*models.SessionSummary, error) {
	formulas, err := s.sessions.GetFormulas(session.ID)
	if err != nil {
		return nil, fmt.Errorf("load formulas: %w", err)
	}

	correct := 0
	for _, f := range formulas {
		if f.IsCorrect {
			correct++
		}
	}

	accuracy := 0
	if len(formulas) > 0 {
		accuracy = int(math.Round(float64(correct) / float64(len(formulas)) * 100))
	}

	if err := s.sessions.CompleteSession(session.ID, accuracy); err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}

	summary := &models.SessionSummary{
		FormulasCompleted:  correct,
		FormulasTotal:      session.FormulasTotal,
		AccuracyPercentage: accuracy,
	}

	s.notifyGuardian(ctx, session, *summary)

	return summary, nil
}

// notifyGuardian sends the summary email. Failures are logged, never
// surfaced: email must not block a pupil's session.
func (s *PracticeService) notifyGuardian(ctx context.Context, session *models.PracticeSession, summary models.SessionSummary) {
	if s.mailer == nil {
		return
	}

	pupil, err := s.pupils.GetByID(session.PupilID)
	if err != nil {
		log.Printf("Failed to load pupil %d for summary email: %v", session.PupilID, err)
		return
	}
	if pupil.GuardianEmail == "" {
		return
	}

	if err := s.mailer.SendSessionSummaryEmail(ctx, pupil.GuardianEmail, pupil.DisplayName, session.LessonNumber, summary); err != nil {
		log.Printf("Failed to send session summary email: %v", err)
	}
}

// SessionSummary returns the summary of a session. For sessions still in
// progress the accuracy reflects formulas accepted so far.
func (s *PracticeService) SessionSummary(sessionID int64) (*models.SessionSummary, *models.PracticeSession, error) {
	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}

	return summaryOf(session), session, nil
}

// GetSessionFormulas returns a session's formulas in order.
func (s *PracticeService) GetSessionFormulas(sessionID int64) ([]models.Formula, error) {
	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.sessions.GetFormulas(sessionID)
}

// PupilProgress rolls up a pupil's recent sessions.
func (s *PracticeService) PupilProgress(pupilID int64) (*models.PupilProgress, error) {
	pupil, err := s.pupils.GetByID(pupilID)
	if err != nil {
		return nil, fmt.Errorf("load pupil: %w", err)
	}

	sessions, err := s.sessions.GetPupilSessions(pupilID, 20)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	progress := &models.PupilProgress{
		Pupil:          *pupil,
		SessionsTotal:  len(sessions),
		RecentSessions: sessions,
	}

	accuracySum, accuracyCount := 0, 0
	for _, sess := range sessions {
		if sess.Status == models.SessionCompleted {
			progress.SessionsCompleted++
		}
		if sess.AccuracyPercentage != nil {
			accuracySum += *sess.AccuracyPercentage
			accuracyCount++
		}
	}
	if accuracyCount > 0 {
		progress.OverallAccuracy = int(math.Round(float64(accuracySum) / float64(accuracyCount)))
	}

	return progress, nil
}

func summaryOf(session *models.PracticeSession) *models.SessionSummary {
	summary := &models.SessionSummary{
		FormulasCompleted: session.FormulasCompleted,
		FormulasTotal:     session.FormulasTotal,
	}
	if session.AccuracyPercentage != nil {
		summary.AccuracyPercentage = *session.AccuracyPercentage
	}
	return summary
}

// sentenceTokens splits an accepted sentence into word-bank entries,
// stripping trailing punctuation.
func sentenceTokens(sentence string) []string {
	fields := strings.Fields(sentence)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,!?")
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	return tokens
}
