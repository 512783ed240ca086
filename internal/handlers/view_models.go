package handlers

import (
	"time"

	"sentencecraft/internal/models"
	"sentencecraft/internal/service"
)

// View types shape the JSON the API returns; domain models stay free of
// transport concerns.

type formulaView struct {
	Number      int      `json:"number"`
	Structure   []string `json:"structure"`
	Example     string   `json:"example"`
	WordBank    []string `json:"word_bank"`
	NewElements []string `json:"new_elements"`
	Hint        string   `json:"hint"`
}

type sessionView struct {
	SessionID         int64         `json:"session_id"`
	LessonNumber      int           `json:"lesson_number"`
	Subject           string        `json:"subject"`
	SubjectType       string        `json:"subject_type"`
	FormulasTotal     int           `json:"formulas_total"`
	FormulasCompleted int           `json:"formulas_completed"`
	Status            string        `json:"status"`
	Accuracy          *int          `json:"accuracy_percentage,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	Formulas          []formulaView `json:"formulas,omitempty"`
}

type feedbackView struct {
	Type      string   `json:"type"`
	Message   string   `json:"message"`
	Issues    []string `json:"issues,omitempty"`
	Questions []string `json:"socratic_questions,omitempty"`
}

type attemptResponse struct {
	IsCorrect   bool         `json:"is_correct"`
	Feedback    feedbackView `json:"feedback"`
	NextFormula *formulaView `json:"next_formula"`
	Session     *sessionView `json:"session,omitempty"`
}

type sessionRowView struct {
	SessionID    int64      `json:"session_id"`
	LessonNumber int        `json:"lesson_number"`
	Subject      string     `json:"subject"`
	Status       string     `json:"status"`
	Accuracy     *int       `json:"accuracy_percentage,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type progressView struct {
	PupilID           int64            `json:"pupil_id"`
	Username          string           `json:"username"`
	DisplayName       string           `json:"display_name"`
	SessionsCompleted int              `json:"sessions_completed"`
	SessionsTotal     int              `json:"sessions_total"`
	OverallAccuracy   int              `json:"overall_accuracy"`
	RecentSessions    []sessionRowView `json:"recent_sessions"`
}

func newFormulaView(f models.Formula) formulaView {
	return formulaView{
		Number:      f.Number,
		Structure:   f.Structure,
		Example:     f.LabelledExample,
		WordBank:    f.WordBank,
		NewElements: f.NewElements,
		Hint:        f.Hint,
	}
}

func newSessionView(s *models.PracticeSession, formulas []models.Formula) sessionView {
	view := sessionView{
		SessionID:         s.ID,
		LessonNumber:      s.LessonNumber,
		Subject:           s.SubjectText,
		SubjectType:       s.SubjectType,
		FormulasTotal:     s.FormulasTotal,
		FormulasCompleted: s.FormulasCompleted,
		Status:            s.Status,
		Accuracy:          s.AccuracyPercentage,
		StartedAt:         s.StartedAt,
	}
	for _, f := range formulas {
		view.Formulas = append(view.Formulas, newFormulaView(f))
	}
	return view
}

func newAttemptResponse(result *service.SubmissionResult) attemptResponse {
	resp := attemptResponse{
		IsCorrect: result.IsCorrect,
		Feedback: feedbackView{
			Type:      result.Feedback.Type,
			Message:   result.Feedback.Message,
			Issues:    result.Feedback.Issues,
			Questions: result.Feedback.Questions,
		},
	}
	if result.NextFormula != nil {
		view := newFormulaView(*result.NextFormula)
		resp.NextFormula = &view
	}
	if result.Session != nil {
		view := newSessionView(result.Session, nil)
		resp.Session = &view
	}
	return resp
}

func newProgressView(p *models.PupilProgress) progressView {
	view := progressView{
		PupilID:           p.Pupil.ID,
		Username:          p.Pupil.Username,
		DisplayName:       p.Pupil.DisplayName,
		SessionsCompleted: p.SessionsCompleted,
		SessionsTotal:     p.SessionsTotal,
		OverallAccuracy:   p.OverallAccuracy,
		RecentSessions:    []sessionRowView{},
	}
	for _, s := range p.RecentSessions {
		view.RecentSessions = append(view.RecentSessions, sessionRowView{
			SessionID:    s.ID,
			LessonNumber: s.LessonNumber,
			Subject:      s.SubjectText,
			Status:       s.Status,
			Accuracy:     s.AccuracyPercentage,
			StartedAt:    s.StartedAt,
			CompletedAt:  s.CompletedAt,
		})
	}
	return view
}
