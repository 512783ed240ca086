package models

import "time"

// Session status values
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// Subject types a pupil can pick for a practice run
const (
	SubjectPerson = "person"
	SubjectPlace  = "place"
	SubjectThing  = "thing"
)

// PracticeSession is one writing practice run for a single pupil,
// lesson and chosen subject noun.
type PracticeSession struct {
	ID                 int64
	PupilID            int64
	LessonNumber       int
	SubjectText        string
	SubjectType        string
	FormulasTotal      int
	FormulasCompleted  int
	Status             string
	AccuracyPercentage *int // set once Status is "completed"
	StartedAt          time.Time
	CompletedAt        *time.Time
}

// Formula is a single sentence-structure requirement within a session,
// ordered by Number with no gaps.
type Formula struct {
	ID              int64
	SessionID       int64
	Number          int
	Structure       []string // ordered slot names, e.g. determiner, subject, verb
	LabelledExample string
	WordBank        []string
	NewElements     []string
	Hint            string
	PupilSentence   string
	Attempts        int
	IsCorrect       bool
	CompletedAt     *time.Time
}

// FormulaAttempt is an append-only log record of one validation call
// against one formula. Attempts are never edited or deleted.
type FormulaAttempt struct {
	ID             int64
	FormulaID      int64
	AttemptNumber  int
	PupilSentence  string
	IssuesDetected []string
	Feedback       string
	CreatedAt      time.Time
}

// SessionSummary is the completion roll-up returned to clients.
type SessionSummary struct {
	FormulasCompleted  int `json:"formulas_completed"`
	FormulasTotal      int `json:"formulas_total"`
	AccuracyPercentage int `json:"accuracy_percentage"`
}
