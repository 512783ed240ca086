package models

import "time"

// Pupil represents a child profile in the system
type Pupil struct {
	ID             int64
	Username       string
	DisplayName    string
	YearGroup      int
	GuardianEmail  string
	AccessCodeHash string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PupilProgress combines a pupil with rolled-up practice statistics
type PupilProgress struct {
	Pupil             Pupil
	SessionsCompleted int
	SessionsTotal     int
	OverallAccuracy   int // mean accuracy across completed sessions, 0-100
	RecentSessions    []PracticeSession
}
