package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"sentencecraft/internal/curriculum"
	"sentencecraft/internal/formula"
	"sentencecraft/internal/service"
)

// PracticeHandler handles practice session HTTP requests.
type PracticeHandler struct {
	practice *service.PracticeService
}

// NewPracticeHandler creates a new practice handler.
func NewPracticeHandler(practice *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{practice: practice}
}

type startSessionRequest struct {
	LessonNumber int    `json:"lesson_number"`
	Subject      string `json:"subject"`
	SubjectType  string `json:"subject_type"`
}

// StartSession creates a new practice session for the calling pupil.
func (h *PracticeHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	pupil := GetPupilFromContext(r.Context())
	if pupil == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, formulas, err := h.practice.StartSession(pupil.ID, req.LessonNumber, req.Subject, req.SubjectType)
	if err != nil {
		switch {
		case errors.Is(err, curriculum.ErrLessonNotFound):
			respondError(w, http.StatusBadRequest, "No lesson with that number")
		case errors.Is(err, formula.ErrEmptySubject):
			respondError(w, http.StatusBadRequest, "Subject must not be empty")
		case errors.Is(err, formula.ErrUnknownSubjectType):
			respondError(w, http.StatusBadRequest, "Subject type must be person, place or thing")
		default:
			log.Printf("Error starting session for pupil %d: %v", pupil.ID, err)
			respondError(w, http.StatusInternalServerError, "Failed to start session")
		}
		return
	}

	respondJSON(w, http.StatusCreated, newSessionView(session, formulas))
}

type submitAttemptRequest struct {
	FormulaNumber int    `json:"formula_number"`
	Sentence      string `json:"sentence"`
}

// SubmitAttempt validates one sentence against one formula.
func (h *PracticeHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionForPupil(w, r)
	if !ok {
		return
	}

	var req submitAttemptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.practice.SubmitSentence(r.Context(), sessionID, req.FormulaNumber, req.Sentence)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "Session not found")
		case errors.Is(err, service.ErrFormulaNotFound):
			respondError(w, http.StatusNotFound, "Formula not found")
		case errors.Is(err, service.ErrSessionCompleted):
			respondError(w, http.StatusConflict, "Session already completed")
		case errors.Is(err, service.ErrFormulaCompleted):
			respondError(w, http.StatusConflict, "Formula already completed")
		default:
			log.Printf("Error submitting attempt for session %d: %v", sessionID, err)
			respondError(w, http.StatusInternalServerError, "Failed to record attempt")
		}
		return
	}

	respondJSON(w, http.StatusOK, newAttemptResponse(result))
}

// CompleteSession closes a session. Calling it twice returns the same
// summary.
func (h *PracticeHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionForPupil(w, r)
	if !ok {
		return
	}

	summary, err := h.practice.CompleteSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Printf("Error completing session %d: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to complete session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"summary": summary})
}

// GetSummary returns a session's summary without changing its state.
func (h *PracticeHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionForPupil(w, r)
	if !ok {
		return
	}

	summary, _, err := h.practice.SessionSummary(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Printf("Error loading summary for session %d: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load summary")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"summary": summary})
}

// sessionForPupil parses the session ID from the path and checks the
// session belongs to the calling pupil.
func (h *PracticeHandler) sessionForPupil(w http.ResponseWriter, r *http.Request) (int64, bool) {
	pupil := GetPupilFromContext(r.Context())
	if pupil == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}

	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session ID")
		return 0, false
	}

	_, session, err := h.practice.SessionSummary(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "Session not found")
			return 0, false
		}
		log.Printf("Error loading session %d: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load session")
		return 0, false
	}
	if session.PupilID != pupil.ID {
		respondError(w, http.StatusForbidden, "This session belongs to another pupil")
		return 0, false
	}

	return sessionID, true
}
