package handlers

import (
	"log"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"sentencecraft/internal/credentials"
	"sentencecraft/internal/repository"
	"sentencecraft/internal/security"
	"sentencecraft/internal/service"
)

// PupilHandler handles pupil registration, login and progress requests.
type PupilHandler struct {
	pupils       *repository.PupilRepository
	practice     *service.PracticeService
	tokens       *security.TokenIssuer
	loginLimiter *security.RateLimiter
}

// NewPupilHandler creates a new pupil handler.
func NewPupilHandler(pupils *repository.PupilRepository, practice *service.PracticeService, tokens *security.TokenIssuer, loginLimiter *security.RateLimiter) *PupilHandler {
	return &PupilHandler{
		pupils:       pupils,
		practice:     practice,
		tokens:       tokens,
		loginLimiter: loginLimiter,
	}
}

type registerRequest struct {
	DisplayName   string `json:"display_name"`
	YearGroup     int    `json:"year_group"`
	GuardianEmail string `json:"guardian_email"`
}

type registerResponse struct {
	PupilID    int64  `json:"pupil_id"`
	Username   string `json:"username"`
	AccessCode string `json:"access_code"`
}

// Register creates a pupil with generated credentials. The access code is
// returned exactly once; only its hash is stored.
func (h *PupilHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DisplayName == "" {
		respondError(w, http.StatusBadRequest, "display_name is required")
		return
	}

	username, err := h.uniqueUsername()
	if err != nil {
		log.Printf("Error generating username: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create pupil")
		return
	}

	accessCode, err := credentials.GenerateAccessCode()
	if err != nil {
		log.Printf("Error generating access code: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create pupil")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(accessCode), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing access code: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create pupil")
		return
	}

	pupil, err := h.pupils.Create(username, req.DisplayName, req.YearGroup, req.GuardianEmail, string(hash))
	if err != nil {
		log.Printf("Error creating pupil: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create pupil")
		return
	}

	respondJSON(w, http.StatusCreated, registerResponse{
		PupilID:    pupil.ID,
		Username:   pupil.Username,
		AccessCode: accessCode,
	})
}

// uniqueUsername generates a username not yet taken.
func (h *PupilHandler) uniqueUsername() (string, error) {
	for i := 0; i < 5; i++ {
		username, err := credentials.GenerateUsername()
		if err != nil {
			return "", err
		}
		existing, err := h.pupils.GetByUsername(username)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return username, nil
		}
	}
	// Fall back to a numbered variant after repeated collisions.
	username, err := credentials.GenerateUsername()
	if err != nil {
		return "", err
	}
	return username + "-2", nil
}

type loginRequest struct {
	Username   string `json:"username"`
	AccessCode string `json:"access_code"`
}

// Login checks a username and access code and mints a bearer token.
func (h *PupilHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.loginLimiter.Allow(security.GetClientIP(r)) {
		respondError(w, http.StatusTooManyRequests, "Too many login attempts, please wait")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pupil, err := h.pupils.GetByUsername(req.Username)
	if err != nil {
		log.Printf("Error loading pupil %q: %v", req.Username, err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if pupil == nil {
		respondError(w, http.StatusUnauthorized, "Wrong username or access code")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(pupil.AccessCodeHash), []byte(req.AccessCode)); err != nil {
		respondError(w, http.StatusUnauthorized, "Wrong username or access code")
		return
	}

	token, err := h.tokens.Mint(pupil.ID)
	if err != nil {
		log.Printf("Error minting token for pupil %d: %v", pupil.ID, err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Progress returns a pupil's recent sessions and overall accuracy.
func (h *PupilHandler) Progress(w http.ResponseWriter, r *http.Request) {
	pupilID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pupil ID")
		return
	}

	caller := GetPupilFromContext(r.Context())
	if caller == nil || caller.ID != pupilID {
		respondError(w, http.StatusForbidden, "You can only see your own progress")
		return
	}

	progress, err := h.practice.PupilProgress(pupilID)
	if err != nil {
		log.Printf("Error loading progress for pupil %d: %v", pupilID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	respondJSON(w, http.StatusOK, newProgressView(progress))
}
