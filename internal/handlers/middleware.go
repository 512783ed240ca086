package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"sentencecraft/internal/models"
	"sentencecraft/internal/repository"
	"sentencecraft/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const PupilContextKey ContextKey = "pupil"

// Middleware holds dependencies for middleware functions.
type Middleware struct {
	tokens *security.TokenIssuer
	pupils *repository.PupilRepository
}

// NewMiddleware creates a new middleware instance.
func NewMiddleware(tokens *security.TokenIssuer, pupils *repository.PupilRepository) *Middleware {
	return &Middleware{tokens: tokens, pupils: pupils}
}

// RequirePupil verifies the bearer token and puts the pupil on the
// request context.
func (m *Middleware) RequirePupil(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		pupilID, err := m.tokens.Verify(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		pupil, err := m.pupils.GetByID(pupilID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respondError(w, http.StatusUnauthorized, "Unknown pupil")
				return
			}
			log.Printf("Error loading pupil %d: %v", pupilID, err)
			respondError(w, http.StatusInternalServerError, "Failed to load pupil")
			return
		}

		ctx := context.WithValue(r.Context(), PupilContextKey, pupil)
		next(w, r.WithContext(ctx))
	}
}

// Logging middleware logs HTTP requests.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// GetPupilFromContext retrieves the pupil from the request context.
func GetPupilFromContext(ctx context.Context) *models.Pupil {
	pupil, ok := ctx.Value(PupilContextKey).(*models.Pupil)
	if !ok {
		return nil
	}
	return pupil
}
