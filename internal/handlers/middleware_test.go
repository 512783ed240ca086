package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sentencecraft/internal/database"
	"sentencecraft/internal/repository"
	"sentencecraft/internal/security"
)

// openTestDB opens an in-memory SQLite database, optionally with the
// schema applied.
func openTestDB(t *testing.T, migrate bool) *database.DB {
	t.Helper()

	raw, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	db := &database.DB{DB: raw, Dialect: database.NewSQLiteDialect()}
	if migrate {
		if err := db.RunMigrations(); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}
	return db
}

func TestRequirePupil(t *testing.T) {
	issuer, err := security.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to create token issuer: %v", err)
	}
	token, err := issuer.Mint(1)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	tests := []struct {
		name       string
		migrate    bool
		token      string
		wantStatus int
	}{
		{"missing token", true, "", http.StatusUnauthorized},
		{"unknown pupil", true, token, http.StatusUnauthorized},
		// Without the schema every lookup fails, which must not read
		// as a bad credential.
		{"database failure", false, token, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pupils := repository.NewPupilRepository(openTestDB(t, tt.migrate))
			mw := NewMiddleware(issuer, pupils)

			called := false
			handler := mw.RequirePupil(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			r := httptest.NewRequest("GET", "/v1/practice/sessions/1/summary", nil)
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			handler(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if called {
				t.Error("next handler called for a rejected request")
			}
		})
	}
}
