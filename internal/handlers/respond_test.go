package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	respondJSON(w, 201, map[string]int{"n": 7})

	if w.Code != 201 {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["n"] != 7 {
		t.Errorf("body = %v", body)
	}
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	respondError(w, 404, "Session not found")

	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error"] != "Session not found" {
		t.Errorf("error message = %q", body["error"])
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"sentence": "hi", "bogus": 1}`))

	var dst submitAttemptRequest
	if err := decodeJSON(r, &dst); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"missing", "", ""},
		{"wrong scheme", "Basic abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := bearerToken(r); got != tt.want {
				t.Errorf("bearerToken = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetPupilFromContextEmpty(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if pupil := GetPupilFromContext(r.Context()); pupil != nil {
		t.Errorf("pupil = %+v, want nil", pupil)
	}
}
