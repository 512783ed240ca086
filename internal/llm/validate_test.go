package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var testSchema = &Schema{
	Name: "test_verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ok":    map[string]any{"type": "boolean"},
			"score": map[string]any{"type": "integer"},
		},
		"required": []any{"ok"},
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"ok": true, "score": 3}`, false},
		{"valid without optional field", `{"ok": false}`, false},
		{"missing required field", `{"score": 3}`, true},
		{"wrong type", `{"ok": "yes"}`, true},
		{"not json", `hello there`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("validateResponse(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				var invalid *ErrInvalidResponse
				if !errors.As(err, &invalid) {
					t.Errorf("error type = %T, want *ErrInvalidResponse", err)
				}
			}
		})
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything goes`)); err != nil {
		t.Errorf("nil schema should skip validation, got %v", err)
	}
}

func TestCompileSchemaCached(t *testing.T) {
	first, err := compileSchema(testSchema)
	if err != nil {
		t.Fatalf("compileSchema returned error: %v", err)
	}
	second, err := compileSchema(testSchema)
	if err != nil {
		t.Fatalf("compileSchema returned error: %v", err)
	}
	if first != second {
		t.Error("compileSchema did not return the cached schema")
	}
}
