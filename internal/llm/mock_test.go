package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProviderFIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n": 1}`)},
		MockResponse{Content: json.RawMessage(`{"n": 2}`)},
	)

	first, err := mock.Generate(context.Background(), Request{Prompt: "a"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	second, err := mock.Generate(context.Background(), Request{Prompt: "b"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if string(first.Content) != `{"n": 1}` || string(second.Content) != `{"n": 2}` {
		t.Errorf("responses out of order: %s then %s", first.Content, second.Content)
	}
	if mock.CallCount() != 2 {
		t.Errorf("CallCount = %d, want 2", mock.CallCount())
	}
	if mock.Calls[0].Prompt != "a" || mock.Calls[1].Prompt != "b" {
		t.Error("requests were not recorded in order")
	}
}

func TestMockProviderEmptyQueue(t *testing.T) {
	mock := NewMockProvider()

	_, err := mock.Generate(context.Background(), Request{})
	var unavailable *ErrUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("error = %v, want *ErrUnavailable", err)
	}
}

func TestMockProviderCannedError(t *testing.T) {
	wantErr := &ErrRateLimit{}
	mock := NewMockProvider(MockResponse{Err: wantErr})

	_, err := mock.Generate(context.Background(), Request{})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want the canned error", err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "carrier-pigeon"})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	for _, provider := range []string{"anthropic", "openai", "gemini"} {
		if _, err := New(context.Background(), Config{Provider: provider}); err == nil {
			t.Errorf("provider %q accepted an empty API key", provider)
		}
	}
}
