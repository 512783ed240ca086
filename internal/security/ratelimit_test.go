package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToRate(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within rate", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over rate was allowed")
	}
}

func TestRateLimiterTracksIPsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first IP denied")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second IP denied by first IP's bucket")
	}
}

func TestRateLimiterRefillsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request denied")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("second request allowed before refill")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("10.0.0.1") {
		t.Error("request denied after window elapsed")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded header wins", "1.2.3.4", "5.6.7.8", "9.9.9.9:1234", "1.2.3.4"},
		{"real IP next", "", "5.6.7.8", "9.9.9.9:1234", "5.6.7.8"},
		{"remote addr fallback", "", "", "9.9.9.9:1234", "9.9.9.9:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
