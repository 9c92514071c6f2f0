package logger

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestNewLogger_NotNil(t *testing.T) {
	l := NewLogger("test")
	if l == nil {
		t.Fatal("NewLogger returned nil")
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	// Must not panic and must not write anywhere.
	l.Info().Str("k", "v").Msg("discarded")
}

func TestFromContext_RoundTrip(t *testing.T) {
	l := Nop()
	ctx := l.WithContext(context.Background())

	got := FromContext(ctx)
	if got == nil {
		t.Fatal("FromContext returned nil")
	}
}

func TestFromRequest_NeverNil(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if FromRequest(r) == nil {
		t.Fatal("FromRequest returned nil")
	}
}

func TestGetChildLogger(t *testing.T) {
	parent := Nop()
	child := parent.GetChildLogger()
	if child == nil {
		t.Fatal("GetChildLogger returned nil")
	}
}
