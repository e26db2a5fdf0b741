package chat

import (
	"fmt"
	"testing"
	"time"
)

func TestResolveSessionHeaderWins(t *testing.T) {
	id, created := ResolveSession("from-header", "from-cookie", "1.2.3.4", time.Now())
	if id != "from-header" || created {
		t.Fatalf("got id=%q created=%v", id, created)
	}
}

func TestResolveSessionCookieFallback(t *testing.T) {
	id, created := ResolveSession("", "from-cookie", "1.2.3.4", time.Now())
	if id != "from-cookie" || created {
		t.Fatalf("got id=%q created=%v", id, created)
	}
}

func TestResolveSessionSynthesized(t *testing.T) {
	now := time.Unix(1700000000, 0)
	id, created := ResolveSession("", "", "1.2.3.4", now)
	if !created {
		t.Fatal("expected a created session")
	}
	if want := fmt.Sprintf("1.2.3.4_%d", now.Unix()); id != want {
		t.Fatalf("got %q want %q", id, want)
	}
}

func TestResolveSessionNoAddress(t *testing.T) {
	id, created := ResolveSession("", "", "", time.Now())
	if !created || id == "" {
		t.Fatalf("expected synthesized id, got %q created=%v", id, created)
	}
}

func TestResolveSessionTrimsBlanks(t *testing.T) {
	id, created := ResolveSession("   ", "  ", "9.9.9.9", time.Unix(42, 0))
	if !created || id != "9.9.9.9_42" {
		t.Fatalf("got id=%q created=%v", id, created)
	}
}
