package hf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newFakeAPI(t *testing.T, content string, status int) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := fmt.Sprintf(`{"choices":[{"message":{"content":%q}}]}`, content)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(url string) *Client {
	return NewClient("test-key", "test-model", url, "Example College", 0.2, 256, 5*time.Second)
}

func TestReplyTruncatesToTwoSentences(t *testing.T) {
	srv, _ := newFakeAPI(t, "First sentence. Second sentence! Third sentence should vanish.", http.StatusOK)
	c := newTestClient(srv.URL)

	got, err := c.Reply(context.Background(), "tell me about clubs", "club context")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "First sentence. Second sentence!" {
		t.Fatalf("got %q", got)
	}
}

func TestReplyGreetingSkipsAPI(t *testing.T) {
	srv, calls := newFakeAPI(t, "should not be used", http.StatusOK)
	c := newTestClient(srv.URL)

	for _, msg := range []string{"hi", "HELLO", "Good Morning"} {
		got, err := c.Reply(context.Background(), msg, "")
		if err != nil {
			t.Fatalf("Reply(%q): %v", msg, err)
		}
		if !strings.Contains(got, "campus assistant") {
			t.Fatalf("expected canned greeting, got %q", got)
		}
	}
	if *calls != 0 {
		t.Fatalf("greeting must not hit the API, saw %d calls", *calls)
	}
}

func TestReplyEmptyCompletionFallsBack(t *testing.T) {
	srv, _ := newFakeAPI(t, "   ", http.StatusOK)
	c := newTestClient(srv.URL)

	got, err := c.Reply(context.Background(), "what is the fee structure", "ctx")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != UnavailableReply {
		t.Fatalf("got %q", got)
	}
}

func TestReplyAPIFailureReturnsError(t *testing.T) {
	srv, _ := newFakeAPI(t, "", http.StatusBadGateway)
	c := newTestClient(srv.URL)

	if _, err := c.Reply(context.Background(), "question", "ctx"); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func TestReplySendsContextInSystemPrompt(t *testing.T) {
	var captured string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []Message `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) == 2 {
			captured = req.Messages[0].Content
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok."}}]}`))
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	if _, err := c.Reply(context.Background(), "when is the fest", "the fest is on sept 20"); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if !strings.Contains(captured, "the fest is on sept 20") {
		t.Fatalf("context missing from system prompt: %q", captured)
	}
	if !strings.Contains(captured, "ONLY the content below") {
		t.Fatalf("grounding constraint missing: %q", captured)
	}
}

func TestFirstSentences(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"One. Two. Three.", 2, "One. Two."},
		{"No terminal punctuation", 2, "No terminal punctuation"},
		{"Ends mid way. And then", 2, "Ends mid way. And then"},
		{"", 2, ""},
		{"Version 2.5 improves things. Next point.", 2, "Version 2.5 improves things. Next point."},
	}
	for _, tc := range cases {
		if got := FirstSentences(tc.in, tc.n); got != tc.want {
			t.Errorf("FirstSentences(%q,%d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
