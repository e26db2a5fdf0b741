package corpus

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type staticFetcher struct {
	text string
	err  error
}

func (f staticFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func TestBuildFromLocalTemplates(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "index.html", "<h1>Campus</h1><p>We have sixty clubs.</p>")
	writeTemplate(t, dir, "sports.html", "<li>Cricket</li><li>Chess</li>")
	writeTemplate(t, dir, "notes.txt", "not html, ignored")

	c := Build(context.Background(), Config{TemplatesDir: dir}, discard())
	if c.Len() != 2 {
		t.Fatalf("expected 2 chunks, got %d: %#v", c.Len(), c.Chunks())
	}
	joined := strings.Join(c.Chunks(), " | ")
	if !strings.Contains(joined, "sixty clubs") || !strings.Contains(joined, "Cricket Chess") {
		t.Fatalf("unexpected chunks: %q", joined)
	}
}

func TestBuildChunksAtWordBoundary(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("<p>")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, "word%d ", i)
	}
	sb.WriteString("</p>")
	writeTemplate(t, dir, "long.html", sb.String())

	c := Build(context.Background(), Config{TemplatesDir: dir, ChunkWords: 25}, discard())
	if c.Len() != 3 {
		t.Fatalf("expected 3 chunks of <=25 words, got %d", c.Len())
	}
	for i, chunk := range c.Chunks() {
		n := len(strings.Fields(chunk))
		if n > 25 {
			t.Fatalf("chunk %d has %d words", i, n)
		}
	}
	// last chunk carries the remainder
	if n := len(strings.Fields(c.Chunks()[2])); n != 10 {
		t.Fatalf("expected 10 trailing words, got %d", n)
	}
}

func TestBuildIncludesRemotePage(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "index.html", "<p>local text</p>")

	c := Build(context.Background(), Config{
		TemplatesDir: dir,
		ScrapeURL:    "https://example.edu/",
		Fetcher:      staticFetcher{text: "remote homepage text"},
	}, discard())
	if c.Len() != 2 {
		t.Fatalf("expected local + remote chunks, got %d", c.Len())
	}
	if c.Chunks()[1] != "remote homepage text" {
		t.Fatalf("remote chunk missing: %#v", c.Chunks())
	}
}

func TestBuildDegradesOnFailures(t *testing.T) {
	c := Build(context.Background(), Config{
		TemplatesDir: filepath.Join(t.TempDir(), "missing"),
		ScrapeURL:    "https://example.edu/",
		Fetcher:      staticFetcher{err: fmt.Errorf("connection refused")},
	}, discard())
	if c.Len() != 0 {
		t.Fatalf("expected empty corpus, got %d chunks", c.Len())
	}
}
