// Package corpus assembles the chatbot's retrieval content at startup.
package corpus

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/campuslab/campusite/internal/fetch"
	"github.com/campuslab/campusite/internal/htmltext"
)

const DefaultChunkWords = 250

// Corpus is the ordered, read-only collection of text chunks built once
// at process start. It is never mutated afterwards, so concurrent reads
// need no locking.
type Corpus struct {
	chunks []string
}

func (c *Corpus) Chunks() []string { return c.chunks }
func (c *Corpus) Len() int         { return len(c.chunks) }

// New wraps pre-built chunks, mainly for tests.
func New(chunks []string) *Corpus { return &Corpus{chunks: chunks} }

// Config names the content sources for a build.
type Config struct {
	TemplatesDir string
	ScrapeURL    string
	ChunkWords   int
	Fetcher      fetch.Fetcher
}

// Build reads every local page template plus one remote page, extracts
// their readable text and reflows it into fixed-size word chunks. A
// source that cannot be read contributes nothing; the worst case is an
// empty corpus, which is still valid.
func Build(ctx context.Context, cfg Config, logger *log.Logger) *Corpus {
	size := cfg.ChunkWords
	if size <= 0 {
		size = DefaultChunkWords
	}
	var chunks []string

	entries, err := os.ReadDir(cfg.TemplatesDir)
	if err != nil {
		logger.Printf("failed to read templates dir %s: %v", cfg.TemplatesDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		path := filepath.Join(cfg.TemplatesDir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			logger.Printf("failed to read %s: %v", entry.Name(), err)
			continue
		}
		text, err := htmltext.Elements(f)
		f.Close()
		if err != nil {
			logger.Printf("failed to parse %s: %v", entry.Name(), err)
			continue
		}
		chunks = append(chunks, chunkWords(text, size)...)
	}

	if cfg.ScrapeURL != "" && cfg.Fetcher != nil {
		text, err := cfg.Fetcher.Fetch(ctx, cfg.ScrapeURL)
		if err != nil {
			logger.Printf("failed to scrape %s: %v", cfg.ScrapeURL, err)
		} else {
			chunks = append(chunks, chunkWords(text, size)...)
		}
	}

	logger.Printf("content store built: %d chunks", len(chunks))
	return &Corpus{chunks: chunks}
}

// chunkWords reflows text into spans of at most size words. The boundary
// is not sentence-aware; mid-sentence splits are accepted.
func chunkWords(text string, size int) []string {
	words := strings.Fields(text)
	var out []string
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[i:end], " "))
	}
	return out
}
