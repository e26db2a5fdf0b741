// Package chat runs the per-request chatbot pipeline: rate check,
// context selection, generation, persistence.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/campuslab/campusite/internal/corpus"
	"github.com/campuslab/campusite/internal/rank"
	"github.com/campuslab/campusite/internal/ratelimit"
	"github.com/campuslab/campusite/internal/store"
	"github.com/campuslab/campusite/internal/telemetry"
	"github.com/campuslab/campusite/provider"
)

// ErrRateLimited signals the caller to answer with a throttling response.
var ErrRateLimited = errors.New("rate limit exceeded")

const (
	IntroReply    = "Hello! I'm your campus assistant. Ask me about clubs, sports, cultural activities, fests, and more!"
	ThrottleReply = "Slow down! You are sending messages too quickly."
	ApologyReply  = "Sorry, something went wrong while fetching the response."
)

// ConversationStore is the slice of the persistence layer the pipeline needs.
type ConversationStore interface {
	AppendTurn(ctx context.Context, sessionID, role, text string) error
}

// Service composes the chatbot pipeline. All dependencies are injected;
// the corpus is built once at startup and read-only here.
type Service struct {
	Corpus    *corpus.Corpus
	Limiter   ratelimit.Limiter
	Provider  provider.Provider
	Store     ConversationStore
	TopChunks int
	Logger    *log.Logger
	Metrics   *telemetry.Metrics
}

// Request is one incoming chat message with its resolved identity.
type Request struct {
	SessionID  string
	ClientAddr string
	Message    string
}

// Handle runs one message through the pipeline and returns the reply.
// The only error it returns is ErrRateLimited; every other failure is
// logged and mapped to a user-facing fallback reply.
func (s *Service) Handle(ctx context.Context, req Request) (string, error) {
	now := time.Now()

	admitted, err := s.Limiter.Admit(ctx, req.ClientAddr, now)
	if err != nil {
		// a broken limiter backend must not take chat down
		s.Logger.Printf("rate limiter error for %s: %v", req.ClientAddr, err)
		admitted = true
	}
	if !admitted {
		s.Metrics.Observe(telemetry.OutcomeRateLimited)
		return ThrottleReply, ErrRateLimited
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		s.Metrics.Observe(telemetry.OutcomeIntro)
		return IntroReply, nil
	}

	var reply string
	if provider.IsGreeting(msg) {
		reply = provider.GreetingReply
		s.Metrics.Observe(telemetry.OutcomeGreeting)
	} else {
		contextText := rank.Select(msg, s.Corpus.Chunks(), s.topChunks())
		t0 := time.Now()
		reply, err = s.Provider.Reply(ctx, msg, contextText)
		s.Metrics.ObserveGeneration(time.Since(t0).Seconds())
		if err != nil {
			s.Logger.Printf("generation failed for session %s: %v", req.SessionID, err)
			s.Metrics.Observe(telemetry.OutcomeError)
			return ApologyReply, nil
		}
		s.Metrics.Observe(telemetry.OutcomeOK)
	}

	// Persistence failure loses the transcript entry but never the reply.
	if err := s.Store.AppendTurn(ctx, req.SessionID, store.RoleUser, msg); err != nil {
		s.Logger.Printf("failed to persist user turn for session %s: %v", req.SessionID, err)
		return reply, nil
	}
	if err := s.Store.AppendTurn(ctx, req.SessionID, store.RoleBot, reply); err != nil {
		s.Logger.Printf("failed to persist bot turn for session %s: %v", req.SessionID, err)
	}
	return reply, nil
}

func (s *Service) topChunks() int {
	if s.TopChunks > 0 {
		return s.TopChunks
	}
	return 3
}
