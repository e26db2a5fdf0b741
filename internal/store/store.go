package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type Store struct {
	DB *sql.DB
}

// Conversation roles persisted for chat turns.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Turn is one persisted message in a conversation.
type Turn struct {
	SessionID string    `json:"-"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"-"`
}

// ContactSubmission is a write-once contact form entry.
type ContactSubmission struct {
	FirstName string
	LastName  string
	Email     string
	Message   string
	CreatedAt time.Time
}

func New(ctx context.Context) (*Store, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := getenvDefault("POSTGRES_HOST", "localhost")
		port := getenvDefault("POSTGRES_PORT", "5432")
		user := os.Getenv("POSTGRES_USER")
		pass := os.Getenv("POSTGRES_PASSWORD")
		db := os.Getenv("POSTGRES_DB")
		ssl := getenvDefault("POSTGRES_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, ssl)
	}
	return NewWithDSN(ctx, dsn)
}

// NewWithDSN constructs the Store using an explicit Postgres DSN
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// AppendTurn records one conversation turn for a session.
func (s *Store) AppendTurn(ctx context.Context, sessionID, role, text string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id required")
	}
	if role != RoleUser && role != RoleBot {
		return fmt.Errorf("unknown role %q", role)
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO chat_history (session_id, role, message) VALUES ($1,$2,$3)`,
		sessionID, role, text)
	return err
}

// History returns all turns for a session in ascending creation order.
// An unknown session yields an empty slice, not an error.
func (s *Store) History(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT role, message, created_at FROM chat_history WHERE session_id=$1 ORDER BY id ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	turns := []Turn{}
	for rows.Next() {
		t := Turn{SessionID: sessionID}
		if err := rows.Scan(&t.Role, &t.Text, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ClearHistory deletes all turns for a session. Idempotent.
func (s *Store) ClearHistory(ctx context.Context, sessionID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM chat_history WHERE session_id=$1`, sessionID)
	return err
}

// InsertContact persists one contact form submission.
func (s *Store) InsertContact(ctx context.Context, c ContactSubmission) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO contacts (first_name, last_name, email, message) VALUES ($1,$2,$3,$4)`,
		c.FirstName, c.LastName, c.Email, c.Message)
	return err
}

// CountContacts reports the number of stored submissions (dashboard stat).
func (s *Store) CountContacts(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n)
	return n, err
}
