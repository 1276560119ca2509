package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/phamduyan/tutorvoice/domain/entities"
	"github.com/phamduyan/tutorvoice/domain/repositories"
)

// Store implements repositories.SessionStore using SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Ensure Store implements the SessionStore interface
var _ repositories.SessionStore = (*Store)(nil)

// NewStore opens (or creates) the database at dsn and runs migrations.
func NewStore(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &Store{db: db, logger: logger}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_updated DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			audio_path TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_last_updated ON sessions(last_updated)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// CreateSession inserts a new session with server-assigned timestamps.
func (s *Store) CreateSession(ctx context.Context, title string) (int64, error) {
	now := time.Now().UTC()
	if title == "" {
		title = entities.NewSessionTitle(now)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (title, created_at, last_updated) VALUES (?, ?, ?)`,
		title, now, now,
	)
	if err != nil {
		return 0, repositories.NewFault(repositories.FaultStorage, "failed to create session", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, repositories.NewFault(repositories.FaultStorage, "failed to read session id", err)
	}

	s.logger.Info("Session created", zap.Int64("sessionID", id), zap.String("title", title))
	return id, nil
}

// GetSession returns a single session by id.
func (s *Store) GetSession(ctx context.Context, sessionID int64) (*entities.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id, title, created_at, last_updated FROM sessions WHERE session_id = ?`,
		sessionID,
	)

	var session entities.Session
	err := row.Scan(&session.ID, &session.Title, &session.CreatedAt, &session.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.NewFault(repositories.FaultNotFound,
			fmt.Sprintf("session %d does not exist", sessionID), nil)
	}
	if err != nil {
		return nil, repositories.NewFault(repositories.FaultStorage, "failed to read session", err)
	}

	return &session, nil
}

// AddMessage inserts a message and bumps the session's last-updated
// timestamp. Both writes happen in one transaction so a crash cannot leave
// the session timestamp stale relative to its messages.
func (s *Store) AddMessage(ctx context.Context, sessionID int64, role entities.MessageRole, content, audioPath string) (int64, error) {
	msg := entities.Message{SessionID: sessionID, Role: role, Content: content, AudioPath: audioPath}
	if err := msg.Validate(); err != nil {
		return 0, repositories.NewFault(repositories.FaultInvalidInput, "invalid message", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, repositories.NewFault(repositories.FaultStorage, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	// The session must exist; orphaned messages are never inserted.
	var exists int64
	err = tx.QueryRowContext(ctx,
		`SELECT session_id FROM sessions WHERE session_id = ?`, sessionID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repositories.NewFault(repositories.FaultNotFound,
			fmt.Sprintf("session %d does not exist", sessionID), nil)
	}
	if err != nil {
		return 0, repositories.NewFault(repositories.FaultStorage, "failed to check session", err)
	}

	now := time.Now().UTC()
	var audio sql.NullString
	if audioPath != "" {
		audio = sql.NullString{String: audioPath, Valid: true}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, audio_path, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(role), content, audio, now,
	)
	if err != nil {
		return 0, repositories.NewFault(repositories.FaultStorage, "failed to insert message", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET last_updated = ? WHERE session_id = ?`, now, sessionID,
	); err != nil {
		return 0, repositories.NewFault(repositories.FaultStorage, "failed to update session timestamp", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, repositories.NewFault(repositories.FaultStorage, "failed to read message id", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, repositories.NewFault(repositories.FaultStorage, "failed to commit message", err)
	}

	return id, nil
}

// GetSessionHistory returns all messages of a session in ascending creation
// order. The message id breaks ties between same-timestamp inserts.
func (s *Store) GetSessionHistory(ctx context.Context, sessionID int64) ([]entities.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, role, content, audio_path, created_at
		 FROM messages WHERE session_id = ? ORDER BY created_at ASC, message_id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, repositories.NewFault(repositories.FaultStorage, "failed to query messages", err)
	}
	defer rows.Close()

	messages := []entities.Message{}
	for rows.Next() {
		var msg entities.Message
		var role string
		var audio sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &audio, &msg.CreatedAt); err != nil {
			return nil, repositories.NewFault(repositories.FaultStorage, "failed to scan message", err)
		}
		msg.Role = entities.MessageRole(role)
		if audio.Valid {
			msg.AudioPath = audio.String
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewFault(repositories.FaultStorage, "failed to iterate messages", err)
	}

	return messages, nil
}

// GetAllSessions returns every session ordered by most recent activity.
func (s *Store) GetAllSessions(ctx context.Context) ([]entities.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, title, created_at, last_updated FROM sessions ORDER BY last_updated DESC`,
	)
	if err != nil {
		return nil, repositories.NewFault(repositories.FaultStorage, "failed to query sessions", err)
	}
	defer rows.Close()

	sessions := []entities.Session{}
	for rows.Next() {
		var session entities.Session
		if err := rows.Scan(&session.ID, &session.Title, &session.CreatedAt, &session.LastUpdated); err != nil {
			return nil, repositories.NewFault(repositories.FaultStorage, "failed to scan session", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewFault(repositories.FaultStorage, "failed to iterate sessions", err)
	}

	return sessions, nil
}

// FormatConversationHistory renders the session transcript for LLM prompting.
func (s *Store) FormatConversationHistory(ctx context.Context, sessionID int64) (string, error) {
	messages, err := s.GetSessionHistory(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return entities.FormatTranscript(messages), nil
}

// DeleteSession removes the session and its messages atomically. The
// explicit message delete keeps the behavior obvious even though the
// foreign key cascades.
func (s *Store) DeleteSession(ctx context.Context, sessionID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return repositories.NewFault(repositories.FaultStorage, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return repositories.NewFault(repositories.FaultStorage, "failed to delete messages", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return repositories.NewFault(repositories.FaultStorage, "failed to delete session", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewFault(repositories.FaultStorage, "failed to read delete result", err)
	}
	if affected == 0 {
		return repositories.NewFault(repositories.FaultNotFound,
			fmt.Sprintf("session %d does not exist", sessionID), nil)
	}

	if err := tx.Commit(); err != nil {
		return repositories.NewFault(repositories.FaultStorage, "failed to commit delete", err)
	}

	s.logger.Info("Session deleted", zap.Int64("sessionID", sessionID))
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
