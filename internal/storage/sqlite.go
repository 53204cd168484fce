package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/xaenox/stocksense/internal/models"
)

// SQLiteStorage backs local and single-node deployments where running
// PostgreSQL is overkill.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating db directory %s: %v", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initializeSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'beginner',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_messages_conversation
			ON messages (conversation_id, created_at, id);

		CREATE TABLE IF NOT EXISTS ticker_views (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker TEXT NOT NULL,
			viewed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

func (s *SQLiteStorage) CreateConversation(ctx context.Context, id string) error {
	query := `INSERT OR IGNORE INTO conversations (id) VALUES (?)`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error creating conversation: %v", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteConversation(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("error deleting messages: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting conversation: %v", err)
	}
	return nil
}

func (s *SQLiteStorage) SaveMessage(ctx context.Context, msg *models.Message) error {
	// CURRENT_TIMESTAMP has one-second resolution; assign the timestamp in
	// Go so consecutive turns keep distinct creation times.
	now := time.Now().UTC()
	query := `
		INSERT INTO messages (conversation_id, role, content, mode, created_at)
		VALUES (?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query, msg.ConversationID, msg.Role, msg.Content, msg.Mode, now)
	if err != nil {
		return fmt.Errorf("error saving message: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading message id: %v", err)
	}
	msg.ID = id
	msg.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) GetMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, mode, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %v", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.Content,
			&msg.Mode,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %v", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (s *SQLiteStorage) RecordTickerView(ctx context.Context, ticker string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO ticker_views (ticker) VALUES (?)`, ticker); err != nil {
		return fmt.Errorf("error recording ticker view: %v", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
