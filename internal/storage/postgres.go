package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/xaenox/stocksense/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) CreateConversation(ctx context.Context, id string) error {
	query := `INSERT INTO conversations (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error creating conversation: %v", err)
	}
	return nil
}

func (s *PostgresStorage) DeleteConversation(ctx context.Context, id string) error {
	// Delete messages first, then the conversation. Best-effort, not
	// transactional; a second delete of the same id is a no-op.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting messages: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting conversation: %v", err)
	}
	return nil
}

func (s *PostgresStorage) SaveMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (conversation_id, role, content, mode)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(
		ctx,
		query,
		msg.ConversationID,
		msg.Role,
		msg.Content,
		msg.Mode,
	).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		return fmt.Errorf("error saving message: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	// id breaks creation-time ties so replay order equals insertion order.
	query := `
		SELECT id, conversation_id, role, content, mode, created_at
		FROM messages
		WHERE conversation_id = $1
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

func (s *PostgresStorage) RecordTickerView(ctx context.Context, ticker string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO ticker_views (ticker) VALUES ($1)`, ticker); err != nil {
		return fmt.Errorf("error recording ticker view: %v", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
