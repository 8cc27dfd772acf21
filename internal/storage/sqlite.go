package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/virlife/worldsim/pkg/chat"
	"github.com/virlife/worldsim/pkg/world"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite creates a new SQLite-backed store.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS worlds (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_worlds_user ON worlds(user_id, updated_at);

	CREATE TABLE IF NOT EXISTS world_states (
		world_id TEXT PRIMARY KEY REFERENCES worlds(id),
		version INTEGER NOT NULL,
		state TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		world_id TEXT NOT NULL REFERENCES worlds(id),
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_world ON messages(world_id, seq);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetOrCreateUser resolves a user by name, creating one on first contact.
// An empty name is an anonymous request: every caller gets a fresh user
// whose generated id doubles as the name, so the returned id resumes the
// session on the next request.
func (s *SQLiteStore) GetOrCreateUser(ctx context.Context, name string) (*User, error) {
	var user User
	var createdAt int64

	if name != "" {
		row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM users WHERE name = ?`, name)
		err := row.Scan(&user.ID, &user.Name, &createdAt)
		if err == nil {
			user.CreatedAt = time.Unix(createdAt, 0)
			return &user, nil
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
	}

	id := uuid.NewString()
	if name == "" {
		name = id
	}
	user = User{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)`,
		user.ID, user.Name, user.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

// GetOrCreateWorld resolves the world for a request: direct lookup when an
// ID is given, otherwise the user's most recent world, otherwise a new one.
func (s *SQLiteStore) GetOrCreateWorld(ctx context.Context, worldID, userID string) (*World, error) {
	if worldID != "" {
		w, err := s.getWorld(ctx, `SELECT id, user_id, created_at, updated_at FROM worlds WHERE id = ?`, worldID)
		if err != nil {
			return nil, err
		}
		if w != nil {
			return w, nil
		}
		return nil, fmt.Errorf("world %s not found", worldID)
	}

	w, err := s.getWorld(ctx,
		`SELECT id, user_id, created_at, updated_at FROM worlds WHERE user_id = ? ORDER BY updated_at DESC LIMIT 1`,
		userID)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}

	now := time.Now()
	created := &World{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO worlds (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		created.ID, created.UserID, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("insert world: %w", err)
	}
	return created, nil
}

func (s *SQLiteStore) getWorld(ctx context.Context, query string, args ...interface{}) (*World, error) {
	var w World
	var createdAt, updatedAt int64

	row := s.db.QueryRowContext(ctx, query, args...)
	err := row.Scan(&w.ID, &w.UserID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan world row: %w", err)
	}

	w.CreatedAt = time.Unix(createdAt, 0)
	w.UpdatedAt = time.Unix(updatedAt, 0)
	return &w, nil
}

// GetOrCreateWorldState loads the document for a world, seeding the initial
// snapshot on first access. The returned document is migrated and stamped
// with its stored version.
func (s *SQLiteStore) GetOrCreateWorldState(ctx context.Context, worldID string) (*world.Document, error) {
	var stateJSON string
	var version int64

	row := s.db.QueryRowContext(ctx,
		`SELECT state, version FROM world_states WHERE world_id = ?`, worldID)
	err := row.Scan(&stateJSON, &version)
	if err == sql.ErrNoRows {
		doc := world.NewDocument()
		blob, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal initial state: %w", err)
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO world_states (world_id, version, state, updated_at) VALUES (?, 1, ?, ?)`,
			worldID, string(blob), time.Now().Unix())
		if err != nil {
			return nil, fmt.Errorf("insert initial state: %w", err)
		}
		doc.Version = 1
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan state row: %w", err)
	}

	var doc world.Document
	if err := json.Unmarshal([]byte(stateJSON), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal world state: %w", err)
	}
	doc.Migrate()
	doc.Version = version
	return &doc, nil
}

// CommitTurn writes the message pair and the new document in one
// transaction, guarded by the version stamp.
func (s *SQLiteStore) CommitTurn(ctx context.Context, worldID string, userMsg, assistantMsg chat.StoredMessage, doc *world.Document) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal world state: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	result, err := tx.ExecContext(ctx,
		`UPDATE world_states SET state = ?, version = version + 1, updated_at = ? WHERE world_id = ? AND version = ?`,
		string(blob), now, worldID, doc.Version)
	if err != nil {
		return fmt.Errorf("update world state: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}

	for _, msg := range []chat.StoredMessage{userMsg, assistantMsg} {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO messages (id, world_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			msg.ID, worldID, msg.Role, msg.Content, msg.CreatedAt.Unix())
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE worlds SET updated_at = ? WHERE id = ?`, now, worldID)
	if err != nil {
		return fmt.Errorf("touch world: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	doc.Version++
	return nil
}

// RecentMessages returns up to limit messages for a world, oldest first.
func (s *SQLiteStore) RecentMessages(ctx context.Context, worldID string, limit int) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM (
			SELECT role, content, seq FROM messages
			WHERE world_id = ? ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`,
		worldID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}
