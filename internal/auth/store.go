package auth

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/opengrove/sheetset/internal/shared"
)

// Store persists the session across CLI invocations in a local SQLite
// database. It holds credentials only, never playlist state: the spreadsheet
// stays the single source of truth for the playlist.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and migrates) the session database at path.
func OpenStore(path string) (*Store, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			email TEXT NOT NULL,
			name TEXT NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL DEFAULT '',
			token_type TEXT NOT NULL DEFAULT 'Bearer',
			expiry TIMESTAMP,
			updated_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Save upserts the single stored session.
func (s *Store) Save(profile Profile, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO sessions (id, email, name, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
	`

	_, err := s.db.Exec(query,
		profile.Email, profile.Name,
		token.AccessToken, token.RefreshToken, token.TokenType,
		token.Expiry, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the stored session, or ok=false when none has been saved.
func (s *Store) Load() (Profile, *oauth2.Token, bool, error) {
	query := `
		SELECT email, name, access_token, refresh_token, token_type, expiry
		FROM sessions WHERE id = 1
	`

	var (
		profile Profile
		token   oauth2.Token
		expiry  sql.NullTime
	)

	err := s.db.QueryRow(query).Scan(
		&profile.Email, &profile.Name,
		&token.AccessToken, &token.RefreshToken, &token.TokenType, &expiry,
	)
	if err == sql.ErrNoRows {
		return Profile{}, nil, false, nil
	}
	if err != nil {
		return Profile{}, nil, false, fmt.Errorf("failed to load session: %w", err)
	}

	if expiry.Valid {
		token.Expiry = expiry.Time
	}
	return profile, &token, true, nil
}

// Clear deletes the stored session.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
