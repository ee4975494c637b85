// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/election-console/auth"
)

// Session is the explicit, server-held context for a logged-in browser:
// who the user is, their role, and the upstream bearer token used on their
// behalf. Handlers receive it as a value; nothing reads ambient state.
type Session struct {
	ID          string
	Username    string
	UserID      int64
	Role        string
	AccessToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Store persists sessions in SQL keyed by the hash of an opaque token.
type Store struct {
	db   *sql.DB
	salt string
	ttl  time.Duration
}

func NewStore(db *sql.DB, salt string, ttl time.Duration) *Store {
	return &Store{db: db, salt: salt, ttl: ttl}
}

// Create mints a new session and returns the raw token to hand to the
// browser. The token itself is never stored, only its hash.
func (s *Store) Create(username string, userID int64, role, accessToken string) (string, Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", Session{}, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	sess := Session{
		ID:          uuid.NewString(),
		Username:    username,
		UserID:      userID,
		Role:        role,
		AccessToken: accessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	_, err = s.db.Exec(`
		INSERT INTO session (id, token_hash, username, user_id, role, access_token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sess.ID, auth.HashToken(token, s.salt), sess.Username, sess.UserID,
		sess.Role, sess.AccessToken, sess.CreatedAt.Unix(), sess.ExpiresAt.Unix())
	if err != nil {
		return "", Session{}, fmt.Errorf("failed to insert session: %w", err)
	}

	return token, sess, nil
}

// Get resolves a raw token to its session. Unknown and expired tokens both
// return auth.ErrInvalidToken; expired rows are deleted on the way out.
func (s *Store) Get(token string) (*Session, error) {
	var sess Session
	var createdAt, expiresAt int64

	err := s.db.QueryRow(`
		SELECT id, username, user_id, role, access_token, created_at, expires_at
		FROM session
		WHERE token_hash = $1
	`, auth.HashToken(token, s.salt)).Scan(
		&sess.ID, &sess.Username, &sess.UserID, &sess.Role,
		&sess.AccessToken, &createdAt, &expiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	sess.CreatedAt = time.Unix(createdAt, 0).UTC()
	sess.ExpiresAt = time.Unix(expiresAt, 0).UTC()

	if !time.Now().Before(sess.ExpiresAt) {
		_, _ = s.db.Exec(`DELETE FROM session WHERE id = $1`, sess.ID)
		return nil, auth.ErrInvalidToken
	}

	return &sess, nil
}

// Delete removes the session for a raw token. Deleting an unknown token is
// not an error.
func (s *Store) Delete(token string) error {
	_, err := s.db.Exec(`
		DELETE FROM session WHERE token_hash = $1
	`, auth.HashToken(token, s.salt))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes all sessions past their expiry and reports how many
// rows were deleted.
func (s *Store) PurgeExpired() (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM session WHERE expires_at <= $1
	`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged sessions: %w", err)
	}
	return n, nil
}
