package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"livechat/auth"
	"livechat/logging"
)

var ErrPassphraseRequired = errors.New("stored token is sealed and no passphrase is configured")

// TokenStore is the SQLite-backed auth.CredentialStore. With a passphrase the token
// is sealed at rest.
type TokenStore struct {
	db         *sql.DB
	passphrase string
	log        *slog.Logger
}

func NewTokenStore(db *sql.DB, passphrase string, log *slog.Logger) *TokenStore {
	return &TokenStore{db: db, passphrase: passphrase, log: log}
}

var _ auth.CredentialStore = (*TokenStore)(nil)

// Token returns the stored token or auth.ErrMissingToken
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	var (
		value  []byte
		salt   []byte
		sealed bool
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT value, salt, sealed FROM credentials WHERE key = ?",
		auth.TokenKey,
	).Scan(&value, &salt, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", auth.ErrMissingToken
	}
	if err != nil {
		s.log.ErrorContext(ctx, "database - token - query failed", logging.Err(err))
		return "", err
	}

	if !sealed {
		return string(value), nil
	}
	if s.passphrase == "" {
		return "", ErrPassphraseRequired
	}
	plaintext, err := unseal(s.passphrase, value, salt)
	if err != nil {
		s.log.ErrorContext(ctx, "database - token - unseal failed", logging.Err(err))
		return "", err
	}
	return string(plaintext), nil
}

// SaveToken replaces the stored token
func (s *TokenStore) SaveToken(ctx context.Context, token string) error {
	value := []byte(token)
	var salt []byte
	sealed := s.passphrase != ""
	if sealed {
		var err error
		if value, salt, err = seal(s.passphrase, value); err != nil {
			return err
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (key, value, salt, sealed, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, salt = excluded.salt,
			sealed = excluded.sealed, updated_at = CURRENT_TIMESTAMP`,
		auth.TokenKey, value, salt, sealed,
	)
	if err != nil {
		s.log.ErrorContext(ctx, "database - save token - insert failed", logging.Err(err))
		return err
	}
	s.log.DebugContext(ctx, "database - save token - stored", "sealed", sealed)
	return nil
}

// ClearToken removes the stored token
func (s *TokenStore) ClearToken(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE key = ?", auth.TokenKey)
	return err
}
