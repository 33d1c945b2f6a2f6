package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stitchline/pos-backend/pos"
)

// =============================================================================
// USERS
// =============================================================================
// Credential storage is a plaintext equality check carried over from the
// reference system; redesigning it is explicitly out of scope.

// Authenticate returns the user matching username and password, or nil
// when the credentials do not match any account.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*pos.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u pos.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, role FROM users WHERE username = ? AND password = ?",
		username, password,
	).Scan(&u.ID, &u.Username, &u.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return &u, nil
}

// UpdatePassword sets a new password for the named account. Returns
// false when no such account exists.
func (s *Store) UpdatePassword(ctx context.Context, username, newPassword string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password = ? WHERE username = ?",
		newPassword, username,
	)
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	return affected > 0, nil
}
