package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/washday/internal/apperror"
	"github.com/sakif/washday/internal/model"
	"github.com/sakif/washday/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. The caller provides Username, Email, and
// PasswordHash; ID and timestamps are filled in here.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetByUsername retrieves a user by their unique username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

// GetByEmail retrieves a user by email. Blank emails never match — many
// users may have no email on file.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ? AND email != ''`, email)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user (%v): %w", arg, err)
	}

	return &u, nil
}
