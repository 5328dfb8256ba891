package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/guuleed/prison-records/internal/model"
)

const userColumns = "id, code, full_name, email, password_hash, secret_hash, provider, role, disabled, last_login, created_at, updated_at"

// UserRepo persists staff accounts.  Password and secret hashes are
// prepared by the caller; this layer never sees plain credentials.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user and populates its ID.  The email is normalized to
// lower case; a duplicate maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (code, full_name, email, password_hash, secret_hash, provider, role) VALUES (?,?,?,?,?,?,?)",
		u.Code, u.FullName, u.Email, u.PasswordHash, u.SecretHash, u.Provider, u.Role)
	if err != nil {
		// 1062 = ER_DUP_ENTRY
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM users WHERE id = ?", u.ID).
		Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email)
	return scanUserNotFound(row)
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return scanUserNotFound(row)
}

// List returns locally registered accounts, newest first.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE provider = 'local' ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UserUpdate enumerates the user fields an update may touch.  Nil fields
// are left unchanged; hashes arrive pre-computed.
type UserUpdate struct {
	FullName     *string
	Email        *string
	Role         *string
	PasswordHash *string
	SecretHash   *string
	Disabled     *bool
}

// Update applies a field-by-field patch and returns the updated user.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) (*model.User, error) {
	set := []string{}
	args := []any{}
	if upd.FullName != nil {
		set = append(set, "full_name = ?")
		args = append(args, *upd.FullName)
	}
	if upd.Email != nil {
		set = append(set, "email = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(*upd.Email)))
	}
	if upd.Role != nil {
		set = append(set, "role = ?")
		args = append(args, *upd.Role)
	}
	if upd.PasswordHash != nil {
		set = append(set, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.SecretHash != nil {
		set = append(set, "secret_hash = ?")
		args = append(args, *upd.SecretHash)
	}
	if upd.Disabled != nil {
		set = append(set, "disabled = ?")
		args = append(args, *upd.Disabled)
	}
	if len(set) > 0 {
		q := "UPDATE users SET " + strings.Join(set, ", ") + ", updated_at = CURRENT_TIMESTAMP WHERE id = ?"
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return nil, ErrEmailExists
			}
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// SetDisabled locks or unlocks an account.
func (r *UserRepo) SetDisabled(ctx context.Context, id uint64, disabled bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET disabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", disabled, id)
	return err
}

// TouchLastLogin stamps the most recent successful login.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = NOW() WHERE id = ?", id)
	return err
}

// CountAll returns the total number of accounts, used by the dashboard.
func (r *UserRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

func scanUserNotFound(row rowScanner) (*model.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u         model.User
		lastLogin sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Code, &u.FullName, &u.Email, &u.PasswordHash, &u.SecretHash,
		&u.Provider, &u.Role, &u.Disabled, &lastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}
