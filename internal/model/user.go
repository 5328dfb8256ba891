package model

import "time"

// User roles.  Controllers get full CRUD; viewers are read-only.
const (
	RoleController = "controller"
	RoleViewer     = "viewer"
)

// User represents a staff account as stored in the `users` table.  The
// json tags are omitted because these structs are used internally by the
// repository layer; handlers define separate response types.  Controllers
// may additionally carry a bcrypt hash of a 4-digit secret used as a
// second login step.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Code         – human-readable USRnnnn code, minted once.
//	FullName     – display name.
//	Email        – unique email address, stored lower-case.
//	PasswordHash – bcrypt hashed password.
//	SecretHash   – bcrypt hash of the controller secret (empty when unset).
//	Provider     – account origin, "local" for self-registered accounts.
//	Role         – controller | viewer.
//	Disabled     – soft account lock; disabled users cannot authenticate.
//	LastLogin    – timestamp of the most recent successful login.
type User struct {
	ID           uint64     // users.id
	Code         string     // users.code
	FullName     string     // users.full_name
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	SecretHash   string     // users.secret_hash
	Provider     string     // users.provider
	Role         string     // users.role
	Disabled     bool       // users.disabled
	LastLogin    *time.Time // users.last_login (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA‑256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
