package model

import "time"

// Admin roles.  A superadmin manages staff accounts and all
// properties; an admin is limited by its scope.
const (
    RoleAdmin      = "admin"
    RoleSuperadmin = "superadmin"
)

// ScopeAll marks an admin account with no property restriction.
const ScopeAll = "all"

// AdminAccount represents a staff credential as stored in the `admins`
// table.  Scope is either "all" or a property-name fragment; every
// admin query filters by it server-side, so the scope claim in the
// access token is an authorization boundary, not a display hint.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – "admin" or "superadmin".
//  Scope        – "all" or a single property-name fragment.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type AdminAccount struct {
    ID           uint64    // admins.id
    Username     string    // admins.username
    PasswordHash string    // admins.password_hash
    Role         string    // admins.role
    Scope        string    // admins.scope
    IsActive     bool      // admins.is_active
    CreatedAt    time.Time // admins.created_at
    UpdatedAt    time.Time // admins.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to an admin account; only the SHA-256 hash of
// the raw token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  AdminID   – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    AdminID   uint64     // refresh_tokens.admin_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
