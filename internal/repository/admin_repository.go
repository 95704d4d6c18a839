package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/kinarahotels/reservation-server/internal/model"
    "github.com/kinarahotels/reservation-server/internal/utils"
)

// AdminRepo provides data access to the admins table.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

var ErrUsernameExists = errors.New("username already exists")

// Create inserts an admin account and returns its ID.  The password
// is bcrypt-hashed with the given cost before it touches the database.
func (r *AdminRepo) Create(ctx context.Context, username, password, role, scope string, cost int) (uint64, error) {
    username = strings.ToLower(strings.TrimSpace(username))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO admins (username, password_hash, role, scope) VALUES (?,?,?,?)",
        username, hash, role, scope)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrUsernameExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByUsername fetches an admin account by normalized username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (model.AdminAccount, error) {
    username = strings.ToLower(strings.TrimSpace(username))
    var a model.AdminAccount
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,username,password_hash,role,scope,is_active,created_at,updated_at FROM admins WHERE username=? LIMIT 1",
        username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.Scope, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
    return a, err
}

// GetByID fetches an admin account by id.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (model.AdminAccount, error) {
    var a model.AdminAccount
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,username,password_hash,role,scope,is_active,created_at,updated_at FROM admins WHERE id=? LIMIT 1",
        id).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.Scope, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
    return a, err
}

// List returns all admin accounts ordered by username.
func (r *AdminRepo) List(ctx context.Context) ([]model.AdminAccount, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id,username,password_hash,role,scope,is_active,created_at,updated_at FROM admins ORDER BY username")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.AdminAccount, 0)
    for rows.Next() {
        var a model.AdminAccount
        if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.Scope, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// SetActive enables or disables an account.  Disabled accounts cannot
// log in; existing refresh tokens should be revoked by the caller.
func (r *AdminRepo) SetActive(ctx context.Context, id uint64, active bool) error {
    res, err := r.DB.ExecContext(ctx, "UPDATE admins SET is_active=? WHERE id=?", active, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
