package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/kinarahotels/reservation-server/internal/model"
)

// PropertyRepo provides data access to the properties table.
type PropertyRepo struct {
    db *sql.DB
}

// NewPropertyRepo returns a new PropertyRepo bound to the provided database.
func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

const propertyColumns = `id, name, address, description, created_at, updated_at`

func scanProperty(row interface{ Scan(...interface{}) error }) (model.Property, error) {
    var p model.Property
    var desc sql.NullString
    err := row.Scan(&p.ID, &p.Name, &p.Address, &desc, &p.CreatedAt, &p.UpdatedAt)
    if err != nil {
        return p, err
    }
    if desc.Valid {
        d := desc.String
        p.Description = &d
    }
    return p, nil
}

// GetByID fetches a property by id.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (model.Property, error) {
    return scanProperty(r.db.QueryRowContext(ctx,
        `SELECT `+propertyColumns+` FROM properties WHERE id = ? LIMIT 1`, id))
}

// List returns properties visible to the given scope, ordered by
// name.  Scope "all" lists everything; otherwise the name must
// contain the scope fragment.
func (r *PropertyRepo) List(ctx context.Context, scope string) ([]model.Property, error) {
    q := `SELECT ` + propertyColumns + ` FROM properties`
    args := make([]interface{}, 0, 1)
    if scope != "" && !strings.EqualFold(scope, model.ScopeAll) {
        q += ` WHERE name LIKE ?`
        args = append(args, "%"+scope+"%")
    }
    q += ` ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Property, 0)
    for rows.Next() {
        p, err := scanProperty(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a property and returns its ID.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO properties (name, address, description) VALUES (?, ?, ?)`,
        p.Name, p.Address, p.Description)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    p.ID = uint64(id)
    return p.ID, nil
}

// Update rewrites the editable fields of a property.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE properties SET name = ?, address = ?, description = ? WHERE id = ?`,
        p.Name, p.Address, p.Description, p.ID)
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

// Delete removes a property.  Refused with ErrConflict while room
// types still belong to it.
func (r *PropertyRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM room_types WHERE property_id = ?`, id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return sql.ErrNoRows
    }
    return nil
}
