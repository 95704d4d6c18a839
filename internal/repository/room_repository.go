package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/kinarahotels/reservation-server/internal/model"
)

// RoomRepo provides data access to the room_types table.  A room type
// is the bookable unit of the system; its base price and stock feed
// the pricing and availability logic.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the provided database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, property_id, name, base_price, capacity, total_stock, facilities, created_at, updated_at`

// GetByID fetches a room type by id.  Returns sql.ErrNoRows when it
// does not exist.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.RoomType, error) {
    var rt model.RoomType
    err := r.db.QueryRowContext(ctx,
        `SELECT `+roomColumns+` FROM room_types WHERE id = ? LIMIT 1`, id).Scan(
        &rt.ID, &rt.PropertyID, &rt.Name, &rt.BasePrice, &rt.Capacity,
        &rt.TotalStock, &rt.Facilities, &rt.CreatedAt, &rt.UpdatedAt)
    return rt, err
}

// ListByProperty returns all room types belonging to a property,
// ordered by name for deterministic output.
func (r *RoomRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+roomColumns+` FROM room_types WHERE property_id = ? ORDER BY name`, propertyID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.RoomType, 0)
    for rows.Next() {
        var rt model.RoomType
        if err := rows.Scan(
            &rt.ID, &rt.PropertyID, &rt.Name, &rt.BasePrice, &rt.Capacity,
            &rt.TotalStock, &rt.Facilities, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, rt)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a room type and returns its ID.
func (r *RoomRepo) Create(ctx context.Context, rt *model.RoomType) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO room_types (property_id, name, base_price, capacity, total_stock, facilities)
         VALUES (?, ?, ?, ?, ?, ?)`,
        rt.PropertyID, rt.Name, rt.BasePrice, rt.Capacity, rt.TotalStock, rt.Facilities)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    rt.ID = uint64(id)
    return rt.ID, nil
}

// Update rewrites the editable fields of a room type.  Returns
// sql.ErrNoRows when the room type does not exist.
func (r *RoomRepo) Update(ctx context.Context, rt *model.RoomType) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE room_types SET name = ?, base_price = ?, capacity = ?, total_stock = ?, facilities = ?
         WHERE id = ?`,
        rt.Name, rt.BasePrice, rt.Capacity, rt.TotalStock, rt.Facilities, rt.ID)
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

// Delete removes a room type.  The delete is refused with ErrConflict
// while reservations still reference it; history must stay intact.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE room_type_id = ?`, id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM room_types WHERE id = ?`, id)
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

// InScope reports whether the room type's property falls inside the
// admin scope.  A scope of "all" always passes.
func (r *RoomRepo) InScope(ctx context.Context, roomTypeID uint64, scope string) (bool, error) {
    if scope == "" || strings.EqualFold(scope, model.ScopeAll) {
        return true, nil
    }
    var n int
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM room_types rt JOIN properties p ON p.id = rt.property_id
         WHERE rt.id = ? AND p.name LIKE ?`, roomTypeID, "%"+scope+"%").Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}
