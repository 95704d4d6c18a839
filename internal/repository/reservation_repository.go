package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/kinarahotels/reservation-server/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  The
// availability check and the insert that follows it run inside one
// transaction with locking reads, so two guests racing for the last
// unit cannot both end up with a pending reservation.  All timestamp
// fields are assumed to be stored in UTC and dates use the half-open
// [check_in, check_out) convention.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const dateLayout = "2006-01-02"

// ReservationRecord mirrors the schema of the reservations table.  It
// is used internally by the repository when constructing or scanning
// rows.  Business logic should use the model.Reservation type instead.
type ReservationRecord struct {
    ID            uint64
    BookingCode   string
    PropertyID    uint64
    RoomTypeID    uint64
    GuestName     string
    GuestEmail    string
    GuestPhone    string
    GuestNotes    *string
    CheckIn       time.Time
    CheckOut      time.Time
    TotalGuests   uint32
    TotalPrice    int64
    Status        string
    PaymentMethod string
    Source        string
    CreatedAt     time.Time
    UpdatedAt     time.Time
}

// Model converts the record into the domain type.
func (rec *ReservationRecord) Model() model.Reservation {
    return model.Reservation{
        ID:            rec.ID,
        BookingCode:   rec.BookingCode,
        PropertyID:    rec.PropertyID,
        RoomTypeID:    rec.RoomTypeID,
        GuestName:     rec.GuestName,
        GuestEmail:    rec.GuestEmail,
        GuestPhone:    rec.GuestPhone,
        GuestNotes:    rec.GuestNotes,
        CheckIn:       rec.CheckIn,
        CheckOut:      rec.CheckOut,
        TotalGuests:   rec.TotalGuests,
        TotalPrice:    rec.TotalPrice,
        Status:        model.ReservationStatus(rec.Status),
        PaymentMethod: rec.PaymentMethod,
        Source:        rec.Source,
        CreatedAt:     rec.CreatedAt,
        UpdatedAt:     rec.UpdatedAt,
    }
}

// CountOverlapping returns the number of non-cancelled reservations
// for the room type whose date range overlaps [checkIn, checkOut)
// under the half-open rule: existing.check_in < checkOut AND
// checkIn < existing.check_out.  Pending and paid reservations both
// count as occupying a unit; only cancelled ones are ignored.
func (r *ReservationRepo) CountOverlapping(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time) (int, error) {
    const q = `SELECT COUNT(*) FROM reservations
               WHERE room_type_id = ? AND status <> 'cancelled'
                 AND check_in < ? AND ? < check_out`
    var n int
    err := r.db.QueryRowContext(ctx, q, roomTypeID,
        checkOut.Format(dateLayout), checkIn.Format(dateLayout)).Scan(&n)
    if err != nil {
        return 0, err
    }
    return n, nil
}

// countOverlappingTx is the locking variant used inside the booking
// transaction.  It selects the overlapping rows FOR UPDATE so a
// concurrent booking for the same room type blocks until this
// transaction commits or rolls back.
func (r *ReservationRepo) countOverlappingTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, checkIn, checkOut time.Time) (int, error) {
    const q = `SELECT id FROM reservations
               WHERE room_type_id = ? AND status <> 'cancelled'
                 AND check_in < ? AND ? < check_out
               FOR UPDATE`
    rows, err := tx.QueryContext(ctx, q, roomTypeID,
        checkOut.Format(dateLayout), checkIn.Format(dateLayout))
    if err != nil {
        return 0, err
    }
    defer rows.Close()
    n := 0
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return 0, err
        }
        n++
    }
    if err := rows.Err(); err != nil {
        return 0, err
    }
    return n, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided record.  The caller must commit or rollback the
// transaction.  Status should be a valid model.ReservationStatus
// value; the guest flow always inserts pending_payment.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *ReservationRecord) error {
    const q = `INSERT INTO reservations
               (booking_code, property_id, room_type_id, guest_name, guest_email, guest_phone, guest_notes,
                check_in, check_out, total_guests, total_price, status, payment_method, source)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q,
        rec.BookingCode, rec.PropertyID, rec.RoomTypeID,
        rec.GuestName, rec.GuestEmail, rec.GuestPhone, rec.GuestNotes,
        rec.CheckIn.Format(dateLayout), rec.CheckOut.Format(dateLayout),
        rec.TotalGuests, rec.TotalPrice, rec.Status, rec.PaymentMethod, rec.Source)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    // Query back the row to populate timestamps and defaults
    const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, rec.ID).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// Reserve atomically checks availability and inserts the reservation.
// It opens a transaction, locks every non-cancelled reservation
// overlapping the requested range, compares the count against the
// room's unit stock and inserts only when at least one unit is free.
// When force is true the availability check is skipped entirely (the
// admin overbooking override).  ErrRoomUnavailable is returned when
// all units are taken and no partial state is left behind.
func (r *ReservationRepo) Reserve(ctx context.Context, rec *ReservationRecord, units uint32, force bool) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if !force {
        taken, err := r.countOverlappingTx(ctx, tx, rec.RoomTypeID, rec.CheckIn, rec.CheckOut)
        if err != nil {
            return err
        }
        if units == 0 {
            units = 1
        }
        if taken >= int(units) {
            return ErrRoomUnavailable
        }
    }
    if err := r.CreateTx(ctx, tx, rec); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByBookingCode fetches a reservation by its business key.  The
// payment gateway only knows the order id it was given, so the webhook
// reconciler looks reservations up by booking_code rather than primary
// key.  Returns sql.ErrNoRows when no such booking exists.
func (r *ReservationRepo) GetByBookingCode(ctx context.Context, code string) (*ReservationRecord, error) {
    const q = `SELECT id, booking_code, property_id, room_type_id,
                      guest_name, guest_email, guest_phone, guest_notes,
                      check_in, check_out, total_guests, total_price,
                      status, payment_method, source, created_at, updated_at
               FROM reservations WHERE booking_code = ? LIMIT 1`
    return r.scanOne(r.db.QueryRowContext(ctx, q, code))
}

// GetByID fetches a reservation by primary key.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*ReservationRecord, error) {
    const q = `SELECT id, booking_code, property_id, room_type_id,
                      guest_name, guest_email, guest_phone, guest_notes,
                      check_in, check_out, total_guests, total_price,
                      status, payment_method, source, created_at, updated_at
               FROM reservations WHERE id = ? LIMIT 1`
    return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *ReservationRepo) scanOne(row *sql.Row) (*ReservationRecord, error) {
    var rec ReservationRecord
    var notes sql.NullString
    err := row.Scan(
        &rec.ID, &rec.BookingCode, &rec.PropertyID, &rec.RoomTypeID,
        &rec.GuestName, &rec.GuestEmail, &rec.GuestPhone, &notes,
        &rec.CheckIn, &rec.CheckOut, &rec.TotalGuests, &rec.TotalPrice,
        &rec.Status, &rec.PaymentMethod, &rec.Source, &rec.CreatedAt, &rec.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if notes.Valid {
        n := notes.String
        rec.GuestNotes = &n
    }
    return &rec, nil
}

// ApplyPaymentStatus reconciles a gateway-reported status onto the
// reservation identified by booking code.  It is idempotent by guard,
// not by accident: the update only fires while the row is still
// pending_payment, so re-delivered notifications and late demotions of
// a terminal status are no-ops.  The returned bool reports whether a
// row actually changed.  sql.ErrNoRows is returned when the booking
// code is unknown.
func (r *ReservationRepo) ApplyPaymentStatus(ctx context.Context, code string, target model.ReservationStatus) (bool, error) {
    cur, err := r.GetByBookingCode(ctx, code)
    if err != nil {
        return false, err
    }
    current := model.ReservationStatus(cur.Status)
    if target == current || target == model.StatusPendingPayment {
        return false, nil
    }
    if !current.CanTransitionTo(target) {
        // Already reconciled or moved on by an admin; nothing to do.
        return false, nil
    }
    const q = `UPDATE reservations SET status = ?
               WHERE booking_code = ? AND status = 'pending_payment'`
    res, err := r.db.ExecContext(ctx, q, target, code)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// TransitionStatus performs an admin-driven status change.  The update
// is conditional on the expected current status, so a concurrent
// change makes it a no-op and the caller receives
// ErrInvalidTransition instead of silently clobbering state.
func (r *ReservationRepo) TransitionStatus(ctx context.Context, id uint64, from, to model.ReservationStatus) error {
    if !from.CanTransitionTo(to) {
        return ErrInvalidTransition
    }
    const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, to, id, from)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrInvalidTransition
    }
    return nil
}

// CancelStalePending cancels pending_payment reservations created
// before the cutoff.  The sweeper runs this on a timer so abandoned
// gateway sessions do not occupy rooms forever.  It returns the number
// of reservations cancelled.
func (r *ReservationRepo) CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
    const q = `UPDATE reservations SET status = 'cancelled'
               WHERE status = 'pending_payment' AND created_at < ?`
    res, err := r.db.ExecContext(ctx, q, cutoff.UTC())
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// ReservationDetail pairs a reservation with its property and room
// names for admin listings.
type ReservationDetail struct {
    ID            uint64    `json:"id"`
    BookingCode   string    `json:"booking_code"`
    PropertyID    uint64    `json:"property_id"`
    PropertyName  string    `json:"property_name"`
    RoomTypeID    uint64    `json:"room_type_id"`
    RoomTypeName  string    `json:"room_type_name"`
    GuestName     string    `json:"guest_name"`
    GuestEmail    string    `json:"guest_email"`
    GuestPhone    string    `json:"guest_phone"`
    GuestNotes    *string   `json:"guest_notes,omitempty"`
    CheckIn       string    `json:"check_in"`
    CheckOut      string    `json:"check_out"`
    TotalGuests   uint32    `json:"total_guests"`
    TotalPrice    int64     `json:"total_price"`
    Status        string    `json:"status"`
    PaymentMethod string    `json:"payment_method"`
    Source        string    `json:"source"`
    CreatedAt     time.Time `json:"created_at"`
}

// ListScoped returns reservations visible to an admin account ordered
// by creation time descending.  Scope filtering happens in SQL: a
// scope of "all" matches everything, anything else matches properties
// whose name contains the fragment.  Client-side filtering is never
// trusted as an authorization boundary.
func (r *ReservationRepo) ListScoped(ctx context.Context, scope string) ([]ReservationDetail, error) {
    q := `SELECT r.id, r.booking_code, r.property_id, p.name, r.room_type_id, rt.name,
                 r.guest_name, r.guest_email, r.guest_phone, r.guest_notes,
                 r.check_in, r.check_out, r.total_guests, r.total_price,
                 r.status, r.payment_method, r.source, r.created_at
          FROM reservations r
          JOIN properties p ON p.id = r.property_id
          JOIN room_types rt ON rt.id = r.room_type_id`
    args := make([]interface{}, 0, 1)
    if !scopeIsAll(scope) {
        q += ` WHERE p.name LIKE ?`
        args = append(args, "%"+scope+"%")
    }
    q += ` ORDER BY r.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanDetails(rows)
}

// ListForCalendar returns the non-cancelled reservations of one
// property that overlap [from, to), feeding the admin occupancy
// calendar.  Scope is enforced the same way as in ListScoped.
func (r *ReservationRepo) ListForCalendar(ctx context.Context, propertyID uint64, from, to time.Time, scope string) ([]ReservationDetail, error) {
    q := `SELECT r.id, r.booking_code, r.property_id, p.name, r.room_type_id, rt.name,
                 r.guest_name, r.guest_email, r.guest_phone, r.guest_notes,
                 r.check_in, r.check_out, r.total_guests, r.total_price,
                 r.status, r.payment_method, r.source, r.created_at
          FROM reservations r
          JOIN properties p ON p.id = r.property_id
          JOIN room_types rt ON rt.id = r.room_type_id
          WHERE r.property_id = ? AND r.status <> 'cancelled'
            AND r.check_in < ? AND ? < r.check_out`
    args := []interface{}{propertyID, to.Format(dateLayout), from.Format(dateLayout)}
    if !scopeIsAll(scope) {
        q += ` AND p.name LIKE ?`
        args = append(args, "%"+scope+"%")
    }
    q += ` ORDER BY r.check_in, rt.name`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanDetails(rows)
}

func scanDetails(rows *sql.Rows) ([]ReservationDetail, error) {
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        var d ReservationDetail
        var notes sql.NullString
        var checkIn, checkOut time.Time
        if err := rows.Scan(
            &d.ID, &d.BookingCode, &d.PropertyID, &d.PropertyName, &d.RoomTypeID, &d.RoomTypeName,
            &d.GuestName, &d.GuestEmail, &d.GuestPhone, &notes,
            &checkIn, &checkOut, &d.TotalGuests, &d.TotalPrice,
            &d.Status, &d.PaymentMethod, &d.Source, &d.CreatedAt,
        ); err != nil {
            return nil, err
        }
        if notes.Valid {
            n := notes.String
            d.GuestNotes = &n
        }
        d.CheckIn = checkIn.Format(dateLayout)
        d.CheckOut = checkOut.Format(dateLayout)
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

func scopeIsAll(scope string) bool {
    return scope == "" || strings.EqualFold(scope, model.ScopeAll)
}

// Available is a convenience wrapper over CountOverlapping for the
// advisory availability endpoint: the room type is free when fewer
// than `units` overlapping reservations exist.  Callers must
// normalize the range first (see booking.Nights for the same-day
// rule).
func (r *ReservationRepo) Available(ctx context.Context, roomTypeID uint64, units uint32, checkIn, checkOut time.Time) (bool, error) {
    taken, err := r.CountOverlapping(ctx, roomTypeID, checkIn, checkOut)
    if err != nil {
        return false, err
    }
    if units == 0 {
        units = 1
    }
    return taken < int(units), nil
}
