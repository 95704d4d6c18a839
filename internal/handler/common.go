package handler

import (
    "errors"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/kinarahotels/reservation-server/internal/model"
)

// errNoIdentity is returned when the JWT middleware did not leave a
// usable admin id in the context.
var errNoIdentity = errors.New("no authenticated admin in context")

// getAdminID extracts the authenticated account id stored by the
// JWTAuth middleware.  Claims decoded from JSON arrive as float64.
func getAdminID(c echo.Context) (uint64, error) {
    switch v := c.Get("admin_id").(type) {
    case float64:
        return uint64(v), nil
    case uint64:
        return v, nil
    case string:
        if n, err := strconv.ParseUint(v, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errNoIdentity
}

// getScope returns the property scope claim, defaulting to "all" only
// when the claim is entirely absent (tokens issued before scopes were
// added).  An empty string claim is treated the same way.
func getScope(c echo.Context) string {
    if s, ok := c.Get("scope").(string); ok && s != "" {
        return s
    }
    return model.ScopeAll
}

const dateLayout = "2006-01-02"

// parseDateRange parses check-in/check-out strings and normalizes a
// same-day range to one night.  It returns an error when either date
// is malformed or check-out precedes check-in.
func parseDateRange(checkIn, checkOut string) (time.Time, time.Time, error) {
    in, err := time.Parse(dateLayout, checkIn)
    if err != nil {
        return time.Time{}, time.Time{}, errors.New("invalid check_in date")
    }
    out, err := time.Parse(dateLayout, checkOut)
    if err != nil {
        return time.Time{}, time.Time{}, errors.New("invalid check_out date")
    }
    if out.Before(in) {
        return time.Time{}, time.Time{}, errors.New("check_out before check_in")
    }
    if out.Equal(in) {
        // Same-day stays count as one night.
        out = in.AddDate(0, 0, 1)
    }
    return in, out, nil
}
