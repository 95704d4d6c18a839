package handler

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
    in, out, err := parseDateRange("2026-03-10", "2026-03-13")
    require.NoError(t, err)
    assert.Equal(t, "2026-03-10", in.Format(dateLayout))
    assert.Equal(t, "2026-03-13", out.Format(dateLayout))
}

func TestParseDateRangeSameDayBecomesOneNight(t *testing.T) {
    in, out, err := parseDateRange("2026-03-10", "2026-03-10")
    require.NoError(t, err)
    assert.Equal(t, "2026-03-10", in.Format(dateLayout))
    assert.Equal(t, "2026-03-11", out.Format(dateLayout))
}

func TestParseDateRangeErrors(t *testing.T) {
    _, _, err := parseDateRange("", "2026-03-13")
    assert.Error(t, err)

    _, _, err = parseDateRange("2026-03-10", "13-03-2026")
    assert.Error(t, err)

    _, _, err = parseDateRange("2026-03-13", "2026-03-10")
    assert.Error(t, err)
}

func testContext() echo.Context {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    return e.NewContext(req, httptest.NewRecorder())
}

func TestGetAdminID(t *testing.T) {
    c := testContext()
    c.Set("admin_id", float64(42)) // JSON-decoded JWT claims are float64
    id, err := getAdminID(c)
    require.NoError(t, err)
    assert.Equal(t, uint64(42), id)

    c.Set("admin_id", "17")
    id, err = getAdminID(c)
    require.NoError(t, err)
    assert.Equal(t, uint64(17), id)

    _, err = getAdminID(testContext())
    assert.ErrorIs(t, err, errNoIdentity)
}

func TestGetScopeDefaultsToAll(t *testing.T) {
    assert.Equal(t, "all", getScope(testContext()))

    c := testContext()
    c.Set("scope", "Kinara Ubud")
    assert.Equal(t, "Kinara Ubud", getScope(c))

    c.Set("scope", "")
    assert.Equal(t, "all", getScope(c))
}
