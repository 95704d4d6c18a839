package booking

import (
    "regexp"
    "strconv"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^KNA-(\d{13,})-(\d{1,3})$`)

func TestNewCodeFormat(t *testing.T) {
    code, err := NewCode("KNA")
    require.NoError(t, err)

    m := codePattern.FindStringSubmatch(code)
    require.NotNil(t, m, "code %q does not match expected format", code)

    ms, err := strconv.ParseInt(m[1], 10, 64)
    require.NoError(t, err)
    now := time.Now().UnixMilli()
    assert.InDelta(t, now, ms, float64(5*time.Second/time.Millisecond))

    n, err := strconv.Atoi(m[2])
    require.NoError(t, err)
    assert.GreaterOrEqual(t, n, 0)
    assert.Less(t, n, 1000)
}

func TestNewManualCodeFormat(t *testing.T) {
    code := NewManualCode()
    require.True(t, strings.HasPrefix(code, ManualPrefix+"-"), "code %q", code)

    ms, err := strconv.ParseInt(strings.TrimPrefix(code, ManualPrefix+"-"), 10, 64)
    require.NoError(t, err)
    assert.InDelta(t, time.Now().UnixMilli(), ms, float64(5*time.Second/time.Millisecond))
}
