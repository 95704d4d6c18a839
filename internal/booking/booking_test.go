package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        panic(err)
    }
    return t
}

func TestOverlap(t *testing.T) {
    cases := []struct {
        name                   string
        inA, outA, inB, outB   string
        want                   bool
    }{
        {"identical ranges", "2026-03-10", "2026-03-12", "2026-03-10", "2026-03-12", true},
        {"contained range", "2026-03-10", "2026-03-20", "2026-03-12", "2026-03-14", true},
        {"partial overlap", "2026-03-10", "2026-03-15", "2026-03-14", "2026-03-18", true},
        {"back to back is free", "2026-03-10", "2026-03-12", "2026-03-12", "2026-03-14", false},
        {"back to back reversed", "2026-03-12", "2026-03-14", "2026-03-10", "2026-03-12", false},
        {"disjoint", "2026-03-10", "2026-03-12", "2026-03-20", "2026-03-22", false},
        {"single shared night", "2026-03-10", "2026-03-12", "2026-03-11", "2026-03-13", true},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got := Overlap(date(tc.inA), date(tc.outA), date(tc.inB), date(tc.outB))
            assert.Equal(t, tc.want, got)
            // The relation is symmetric.
            assert.Equal(t, tc.want, Overlap(date(tc.inB), date(tc.outB), date(tc.inA), date(tc.outA)))
        })
    }
}

func TestNights(t *testing.T) {
    cases := []struct {
        name    string
        in, out string
        want    int
    }{
        {"three nights", "2026-03-10", "2026-03-13", 3},
        {"one night", "2026-03-10", "2026-03-11", 1},
        {"same day counts as one night", "2026-03-10", "2026-03-10", 1},
        {"across month boundary", "2026-03-30", "2026-04-02", 3},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, Nights(date(tc.in), date(tc.out)))
        })
    }
}

func TestNightsPartialDay(t *testing.T) {
    // A range that is not a whole number of days rounds up.
    in := date("2026-03-10")
    out := in.Add(36 * time.Hour)
    assert.Equal(t, 2, Nights(in, out))
}

func TestTotalPrice(t *testing.T) {
    assert.Equal(t, int64(1500000), TotalPrice(500000, date("2026-03-10"), date("2026-03-13")))
    assert.Equal(t, int64(500000), TotalPrice(500000, date("2026-03-10"), date("2026-03-10")))
}
