// Package booking holds the pure reservation arithmetic shared by the
// guest flow, the admin console and the availability checker: the
// half-open date-range overlap rule, night counting and total price.
package booking

import "time"

// Overlap reports whether the half-open ranges [inA, outA) and
// [inB, outB) intersect.  Equal ranges overlap; adjacent ranges
// (outA == inB) do not, so a check-out day can be someone else's
// check-in day.
func Overlap(inA, outA, inB, outB time.Time) bool {
    return inA.Before(outB) && inB.Before(outA)
}

// Nights returns the number of nights between check-in and check-out,
// rounding partial days up and never returning less than 1.  A
// same-day check-in/out is one night, not zero.
func Nights(checkIn, checkOut time.Time) int {
    d := checkOut.Sub(checkIn)
    if d <= 0 {
        return 1
    }
    n := int(d / (24 * time.Hour))
    if d%(24*time.Hour) != 0 {
        n++
    }
    if n < 1 {
        n = 1
    }
    return n
}

// TotalPrice computes the reservation price: nightly base rate times
// the night count.
func TotalPrice(basePrice int64, checkIn, checkOut time.Time) int64 {
    return basePrice * int64(Nights(checkIn, checkOut))
}
