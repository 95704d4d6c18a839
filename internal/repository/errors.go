// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios: ErrRoomUnavailable aborts the guest booking flow with a
// 409, ErrInvalidTransition rejects an admin status change that the
// status machine forbids.
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a room type that
// still has reservations. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrRoomUnavailable is returned by the transactional check-and-reserve
// when every unit of the requested room type is already taken for an
// overlapping range.
var ErrRoomUnavailable = errors.New("room unavailable for the requested dates")

// ErrInvalidTransition is returned when a status change violates the
// one-directional reservation status machine.
var ErrInvalidTransition = errors.New("invalid status transition")
