package model

import "time"

// RoomType belongs to exactly one property.  TotalStock is the number
// of identical bookable units of this type; the availability check
// counts overlapping reservations against it, treating zero as one
// unit so legacy rows without a stock value still behave as a single
// room.
//
// Fields:
//  ID         – primary key identifier.
//  PropertyID – owning property.
//  Name       – display name (e.g. "Deluxe Twin").
//  BasePrice  – nightly rate in the smallest currency unit.
//  Capacity   – maximum guests per unit.
//  TotalStock – number of identical units.
//  Facilities – comma-separated facility list.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type RoomType struct {
    ID         uint64    // room_types.id
    PropertyID uint64    // room_types.property_id
    Name       string    // room_types.name
    BasePrice  int64     // room_types.base_price
    Capacity   uint32    // room_types.capacity
    TotalStock uint32    // room_types.total_stock
    Facilities string    // room_types.facilities
    CreatedAt  time.Time // room_types.created_at
    UpdatedAt  time.Time // room_types.updated_at
}

// Units returns the effective number of bookable units, never zero.
func (r RoomType) Units() uint32 {
    if r.TotalStock == 0 {
        return 1
    }
    return r.TotalStock
}
