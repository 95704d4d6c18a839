package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/kinarahotels/reservation-server/internal/model"
    "github.com/kinarahotels/reservation-server/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: property
// and room listings guests read before booking.  These routes sit
// behind the response cache, so handlers return stable JSON shapes.
type PublicHandler struct {
    Properties *repository.PropertyRepo
    Rooms      *repository.RoomRepo
}

type propertyView struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    Address     string  `json:"address"`
    Description *string `json:"description,omitempty"`
}

type roomView struct {
    ID         uint64 `json:"id"`
    PropertyID uint64 `json:"property_id"`
    Name       string `json:"name"`
    BasePrice  int64  `json:"base_price"`
    Capacity   uint32 `json:"capacity"`
    TotalStock uint32 `json:"total_stock"`
    Facilities string `json:"facilities"`
}

func toPropertyView(p model.Property) propertyView {
    return propertyView{ID: p.ID, Name: p.Name, Address: p.Address, Description: p.Description}
}

func toRoomView(r model.RoomType) roomView {
    return roomView{
        ID:         r.ID,
        PropertyID: r.PropertyID,
        Name:       r.Name,
        BasePrice:  r.BasePrice,
        Capacity:   r.Capacity,
        TotalStock: r.Units(),
        Facilities: r.Facilities,
    }
}

// ListProperties handles GET /v1/properties.
func (h *PublicHandler) ListProperties(c echo.Context) error {
    props, err := h.Properties.List(c.Request().Context(), model.ScopeAll)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    views := make([]propertyView, 0, len(props))
    for _, p := range props {
        views = append(views, toPropertyView(p))
    }
    return c.JSON(http.StatusOK, echo.Map{"properties": views})
}

// ListRooms handles GET /v1/properties/:id/rooms.
func (h *PublicHandler) ListRooms(c echo.Context) error {
    propertyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || propertyID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    ctx := c.Request().Context()
    prop, err := h.Properties.GetByID(ctx, propertyID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    rooms, err := h.Rooms.ListByProperty(ctx, propertyID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    views := make([]roomView, 0, len(rooms))
    for _, r := range rooms {
        views = append(views, toRoomView(r))
    }
    return c.JSON(http.StatusOK, echo.Map{"property": toPropertyView(prop), "rooms": views})
}

// GetRoom handles GET /v1/rooms/:id.
func (h *PublicHandler) GetRoom(c echo.Context) error {
    roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || roomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    room, err := h.Rooms.GetByID(c.Request().Context(), roomID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"room": toRoomView(room)})
}
