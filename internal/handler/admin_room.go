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

// AdminRoomHandler serves room-type management for the console.  All
// operations are bounded by the caller's property scope.
type AdminRoomHandler struct {
    Properties *repository.PropertyRepo
    Rooms      *repository.RoomRepo
}

type roomReq struct {
    PropertyID uint64 `json:"property_id"`
    Name       string `json:"name"`
    BasePrice  int64  `json:"base_price"`
    Capacity   uint32 `json:"capacity"`
    TotalStock uint32 `json:"total_stock"`
    Facilities string `json:"facilities"`
}

// Create handles POST /v1/admin/rooms.
func (h *AdminRoomHandler) Create(c echo.Context) error {
    var req roomReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.PropertyID == 0 || req.Name == "" || req.BasePrice <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "property_id, name and a positive base_price are required"})
    }
    ctx := c.Request().Context()
    prop, err := h.Properties.GetByID(ctx, req.PropertyID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !scopeMatches(getScope(c), prop.Name) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "property is outside your scope"})
    }
    rt := model.RoomType{
        PropertyID: req.PropertyID,
        Name:       req.Name,
        BasePrice:  req.BasePrice,
        Capacity:   req.Capacity,
        TotalStock: req.TotalStock,
        Facilities: req.Facilities,
    }
    if _, err := h.Rooms.Create(ctx, &rt); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room type"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"room": toRoomView(rt)})
}

// Update handles PUT /v1/admin/rooms/:id.  The owning property cannot
// be changed; moving rooms between properties would detach their
// reservation history.
func (h *AdminRoomHandler) Update(c echo.Context) error {
    rt, ok := h.loadScopedRoom(c)
    if !ok {
        return nil
    }
    var req roomReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Name != "" {
        rt.Name = req.Name
    }
    if req.BasePrice > 0 {
        rt.BasePrice = req.BasePrice
    }
    if req.Capacity > 0 {
        rt.Capacity = req.Capacity
    }
    if req.TotalStock > 0 {
        rt.TotalStock = req.TotalStock
    }
    if req.Facilities != "" {
        rt.Facilities = req.Facilities
    }
    if err := h.Rooms.Update(c.Request().Context(), &rt); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update room type"})
    }
    return c.JSON(http.StatusOK, echo.Map{"room": toRoomView(rt)})
}

// Delete handles DELETE /v1/admin/rooms/:id.  Room types with
// reservation history cannot be removed.
func (h *AdminRoomHandler) Delete(c echo.Context) error {
    rt, ok := h.loadScopedRoom(c)
    if !ok {
        return nil
    }
    if err := h.Rooms.Delete(c.Request().Context(), rt.ID); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room type has reservations"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete room type"})
    }
    return c.NoContent(http.StatusNoContent)
}

// loadScopedRoom parses :id, fetches the room and verifies scope,
// writing the error response itself on failure.
func (h *AdminRoomHandler) loadScopedRoom(c echo.Context) (model.RoomType, bool) {
    var zero model.RoomType
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
        return zero, false
    }
    ctx := c.Request().Context()
    rt, err := h.Rooms.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            _ = c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        } else {
            _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        return zero, false
    }
    ok, err := h.Rooms.InScope(ctx, rt.ID, getScope(c))
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        return zero, false
    }
    if !ok {
        _ = c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        return zero, false
    }
    return rt, true
}
