package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/kinarahotels/reservation-server/internal/model"
    "github.com/kinarahotels/reservation-server/internal/repository"
)

// AdminPropertyHandler serves property management for the console.
// Creating and deleting properties needs an unrestricted scope;
// scoped admins can read and update the properties their scope
// matches.
type AdminPropertyHandler struct {
    Properties *repository.PropertyRepo
}

// scopeMatches applies the same name-fragment rule the repositories
// use in SQL.
func scopeMatches(scope, propertyName string) bool {
    if scope == "" || strings.EqualFold(scope, model.ScopeAll) {
        return true
    }
    return strings.Contains(strings.ToLower(propertyName), strings.ToLower(scope))
}

// List handles GET /v1/admin/properties.
func (h *AdminPropertyHandler) List(c echo.Context) error {
    props, err := h.Properties.List(c.Request().Context(), getScope(c))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    views := make([]propertyView, 0, len(props))
    for _, p := range props {
        views = append(views, toPropertyView(p))
    }
    return c.JSON(http.StatusOK, echo.Map{"properties": views})
}

// Get handles GET /v1/admin/properties/:id.
func (h *AdminPropertyHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    prop, err := h.Properties.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !scopeMatches(getScope(c), prop.Name) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"property": toPropertyView(prop)})
}

type propertyReq struct {
    Name        string  `json:"name"`
    Address     string  `json:"address"`
    Description *string `json:"description"`
}

// Create handles POST /v1/admin/properties.
func (h *AdminPropertyHandler) Create(c echo.Context) error {
    if !scopeIsUnrestricted(c) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "property management requires an unrestricted scope"})
    }
    var req propertyReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Name == "" || req.Address == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
    }
    p := model.Property{Name: req.Name, Address: req.Address, Description: req.Description}
    id, err := h.Properties.Create(c.Request().Context(), &p)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create property"})
    }
    p.ID = id
    return c.JSON(http.StatusCreated, echo.Map{"property": toPropertyView(p)})
}

// Update handles PUT /v1/admin/properties/:id.
func (h *AdminPropertyHandler) Update(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    ctx := c.Request().Context()
    prop, err := h.Properties.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !scopeMatches(getScope(c), prop.Name) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
    }
    var req propertyReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Name != "" {
        prop.Name = req.Name
    }
    if req.Address != "" {
        prop.Address = req.Address
    }
    if req.Description != nil {
        prop.Description = req.Description
    }
    if err := h.Properties.Update(ctx, &prop); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update property"})
    }
    return c.JSON(http.StatusOK, echo.Map{"property": toPropertyView(prop)})
}

// Delete handles DELETE /v1/admin/properties/:id.  Properties that
// still own room types cannot be removed.
func (h *AdminPropertyHandler) Delete(c echo.Context) error {
    if !scopeIsUnrestricted(c) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "property management requires an unrestricted scope"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    if err := h.Properties.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "property still has room types"})
        }
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete property"})
    }
    return c.NoContent(http.StatusNoContent)
}

func scopeIsUnrestricted(c echo.Context) bool {
    scope := getScope(c)
    return scope == "" || strings.EqualFold(scope, model.ScopeAll)
}
