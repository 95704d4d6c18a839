package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
    "golang.org/x/crypto/bcrypt"

    "github.com/kinarahotels/reservation-server/internal/model"
    "github.com/kinarahotels/reservation-server/internal/repository"
)

// AdminStaffHandler serves staff-account management.  Every route is
// mounted behind RequireRole(superadmin).
type AdminStaffHandler struct {
    Admins *repository.AdminRepo
    Tokens *repository.TokenRepo
}

type createStaffReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
    Role     string `json:"role"`
    Scope    string `json:"scope"`
}

// Create handles POST /v1/admin/staff.
func (h *AdminStaffHandler) Create(c echo.Context) error {
    var req createStaffReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Username == "" || len(req.Password) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and a password of at least 8 characters are required"})
    }
    if req.Role == "" {
        req.Role = model.RoleAdmin
    }
    if req.Role != model.RoleAdmin && req.Role != model.RoleSuperadmin {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin or superadmin"})
    }
    if req.Scope == "" {
        req.Scope = model.ScopeAll
    }
    id, err := h.Admins.Create(c.Request().Context(), req.Username, req.Password, req.Role, req.Scope, bcrypt.DefaultCost)
    if err != nil {
        if errors.Is(err, repository.ErrUsernameExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create account"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":       id,
        "username": req.Username,
        "role":     req.Role,
        "scope":    req.Scope,
    })
}

type staffView struct {
    ID       uint64 `json:"id"`
    Username string `json:"username"`
    Role     string `json:"role"`
    Scope    string `json:"scope"`
    IsActive bool   `json:"is_active"`
}

// List handles GET /v1/admin/staff.
func (h *AdminStaffHandler) List(c echo.Context) error {
    accounts, err := h.Admins.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    views := make([]staffView, 0, len(accounts))
    for _, a := range accounts {
        views = append(views, staffView{ID: a.ID, Username: a.Username, Role: a.Role, Scope: a.Scope, IsActive: a.IsActive})
    }
    return c.JSON(http.StatusOK, echo.Map{"staff": views})
}

// Deactivate handles POST /v1/admin/staff/:id/deactivate.  The
// account keeps its rows but can no longer log in, and all of its
// refresh tokens are revoked so outstanding sessions die at access
// token expiry.
func (h *AdminStaffHandler) Deactivate(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
    }
    if self, err := getAdminID(c); err == nil && self == id {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot deactivate your own account"})
    }
    ctx := c.Request().Context()
    if err := h.Admins.SetActive(ctx, id, false); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate account"})
    }
    if err := h.Tokens.RevokeAllForAdmin(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account deactivated but token revocation failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": false})
}

// Activate handles POST /v1/admin/staff/:id/activate.
func (h *AdminStaffHandler) Activate(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
    }
    if err := h.Admins.SetActive(c.Request().Context(), id, true); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to activate account"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": true})
}
