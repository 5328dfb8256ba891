package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guuleed/prison-records/internal/config"
	"github.com/guuleed/prison-records/internal/model"
	"github.com/guuleed/prison-records/internal/repository"
	"github.com/guuleed/prison-records/internal/utils"
)

// UserHandler owns the staff account endpoints.  Everything except the
// self-service /me pair is controller-only (enforced in the router).
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Seq   *repository.SequenceRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, s *repository.SequenceRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Seq: s}
}

// userOut is the sanitized account shape: hashes never leave the server.
type userOut struct {
	ID        uint64     `json:"id"`
	Code      string     `json:"code"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Disabled  bool       `json:"disabled"`
	HasSecret bool       `json:"has_secret"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

func toUserOut(u *model.User) userOut {
	return userOut{
		ID:        u.ID,
		Code:      u.Code,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		Disabled:  u.Disabled,
		HasSecret: u.SecretHash != "",
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// List handles GET /v1/users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]userOut, 0, len(users))
	for _, u := range users {
		out = append(out, toUserOut(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// Create handles POST /v1/users.  Unlike self-registration this may
// grant the controller role, optionally seeding the 4-digit login
// secret that arms the second login step.
func (h *UserHandler) Create(c echo.Context) error {
	var body struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Secret   string `json:"secret"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.FullName = strings.TrimSpace(body.FullName)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.FullName == "" || body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name/email/password required"})
	}
	role := strings.ToLower(strings.TrimSpace(body.Role))
	if role != model.RoleController && role != model.RoleViewer {
		role = model.RoleViewer
	}

	hash, err := utils.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	secretHash := ""
	if body.Secret != "" {
		if role != model.RoleController {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "only controllers can hold a login secret"})
		}
		if !utils.ValidSecret(body.Secret) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "secret must be exactly four digits"})
		}
		secretHash, err = utils.HashPassword(body.Secret, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
		}
	}

	ctx := c.Request().Context()
	code, err := h.Seq.NextUserCode(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	u := &model.User{
		Code:         code,
		FullName:     body.FullName,
		Email:        body.Email,
		PasswordHash: hash,
		SecretHash:   secretHash,
		Provider:     "local",
		Role:         role,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": toUserOut(u)})
}

// Update handles PUT /v1/users/:id.  Fields left out of the body keep
// their current value; passing an empty secret clears the second login
// step.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
		Role     *string `json:"role"`
		Password *string `json:"password"`
		Secret   *string `json:"secret"`
		Disabled *bool   `json:"disabled"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	upd := repository.UserUpdate{
		FullName: body.FullName,
		Email:    body.Email,
		Disabled: body.Disabled,
	}
	if body.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*body.Role))
		if role != model.RoleController && role != model.RoleViewer {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		upd.Role = &role
	}
	if body.Password != nil {
		if *body.Password == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must not be empty"})
		}
		hash, err := utils.HashPassword(*body.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		upd.PasswordHash = &hash
	}
	if body.Secret != nil {
		if *body.Secret == "" {
			empty := ""
			upd.SecretHash = &empty
		} else {
			if !utils.ValidSecret(*body.Secret) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "secret must be exactly four digits"})
			}
			hash, err := utils.HashPassword(*body.Secret, h.Cfg.BcryptCost)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
			}
			upd.SecretHash = &hash
		}
	}

	ctx := c.Request().Context()
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	u, err := h.Users.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toUserOut(u)})
}

// SetDisabled handles POST /v1/users/:id/disable and /enable.
func (h *UserHandler) SetDisabled(disabled bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		ctx := c.Request().Context()
		if _, err := h.Users.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if err := h.Users.SetDisabled(ctx, id, disabled); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// Me handles GET /v1/me for the authenticated account.
func (h *UserHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toUserOut(u)})
}

// UpdateMe handles PUT /v1/me: name changes plus password and secret
// rotation.  Credential changes require the current password.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		FullName        *string `json:"full_name"`
		CurrentPassword string  `json:"current_password"`
		NewPassword     *string `json:"new_password"`
		Secret          *string `json:"secret"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	upd := repository.UserUpdate{FullName: body.FullName}
	if body.NewPassword != nil || body.Secret != nil {
		if !utils.VerifyPassword(u.PasswordHash, body.CurrentPassword) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password incorrect"})
		}
	}
	if body.NewPassword != nil {
		if *body.NewPassword == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password must not be empty"})
		}
		hash, err := utils.HashPassword(*body.NewPassword, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		upd.PasswordHash = &hash
	}
	if body.Secret != nil {
		if u.Role != model.RoleController {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only controllers can hold a login secret"})
		}
		if *body.Secret == "" {
			empty := ""
			upd.SecretHash = &empty
		} else {
			if !utils.ValidSecret(*body.Secret) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "secret must be exactly four digits"})
			}
			hash, err := utils.HashPassword(*body.Secret, h.Cfg.BcryptCost)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
			}
			upd.SecretHash = &hash
		}
	}

	out, err := h.Users.Update(ctx, uid, upd)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toUserOut(out)})
}
