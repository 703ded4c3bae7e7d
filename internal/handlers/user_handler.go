package handlers

import (
	"log/slog"
	"net/http"

	"github.com/HridhimaDabhade/tpem-project/internal/dtos"
	"github.com/HridhimaDabhade/tpem-project/internal/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users *services.UserService
	Log   *slog.Logger
}

func NewUserHandler(users *services.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{Users: users, Log: log}
}

// Login is POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.TokenResponse{
		AccessToken: res.Token,
		TokenType:   "bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        dtos.NewUserResponse(res.User),
	})
}

// Me is GET /auth/me
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Users.Me(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewUserResponse(u))
}

// Create is POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req dtos.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.Create(c.Request.Context(), actorFrom(c), services.UserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewUserResponse(u))
}

// List is GET /users
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.Users.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewUserList(list))
}

// Get is GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewUserResponse(u))
}

// Update is PATCH /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dtos.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.Update(c.Request.Context(), actorFrom(c), c.Param("id"), services.UserPatch{
		FullName: req.FullName,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewUserResponse(u))
}

// Delete is DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
