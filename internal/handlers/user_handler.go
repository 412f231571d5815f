package handlers

import (
	"net/http"

	"timebridge_backend/internal/services"
	"timebridge_backend/internal/services/dto"
	"timebridge_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService *services.UserService
}

func NewUserHandler(base *BaseHandler, userService *services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// Register создает аккаунт.
// POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateBody(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login проверяет пароль и выдает сессию.
// POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateBody(c, &req) {
		return
	}

	result, err := h.userService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout гасит текущую сессию.
// POST /api/v1/auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	sessionID := h.currentSessionID(c)
	if err := h.userService.Logout(c.Request.Context(), sessionID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Profile возвращает аккаунт текущего пользователя.
// GET /api/v1/users/me
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Profile(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteAccount удаляет аккаунт вместе с его объявлениями.
// DELETE /api/v1/users/me
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), h.GetDB(c), userID, h.currentSessionID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// ContactOwner пересылает сообщение автору объявления.
// POST /api/v1/posts/:id/contact
func (h *UserHandler) ContactOwner(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ContactOwnerRequest
	if !h.BindAndValidateBody(c, &req) {
		return
	}

	if err := h.userService.ContactPostOwner(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), req.Message); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "message sent"})
}

func (h *UserHandler) currentSessionID(c *gin.Context) string {
	val, _ := c.Get(string(contextkeys.SessionIDContextKey))
	sessionID, _ := val.(string)
	return sessionID
}
