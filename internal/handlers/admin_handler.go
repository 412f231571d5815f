package handlers

import (
	"net/http"

	"timebridge_backend/internal/services"
	"timebridge_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminHandler обслуживает модерацию. Все маршруты защищены admin-middleware.
type AdminHandler struct {
	*BaseHandler
	postService *services.PostService
}

func NewAdminHandler(base *BaseHandler, postService *services.PostService) *AdminHandler {
	return &AdminHandler{
		BaseHandler: base,
		postService: postService,
	}
}

// Pending возвращает объявления, ждущие решения модератора.
// GET /api/v1/admin/posts/pending
func (h *AdminHandler) Pending(c *gin.Context) {
	posts, err := h.postService.PendingPosts(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Moderate фиксирует решение по объявлению.
// PUT /api/v1/admin/posts/:id/moderation
func (h *AdminHandler) Moderate(c *gin.Context) {
	var req dto.ModerationRequest
	if !h.BindAndValidateBody(c, &req) {
		return
	}

	if err := h.postService.Moderate(c.Request.Context(), h.GetDB(c), c.Param("id"), req.Accept); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "moderation saved"})
}
