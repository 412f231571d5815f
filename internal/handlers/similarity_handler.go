package handlers

import (
	"net/http"

	"timebridge_backend/internal/services"
	"timebridge_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SimilarityHandler struct {
	*BaseHandler
	similarityService *services.SimilarityService
}

func NewSimilarityHandler(base *BaseHandler, similarityService *services.SimilarityService) *SimilarityHandler {
	return &SimilarityHandler{
		BaseHandler:       base,
		similarityService: similarityService,
	}
}

// Similar возвращает объявления противоположного вида, похожие на фото
// объявления id, в порядке убывания балла. Для аутентифицированных запросов
// собственные объявления исключаются из выдачи; ?limit обрезает список.
// GET /api/v1/posts/:id/similar
func (h *SimilarityHandler) Similar(c *gin.Context) {
	result, err := h.similarityService.FindSimilar(
		c.Request.Context(), h.GetDB(c), c.Param("id"),
		h.optionalUserID(c), ParseQueryInt(c, "limit", 0))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SimilarByAttributes ищет объявления по текстовому описанию примет.
// POST /api/v1/posts/similar-by-attributes
func (h *SimilarityHandler) SimilarByAttributes(c *gin.Context) {
	var req dto.AttributeSearchRequest
	if !h.BindAndValidateBody(c, &req) {
		return
	}

	results, err := h.similarityService.FindSimilarByAttributes(
		c.Request.Context(), h.GetDB(c), &req,
		h.optionalUserID(c), ParseQueryInt(c, "limit", 0))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"similar_posts": results})
}

// optionalUserID - идентификатор пользователя, если запрос аутентифицирован
func (h *SimilarityHandler) optionalUserID(c *gin.Context) string {
	userIDVal, _ := c.Get("userID")
	userID, _ := userIDVal.(string)
	return userID
}
