package handlers

import (
	"io"
	"net/http"
	"strconv"

	"timebridge_backend/internal/models"
	"timebridge_backend/internal/services"
	"timebridge_backend/internal/services/dto"
	"timebridge_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	*BaseHandler
	postService *services.PostService
	maxUpload   int64
}

func NewPostHandler(base *BaseHandler, postService *services.PostService, maxUpload int64) *PostHandler {
	return &PostHandler{
		BaseHandler: base,
		postService: postService,
		maxUpload:   maxUpload,
	}
}

// Create регистрирует объявление: multipart-форма с полями и фотографией.
// POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !h.BindAndValidateBody(c, &req) {
		return
	}

	// Фотография необязательна при создании - ее можно догрузить обновлением
	photo, ok := h.OpenUploadedPhoto(c, h.maxUpload)
	if !ok {
		return
	}
	var photoReader io.Reader
	if photo != nil {
		defer photo.Close()
		photoReader = photo
	}

	post, err := h.postService.Create(c.Request.Context(), h.GetDB(c), userID, &req, photoReader)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// Update применяет частичный патч; фотография опциональна.
// PUT /api/v1/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if !h.BindAndValidateBody(c, &req) {
		return
	}

	photo, ok := h.OpenUploadedPhoto(c, h.maxUpload)
	if !ok {
		return
	}

	var photoReader io.Reader
	if photo != nil {
		defer photo.Close()
		photoReader = photo
	}

	post, err := h.postService.Update(c.Request.Context(), h.GetDB(c), userID, h.IsAdmin(c), c.Param("id"), &req, photoReader)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete снимает объявление.
// DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), h.GetDB(c), userID, h.IsAdmin(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// Detail возвращает карточку объявления.
// GET /api/v1/posts/:id
func (h *PostHandler) Detail(c *gin.Context) {
	// Аутентификация опциональна: автор видит и неодобренное
	requesterID, _ := c.Get("userID")
	requester, _ := requesterID.(string)

	post, err := h.postService.Detail(c.Request.Context(), h.GetDB(c), c.Param("id"), requester, h.IsAdmin(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// SearchMissing ищет одобренные объявления пропавших.
// GET /api/v1/posts/missing
func (h *PostHandler) SearchMissing(c *gin.Context) {
	h.search(c, models.KindMissing)
}

// SearchFamily ищет одобренные объявления семей.
// GET /api/v1/posts/family
func (h *PostHandler) SearchFamily(c *gin.Context) {
	h.search(c, models.KindFamily)
}

func (h *PostHandler) search(c *gin.Context, kind models.PostKind) {
	var req dto.SearchPostsRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}

	page, err := h.postService.Search(c.Request.Context(), h.GetDB(c), kind, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// MyPosts возвращает объявления текущего пользователя.
// GET /api/v1/users/me/posts
func (h *PostHandler) MyPosts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	posts, err := h.postService.MyPosts(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// RegenerateAging пересчитывает состаренное фото семейного объявления.
// POST /api/v1/posts/:id/aging
func (h *PostHandler) RegenerateAging(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	post, err := h.postService.RegenerateAging(c.Request.Context(), h.GetDB(c), userID, h.IsAdmin(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// AgingPreview состаривает загруженную фотографию без создания объявления.
// Форма: img (файл), missing_birth (YYYY-MM-DD), photo_age (возраст на фото).
// POST /api/v1/posts/aging-preview
func (h *PostHandler) AgingPreview(c *gin.Context) {
	photo, ok := h.OpenUploadedPhoto(c, h.maxUpload)
	if !ok {
		return
	}
	if photo == nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("img file is required"))
		return
	}
	defer photo.Close()

	photoAge, err := strconv.Atoi(c.PostForm("photo_age"))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("photo_age must be an integer"))
		return
	}

	aged, err := h.postService.AgingPreview(c.Request.Context(), photo, c.PostForm("missing_birth"), photoAge)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", aged)
}
