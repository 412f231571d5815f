package middleware

import (
	"errors"
	"net/http"
	"strings"

	"timebridge_backend/internal/logger"
	"timebridge_backend/internal/repositories"
	"timebridge_backend/internal/session"
	"timebridge_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// extractSessionID достает идентификатор сессии из заголовка X-Session-ID
// или из Authorization: Bearer <id>.
func extractSessionID(c *gin.Context) string {
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return sid
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// resolveSession проверяет сессию, продлевает TTL и кладет пользователя в
// контекст. Возвращает false, если сессия отсутствует или истекла.
func resolveSession(c *gin.Context, sessions *session.Manager, users repositories.UserRepository, db *gorm.DB) bool {
	sessionID := extractSessionID(c)
	if sessionID == "" {
		return false
	}

	ctx := c.Request.Context()

	userID, err := sessions.GetUser(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			logger.CtxWithError(ctx, "не удалось проверить сессию", err)
		}
		return false
	}

	if err := sessions.Refresh(ctx, sessionID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		logger.CtxWithError(ctx, "не удалось продлить сессию", err)
	}

	user, err := users.GetByID(db, userID)
	if err != nil {
		// Сессия пережила аккаунт - считаем её недействительной
		return false
	}

	c.Set("userID", user.UserID)
	c.Set("isAdmin", user.IsAdmin)
	c.Set(string(contextkeys.SessionIDContextKey), sessionID)
	c.Request = c.Request.WithContext(logger.WithUserID(ctx, user.UserID))
	return true
}

func contextDB(c *gin.Context) *gorm.DB {
	val, _ := c.Get(string(contextkeys.DBContextKey))
	db, _ := val.(*gorm.DB)
	return db
}

// AuthMiddleware требует действующую сессию.
func AuthMiddleware(sessions *session.Manager, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolveSession(c, sessions, users, contextDB(c)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session missing or expired"})
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware пускает и анонимов; аутентифицированным кладет
// пользователя в контекст.
func OptionalAuthMiddleware(sessions *session.Manager, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolveSession(c, sessions, users, contextDB(c))
		c.Next()
	}
}

// AdminMiddleware пускает только модераторов. Вешается после AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, _ := c.Get("isAdmin")
		if flag, ok := isAdmin.(bool); !ok || !flag {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}
		c.Next()
	}
}
