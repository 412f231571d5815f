package contextkeys

// Кастомный тип ключа, чтобы избежать коллизий в context
type contextKey string

// DBContextKey - ключ, по которому *gorm.DB хранится в context
const DBContextKey = contextKey("db")

// SessionIDContextKey - ключ, по которому хранится идентификатор сессии
const SessionIDContextKey = contextKey("session_id")
