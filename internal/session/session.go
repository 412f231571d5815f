// Package session хранит сессии пользователей в Redis: ключ "session:<uuid>",
// значение - идентификатор пользователя, TTL задаётся конфигурацией.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found or expired")

const keyPrefix = "session:"

type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{client: client, ttl: ttl}
}

// Create issues a new session for the user and returns the session id.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := m.client.Set(ctx, keyPrefix+sessionID, userID, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sessionID, nil
}

// GetUser resolves the session to its user id.
func (m *Manager) GetUser(ctx context.Context, sessionID string) (string, error) {
	userID, err := m.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return userID, nil
}

// Refresh prolongs the session TTL. Used on every authenticated request.
func (m *Manager) Refresh(ctx context.Context, sessionID string) error {
	ok, err := m.client.Expire(ctx, keyPrefix+sessionID, m.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete drops the session. Deleting an unknown session is not an error.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
