// Package imagestore maps post photographs onto the blob storage. Every post
// owns a directory <kind>/<post_id>/ holding up to two slots, origin.png and
// aging.png. Refs returned here are what the post rows persist.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"sync"

	"timebridge_backend/internal/logger"
	"timebridge_backend/internal/models"
	"timebridge_backend/internal/storage"
)

const contentTypePNG = "image/png"

// Ref builds the storage ref for a post's slot: "missing/m0000001/origin.png".
func Ref(kind models.PostKind, postID, slot string) string {
	return fmt.Sprintf("%s/%s/%s.png", kind.Dir(), postID, slot)
}

type ImageStore struct {
	blobs storage.Storage

	// per-post locks serialize replace (delete+write) against readers
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(blobs storage.Storage) *ImageStore {
	return &ImageStore{
		blobs: blobs,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *ImageStore) lockFor(postID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[postID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[postID] = lock
	}
	return lock
}

// SaveSlot writes the PNG bytes into the post's slot and returns the ref.
// An existing blob at the slot is overwritten.
func (s *ImageStore) SaveSlot(ctx context.Context, kind models.PostKind, postID, slot string, data io.Reader) (string, error) {
	lock := s.lockFor(postID)
	lock.Lock()
	defer lock.Unlock()

	ref := Ref(kind, postID, slot)
	if err := s.blobs.Save(ctx, ref, data, contentTypePNG); err != nil {
		return "", fmt.Errorf("failed to store image %s: %w", ref, err)
	}
	return ref, nil
}

// Replace deletes the slot first and then writes the new content, so a
// half-finished write never masquerades as the old image.
func (s *ImageStore) Replace(ctx context.Context, kind models.PostKind, postID, slot string, data io.Reader) (string, error) {
	lock := s.lockFor(postID)
	lock.Lock()
	defer lock.Unlock()

	ref := Ref(kind, postID, slot)
	if err := s.blobs.Delete(ctx, ref); err != nil {
		return "", fmt.Errorf("failed to drop old image %s: %w", ref, err)
	}
	if err := s.blobs.Save(ctx, ref, data, contentTypePNG); err != nil {
		return "", fmt.Errorf("failed to store image %s: %w", ref, err)
	}
	return ref, nil
}

// DeleteRefs removes the given blobs best-effort: every ref is attempted and
// the first error is returned after the pass. Пустые refs пропускаем.
func (s *ImageStore) DeleteRefs(ctx context.Context, refs ...string) error {
	var firstErr error
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, ref); err != nil {
			logger.CtxWithError(ctx, "не удалось удалить файл изображения", err, "ref", ref)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Open returns the blob behind the ref for reading.
func (s *ImageStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return s.blobs.Get(ctx, ref)
}

// URL returns the public URL of the blob behind the ref.
func (s *ImageStore) URL(ctx context.Context, ref string) (string, error) {
	return s.blobs.GetURL(ctx, ref)
}
