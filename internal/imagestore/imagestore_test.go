package imagestore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"timebridge_backend/internal/models"
	"timebridge_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ImageStore, string) {
	t.Helper()
	dir := t.TempDir()
	blobs, err := storage.NewLocalStorage(storage.Config{BasePath: dir})
	require.NoError(t, err)
	return New(blobs), dir
}

func TestRef(t *testing.T) {
	assert.Equal(t, "missing/m0000001/origin.png", Ref(models.KindMissing, "m0000001", models.SlotOrigin))
	assert.Equal(t, "family/f0000002/aging.png", Ref(models.KindFamily, "f0000002", models.SlotAging))
}

func TestSaveSlot(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	ref, err := store.SaveSlot(ctx, models.KindMissing, "m0000001", models.SlotOrigin, bytes.NewReader([]byte("png")))
	require.NoError(t, err)
	assert.Equal(t, "missing/m0000001/origin.png", ref)

	// Каждое объявление живет в своем каталоге
	data, err := os.ReadFile(filepath.Join(dir, "missing", "m0000001", "origin.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestReplace(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveSlot(ctx, models.KindFamily, "f0000001", models.SlotAging, bytes.NewReader([]byte("old")))
	require.NoError(t, err)

	ref, err := store.Replace(ctx, models.KindFamily, "f0000001", models.SlotAging, bytes.NewReader([]byte("new")))
	require.NoError(t, err)

	reader, err := store.Open(ctx, ref)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestDeleteRefs(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	origin, err := store.SaveSlot(ctx, models.KindFamily, "f0000001", models.SlotOrigin, bytes.NewReader([]byte("a")))
	require.NoError(t, err)
	aging, err := store.SaveSlot(ctx, models.KindFamily, "f0000001", models.SlotAging, bytes.NewReader([]byte("b")))
	require.NoError(t, err)

	// Пустой ref пропускается молча
	require.NoError(t, store.DeleteRefs(ctx, origin, "", aging))

	_, err = os.Stat(filepath.Join(dir, "family", "f0000001", "origin.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "family", "f0000001", "aging.png"))
	assert.True(t, os.IsNotExist(err))
}

// Повторное удаление уже отсутствующего файла не ошибка
func TestDeleteRefs_MissingBlob(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.DeleteRefs(context.Background(), "missing/m0000042/origin.png"))
}

func TestURL(t *testing.T) {
	store, _ := newTestStore(t)
	url, err := store.URL(context.Background(), "missing/m0000001/origin.png")
	require.NoError(t, err)
	assert.Equal(t, "/static/missing/m0000001/origin.png", url)
}
