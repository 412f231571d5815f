package services

import (
	"context"
	"io"
	"testing"

	"timebridge_backend/internal/aiclient"
	"timebridge_backend/internal/imageprocessor"
	"timebridge_backend/internal/imagestore"
	"timebridge_backend/internal/models"
	"timebridge_backend/internal/repositories"
	"timebridge_backend/internal/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakePostRepo держит объявления в памяти. Аргумент db игнорируется - в
// юнит-тестах соединения с БД нет.
type fakePostRepo struct {
	posts    map[string]models.Post
	deleted  []string
	approved []string
	patched  []repositories.PostPatch

	// contendOnce имитирует гонку за номер: следующая вставка проигрывает -
	// конкурент успевает занять идентификатор первым.
	contendOnce bool
}

func newFakePostRepo(posts ...models.Post) *fakePostRepo {
	repo := &fakePostRepo{posts: map[string]models.Post{}}
	for _, post := range posts {
		repo.posts[post.PostID()] = post
	}
	return repo
}

func (f *fakePostRepo) MaxSuffix(db *gorm.DB, kind models.PostKind) (int64, error) {
	var max int64
	for id := range f.posts {
		postKind, err := models.ParsePostID(id)
		if err != nil || postKind != kind {
			continue
		}
		var suffix int64
		for _, ch := range id[1:] {
			suffix = suffix*10 + int64(ch-'0')
		}
		if suffix > max {
			max = suffix
		}
	}
	return max, nil
}

func (f *fakePostRepo) InsertMissing(db *gorm.DB, post *models.MissingPost) error {
	if f.contendOnce {
		f.contendOnce = false
		f.posts[post.MpID] = &models.MissingPost{MpID: post.MpID, UserID: "rival"}
		return gorm.ErrDuplicatedKey
	}
	if _, exists := f.posts[post.MpID]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.posts[post.MpID] = post
	return nil
}

func (f *fakePostRepo) InsertFamily(db *gorm.DB, post *models.FamilyPost) error {
	if f.contendOnce {
		f.contendOnce = false
		f.posts[post.FpID] = &models.FamilyPost{FpID: post.FpID, UserID: "rival"}
		return gorm.ErrDuplicatedKey
	}
	if _, exists := f.posts[post.FpID]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.posts[post.FpID] = post
	return nil
}

func (f *fakePostRepo) GetPost(db *gorm.DB, kind models.PostKind, id string) (models.Post, error) {
	post, ok := f.posts[id]
	if !ok || post.PostKind() != kind {
		return nil, repositories.ErrPostNotFound
	}
	return post, nil
}

func (f *fakePostRepo) ApplyPatch(db *gorm.DB, kind models.PostKind, id string, patch repositories.PostPatch) error {
	if _, ok := f.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	f.patched = append(f.patched, patch)
	return nil
}

func (f *fakePostRepo) UpdateImageRef(db *gorm.DB, kind models.PostKind, id, slot, ref string) error {
	post, ok := f.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.SetImageRef(slot, ref)
	return nil
}

func (f *fakePostRepo) DeletePost(db *gorm.DB, post models.Post) error {
	if _, ok := f.posts[post.PostID()]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(f.posts, post.PostID())
	f.deleted = append(f.deleted, post.PostID())
	return nil
}

func (f *fakePostRepo) SearchPosts(db *gorm.DB, kind models.PostKind, filters repositories.PostSearchFilters, page, pageSize int) (*repositories.PostPage, error) {
	return &repositories.PostPage{PageSize: pageSize, CurrentPage: page, TotalPages: 1}, nil
}

func (f *fakePostRepo) ListByUser(db *gorm.DB, userID string) (*repositories.UserPosts, error) {
	result := &repositories.UserPosts{}
	for _, post := range f.posts {
		if post.OwnerID() != userID {
			continue
		}
		switch p := post.(type) {
		case *models.MissingPost:
			result.MissingPosts = append(result.MissingPosts, *p)
		case *models.FamilyPost:
			result.FamilyPosts = append(result.FamilyPosts, *p)
		}
	}
	return result, nil
}

func (f *fakePostRepo) PendingPosts(db *gorm.DB) (*repositories.UserPosts, error) {
	return &repositories.UserPosts{}, nil
}

func (f *fakePostRepo) SetApproval(db *gorm.DB, kind models.PostKind, id string, accepted bool) error {
	if _, ok := f.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	f.approved = append(f.approved, id)
	return nil
}

func (f *fakePostRepo) OwnerID(db *gorm.DB, kind models.PostKind, id string) (string, error) {
	post, ok := f.posts[id]
	if !ok {
		return "", repositories.ErrPostNotFound
	}
	return post.OwnerID(), nil
}

type fakeAuditRepo struct {
	entries []models.SyncAudit
}

func (f *fakeAuditRepo) Record(db *gorm.DB, entry *models.SyncAudit) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListByPost(db *gorm.DB, postID string) ([]models.SyncAudit, error) {
	return f.entries, nil
}

type fakeIndexSync struct {
	jobs []aiclient.IndexRequest
}

func (f *fakeIndexSync) Enqueue(job aiclient.IndexRequest) {
	f.jobs = append(f.jobs, job)
}

type fakeAging struct {
	result []byte
	err    error
	calls  []struct{ Source, Target int }
}

func (f *fakeAging) Age(ctx context.Context, image io.Reader, sourceAge, targetAge int) ([]byte, error) {
	f.calls = append(f.calls, struct{ Source, Target int }{sourceAge, targetAge})
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeRanker struct {
	candidates []aiclient.Candidate
	err        error
	lastKind   models.PostKind
}

func (f *fakeRanker) RankByImage(ctx context.Context, kind models.PostKind, genderID int, postID string) ([]aiclient.Candidate, error) {
	f.lastKind = kind
	return f.candidates, f.err
}

func (f *fakeRanker) RankByAttributes(ctx context.Context, attributes string, kind models.PostKind, genderID *int) ([]aiclient.Candidate, error) {
	f.lastKind = kind
	return f.candidates, f.err
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendContact(ownerEmail, postID, fromName, fromEmail, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, ownerEmail)
	return nil
}

func newTestImageStore(t *testing.T) *imagestore.ImageStore {
	t.Helper()
	blobs, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	return imagestore.New(blobs)
}

func newTestPostService(t *testing.T, repo *fakePostRepo) (*PostService, *fakeIndexSync, *fakeAuditRepo, *imagestore.ImageStore, *fakeAging) {
	t.Helper()
	audits := &fakeAuditRepo{}
	index := &fakeIndexSync{}
	aging := &fakeAging{result: []byte("aged-png")}
	images := newTestImageStore(t)
	service := NewPostService(repo, audits, images, imageprocessor.New(1600), aging, index)
	// соединения с БД в юнит-тестах нет - транзакция схлопывается в вызов fn
	service.transact = func(db *gorm.DB, fn func(tx *gorm.DB) error) error {
		return fn(db)
	}
	return service, index, audits, images, aging
}
