package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"testing"
	"time"

	"timebridge_backend/internal/aiclient"
	"timebridge_backend/internal/models"
	"timebridge_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebridge_backend/pkg/apperrors"
)

func boolPtr(v bool) *bool { return &v }

func missingFixture(id, owner string, accepted *bool) *models.MissingPost {
	post := &models.MissingPost{
		MpID:        id,
		MissingName: "Петров Петр",
		GenderID:    1,
		UserID:      owner,
		IsAccept:    accepted,
	}
	post.SetImageRef(models.SlotOrigin, "missing/"+id+"/origin.png")
	return post
}

func familyFixture(id, owner string, accepted *bool) *models.FamilyPost {
	age := 6
	post := &models.FamilyPost{
		FpID:         id,
		MissingName:  "Сидорова Анна",
		GenderID:     2,
		MissingBirth: time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC),
		PhotoAge:     &age,
		UserID:       owner,
		IsAccept:     accepted,
	}
	post.SetImageRef(models.SlotOrigin, "family/"+id+"/origin.png")
	post.SetImageRef(models.SlotAging, "family/"+id+"/aging.png")
	return post
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)

	// День рождения уже был в этом году
	assert.Equal(t, 30, AgeAt(birth, time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC)))
	// Ровно в день рождения
	assert.Equal(t, 30, AgeAt(birth, time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)))
	// День рождения еще впереди
	assert.Equal(t, 29, AgeAt(birth, time.Date(2020, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, AgeAt(birth, time.Date(2020, 5, 20, 0, 0, 0, 0, time.UTC)))
	// Дата рождения в будущем не дает отрицательный возраст
	assert.Equal(t, 0, AgeAt(birth, time.Date(1989, 1, 1, 0, 0, 0, 0, time.UTC)))
}

// Идентификатор и пути изображений детерминированы: по kind и номеру
// восстанавливается и id, и оба ref.
func TestBuildPost_DeterministicRefs(t *testing.T) {
	birth := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	age := 4
	req := &dto.CreatePostRequest{Type: 1, Name: "Тест", GenderID: 1, PhotoAge: &age}

	post := buildPost(models.KindFamily, "f0000003", "user1", req, &birth, nil, true)
	family := post.(*models.FamilyPost)
	assert.Equal(t, "f0000003", family.FpID)
	assert.Equal(t, "family/f0000003/origin.png", family.OriginImageRef())
	assert.Equal(t, "family/f0000003/aging.png", family.AgingImageRef())

	reqMissing := &dto.CreatePostRequest{Type: 2, Name: "Тест", GenderID: 2}
	missing := buildPost(models.KindMissing, "m0000010", "user2", reqMissing, nil, nil, true)
	assert.Equal(t, "missing/m0000010/origin.png", missing.OriginImageRef())
	assert.Empty(t, missing.AgingImageRef())

	// Без фотографии строки создаются с пустыми ссылками
	bare := buildPost(models.KindMissing, "m0000011", "user2", reqMissing, nil, nil, false)
	assert.Empty(t, bare.OriginImageRef())
}

func TestBuildPatch_EmptyRequestIsEmptyPatch(t *testing.T) {
	patch, err := buildPatch(&dto.UpdatePostRequest{})
	require.NoError(t, err)
	// Пустой патч не трогает ни одну колонку
	assert.Nil(t, patch.MissingName)
	assert.Nil(t, patch.GenderID)
	assert.Nil(t, patch.MissingBirth)
	assert.Nil(t, patch.MissingDate)
	assert.Nil(t, patch.MissingSituation)
	assert.Nil(t, patch.MissingExtraEvidence)
	assert.Nil(t, patch.MissingPlace)
	assert.Nil(t, patch.PhotoAge)
}

func photoUpload(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 20))))
	return &buf
}

func missingCreateReq() *dto.CreatePostRequest {
	return &dto.CreatePostRequest{Type: 2, Name: "Петров Петр", GenderID: 1}
}

func familyCreateReq() *dto.CreatePostRequest {
	age := 6
	return &dto.CreatePostRequest{Type: 1, Name: "Сидорова Анна", GenderID: 2, Birth: "1995-03-15", PhotoAge: &age}
}

// Номера выдаются по MAX+1 внутри своего вида: виды не влияют друг на друга,
// а удаление не освобождает номер, пока есть строка с большим номером.
func TestCreate_EndToEndIDSequence(t *testing.T) {
	repo := newFakePostRepo()
	service, index, _, _, _ := newTestPostService(t, repo)
	ctx := context.Background()

	first, err := service.Create(ctx, nil, "owner", missingCreateReq(), photoUpload(t))
	require.NoError(t, err)
	assert.Equal(t, "m0000001", first.PostID)

	family, err := service.Create(ctx, nil, "owner", familyCreateReq(), photoUpload(t))
	require.NoError(t, err)
	assert.Equal(t, "f0000001", family.PostID)

	second, err := service.Create(ctx, nil, "owner", missingCreateReq(), photoUpload(t))
	require.NoError(t, err)
	assert.Equal(t, "m0000002", second.PostID)

	require.NoError(t, service.Delete(ctx, nil, "owner", false, "m0000001"))

	third, err := service.Create(ctx, nil, "owner", missingCreateReq(), photoUpload(t))
	require.NoError(t, err)
	assert.Equal(t, "m0000003", third.PostID)

	// 4 вставки и одно удаление дошли до индексов
	assert.Len(t, index.jobs, 5)
}

func TestCreate_RetriesOnIDCollision(t *testing.T) {
	repo := newFakePostRepo(missingFixture("m0000001", "owner", boolPtr(true)))
	repo.contendOnce = true
	service, _, _, _, _ := newTestPostService(t, repo)

	created, err := service.Create(context.Background(), nil, "owner", missingCreateReq(), photoUpload(t))
	require.NoError(t, err)

	// m0000002 достался конкуренту, повторная попытка взяла следующий номер
	assert.Equal(t, "m0000003", created.PostID)
	assert.Equal(t, "rival", repo.posts["m0000002"].OwnerID())
}

func TestCreate_FamilyUsesAgedImageForIndexes(t *testing.T) {
	repo := newFakePostRepo()
	service, index, _, _, aging := newTestPostService(t, repo)

	created, err := service.Create(context.Background(), nil, "owner", familyCreateReq(), photoUpload(t))
	require.NoError(t, err)
	assert.Equal(t, "f0000001", created.PostID)

	require.Len(t, aging.calls, 1)
	assert.Equal(t, 6, aging.calls[0].Source)

	require.Len(t, index.jobs, 1)
	assert.Equal(t, aiclient.OpInsert, index.jobs[0].Op)
	assert.Equal(t, []byte("aged-png"), index.jobs[0].Image)
}

// Без фотографии объявление регистрируется с пустыми ссылками; файлов и
// уведомлений индексам нет
func TestCreate_WithoutPhoto(t *testing.T) {
	repo := newFakePostRepo()
	service, index, audits, _, aging := newTestPostService(t, repo)

	created, err := service.Create(context.Background(), nil, "owner", missingCreateReq(), nil)
	require.NoError(t, err)
	assert.Equal(t, "m0000001", created.PostID)
	assert.Empty(t, created.OriginImageURL)

	assert.Empty(t, repo.posts["m0000001"].OriginImageRef())
	assert.Empty(t, index.jobs)
	assert.Empty(t, audits.entries)
	assert.Empty(t, aging.calls)
}

// Правка полей без новой фотографии не трогает ни файлы, ни индексы -
// и не оставляет следов в журнале сверки
func TestUpdate_FieldOnlyPatchDoesNotNotifyIndexes(t *testing.T) {
	repo := newFakePostRepo(missingFixture("m0000001", "owner", boolPtr(true)))
	service, index, audits, _, _ := newTestPostService(t, repo)

	name := "Иванов Иван"
	updated, err := service.Update(context.Background(), nil, "owner", false, "m0000001", &dto.UpdatePostRequest{Name: &name}, nil)
	require.NoError(t, err)
	assert.Equal(t, "m0000001", updated.PostID)

	require.Len(t, repo.patched, 1)
	require.NotNil(t, repo.patched[0].MissingName)
	assert.Equal(t, "Иванов Иван", *repo.patched[0].MissingName)

	assert.Empty(t, index.jobs)
	assert.Empty(t, audits.entries)
}

// Новая фотография уходит в индексы теми же байтами, что легли в слот
func TestUpdate_PhotoReplacementNotifiesIndexes(t *testing.T) {
	repo := newFakePostRepo(missingFixture("m0000001", "owner", boolPtr(true)))
	service, index, _, images, _ := newTestPostService(t, repo)
	ctx := context.Background()

	_, err := service.Update(ctx, nil, "owner", false, "m0000001", &dto.UpdatePostRequest{}, photoUpload(t))
	require.NoError(t, err)

	require.Len(t, index.jobs, 1)
	job := index.jobs[0]
	assert.Equal(t, aiclient.OpUpdate, job.Op)
	assert.Equal(t, "m0000001", job.PostID)
	assert.Equal(t, models.KindMissing, job.Kind)

	stored, err := images.Open(ctx, "missing/m0000001/origin.png")
	require.NoError(t, err)
	defer stored.Close()
	onDisk, err := io.ReadAll(stored)
	require.NoError(t, err)
	assert.Equal(t, onDisk, job.Image)
}

// Догрузка фотографии к объявлению, созданному без нее, дописывает
// ссылки на слоты в строку
func TestUpdate_PersistsRefsForImagelessPost(t *testing.T) {
	repo := newFakePostRepo()
	service, index, _, _, _ := newTestPostService(t, repo)
	ctx := context.Background()

	created, err := service.Create(ctx, nil, "owner", missingCreateReq(), nil)
	require.NoError(t, err)
	require.Empty(t, repo.posts[created.PostID].OriginImageRef())

	updated, err := service.Update(ctx, nil, "owner", false, created.PostID, &dto.UpdatePostRequest{}, photoUpload(t))
	require.NoError(t, err)

	assert.Equal(t, "missing/m0000001/origin.png", repo.posts["m0000001"].OriginImageRef())
	assert.NotEmpty(t, updated.OriginImageURL)
	require.Len(t, index.jobs, 1)
	assert.Equal(t, aiclient.OpUpdate, index.jobs[0].Op)
}

func TestUpdate_UnknownPost(t *testing.T) {
	service, _, _, _, _ := newTestPostService(t, newFakePostRepo())

	name := "Иванов Иван"
	_, err := service.Update(context.Background(), nil, "owner", false, "m0000042", &dto.UpdatePostRequest{Name: &name}, nil)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestUpdate_ForbiddenForStranger(t *testing.T) {
	repo := newFakePostRepo(missingFixture("m0000001", "owner", boolPtr(true)))
	service, index, _, _, _ := newTestPostService(t, repo)

	name := "Чужое имя"
	_, err := service.Update(context.Background(), nil, "stranger", false, "m0000001", &dto.UpdatePostRequest{Name: &name}, nil)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)

	assert.Empty(t, repo.patched)
	assert.Empty(t, index.jobs)
}

func TestDelete_RemovesImagesAndNotifiesIndexes(t *testing.T) {
	post := missingFixture("m0000001", "owner", boolPtr(true))
	repo := newFakePostRepo(post)
	service, index, audits, images, _ := newTestPostService(t, repo)
	ctx := context.Background()

	// Кладем файл, который должен исчезнуть вместе с объявлением
	_, err := images.SaveSlot(ctx, models.KindMissing, "m0000001", models.SlotOrigin, bytes.NewReader([]byte("png")))
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, nil, "owner", false, "m0000001"))

	assert.Equal(t, []string{"m0000001"}, repo.deleted)
	assert.Empty(t, audits.entries)

	require.Len(t, index.jobs, 1)
	assert.Equal(t, aiclient.OpDelete, index.jobs[0].Op)
	assert.Equal(t, "m0000001", index.jobs[0].PostID)
	assert.Equal(t, models.KindMissing, index.jobs[0].Kind)
	assert.Nil(t, index.jobs[0].Image)
}

func TestDelete_ForbiddenForStranger(t *testing.T) {
	post := missingFixture("m0000001", "owner", boolPtr(true))
	repo := newFakePostRepo(post)
	service, index, _, _, _ := newTestPostService(t, repo)

	err := service.Delete(context.Background(), nil, "stranger", false, "m0000001")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)

	assert.Empty(t, repo.deleted)
	assert.Empty(t, index.jobs)
}

func TestDelete_AdminOverridesOwnership(t *testing.T) {
	post := missingFixture("m0000001", "owner", boolPtr(true))
	repo := newFakePostRepo(post)
	service, _, _, _, _ := newTestPostService(t, repo)

	require.NoError(t, service.Delete(context.Background(), nil, "moderator", true, "m0000001"))
	assert.Equal(t, []string{"m0000001"}, repo.deleted)
}

func TestDelete_InvalidID(t *testing.T) {
	service, _, _, _, _ := newTestPostService(t, newFakePostRepo())

	err := service.Delete(context.Background(), nil, "owner", false, "x123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPostID)
}

func TestAgingPreview(t *testing.T) {
	service, _, _, _, aging := newTestPostService(t, newFakePostRepo())

	var photo bytes.Buffer
	require.NoError(t, png.Encode(&photo, image.NewRGBA(image.Rect(0, 0, 20, 20))))

	// Возраст на фото 6, сейчас ей 31 (родилась 1995-03-15)
	aged, err := service.AgingPreview(context.Background(), &photo, "1995-03-15", 6)
	require.NoError(t, err)
	assert.Equal(t, []byte("aged-png"), aged)

	require.Len(t, aging.calls, 1)
	assert.Equal(t, 6, aging.calls[0].Source)
	assert.Equal(t, AgeAt(time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC), time.Now()), aging.calls[0].Target)
}

func TestAgingPreview_BadInput(t *testing.T) {
	service, _, _, _, aging := newTestPostService(t, newFakePostRepo())

	var photo bytes.Buffer
	require.NoError(t, png.Encode(&photo, image.NewRGBA(image.Rect(0, 0, 20, 20))))

	_, err := service.AgingPreview(context.Background(), bytes.NewReader(photo.Bytes()), "15.03.1995", 6)
	require.Error(t, err)

	_, err = service.AgingPreview(context.Background(), bytes.NewReader(photo.Bytes()), "1995-03-15", -1)
	require.Error(t, err)

	_, err = service.AgingPreview(context.Background(), bytes.NewReader([]byte("not an image")), "1995-03-15", 6)
	require.Error(t, err)

	assert.Empty(t, aging.calls)
}

func TestModerate_ApproveSetsFlag(t *testing.T) {
	repo := newFakePostRepo(missingFixture("m0000001", "owner", nil))
	service, index, _, _, _ := newTestPostService(t, repo)

	require.NoError(t, service.Moderate(context.Background(), nil, "m0000001", true))

	assert.Equal(t, []string{"m0000001"}, repo.approved)
	assert.Empty(t, repo.deleted)
	assert.Empty(t, index.jobs)
}

// Отклонение - это полное снятие объявления, включая файлы и индексы
func TestModerate_RejectDeletesEverything(t *testing.T) {
	repo := newFakePostRepo(familyFixture("f0000001", "owner", nil))
	service, index, _, _, _ := newTestPostService(t, repo)

	require.NoError(t, service.Moderate(context.Background(), nil, "f0000001", false))

	assert.Empty(t, repo.approved)
	assert.Equal(t, []string{"f0000001"}, repo.deleted)
	require.Len(t, index.jobs, 1)
	assert.Equal(t, aiclient.OpDelete, index.jobs[0].Op)
}

func TestDetail_HidesUnapprovedFromStrangers(t *testing.T) {
	post := missingFixture("m0000001", "owner", nil) // решения модератора еще нет
	repo := newFakePostRepo(post)
	service, _, _, _, _ := newTestPostService(t, repo)
	ctx := context.Background()

	// Чужому - 404
	_, err := service.Detail(ctx, nil, "m0000001", "stranger", false)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)

	// Автор видит свое
	detail, err := service.Detail(ctx, nil, "m0000001", "owner", false)
	require.NoError(t, err)
	assert.Equal(t, "m0000001", detail.PostID)

	// Модератор тоже
	_, err = service.Detail(ctx, nil, "m0000001", "someone", true)
	assert.NoError(t, err)
}

func TestDetail_RejectedStaysHidden(t *testing.T) {
	post := missingFixture("m0000001", "owner", boolPtr(false))
	repo := newFakePostRepo(post)
	service, _, _, _, _ := newTestPostService(t, repo)

	_, err := service.Detail(context.Background(), nil, "m0000001", "stranger", false)
	assert.Error(t, err)
}

func TestRegenerateAging(t *testing.T) {
	post := familyFixture("f0000001", "owner", boolPtr(true))
	repo := newFakePostRepo(post)
	service, index, _, images, aging := newTestPostService(t, repo)
	ctx := context.Background()

	_, err := images.SaveSlot(ctx, models.KindFamily, "f0000001", models.SlotOrigin, bytes.NewReader([]byte("origin-png")))
	require.NoError(t, err)

	_, err = service.RegenerateAging(ctx, nil, "owner", false, "f0000001")
	require.NoError(t, err)

	// Исходный возраст берется из photo_age, целевой - из даты рождения
	require.Len(t, aging.calls, 1)
	assert.Equal(t, 6, aging.calls[0].Source)
	assert.Equal(t, AgeAt(post.MissingBirth, time.Now()), aging.calls[0].Target)

	// Индексы получают новое состаренное фото
	require.Len(t, index.jobs, 1)
	assert.Equal(t, aiclient.OpUpdate, index.jobs[0].Op)
	assert.Equal(t, []byte("aged-png"), index.jobs[0].Image)
}

func TestRegenerateAging_MissingKindRejected(t *testing.T) {
	post := missingFixture("m0000001", "owner", boolPtr(true))
	repo := newFakePostRepo(post)
	service, _, _, _, _ := newTestPostService(t, repo)

	_, err := service.RegenerateAging(context.Background(), nil, "owner", false, "m0000001")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("2001-02-03")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC), *parsed)

	parsed, err = parseDate("")
	require.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = parseDate("03.02.2001")
	assert.Error(t, err)
}
