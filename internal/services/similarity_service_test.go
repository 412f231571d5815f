package services

import (
	"context"
	"errors"
	"testing"

	"timebridge_backend/internal/aiclient"
	"timebridge_backend/internal/models"
	"timebridge_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebridge_backend/pkg/apperrors"
)

func newTestSimilarityService(t *testing.T, repo *fakePostRepo, ranker *fakeRanker) *SimilarityService {
	t.Helper()
	posts, _, _, _, _ := newTestPostService(t, repo)
	return NewSimilarityService(repo, ranker, posts)
}

func familyCandidate(id, owner string, genderID int, accepted *bool) *models.FamilyPost {
	post := familyFixture(id, owner, accepted)
	post.GenderID = genderID
	return post
}

// Кандидаты идут по убыванию балла; не прошедшие фильтры выпадают молча.
func TestFindSimilar_MergeAndExclusions(t *testing.T) {
	query := missingFixture("m0000001", "owner", boolPtr(true)) // gender 1
	accepted := familyCandidate("f0000001", "family1", 1, boolPtr(true))
	pending := familyCandidate("f0000002", "family2", 1, nil)
	alsoAccepted := familyCandidate("f0000003", "family3", 1, boolPtr(true))
	wrongGender := familyCandidate("f0000004", "family4", 2, boolPtr(true))

	repo := newFakePostRepo(query, accepted, pending, alsoAccepted, wrongGender)
	// Сервис похожести не гарантирует порядок - сортируем сами
	ranker := &fakeRanker{candidates: []aiclient.Candidate{
		{MissingID: "f0000001", Score: 0.70},
		{MissingID: "f0000003", Score: 0.95},
		{MissingID: "f0000002", Score: 0.90}, // не прошел модерацию
		{MissingID: "f0000777", Score: 0.85}, // индекс отстал от БД
		{MissingID: "m0000009", Score: 0.80}, // чужой вид
		{MissingID: "f0000004", Score: 0.78}, // пол не совпадает с целевым
		{MissingID: "m0000001", Score: 0.99}, // сам таргет
		{MissingID: "", Score: 0.75},
	}}
	service := newTestSimilarityService(t, repo, ranker)

	result, err := service.FindSimilar(context.Background(), nil, "m0000001", "", 0)
	require.NoError(t, err)

	// Запрос был от missing-объявления - ищем в индексе family
	assert.Equal(t, models.KindMissing, ranker.lastKind)
	assert.Equal(t, "m0000001", result.Target.PostID)

	require.Len(t, result.Similar, 2)
	assert.Equal(t, "f0000003", result.Similar[0].Post.PostID)
	assert.InDelta(t, 0.95, result.Similar[0].Score, 1e-9)
	assert.Equal(t, "f0000001", result.Similar[1].Post.PostID)
	assert.InDelta(t, 0.70, result.Similar[1].Score, 1e-9)
}

func TestFindSimilar_ExcludesRequesterOwnPosts(t *testing.T) {
	query := missingFixture("m0000001", "requester", boolPtr(true))
	own := familyCandidate("f0000001", "requester", 1, boolPtr(true))
	foreign := familyCandidate("f0000002", "family2", 1, boolPtr(true))

	repo := newFakePostRepo(query, own, foreign)
	ranker := &fakeRanker{candidates: []aiclient.Candidate{
		{MissingID: "f0000001", Score: 0.9},
		{MissingID: "f0000002", Score: 0.8},
	}}
	service := newTestSimilarityService(t, repo, ranker)

	result, err := service.FindSimilar(context.Background(), nil, "m0000001", "requester", 0)
	require.NoError(t, err)

	require.Len(t, result.Similar, 1)
	assert.Equal(t, "f0000002", result.Similar[0].Post.PostID)
}

// Обрезка по limit выполняется по рангу, до обращения к БД.
func TestFindSimilar_Limit(t *testing.T) {
	query := missingFixture("m0000001", "owner", boolPtr(true))
	first := familyCandidate("f0000001", "family1", 1, boolPtr(true))
	second := familyCandidate("f0000002", "family2", 1, boolPtr(true))

	repo := newFakePostRepo(query, first, second)
	ranker := &fakeRanker{candidates: []aiclient.Candidate{
		{MissingID: "f0000002", Score: 0.6},
		{MissingID: "f0000001", Score: 0.9},
	}}
	service := newTestSimilarityService(t, repo, ranker)

	result, err := service.FindSimilar(context.Background(), nil, "m0000001", "", 1)
	require.NoError(t, err)

	require.Len(t, result.Similar, 1)
	assert.Equal(t, "f0000001", result.Similar[0].Post.PostID)
}

func TestFindSimilar_UnknownQueryPost(t *testing.T) {
	service := newTestSimilarityService(t, newFakePostRepo(), &fakeRanker{})

	_, err := service.FindSimilar(context.Background(), nil, "m0000042", "", 0)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestFindSimilar_RankerDown(t *testing.T) {
	query := missingFixture("m0000001", "owner", boolPtr(true))
	ranker := &fakeRanker{err: errors.New("connection refused")}
	service := newTestSimilarityService(t, newFakePostRepo(query), ranker)

	_, err := service.FindSimilar(context.Background(), nil, "m0000001", "", 0)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
}

func TestFindSimilar_InvalidID(t *testing.T) {
	service := newTestSimilarityService(t, newFakePostRepo(), &fakeRanker{})

	_, err := service.FindSimilar(context.Background(), nil, "zzz", "", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPostID)
}

// Поиск по приметам резолвит кандидатов по их собственному префиксу,
// без привязки к виду опрошенного индекса.
func TestFindSimilarByAttributes(t *testing.T) {
	accepted := missingFixture("m0000005", "owner", boolPtr(true))
	repo := newFakePostRepo(accepted)
	ranker := &fakeRanker{candidates: []aiclient.Candidate{
		{MissingID: "m0000005", Score: 0.66},
	}}
	service := newTestSimilarityService(t, repo, ranker)

	results, err := service.FindSimilarByAttributes(context.Background(), nil, &dto.AttributeSearchRequest{
		Attributes: "шрам на левой щеке",
		Type:       2,
	}, "", 0)
	require.NoError(t, err)

	assert.Equal(t, models.KindMissing, ranker.lastKind)
	require.Len(t, results, 1)
	assert.Equal(t, "m0000005", results[0].Post.PostID)
}

// Фильтр пола включается только для вида "семья" с явно заданным полом.
func TestFindSimilarByAttributes_GenderFilterFamilyOnly(t *testing.T) {
	male := familyCandidate("f0000001", "family1", 1, boolPtr(true))
	female := familyCandidate("f0000002", "family2", 2, boolPtr(true))
	repo := newFakePostRepo(male, female)
	ranker := &fakeRanker{candidates: []aiclient.Candidate{
		{MissingID: "f0000001", Score: 0.9},
		{MissingID: "f0000002", Score: 0.8},
	}}
	service := newTestSimilarityService(t, repo, ranker)

	gender := 2
	results, err := service.FindSimilarByAttributes(context.Background(), nil, &dto.AttributeSearchRequest{
		Attributes: "родинка",
		Type:       1,
		GenderID:   &gender,
	}, "", 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "f0000002", results[0].Post.PostID)
}

func TestFindSimilarByAttributes_BadKind(t *testing.T) {
	service := newTestSimilarityService(t, newFakePostRepo(), &fakeRanker{})

	_, err := service.FindSimilarByAttributes(context.Background(), nil, &dto.AttributeSearchRequest{
		Attributes: "приметы",
		Type:       9,
	}, "", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPostKind)
}
