package services

import (
	"context"
	"errors"
	"sort"

	"timebridge_backend/internal/aiclient"
	"timebridge_backend/internal/logger"
	"timebridge_backend/internal/models"
	"timebridge_backend/internal/repositories"
	"timebridge_backend/internal/services/dto"

	"gorm.io/gorm"

	"timebridge_backend/pkg/apperrors"
)

// SimilarityRanker запрашивает ранжирование у AI-сервиса. В тестах
// подменяется фейком.
type SimilarityRanker interface {
	RankByImage(ctx context.Context, kind models.PostKind, genderID int, postID string) ([]aiclient.Candidate, error)
	RankByAttributes(ctx context.Context, attributes string, kind models.PostKind, genderID *int) ([]aiclient.Candidate, error)
}

// candidateFilter - условия отбора кандидатов при дообогащении из БД.
// Нулевые значения отключают соответствующий фильтр.
type candidateFilter struct {
	wantKind      models.PostKind // вид кандидата; 0 - любой
	genderID      int             // пол; 0 - без фильтра
	excludeUserID string          // владелец, чьи объявления скрываются
}

type SimilarityService struct {
	postRepo repositories.PostRepository
	ranker   SimilarityRanker
	posts    *PostService
}

func NewSimilarityService(postRepo repositories.PostRepository, ranker SimilarityRanker, posts *PostService) *SimilarityService {
	return &SimilarityService{
		postRepo: postRepo,
		ranker:   ranker,
		posts:    posts,
	}
}

// FindSimilar ранжирует объявления противоположного вида по фотографии
// объявления id. Сервис похожести возвращает только идентификаторы и баллы;
// карточки дособираются из локальной БД. Кандидаты, которых в БД уже нет или
// которые не прошли модерацию, молча выпадают из выдачи - индексы отстают от
// БД, и это штатная ситуация. excludeUserID скрывает собственные объявления
// запрашивающего, limit > 0 обрезает список до обращения к БД.
func (s *SimilarityService) FindSimilar(ctx context.Context, db *gorm.DB, id, excludeUserID string, limit int) (*dto.SimilarityResponse, error) {
	kind, err := models.ParsePostID(id)
	if err != nil {
		return nil, apperrors.ErrInvalidPostID
	}

	target, err := s.postRepo.GetPost(db, kind, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.ErrPostNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err)
	}

	candidates, err := s.ranker.RankByImage(ctx, kind, target.Gender(), id)
	if err != nil {
		return nil, apperrors.ErrRemoteService(err, "similarity service failed")
	}

	candidates = rankedCandidates(candidates, id, limit)

	// Результаты ищутся в индексе противоположного вида; пол должен
	// совпадать с целевым объявлением
	similar := s.resolve(ctx, db, candidates, candidateFilter{
		wantKind:      kind.Opposite(),
		genderID:      target.Gender(),
		excludeUserID: excludeUserID,
	})

	return &dto.SimilarityResponse{
		Target:  *s.posts.toResponse(ctx, target),
		Similar: similar,
	}, nil
}

// FindSimilarByAttributes ранжирует объявления по текстовому описанию примет.
// Кандидаты разрешаются по собственному префиксу; фильтр пола применяется
// только когда запрошен вид "семья" с явно указанным полом - без целевого
// объявления пол больше нечем заякорить.
func (s *SimilarityService) FindSimilarByAttributes(ctx context.Context, db *gorm.DB, req *dto.AttributeSearchRequest, excludeUserID string, limit int) ([]dto.SimilarPostResponse, error) {
	kind, err := models.KindFromType(req.Type)
	if err != nil {
		return nil, apperrors.ErrInvalidPostKind
	}

	candidates, err := s.ranker.RankByAttributes(ctx, req.Attributes, kind, req.GenderID)
	if err != nil {
		return nil, apperrors.ErrRemoteService(err, "similarity service failed")
	}

	candidates = rankedCandidates(candidates, "", limit)

	filter := candidateFilter{excludeUserID: excludeUserID}
	if kind == models.KindFamily && req.GenderID != nil {
		filter.genderID = *req.GenderID
	}

	return s.resolve(ctx, db, candidates, filter), nil
}

// rankedCandidates сортирует кандидатов по убыванию балла (стабильно),
// убирает пустые идентификаторы и selfID, затем обрезает до limit.
// Обрезка выполняется до обращения к БД, чтобы ограничить число чтений.
func rankedCandidates(candidates []aiclient.Candidate, selfID string, limit int) []aiclient.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	filtered := make([]aiclient.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.MissingID == "" || candidate.MissingID == selfID {
			continue
		}
		filtered = append(filtered, candidate)
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// resolve дособирает карточки кандидатов, сохраняя порядок ранжирования.
// Отбрасываются: идентификаторы не прошедшего фильтр вида, отсутствующие
// в БД, неодобренные, с несовпадающим полом и объявления excludeUserID.
func (s *SimilarityService) resolve(ctx context.Context, db *gorm.DB, candidates []aiclient.Candidate, filter candidateFilter) []dto.SimilarPostResponse {
	results := []dto.SimilarPostResponse{}
	for _, candidate := range candidates {
		kind, err := models.ParsePostID(candidate.MissingID)
		if err != nil {
			logger.CtxWarn(ctx, "индекс вернул некорректный идентификатор",
				"candidate_id", candidate.MissingID)
			continue
		}
		if filter.wantKind != 0 && kind != filter.wantKind {
			continue
		}

		post, err := s.postRepo.GetPost(db, kind, candidate.MissingID)
		if err != nil {
			if !errors.Is(err, repositories.ErrPostNotFound) {
				logger.CtxWithError(ctx, "не удалось прочитать кандидата", err,
					"candidate_id", candidate.MissingID)
			}
			continue
		}
		if !isAccepted(post) {
			continue
		}
		if filter.genderID != 0 && post.Gender() != filter.genderID {
			continue
		}
		if filter.excludeUserID != "" && post.OwnerID() == filter.excludeUserID {
			continue
		}

		results = append(results, dto.SimilarPostResponse{
			Post:  *s.posts.toResponse(ctx, post),
			Score: candidate.Score,
		})
	}
	return results
}
