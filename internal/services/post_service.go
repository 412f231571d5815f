package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"timebridge_backend/internal/aiclient"
	"timebridge_backend/internal/imageprocessor"
	"timebridge_backend/internal/imagestore"
	"timebridge_backend/internal/logger"
	"timebridge_backend/internal/models"
	"timebridge_backend/internal/repositories"
	"timebridge_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"timebridge_backend/pkg/apperrors"
)

// Страница публичного поиска фиксирована
const SearchPageSize = 12

// Сколько раз повторяем выдачу идентификатора при гонке за номер
const maxAllocRetries = 3

// IndexSync принимает уведомление для AI-индексов. Реализуется фоновым
// пулом воркеров; в тестах подменяется фейком.
type IndexSync interface {
	Enqueue(job aiclient.IndexRequest)
}

// AgingService генерирует состаренное изображение по фотографии и паре
// возрастов.
type AgingService interface {
	Age(ctx context.Context, image io.Reader, sourceAge, targetAge int) ([]byte, error)
}

type PostService struct {
	postRepo  repositories.PostRepository
	auditRepo repositories.SyncAuditRepository
	images    *imagestore.ImageStore
	processor *imageprocessor.Processor
	aging     AgingService
	indexSync IndexSync

	// transact выполняет fn в транзакции БД. В тестах подменяется
	// прямым вызовом fn поверх фейкового репозитория.
	transact func(db *gorm.DB, fn func(tx *gorm.DB) error) error
}

func NewPostService(
	postRepo repositories.PostRepository,
	auditRepo repositories.SyncAuditRepository,
	images *imagestore.ImageStore,
	processor *imageprocessor.Processor,
	aging AgingService,
	indexSync IndexSync,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		auditRepo: auditRepo,
		images:    images,
		processor: processor,
		aging:     aging,
		indexSync: indexSync,
		transact: func(db *gorm.DB, fn func(tx *gorm.DB) error) error {
			return db.Transaction(fn)
		},
	}
}

// Create регистрирует объявление. Идентификатор выдается внутри той же
// транзакции, что и вставка: при гонке вставка упирается в первичный ключ
// и попытка повторяется с новым номером. Файлы и индексы обновляются уже
// после фиксации строки.
func (s *PostService) Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreatePostRequest, photo io.Reader) (*dto.PostResponse, error) {
	kind, err := models.KindFromType(req.Type)
	if err != nil {
		return nil, apperrors.ErrInvalidPostKind
	}

	birth, err := parseDate(req.Birth)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid missing_birth date")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid missing_date date")
	}
	if kind == models.KindFamily && (birth == nil || req.PhotoAge == nil) {
		return nil, apperrors.NewBadRequestError("family posts require missing_birth and photo_age")
	}

	// Фотография необязательна: объявление без нее регистрируется, но в
	// индексы не попадает, пока фото не загрузят через обновление.
	var originBytes []byte
	if photo != nil {
		normalized, err := s.processor.NormalizePNG(photo)
		if err != nil {
			return nil, apperrors.NewBadRequestError("photo must be a JPEG or PNG image")
		}
		originBytes = normalized.Bytes()
	}

	post, err := s.insertWithID(db, kind, userID, req, birth, date, originBytes != nil)
	if err != nil {
		return nil, err
	}
	postID := post.PostID()

	if originBytes == nil {
		return s.toResponse(ctx, post), nil
	}

	if _, err := s.images.SaveSlot(ctx, kind, postID, models.SlotOrigin, bytes.NewReader(originBytes)); err != nil {
		s.recordFailure(ctx, db, postID, aiclient.OpInsert, models.StepImageWrite, "", err)
	}

	indexImage := originBytes
	if kind == models.KindFamily {
		aged, agingErr := s.generateAgedImage(ctx, originBytes, *req.PhotoAge, *birth)
		if agingErr != nil {
			s.recordFailure(ctx, db, postID, aiclient.OpInsert, models.StepImageWrite, "", agingErr)
			indexImage = nil
		} else {
			if _, err := s.images.SaveSlot(ctx, kind, postID, models.SlotAging, bytes.NewReader(aged)); err != nil {
				s.recordFailure(ctx, db, postID, aiclient.OpInsert, models.StepImageWrite, "", err)
			}
			indexImage = aged
		}
	}

	if indexImage != nil {
		s.indexSync.Enqueue(aiclient.IndexRequest{
			Op:       aiclient.OpInsert,
			Kind:     kind,
			PostID:   postID,
			GenderID: req.GenderID,
			Image:    indexImage,
		})
	}

	return s.toResponse(ctx, post), nil
}

// insertWithID выдает следующий номер вида и вставляет строку, повторяя
// попытку при конфликте первичного ключа.
func (s *PostService) insertWithID(db *gorm.DB, kind models.PostKind, userID string, req *dto.CreatePostRequest, birth, date *time.Time, withPhoto bool) (models.Post, error) {
	var post models.Post
	var lastErr error

	for attempt := 0; attempt < maxAllocRetries; attempt++ {
		lastErr = s.transact(db, func(tx *gorm.DB) error {
			maxSuffix, err := s.postRepo.MaxSuffix(tx, kind)
			if err != nil {
				return err
			}
			postID := models.FormatPostID(kind, maxSuffix+1)
			post = buildPost(kind, postID, userID, req, birth, date, withPhoto)
			if family, ok := post.(*models.FamilyPost); ok {
				return s.postRepo.InsertFamily(tx, family)
			}
			return s.postRepo.InsertMissing(tx, post.(*models.MissingPost))
		})
		if lastErr == nil {
			return post, nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrPersistence(lastErr)
		}
		// Кто-то успел занять номер - пробуем следующий
	}
	return nil, apperrors.ErrPersistence(lastErr)
}

// buildPost собирает строку нового объявления. Ссылки на изображения
// детерминированы и заполняются только когда фотография действительно есть.
func buildPost(kind models.PostKind, postID, userID string, req *dto.CreatePostRequest, birth, date *time.Time, withPhoto bool) models.Post {
	if kind == models.KindFamily {
		post := &models.FamilyPost{
			FpID:                 postID,
			MissingName:          req.Name,
			GenderID:             req.GenderID,
			MissingBirth:         *birth,
			MissingDate:          date,
			MissingPlace:         optionalString(req.Place),
			MissingSituation:     optionalString(req.Situation),
			MissingExtraEvidence: optionalString(req.Evidence),
			PhotoAge:             req.PhotoAge,
			UserID:               userID,
		}
		if withPhoto {
			post.SetImageRef(models.SlotOrigin, imagestore.Ref(kind, postID, models.SlotOrigin))
			post.SetImageRef(models.SlotAging, imagestore.Ref(kind, postID, models.SlotAging))
		}
		return post
	}

	post := &models.MissingPost{
		MpID:                 postID,
		MissingName:          req.Name,
		GenderID:             req.GenderID,
		MissingBirth:         birth,
		MissingDate:          date,
		MissingPlace:         optionalString(req.Place),
		MissingSituation:     optionalString(req.Situation),
		MissingExtraEvidence: optionalString(req.Evidence),
		UserID:               userID,
	}
	if withPhoto {
		post.SetImageRef(models.SlotOrigin, imagestore.Ref(kind, postID, models.SlotOrigin))
	}
	return post
}

// Update применяет частичный патч и, если пришла новая фотография, заменяет
// изображения. Индексы уведомляются после локальных изменений.
func (s *PostService) Update(ctx context.Context, db *gorm.DB, userID string, isAdmin bool, id string, req *dto.UpdatePostRequest, photo io.Reader) (*dto.PostResponse, error) {
	kind, err := models.ParsePostID(id)
	if err != nil {
		return nil, apperrors.ErrInvalidPostID
	}

	post, err := s.loadPost(db, kind, id)
	if err != nil {
		return nil, err
	}
	if post.OwnerID() != userID && !isAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	patch, err := buildPatch(req)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid date format")
	}
	if err := s.postRepo.ApplyPatch(db, kind, id, patch); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.ErrPostNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err)
	}

	// Перечитываем строку, чтобы дальше работать с действующими значениями
	post, err = s.loadPost(db, kind, id)
	if err != nil {
		return nil, err
	}

	// Индексы держат только изображение - пересылать им есть что лишь
	// когда фотографию действительно заменили
	if photo != nil {
		if err := s.replacePhoto(ctx, db, post, photo); err != nil {
			return nil, err
		}
		s.enqueueWithStoredImage(ctx, db, post, aiclient.OpUpdate)
	}

	return s.toResponse(ctx, post), nil
}

// replacePhoto нормализует новую фотографию, перезаписывает origin-слот и
// для семейных объявлений генерирует новое состаренное изображение. Если
// объявление создавалось без фото, ссылки на слоты дописываются в строку.
func (s *PostService) replacePhoto(ctx context.Context, db *gorm.DB, post models.Post, photo io.Reader) error {
	normalized, err := s.processor.NormalizePNG(photo)
	if err != nil {
		return apperrors.NewBadRequestError("photo must be a JPEG or PNG image")
	}
	originBytes := normalized.Bytes()

	kind := post.PostKind()
	postID := post.PostID()

	originRef, err := s.images.Replace(ctx, kind, postID, models.SlotOrigin, bytes.NewReader(originBytes))
	if err != nil {
		s.recordFailure(ctx, db, postID, aiclient.OpUpdate, models.StepImageWrite, "", err)
		return apperrors.ErrPersistence(err)
	}
	if err := s.persistImageRef(db, post, models.SlotOrigin, originRef); err != nil {
		return apperrors.ErrPersistence(err)
	}

	if family, ok := post.(*models.FamilyPost); ok && family.PhotoAge != nil {
		aged, agingErr := s.generateAgedImage(ctx, originBytes, *family.PhotoAge, family.MissingBirth)
		if agingErr != nil {
			s.recordFailure(ctx, db, postID, aiclient.OpUpdate, models.StepImageWrite, "", agingErr)
			return nil
		}
		agingRef, err := s.images.Replace(ctx, kind, postID, models.SlotAging, bytes.NewReader(aged))
		if err != nil {
			s.recordFailure(ctx, db, postID, aiclient.OpUpdate, models.StepImageWrite, "", err)
			return nil
		}
		if err := s.persistImageRef(db, post, models.SlotAging, agingRef); err != nil {
			return apperrors.ErrPersistence(err)
		}
	}
	return nil
}

// persistImageRef дописывает ссылку на слот в строку, если там ее еще нет
func (s *PostService) persistImageRef(db *gorm.DB, post models.Post, slot, ref string) error {
	current := post.OriginImageRef()
	if slot == models.SlotAging {
		current = post.AgingImageRef()
	}
	if current == ref {
		return nil
	}
	if err := s.postRepo.UpdateImageRef(db, post.PostKind(), post.PostID(), slot, ref); err != nil {
		return err
	}
	post.SetImageRef(slot, ref)
	return nil
}

// Delete снимает объявление. Файлы подчищаются по возможности, но строка -
// источник истины: пока она не удалена, удаление не состоялось, и сбой
// здесь возвращается наружу. Сбои подчистки попадают в журнал сверки.
func (s *PostService) Delete(ctx context.Context, db *gorm.DB, userID string, isAdmin bool, id string) error {
	kind, err := models.ParsePostID(id)
	if err != nil {
		return apperrors.ErrInvalidPostID
	}

	post, err := s.loadPost(db, kind, id)
	if err != nil {
		return err
	}
	if post.OwnerID() != userID && !isAdmin {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.images.DeleteRefs(ctx, post.OriginImageRef(), post.AgingImageRef()); err != nil {
		s.recordFailure(ctx, db, id, aiclient.OpDelete, models.StepImageDelete, "", err)
	}

	if err := s.postRepo.DeletePost(db, post); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.ErrPostNotFound(err)
		}
		return apperrors.ErrPersistence(err)
	}

	s.indexSync.Enqueue(aiclient.IndexRequest{
		Op:       aiclient.OpDelete,
		Kind:     kind,
		PostID:   id,
		GenderID: post.Gender(),
	})

	return nil
}

// Detail возвращает объявление. Неодобренные видят только автор и админ.
func (s *PostService) Detail(ctx context.Context, db *gorm.DB, id, requesterID string, isAdmin bool) (*dto.PostResponse, error) {
	kind, err := models.ParsePostID(id)
	if err != nil {
		return nil, apperrors.ErrInvalidPostID
	}

	post, err := s.loadPost(db, kind, id)
	if err != nil {
		return nil, err
	}

	if !isAccepted(post) && post.OwnerID() != requesterID && !isAdmin {
		return nil, apperrors.ErrPostNotFound(repositories.ErrPostNotFound)
	}

	return s.toResponse(ctx, post), nil
}

// Search ищет одобренные объявления вида с фильтрами и пагинацией.
func (s *PostService) Search(ctx context.Context, db *gorm.DB, kind models.PostKind, req *dto.SearchPostsRequest) (*dto.PostPageResponse, error) {
	filters := repositories.PostSearchFilters{
		Keywords: req.Keywords,
		GenderID: req.GenderID,
		Place:    req.Place,
	}
	if birth, err := parseDate(req.Birth); err == nil {
		filters.Birth = birth
	}
	if date, err := parseDate(req.Date); err == nil {
		filters.Date = date
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	result, err := s.postRepo.SearchPosts(db, kind, filters, page, SearchPageSize)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	response := &dto.PostPageResponse{
		Posts:       s.pageToResponses(ctx, result.Posts),
		TotalCount:  result.TotalCount,
		PageSize:    result.PageSize,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
	}
	return response, nil
}

// MyPosts возвращает все объявления пользователя, включая неодобренные.
func (s *PostService) MyPosts(ctx context.Context, db *gorm.DB, userID string) (*dto.MyPostsResponse, error) {
	posts, err := s.postRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}
	return s.toMyPostsResponse(ctx, posts), nil
}

// PendingPosts возвращает объявления, ждущие решения модератора.
func (s *PostService) PendingPosts(ctx context.Context, db *gorm.DB) (*dto.MyPostsResponse, error) {
	posts, err := s.postRepo.PendingPosts(db)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}
	return s.toMyPostsResponse(ctx, posts), nil
}

// Moderate фиксирует решение модератора. Отклонение снимает объявление
// целиком: строка, файлы и записи в индексах удаляются как при Delete.
func (s *PostService) Moderate(ctx context.Context, db *gorm.DB, id string, accept bool) error {
	if !accept {
		return s.Delete(ctx, db, "", true, id)
	}

	kind, err := models.ParsePostID(id)
	if err != nil {
		return apperrors.ErrInvalidPostID
	}
	if err := s.postRepo.SetApproval(db, kind, id, true); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.ErrPostNotFound(err)
		}
		return apperrors.ErrPersistence(err)
	}
	return nil
}

// RegenerateAging повторно прогоняет возрастную прогрессию для семейного
// объявления и обновляет aging-слот и индексы.
func (s *PostService) RegenerateAging(ctx context.Context, db *gorm.DB, userID string, isAdmin bool, id string) (*dto.PostResponse, error) {
	kind, err := models.ParsePostID(id)
	if err != nil {
		return nil, apperrors.ErrInvalidPostID
	}
	if kind != models.KindFamily {
		return nil, apperrors.NewBadRequestError("age progression applies to family posts only")
	}

	post, err := s.loadPost(db, kind, id)
	if err != nil {
		return nil, err
	}
	if post.OwnerID() != userID && !isAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	family := post.(*models.FamilyPost)
	if family.PhotoAge == nil {
		return nil, apperrors.NewBadRequestError("post has no photo_age to progress from")
	}

	origin, err := s.readRef(ctx, family.OriginImageRef())
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	aged, err := s.generateAgedImage(ctx, origin, *family.PhotoAge, family.MissingBirth)
	if err != nil {
		return nil, apperrors.ErrRemoteService(err, "aging service failed")
	}

	if _, err := s.images.Replace(ctx, kind, id, models.SlotAging, bytes.NewReader(aged)); err != nil {
		s.recordFailure(ctx, db, id, aiclient.OpUpdate, models.StepImageWrite, "", err)
		return nil, apperrors.ErrPersistence(err)
	}

	s.indexSync.Enqueue(aiclient.IndexRequest{
		Op:       aiclient.OpUpdate,
		Kind:     kind,
		PostID:   id,
		GenderID: family.GenderID,
		Image:    aged,
	})

	return s.toResponse(ctx, post), nil
}

// AgingPreview прогоняет загруженную фотографию через возрастную прогрессию,
// не создавая объявления. Целевой возраст считается из даты рождения на
// сегодня. Возвращает готовый PNG.
func (s *PostService) AgingPreview(ctx context.Context, photo io.Reader, birthDate string, photoAge int) ([]byte, error) {
	birth, err := parseDate(birthDate)
	if err != nil || birth == nil {
		return nil, apperrors.NewBadRequestError("invalid missing_birth date format, expected YYYY-MM-DD")
	}
	if photoAge < 0 {
		return nil, apperrors.NewBadRequestError("photo_age must not be negative")
	}

	normalized, err := s.processor.NormalizePNG(photo)
	if err != nil {
		return nil, apperrors.NewBadRequestError("photo must be a JPEG or PNG image")
	}

	aged, err := s.generateAgedImage(ctx, normalized.Bytes(), photoAge, *birth)
	if err != nil {
		return nil, apperrors.ErrRemoteService(err, "aging service failed")
	}
	return aged, nil
}

// --- helpers ---

func (s *PostService) loadPost(db *gorm.DB, kind models.PostKind, id string) (models.Post, error) {
	post, err := s.postRepo.GetPost(db, kind, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.ErrPostNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err)
	}
	return post, nil
}

// generateAgedImage вычисляет целевой возраст из даты рождения (с учетом
// месяца и дня) и вызывает сервис прогрессии.
func (s *PostService) generateAgedImage(ctx context.Context, origin []byte, sourceAge int, birth time.Time) ([]byte, error) {
	return s.aging.Age(ctx, bytes.NewReader(origin), sourceAge, AgeAt(birth, time.Now()))
}

// AgeAt возвращает полных лет на момент now.
func AgeAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// enqueueWithStoredImage перечитывает индексируемый слот из хранилища и
// ставит уведомление в очередь. Без изображения индекс обновить нечем -
// фиксируем расхождение в журнале.
func (s *PostService) enqueueWithStoredImage(ctx context.Context, db *gorm.DB, post models.Post, op string) {
	kind := post.PostKind()
	ref := imagestore.Ref(kind, post.PostID(), kind.IndexSlot())

	image, err := s.readRef(ctx, ref)
	if err != nil {
		s.recordFailure(ctx, db, post.PostID(), op, models.StepIndexNotify, "", err)
		return
	}

	s.indexSync.Enqueue(aiclient.IndexRequest{
		Op:       op,
		Kind:     kind,
		PostID:   post.PostID(),
		GenderID: post.Gender(),
		Image:    image,
	})
}

func (s *PostService) readRef(ctx context.Context, ref string) ([]byte, error) {
	reader, err := s.images.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (s *PostService) recordFailure(ctx context.Context, db *gorm.DB, postID, op, step, endpoint string, cause error) {
	logger.CtxWithError(ctx, "шаг синхронизации не выполнен", cause,
		"post_id", postID, "op", op, "step", step)

	entry := &models.SyncAudit{
		PostID:    postID,
		Operation: op,
		Step:      step,
		Endpoint:  endpoint,
		Error:     cause.Error(),
		Payload:   datatypes.JSON([]byte(`{}`)),
	}
	if err := s.auditRepo.Record(db, entry); err != nil {
		logger.CtxWithError(ctx, "не удалось записать журнал сверки", err, "post_id", postID)
	}
}

func isAccepted(post models.Post) bool {
	switch p := post.(type) {
	case *models.MissingPost:
		return p.IsAccept != nil && *p.IsAccept
	case *models.FamilyPost:
		return p.IsAccept != nil && *p.IsAccept
	}
	return false
}

// optionalString maps "" to NULL for nullable text columns.
func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func buildPatch(req *dto.UpdatePostRequest) (repositories.PostPatch, error) {
	patch := repositories.PostPatch{
		MissingName:          req.Name,
		GenderID:             req.GenderID,
		MissingSituation:     req.Situation,
		MissingExtraEvidence: req.Evidence,
		MissingPlace:         req.Place,
		PhotoAge:             req.PhotoAge,
	}
	if req.Birth != nil {
		birth, err := parseDate(*req.Birth)
		if err != nil {
			return patch, err
		}
		patch.MissingBirth = birth
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return patch, err
		}
		patch.MissingDate = date
	}
	return patch, nil
}

// toResponse собирает ответ API с публичными URL изображений.
func (s *PostService) toResponse(ctx context.Context, post models.Post) *dto.PostResponse {
	response := &dto.PostResponse{
		PostID:   post.PostID(),
		Type:     int(post.PostKind()),
		GenderID: post.Gender(),
		UserID:   post.OwnerID(),
	}

	switch p := post.(type) {
	case *models.MissingPost:
		response.Name = p.MissingName
		response.Birth = p.MissingBirth
		response.Date = p.MissingDate
		response.Place = derefString(p.MissingPlace)
		response.Situation = derefString(p.MissingSituation)
		response.Evidence = derefString(p.MissingExtraEvidence)
		response.IsAccept = p.IsAccept
	case *models.FamilyPost:
		response.Name = p.MissingName
		birth := p.MissingBirth
		response.Birth = &birth
		response.Date = p.MissingDate
		response.Place = derefString(p.MissingPlace)
		response.Situation = derefString(p.MissingSituation)
		response.Evidence = derefString(p.MissingExtraEvidence)
		response.PhotoAge = p.PhotoAge
		response.IsAccept = p.IsAccept
	}

	if ref := post.OriginImageRef(); ref != "" {
		if url, err := s.images.URL(ctx, ref); err == nil {
			response.OriginImageURL = url
		}
	}
	if ref := post.AgingImageRef(); ref != "" {
		if url, err := s.images.URL(ctx, ref); err == nil {
			response.AgingImageURL = url
		}
	}
	return response
}

func (s *PostService) pageToResponses(ctx context.Context, posts interface{}) []dto.PostResponse {
	responses := []dto.PostResponse{}
	switch items := posts.(type) {
	case []models.MissingPost:
		for i := range items {
			responses = append(responses, *s.toResponse(ctx, &items[i]))
		}
	case []models.FamilyPost:
		for i := range items {
			responses = append(responses, *s.toResponse(ctx, &items[i]))
		}
	}
	return responses
}

func (s *PostService) toMyPostsResponse(ctx context.Context, posts *repositories.UserPosts) *dto.MyPostsResponse {
	response := &dto.MyPostsResponse{
		MissingPosts: []dto.PostResponse{},
		FamilyPosts:  []dto.PostResponse{},
	}
	for i := range posts.MissingPosts {
		response.MissingPosts = append(response.MissingPosts, *s.toResponse(ctx, &posts.MissingPosts[i]))
	}
	for i := range posts.FamilyPosts {
		response.FamilyPosts = append(response.FamilyPosts, *s.toResponse(ctx, &posts.FamilyPosts[i]))
	}
	return response
}
