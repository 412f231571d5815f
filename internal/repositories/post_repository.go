package repositories

import (
	"errors"
	"math"
	"strings"
	"time"

	"timebridge_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// PostSearchFilters - фильтры публичного поиска. Nil/пустое поле = фильтр не задан.
type PostSearchFilters struct {
	Keywords string
	GenderID *int
	Birth    *time.Time
	Date     *time.Time
	Place    string
}

// PostPatch carries a partial update; nil fields stay untouched.
type PostPatch struct {
	MissingName          *string
	GenderID             *int
	MissingBirth         *time.Time
	MissingDate          *time.Time
	MissingSituation     *string
	MissingExtraEvidence *string
	MissingPlace         *string
	PhotoAge             *int // family posts only
}

func (p PostPatch) columns(kind models.PostKind) map[string]interface{} {
	values := map[string]interface{}{}
	if p.MissingName != nil {
		values["missing_name"] = *p.MissingName
	}
	if p.GenderID != nil {
		values["gender_id"] = *p.GenderID
	}
	if p.MissingBirth != nil {
		values["missing_birth"] = *p.MissingBirth
	}
	if p.MissingDate != nil {
		values["missing_date"] = *p.MissingDate
	}
	if p.MissingSituation != nil {
		values["missing_situation"] = *p.MissingSituation
	}
	if p.MissingExtraEvidence != nil {
		values["missing_extra_evidence"] = *p.MissingExtraEvidence
	}
	if p.MissingPlace != nil {
		values["missing_place"] = *p.MissingPlace
	}
	if p.PhotoAge != nil && kind == models.KindFamily {
		values["photo_age"] = *p.PhotoAge
	}
	return values
}

// PostPage - страница результатов поиска
type PostPage struct {
	Posts       interface{} `json:"posts"`
	TotalCount  int64       `json:"total_count"`
	PageSize    int         `json:"page_size"`
	CurrentPage int         `json:"current_page"`
	TotalPages  int         `json:"total_pages"`
}

// UserPosts - все объявления одного пользователя, по обоим видам
type UserPosts struct {
	MissingPosts []models.MissingPost `json:"missing_posts"`
	FamilyPosts  []models.FamilyPost  `json:"family_posts"`
}

type PostRepository interface {
	// MaxSuffix returns the largest numeric id suffix of the kind, 0 when the
	// namespace is empty. Must run on the same transaction as the insert that
	// consumes the value.
	MaxSuffix(db *gorm.DB, kind models.PostKind) (int64, error)

	InsertMissing(db *gorm.DB, post *models.MissingPost) error
	InsertFamily(db *gorm.DB, post *models.FamilyPost) error

	GetPost(db *gorm.DB, kind models.PostKind, id string) (models.Post, error)
	ApplyPatch(db *gorm.DB, kind models.PostKind, id string, patch PostPatch) error
	UpdateImageRef(db *gorm.DB, kind models.PostKind, id, slot, ref string) error
	DeletePost(db *gorm.DB, post models.Post) error

	SearchPosts(db *gorm.DB, kind models.PostKind, filters PostSearchFilters, page, pageSize int) (*PostPage, error)
	ListByUser(db *gorm.DB, userID string) (*UserPosts, error)

	PendingPosts(db *gorm.DB) (*UserPosts, error)
	SetApproval(db *gorm.DB, kind models.PostKind, id string, accepted bool) error

	OwnerID(db *gorm.DB, kind models.PostKind, id string) (string, error)
}

type postRepository struct{}

func NewPostRepository() PostRepository {
	return &postRepository{}
}

func (r *postRepository) model(db *gorm.DB, kind models.PostKind) *gorm.DB {
	if kind == models.KindFamily {
		return db.Model(&models.FamilyPost{})
	}
	return db.Model(&models.MissingPost{})
}

func (r *postRepository) pkColumn(kind models.PostKind) string {
	if kind == models.KindFamily {
		return "fp_id"
	}
	return "mp_id"
}

// MaxSuffix scans MAX(CAST(SUBSTRING(pk, 2) AS INTEGER)) over the kind's table.
// 'm0000003' -> 3. COALESCE keeps the empty-table case at 0.
func (r *postRepository) MaxSuffix(db *gorm.DB, kind models.PostKind) (int64, error) {
	var max int64
	err := r.model(db, kind).
		Select("COALESCE(MAX(CAST(SUBSTRING(" + r.pkColumn(kind) + ", 2) AS INTEGER)), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *postRepository) InsertMissing(db *gorm.DB, post *models.MissingPost) error {
	return db.Create(post).Error
}

func (r *postRepository) InsertFamily(db *gorm.DB, post *models.FamilyPost) error {
	return db.Create(post).Error
}

func (r *postRepository) GetPost(db *gorm.DB, kind models.PostKind, id string) (models.Post, error) {
	if kind == models.KindFamily {
		var post models.FamilyPost
		if err := db.First(&post, "fp_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPostNotFound
			}
			return nil, err
		}
		return &post, nil
	}

	var post models.MissingPost
	if err := db.First(&post, "mp_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ApplyPatch updates only the non-nil patch fields. An empty patch is a no-op
// that leaves the row byte-for-byte unchanged.
func (r *postRepository) ApplyPatch(db *gorm.DB, kind models.PostKind, id string, patch PostPatch) error {
	values := patch.columns(kind)
	if len(values) == 0 {
		return nil
	}

	result := r.model(db, kind).Where(r.pkColumn(kind)+" = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postRepository) UpdateImageRef(db *gorm.DB, kind models.PostKind, id, slot, ref string) error {
	column := "face_img_origin"
	if slot == models.SlotAging {
		column = "face_img_aging"
	}

	result := r.model(db, kind).Where(r.pkColumn(kind)+" = ?", id).Update(column, ref)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postRepository) DeletePost(db *gorm.DB, post models.Post) error {
	result := db.Delete(post)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// applySearchFilters builds the shared WHERE clauses. The column names are
// identical in both tables, so one builder serves both kinds.
//
// Keywords are whitespace-split; every token must match at least one of
// name/situation/extra-evidence (AND across tokens, OR across the columns).
func applySearchFilters(query *gorm.DB, filters PostSearchFilters) *gorm.DB {
	if filters.Keywords != "" {
		for _, keyword := range strings.Fields(filters.Keywords) {
			like := "%" + keyword + "%"
			query = query.Where(
				"missing_name LIKE ? OR missing_situation LIKE ? OR missing_extra_evidence LIKE ?",
				like, like, like,
			)
		}
	}
	if filters.GenderID != nil {
		query = query.Where("gender_id = ?", *filters.GenderID)
	}
	if filters.Birth != nil {
		query = query.Where("missing_birth = ?", *filters.Birth)
	}
	if filters.Date != nil {
		query = query.Where("missing_date = ?", *filters.Date)
	}
	if filters.Place != "" {
		query = query.Where("missing_place LIKE ?", "%"+filters.Place+"%")
	}
	return query
}

// TotalPages = ceil(totalCount / pageSize), минимум 1
func TotalPages(totalCount int64, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 1
	}
	return int(math.Ceil(float64(totalCount) / float64(pageSize)))
}

func (r *postRepository) SearchPosts(db *gorm.DB, kind models.PostKind, filters PostSearchFilters, page, pageSize int) (*PostPage, error) {
	offset := (page - 1) * pageSize

	// Публичный поиск видит только явно одобренные объявления
	query := applySearchFilters(r.model(db, kind).Where("is_accept IS TRUE"), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts interface{}
	query = query.Order(r.pkColumn(kind) + " ASC").Offset(offset).Limit(pageSize)
	if kind == models.KindFamily {
		var items []models.FamilyPost
		if err := query.Find(&items).Error; err != nil {
			return nil, err
		}
		posts = items
	} else {
		var items []models.MissingPost
		if err := query.Find(&items).Error; err != nil {
			return nil, err
		}
		posts = items
	}

	return &PostPage{
		Posts:       posts,
		TotalCount:  total,
		PageSize:    pageSize,
		CurrentPage: page,
		TotalPages:  TotalPages(total, pageSize),
	}, nil
}

func (r *postRepository) ListByUser(db *gorm.DB, userID string) (*UserPosts, error) {
	var result UserPosts
	if err := db.Where("user_id = ?", userID).Find(&result.MissingPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", userID).Find(&result.FamilyPosts).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *postRepository) PendingPosts(db *gorm.DB) (*UserPosts, error) {
	var result UserPosts
	if err := db.Where("is_accept IS NOT TRUE").Find(&result.MissingPosts).Error; err != nil {
		return nil, err
	}
	if err := db.Where("is_accept IS NOT TRUE").Find(&result.FamilyPosts).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *postRepository) SetApproval(db *gorm.DB, kind models.PostKind, id string, accepted bool) error {
	result := r.model(db, kind).Where(r.pkColumn(kind)+" = ?", id).Update("is_accept", accepted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postRepository) OwnerID(db *gorm.DB, kind models.PostKind, id string) (string, error) {
	var owner string
	err := r.model(db, kind).Where(r.pkColumn(kind)+" = ?", id).Select("user_id").Scan(&owner).Error
	if err != nil {
		return "", err
	}
	if owner == "" {
		return "", ErrPostNotFound
	}
	return owner, nil
}
