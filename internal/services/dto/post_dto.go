package dto

import "time"

// DateLayout - формат дат во входных формах (дата рождения, дата пропажи)
const DateLayout = "2006-01-02"

// CreatePostRequest - поля формы создания объявления. Фотография приходит
// отдельной частью multipart-запроса.
type CreatePostRequest struct {
	Type      int    `form:"type" json:"type" validate:"required,is-post-kind"`
	Name      string `form:"missing_name" json:"missing_name" validate:"required,max=45"`
	GenderID  int    `form:"gender_id" json:"gender_id" validate:"required,is-gender-code"`
	Birth     string `form:"missing_birth" json:"missing_birth" validate:"omitempty,datetime=2006-01-02"`
	Date      string `form:"missing_date" json:"missing_date" validate:"omitempty,datetime=2006-01-02"`
	Place     string `form:"missing_place" json:"missing_place" validate:"omitempty,max=100"`
	Situation string `form:"missing_situation" json:"missing_situation"`
	Evidence  string `form:"missing_extra_evidence" json:"missing_extra_evidence"`
	PhotoAge  *int   `form:"photo_age" json:"photo_age" validate:"omitempty,min=0,max=120"`
}

// UpdatePostRequest - частичное обновление: nil-поля не трогаются.
type UpdatePostRequest struct {
	Name      *string `form:"missing_name" json:"missing_name" validate:"omitempty,max=45"`
	GenderID  *int    `form:"gender_id" json:"gender_id" validate:"omitempty,is-gender-code"`
	Birth     *string `form:"missing_birth" json:"missing_birth" validate:"omitempty,datetime=2006-01-02"`
	Date      *string `form:"missing_date" json:"missing_date" validate:"omitempty,datetime=2006-01-02"`
	Place     *string `form:"missing_place" json:"missing_place" validate:"omitempty,max=100"`
	Situation *string `form:"missing_situation" json:"missing_situation"`
	Evidence  *string `form:"missing_extra_evidence" json:"missing_extra_evidence"`
	PhotoAge  *int    `form:"photo_age" json:"photo_age" validate:"omitempty,min=0,max=120"`
}

// SearchPostsRequest - параметры публичного поиска
type SearchPostsRequest struct {
	Keywords string `form:"keywords" json:"keywords"`
	GenderID *int   `form:"gender_id" json:"gender_id" validate:"omitempty,is-gender-code"`
	Birth    string `form:"missing_birth" json:"missing_birth" validate:"omitempty,datetime=2006-01-02"`
	Date     string `form:"missing_date" json:"missing_date" validate:"omitempty,datetime=2006-01-02"`
	Place    string `form:"missing_place" json:"missing_place"`
	Page     int    `form:"page" json:"page" validate:"omitempty,min=1"`
}

// AttributeSearchRequest - поиск по текстовому описанию примет
type AttributeSearchRequest struct {
	Attributes string `json:"attributes" validate:"required,min=2"`
	Type       int    `json:"type" validate:"required,is-post-kind"`
	GenderID   *int   `json:"gender" validate:"omitempty,is-gender-code"`
}

// PostResponse - объявление в ответе API, с публичными URL изображений
type PostResponse struct {
	PostID         string     `json:"post_id"`
	Type           int        `json:"type"`
	Name           string     `json:"missing_name"`
	GenderID       int        `json:"gender_id"`
	Birth          *time.Time `json:"missing_birth,omitempty"`
	Date           *time.Time `json:"missing_date,omitempty"`
	Place          string     `json:"missing_place,omitempty"`
	Situation      string     `json:"missing_situation,omitempty"`
	Evidence       string     `json:"missing_extra_evidence,omitempty"`
	PhotoAge       *int       `json:"photo_age,omitempty"`
	IsAccept       *bool      `json:"is_accept"`
	UserID         string     `json:"user_id"`
	OriginImageURL string     `json:"origin_image_url,omitempty"`
	AgingImageURL  string     `json:"aging_image_url,omitempty"`
}

// PostPageResponse - страница результатов поиска
type PostPageResponse struct {
	Posts       []PostResponse `json:"posts"`
	TotalCount  int64          `json:"total_count"`
	PageSize    int            `json:"page_size"`
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
}

// SimilarPostResponse - кандидат из ранжирования похожести
type SimilarPostResponse struct {
	Post  PostResponse `json:"post"`
	Score float64      `json:"score"`
}

// SimilarityResponse - выдача поиска похожих: целевое объявление и
// кандидаты в порядке убывания балла
type SimilarityResponse struct {
	Target  PostResponse          `json:"target_post"`
	Similar []SimilarPostResponse `json:"similar_posts"`
}

// MyPostsResponse - объявления текущего пользователя, по обоим видам
type MyPostsResponse struct {
	MissingPosts []PostResponse `json:"missing_posts"`
	FamilyPosts  []PostResponse `json:"family_posts"`
}

// ContactOwnerRequest - сообщение автору объявления
type ContactOwnerRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// ModerationRequest - решение модератора по объявлению
type ModerationRequest struct {
	Accept bool `json:"accept"`
}
