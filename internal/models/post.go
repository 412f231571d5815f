package models

import "time"

// Post is the common view over the two post tables. Both kinds share the
// descriptive fields; only the id column, the aging image and photo_age differ.
type Post interface {
	PostID() string
	PostKind() PostKind
	OwnerID() string
	Gender() int
	OriginImageRef() string
	AgingImageRef() string
	SetImageRef(slot string, ref string)
}

// MissingPost - объявление, зарегистрированное самим пропавшим (префикс "m")
type MissingPost struct {
	MpID                 string     `gorm:"column:mp_id;primaryKey;size:36" json:"mp_id"`
	FaceImgOrigin        *string    `gorm:"column:face_img_origin;size:255" json:"face_img_origin"`
	MissingDate          *time.Time `gorm:"column:missing_date;type:date" json:"missing_date"`
	MissingName          string     `gorm:"column:missing_name;size:45;not null" json:"missing_name"`
	MissingSituation     *string    `gorm:"column:missing_situation;type:text" json:"missing_situation"`
	MissingBirth         *time.Time `gorm:"column:missing_birth;type:date" json:"missing_birth"`
	MissingPlace         *string    `gorm:"column:missing_place;size:100" json:"missing_place"`
	MissingExtraEvidence *string    `gorm:"column:missing_extra_evidence;size:255" json:"missing_extra_evidence"`
	IsAccept             *bool      `gorm:"column:is_accept" json:"is_accept"`

	UserID   string `gorm:"column:user_id;size:45;not null;index" json:"user_id"`
	GenderID int    `gorm:"column:gender_id;not null" json:"gender_id"`
}

func (MissingPost) TableName() string { return "missing_post" }

func (p *MissingPost) PostID() string     { return p.MpID }
func (p *MissingPost) PostKind() PostKind { return KindMissing }
func (p *MissingPost) OwnerID() string    { return p.UserID }
func (p *MissingPost) Gender() int        { return p.GenderID }

func (p *MissingPost) OriginImageRef() string {
	if p.FaceImgOrigin == nil {
		return ""
	}
	return *p.FaceImgOrigin
}

// AgingImageRef: у missing-постов слота aging нет
func (p *MissingPost) AgingImageRef() string { return "" }

func (p *MissingPost) SetImageRef(slot string, ref string) {
	if slot == SlotOrigin {
		p.FaceImgOrigin = &ref
	}
}

// FamilyPost - объявление, зарегистрированное семьей пропавшего (префикс "f").
// Дополнительно несет состаренное фото и возраст на исходном снимке.
type FamilyPost struct {
	FpID                 string     `gorm:"column:fp_id;primaryKey;size:36" json:"fp_id"`
	FaceImgAging         *string    `gorm:"column:face_img_aging;size:255" json:"face_img_aging"`
	FaceImgOrigin        *string    `gorm:"column:face_img_origin;size:255" json:"face_img_origin"`
	PhotoAge             *int       `gorm:"column:photo_age" json:"photo_age"`
	MissingBirth         time.Time  `gorm:"column:missing_birth;type:date;not null" json:"missing_birth"`
	MissingDate          *time.Time `gorm:"column:missing_date;type:date" json:"missing_date"`
	MissingName          string     `gorm:"column:missing_name;size:45;not null" json:"missing_name"`
	MissingSituation     *string    `gorm:"column:missing_situation;type:text" json:"missing_situation"`
	MissingExtraEvidence *string    `gorm:"column:missing_extra_evidence;type:text" json:"missing_extra_evidence"`
	MissingPlace         *string    `gorm:"column:missing_place;size:100" json:"missing_place"`
	IsAccept             *bool      `gorm:"column:is_accept" json:"is_accept"`

	UserID   string `gorm:"column:user_id;size:45;not null;index" json:"user_id"`
	GenderID int    `gorm:"column:gender_id;not null" json:"gender_id"`
}

func (FamilyPost) TableName() string { return "family_post" }

func (p *FamilyPost) PostID() string     { return p.FpID }
func (p *FamilyPost) PostKind() PostKind { return KindFamily }
func (p *FamilyPost) OwnerID() string    { return p.UserID }
func (p *FamilyPost) Gender() int        { return p.GenderID }

func (p *FamilyPost) OriginImageRef() string {
	if p.FaceImgOrigin == nil {
		return ""
	}
	return *p.FaceImgOrigin
}

func (p *FamilyPost) AgingImageRef() string {
	if p.FaceImgAging == nil {
		return ""
	}
	return *p.FaceImgAging
}

func (p *FamilyPost) SetImageRef(slot string, ref string) {
	switch slot {
	case SlotOrigin:
		p.FaceImgOrigin = &ref
	case SlotAging:
		p.FaceImgAging = &ref
	}
}

// Image slots per post
const (
	SlotOrigin = "origin"
	SlotAging  = "aging"
)

// IndexSlot returns the slot whose image feeds the similarity indexes:
// origin for missing posts, aging for family posts.
func (k PostKind) IndexSlot() string {
	if k == KindFamily {
		return SlotAging
	}
	return SlotOrigin
}

// Gender - справочная таблица пола (1=male, 2=female)
type Gender struct {
	GenderID   int    `gorm:"column:gender_id;primaryKey" json:"gender_id"`
	GenderName string `gorm:"column:gender_name;size:10;not null" json:"gender_name"`
}

func (Gender) TableName() string { return "gender" }

// ValidGenderID reports whether the code belongs to the gender lookup.
func ValidGenderID(id int) bool {
	return id == 1 || id == 2
}
