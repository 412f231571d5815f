package repositories

import (
	"timebridge_backend/internal/models"

	"gorm.io/gorm"
)

// SyncAuditRepository пишет журнал расхождений между БД и внешними
// хранилищами (файлы, AI-индексы). Записи читает оператор при сверке.
type SyncAuditRepository interface {
	Record(db *gorm.DB, entry *models.SyncAudit) error
	ListByPost(db *gorm.DB, postID string) ([]models.SyncAudit, error)
}

type syncAuditRepository struct{}

func NewSyncAuditRepository() SyncAuditRepository {
	return &syncAuditRepository{}
}

func (r *syncAuditRepository) Record(db *gorm.DB, entry *models.SyncAudit) error {
	return db.Create(entry).Error
}

func (r *syncAuditRepository) ListByPost(db *gorm.DB, postID string) ([]models.SyncAudit, error) {
	var entries []models.SyncAudit
	if err := db.Where("post_id = ?", postID).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
