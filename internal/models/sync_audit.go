package models

import (
	"time"

	"gorm.io/datatypes"
)

// Steps a post change can fail at after the local commit.
const (
	StepImageWrite  = "image_write"
	StepImageDelete = "image_delete"
	StepIndexNotify = "index_notify"
)

// SyncAudit records a failed best-effort step (image artifact I/O or AI-index
// fan-out). The relational record is the source of truth; these rows are the
// hook for a later reconciliation pass over drifted images/indexes.
type SyncAudit struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    string         `gorm:"column:post_id;size:36;index;not null" json:"post_id"`
	Operation string         `gorm:"column:operation;size:20;not null" json:"operation"` // insert, update, delete
	Step      string         `gorm:"column:step;size:40;not null" json:"step"`           // image_write, image_delete, index_notify
	Endpoint  string         `gorm:"column:endpoint;size:255" json:"endpoint"`
	Error     string         `gorm:"column:error;type:text" json:"error"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
	CreatedAt time.Time      `gorm:"column:created_at;default:now()" json:"created_at"`
}

func (SyncAudit) TableName() string { return "ai_sync_audit" }
