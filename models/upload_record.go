// Package models contains domain entities persisted by the upload ledger
package models

import (
	"time"

	"github.com/amirphl/mushola/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Upload sources
const (
	UploadSourceDirect  = "direct"
	UploadSourceChunked = "chunked"
)

// UploadRecord is a ledger entry for one proxy attempt. Only metadata is stored, never the bytes.
// SizeBytes is the forwarded file size; chunked rows keep 0 since chunks are never assembled.
type UploadRecord struct {
	ID               uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID             uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Source           string        `gorm:"type:varchar(20);not null;index:idx_upload_records_source" json:"source"`
	Provider         string        `gorm:"type:varchar(50);not null" json:"provider"`
	CID              *string       `gorm:"type:varchar(255);index:idx_upload_records_cid" json:"cid,omitempty"`
	URL              *string       `gorm:"type:text" json:"url,omitempty"`
	FileID           *string       `gorm:"type:varchar(255);index:idx_upload_records_file_id" json:"file_id,omitempty"`
	OriginalFilename string        `gorm:"type:varchar(255);not null" json:"original_filename"`
	ContentType      string        `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes        int64         `gorm:"type:bigint;not null;default:0" json:"size_bytes"`
	TotalChunks      *int          `json:"total_chunks,omitempty"`
	ChunkIndices     pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'" json:"chunk_indices"`
	Success          *bool         `gorm:"default:true;index:idx_upload_records_success" json:"success"`
	ErrorCode        *string       `gorm:"type:varchar(50)" json:"error_code,omitempty"`
	ErrorMessage     *string       `gorm:"type:text" json:"error_message,omitempty"`
	RequestID        *string       `gorm:"size:255;index:idx_upload_records_request_id" json:"request_id,omitempty"`
	IPAddress        *string       `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent        *string       `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_upload_records_created_at" json:"created_at"`
}

func (UploadRecord) TableName() string { return "upload_records" }

// BeforeCreate ensures UUID and timestamp are set.
func (r *UploadRecord) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.ChunkIndices == nil {
		r.ChunkIndices = pq.Int64Array{}
	}
	return nil
}

func (r *UploadRecord) IsFailed() bool {
	return r.Success != nil && !*r.Success
}

// UploadRecordFilter represents filter criteria for upload record queries
type UploadRecordFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CID           *string
	FileID        *string
	Source        *string
	Success       *bool
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
