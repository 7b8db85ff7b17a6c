package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/mushola/models"
	"gorm.io/gorm"
)

// UploadRecordRepositoryImpl implements UploadRecordRepository interface
type UploadRecordRepositoryImpl struct {
	*BaseRepository[models.UploadRecord, models.UploadRecordFilter]
}

// NewUploadRecordRepository creates a new upload record repository
func NewUploadRecordRepository(db *gorm.DB) UploadRecordRepository {
	return &UploadRecordRepositoryImpl{
		BaseRepository: NewBaseRepository[models.UploadRecord, models.UploadRecordFilter](db),
	}
}

// ByFilter retrieves upload records matching the filter
func (r *UploadRecordRepositoryImpl) ByFilter(ctx context.Context, filter models.UploadRecordFilter, orderBy string, limit, offset int) ([]*models.UploadRecord, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.UploadRecord{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.UploadRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list upload records: %w", err)
	}
	return rows, nil
}

// Count returns the number of upload records matching the filter
func (r *UploadRecordRepositoryImpl) Count(ctx context.Context, filter models.UploadRecordFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.getDB(ctx).Model(&models.UploadRecord{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count upload records: %w", err)
	}
	return count, nil
}

// ByCID retrieves the latest successful upload record for a content identifier
func (r *UploadRecordRepositoryImpl) ByCID(ctx context.Context, cid string) (*models.UploadRecord, error) {
	success := true
	rows, err := r.ByFilter(ctx, models.UploadRecordFilter{CID: &cid, Success: &success}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListByFileID retrieves records written for a chunked upload session
func (r *UploadRecordRepositoryImpl) ListByFileID(ctx context.Context, fileID string) ([]*models.UploadRecord, error) {
	return r.ByFilter(ctx, models.UploadRecordFilter{FileID: &fileID}, "id ASC", 0, 0)
}

// ListFailed retrieves failed upload attempts with pagination
func (r *UploadRecordRepositoryImpl) ListFailed(ctx context.Context, limit, offset int) ([]*models.UploadRecord, error) {
	success := false
	return r.ByFilter(ctx, models.UploadRecordFilter{Success: &success}, "created_at DESC", limit, offset)
}

// applyFilter applies filter criteria to a GORM query
func (r *UploadRecordRepositoryImpl) applyFilter(query *gorm.DB, filter models.UploadRecordFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.CID != nil {
		query = query.Where("cid = ?", *filter.CID)
	}
	if filter.FileID != nil {
		query = query.Where("file_id = ?", *filter.FileID)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.Success != nil {
		query = query.Where("success = ?", *filter.Success)
	}
	if filter.RequestID != nil {
		query = query.Where("request_id = ?", *filter.RequestID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
