// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/mushola/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// UploadRecordRepository defines operations for the upload ledger
type UploadRecordRepository interface {
	Repository[models.UploadRecord, models.UploadRecordFilter]
	ByCID(ctx context.Context, cid string) (*models.UploadRecord, error)
	ListByFileID(ctx context.Context, fileID string) ([]*models.UploadRecord, error)
	ListFailed(ctx context.Context, limit, offset int) ([]*models.UploadRecord, error)
}
