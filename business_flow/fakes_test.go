package businessflow

import (
	"context"
	"sort"
	"sync"

	"github.com/amirphl/mushola/models"
)

// memoryUploadRepo is an in-memory UploadRecordRepository
type memoryUploadRepo struct {
	mu      sync.Mutex
	records []*models.UploadRecord
	saveErr error
}

func (r *memoryUploadRepo) ByID(ctx context.Context, id uint) (*models.UploadRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *memoryUploadRepo) ByFilter(ctx context.Context, filter models.UploadRecordFilter, orderBy string, limit, offset int) ([]*models.UploadRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UploadRecord
	for _, rec := range r.records {
		if filter.Source != nil && rec.Source != *filter.Source {
			continue
		}
		if filter.FileID != nil && (rec.FileID == nil || *rec.FileID != *filter.FileID) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *memoryUploadRepo) Save(ctx context.Context, entity *models.UploadRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entity.ID = uint(len(r.records) + 1)
	r.records = append(r.records, entity)
	return nil
}

func (r *memoryUploadRepo) Count(ctx context.Context, filter models.UploadRecordFilter) (int64, error) {
	out, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(out)), nil
}

func (r *memoryUploadRepo) ByCID(ctx context.Context, cid string) (*models.UploadRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.CID != nil && *rec.CID == cid {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *memoryUploadRepo) ListByFileID(ctx context.Context, fileID string) ([]*models.UploadRecord, error) {
	return r.ByFilter(ctx, models.UploadRecordFilter{FileID: &fileID}, "", 0, 0)
}

func (r *memoryUploadRepo) ListFailed(ctx context.Context, limit, offset int) ([]*models.UploadRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UploadRecord
	for _, rec := range r.records {
		if rec.IsFailed() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryUploadRepo) all() []*models.UploadRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.UploadRecord(nil), r.records...)
}

// memoryChunkTracker is an in-memory ChunkTracker
type memoryChunkTracker struct {
	mu   sync.Mutex
	sets map[string]map[int64]struct{}
}

func newMemoryChunkTracker() *memoryChunkTracker {
	return &memoryChunkTracker{sets: make(map[string]map[int64]struct{})}
}

func (t *memoryChunkTracker) Record(ctx context.Context, fileID string, chunkIndex int) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.sets[fileID]
	if !ok {
		set = make(map[int64]struct{})
		t.sets[fileID] = set
	}
	set[int64(chunkIndex)] = struct{}{}
	return int64(len(set)), nil
}

func (t *memoryChunkTracker) Indices(ctx context.Context, fileID string) ([]int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int64, 0, len(t.sets[fileID]))
	for idx := range t.sets[fileID] {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (t *memoryChunkTracker) Forget(ctx context.Context, fileID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sets, fileID)
	return nil
}

func (t *memoryChunkTracker) has(fileID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.sets[fileID]
	return ok
}
