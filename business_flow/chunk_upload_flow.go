package businessflow

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/amirphl/mushola/app/dto"
	"github.com/amirphl/mushola/app/services"
	"github.com/amirphl/mushola/models"
	"github.com/amirphl/mushola/repository"
	"github.com/amirphl/mushola/utils"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
)

// ChunkUploadFlow acknowledges chunks of a chunked upload.
// Chunks are never assembled; the final chunk yields a synthetic CID.
type ChunkUploadFlow interface {
	UploadChunk(ctx context.Context, req *dto.UploadChunkRequest, metadata *ClientMetadata) (*dto.UploadChunkResponse, error)
}

// ChunkUploadFlowImpl implements ChunkUploadFlow
type ChunkUploadFlowImpl struct {
	tracker    services.ChunkTracker
	uploadRepo repository.UploadRecordRepository
	gatewayURL string
	provider   string
	validate   *validator.Validate
}

// NewChunkUploadFlow creates a new chunk upload flow. tracker and uploadRepo are optional.
func NewChunkUploadFlow(tracker services.ChunkTracker, uploadRepo repository.UploadRecordRepository, gatewayURL string) ChunkUploadFlow {
	return &ChunkUploadFlowImpl{
		tracker:    tracker,
		uploadRepo: uploadRepo,
		gatewayURL: gatewayURL,
		provider:   utils.FilebaseProviderName,
		validate:   validator.New(),
	}
}

type chunkParams struct {
	ChunkIndex  int    `validate:"gte=0,ltfield=TotalChunks"`
	TotalChunks int    `validate:"gte=1"`
	FileName    string `validate:"required"`
	FileID      string `validate:"required"`
}

func (f *ChunkUploadFlowImpl) UploadChunk(ctx context.Context, req *dto.UploadChunkRequest, metadata *ClientMetadata) (*dto.UploadChunkResponse, error) {
	params, err := f.parse(req)
	if err != nil {
		return nil, err
	}

	progress := ChunkProgress(params.ChunkIndex, params.TotalChunks)
	received := f.track(ctx, params)

	if params.ChunkIndex != params.TotalChunks-1 {
		return &dto.UploadChunkResponse{
			Success:        true,
			IsComplete:     false,
			Progress:       progress,
			ChunkIndex:     utils.ToPtr(params.ChunkIndex),
			ReceivedChunks: received,
			Message:        fmt.Sprintf("Chunk %d/%d received", params.ChunkIndex+1, params.TotalChunks),
		}, nil
	}

	cid := services.NewSyntheticCID(params.FileID, params.FileName)
	url := utils.GatewayURL(f.gatewayURL, cid)

	indices := f.finish(ctx, params)
	record := &models.UploadRecord{
		Source:           models.UploadSourceChunked,
		Provider:         f.provider,
		CID:              utils.ToPtr(cid),
		URL:              utils.ToPtr(url),
		FileID:           utils.ToPtr(params.FileID),
		OriginalFilename: params.FileName,
		TotalChunks:      utils.ToPtr(params.TotalChunks),
		ChunkIndices:     pq.Int64Array(indices),
		Success:          utils.ToPtr(true),
	}
	applyMetadata(record, metadata)
	saveUploadRecord(ctx, f.uploadRepo, record)

	log.Printf("chunk upload: %s (%s) completed after %d chunks as %s", params.FileName, params.FileID, params.TotalChunks, cid)

	return &dto.UploadChunkResponse{
		Success:        true,
		IsComplete:     true,
		Progress:       progress,
		ReceivedChunks: received,
		Message:        "Upload complete",
		URL:            url,
		CID:            cid,
		FileName:       params.FileName,
	}, nil
}

// ChunkProgress returns round((index+1)/total*100)
func ChunkProgress(index, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(index+1) / float64(total) * 100))
}

func (f *ChunkUploadFlowImpl) parse(req *dto.UploadChunkRequest) (*chunkParams, error) {
	if req == nil || req.Chunk == nil ||
		strings.TrimSpace(req.ChunkIndex) == "" ||
		strings.TrimSpace(req.TotalChunks) == "" ||
		strings.TrimSpace(req.FileName) == "" ||
		strings.TrimSpace(req.FileID) == "" {
		return nil, NewBusinessError(CodeMissingFields, MsgMissingFields, ErrMissingChunkFields)
	}

	index, err := strconv.Atoi(strings.TrimSpace(req.ChunkIndex))
	if err != nil {
		return nil, NewBusinessError(CodeInvalidChunk, MsgInvalidChunk, fmt.Errorf("%w: chunkIndex %q", ErrInvalidChunk, req.ChunkIndex))
	}
	total, err := strconv.Atoi(strings.TrimSpace(req.TotalChunks))
	if err != nil {
		return nil, NewBusinessError(CodeInvalidChunk, MsgInvalidChunk, fmt.Errorf("%w: totalChunks %q", ErrInvalidChunk, req.TotalChunks))
	}

	params := &chunkParams{
		ChunkIndex:  index,
		TotalChunks: total,
		FileName:    strings.TrimSpace(req.FileName),
		FileID:      strings.TrimSpace(req.FileID),
	}
	if err := f.validate.Struct(params); err != nil {
		return nil, NewBusinessError(CodeInvalidChunk, MsgInvalidChunk, fmt.Errorf("%w: %v", ErrInvalidChunk, err))
	}
	return params, nil
}

// track records the chunk index and returns how many distinct indices were seen, or nil without a tracker
func (f *ChunkUploadFlowImpl) track(ctx context.Context, params *chunkParams) *int64 {
	if f.tracker == nil {
		return nil
	}
	n, err := f.tracker.Record(ctx, params.FileID, params.ChunkIndex)
	if err != nil {
		log.Printf("chunk upload: tracking %s/%d failed: %v", params.FileID, params.ChunkIndex, err)
		return nil
	}
	return &n
}

// finish collects the observed indices and clears the tracker entry
func (f *ChunkUploadFlowImpl) finish(ctx context.Context, params *chunkParams) []int64 {
	if f.tracker == nil {
		return []int64{int64(params.ChunkIndex)}
	}
	indices, err := f.tracker.Indices(ctx, params.FileID)
	if err != nil {
		log.Printf("chunk upload: reading indices of %s failed: %v", params.FileID, err)
		indices = []int64{int64(params.ChunkIndex)}
	}
	if err := f.tracker.Forget(ctx, params.FileID); err != nil {
		log.Printf("chunk upload: clearing %s failed: %v", params.FileID, err)
	}
	return indices
}
