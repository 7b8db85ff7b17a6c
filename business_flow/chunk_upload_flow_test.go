package businessflow

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/amirphl/mushola/app/dto"
	"github.com/amirphl/mushola/models"
	"github.com/amirphl/mushola/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkRequest(index, total, fileName, fileID string) *dto.UploadChunkRequest {
	return &dto.UploadChunkRequest{
		Chunk:       strings.NewReader("chunk-bytes"),
		ChunkIndex:  index,
		TotalChunks: total,
		FileName:    fileName,
		FileID:      fileID,
	}
}

func TestChunkProgress(t *testing.T) {
	tests := []struct {
		index, total, want int
	}{
		{0, 1, 100},
		{2, 5, 60},
		{0, 3, 33},
		{1, 3, 67},
		{2, 3, 100},
		{0, 8, 13},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChunkProgress(tt.index, tt.total), "index %d of %d", tt.index, tt.total)
	}
}

func TestChunkUploadFlowValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      *dto.UploadChunkRequest
		wantCode string
	}{
		{"nil request", nil, CodeMissingFields},
		{"missing chunk", &dto.UploadChunkRequest{ChunkIndex: "0", TotalChunks: "2", FileName: "a.png", FileID: "f1"}, CodeMissingFields},
		{"missing index", chunkRequest("", "2", "a.png", "f1"), CodeMissingFields},
		{"missing total", chunkRequest("0", "", "a.png", "f1"), CodeMissingFields},
		{"missing file name", chunkRequest("0", "2", "", "f1"), CodeMissingFields},
		{"missing file id", chunkRequest("0", "2", "a.png", "  "), CodeMissingFields},
		{"non numeric index", chunkRequest("first", "2", "a.png", "f1"), CodeInvalidChunk},
		{"non numeric total", chunkRequest("0", "two", "a.png", "f1"), CodeInvalidChunk},
		{"zero total", chunkRequest("0", "0", "a.png", "f1"), CodeInvalidChunk},
		{"negative index", chunkRequest("-1", "2", "a.png", "f1"), CodeInvalidChunk},
		{"index past end", chunkRequest("2", "2", "a.png", "f1"), CodeInvalidChunk},
	}

	flow := NewChunkUploadFlow(nil, nil, utils.FilebaseGatewayURL)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := flow.UploadChunk(context.Background(), tt.req, nil)
			require.Error(t, err)
			assert.Nil(t, result)

			be := asBusinessError(t, err)
			assert.Equal(t, tt.wantCode, be.Code)
			if tt.wantCode == CodeMissingFields {
				assert.Equal(t, MsgMissingFields, be.Message)
				assert.ErrorIs(t, err, ErrMissingChunkFields)
			} else {
				assert.Equal(t, MsgInvalidChunk, be.Message)
				assert.ErrorIs(t, err, ErrInvalidChunk)
			}
		})
	}
}

func TestChunkUploadFlowProgress(t *testing.T) {
	flow := NewChunkUploadFlow(nil, nil, utils.FilebaseGatewayURL)

	result, err := flow.UploadChunk(context.Background(), chunkRequest("2", "5", "photo.png", "file-1"), nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.IsComplete)
	assert.Equal(t, 60, result.Progress)
	require.NotNil(t, result.ChunkIndex)
	assert.Equal(t, 2, *result.ChunkIndex)
	assert.Nil(t, result.ReceivedChunks)
	assert.Empty(t, result.CID)
	assert.Empty(t, result.URL)
}

func TestChunkUploadFlowFinalChunkWithoutPriorChunks(t *testing.T) {
	repo := &memoryUploadRepo{}
	flow := NewChunkUploadFlow(nil, repo, utils.FilebaseGatewayURL)

	// only the last chunk is ever sent; completion is still reported
	first, err := flow.UploadChunk(context.Background(), chunkRequest("4", "5", "photo.png", "file-1"), nil)
	require.NoError(t, err)
	second, err := flow.UploadChunk(context.Background(), chunkRequest("4", "5", "photo.png", "file-1"), nil)
	require.NoError(t, err)

	for _, result := range []*dto.UploadChunkResponse{first, second} {
		assert.True(t, result.Success)
		assert.True(t, result.IsComplete)
		assert.Equal(t, 100, result.Progress)
		assert.Nil(t, result.ChunkIndex)
		assert.Equal(t, "photo.png", result.FileName)
		assert.True(t, strings.HasPrefix(result.CID, "bafy"))
		assert.Equal(t, "https://ipfs.filebase.io/ipfs/"+result.CID, result.URL)
	}
	assert.NotEqual(t, first.CID, second.CID, "every completion gets a fresh identifier")

	records := repo.all()
	require.Len(t, records, 2)
	assert.Equal(t, models.UploadSourceChunked, records[0].Source)
	assert.Equal(t, "file-1", *records[0].FileID)
	assert.Equal(t, 5, *records[0].TotalChunks)
	assert.Equal(t, []int64{4}, []int64(records[0].ChunkIndices))
	assert.Zero(t, records[0].SizeBytes)
}

func TestChunkUploadFlowTracksChunks(t *testing.T) {
	tracker := newMemoryChunkTracker()
	repo := &memoryUploadRepo{}
	flow := NewChunkUploadFlow(tracker, repo, utils.FilebaseGatewayURL)
	ctx := context.Background()

	// chunk 1 is skipped on purpose
	for _, idx := range []int{0, 2} {
		result, err := flow.UploadChunk(ctx, chunkRequest(strconv.Itoa(idx), "4", "photo.png", "file-2"), nil)
		require.NoError(t, err)
		assert.False(t, result.IsComplete)
		require.NotNil(t, result.ReceivedChunks)
	}

	result, err := flow.UploadChunk(ctx, chunkRequest("3", "4", "photo.png", "file-2"), nil)
	require.NoError(t, err)
	assert.True(t, result.IsComplete, "received count never blocks completion")
	require.NotNil(t, result.ReceivedChunks)
	assert.Equal(t, int64(3), *result.ReceivedChunks)

	assert.False(t, tracker.has("file-2"), "tracker entry is cleared on completion")

	records, err := repo.ListByFileID(ctx, "file-2")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []int64{0, 2, 3}, []int64(records[0].ChunkIndices))
}
