package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/amirphl/mushola/utils"
)

// MockPinningProvider implements PinningProvider for local development and tests.
// It reads the whole file and derives the CID from its digest.
type MockPinningProvider struct {
	mu     sync.Mutex
	Pinned []MockPin
	// Err, when set, is returned by every Pin call
	Err error
}

// MockPin represents one accepted mock upload
type MockPin struct {
	CID         string
	FileName    string
	ContentType string
	Size        int64
	PinnedAt    time.Time
}

// NewMockPinningProvider creates a new mock pinning provider
func NewMockPinningProvider() *MockPinningProvider {
	return &MockPinningProvider{Pinned: make([]MockPin, 0)}
}

func (m *MockPinningProvider) Name() string { return utils.FilebaseProviderName }

func (m *MockPinningProvider) Pin(ctx context.Context, in PinInput) (*PinResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if in.Reader == nil {
		return nil, fmt.Errorf("mock: empty file")
	}
	data, err := io.ReadAll(in.Reader)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cid := DigestCID(data)
	m.mu.Lock()
	m.Pinned = append(m.Pinned, MockPin{
		CID:         cid,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		Size:        int64(len(data)),
		PinnedAt:    utils.UTCNow(),
	})
	m.mu.Unlock()

	return &PinResult{CID: cid, Name: in.FileName, Size: int64(len(data))}, nil
}

// GetPinned returns all mock uploads
func (m *MockPinningProvider) GetPinned() []MockPin {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockPin, len(m.Pinned))
	copy(out, m.Pinned)
	return out
}
