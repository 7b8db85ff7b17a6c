package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"strings"
	"time"

	"github.com/amirphl/mushola/app/dto"
	"github.com/amirphl/mushola/app/services"
	"github.com/amirphl/mushola/config"
	"github.com/amirphl/mushola/models"
	"github.com/amirphl/mushola/repository"
	"github.com/amirphl/mushola/utils"
	"github.com/gabriel-vasile/mimetype"
)

// sniffLimit is how many leading bytes are inspected to detect the real content type
const sniffLimit = 3072

// ledgerWriteTimeout bounds a ledger insert once the provider call is over
const ledgerWriteTimeout = 5 * time.Second

// UploadFlow forwards a single file to the pinning provider
type UploadFlow interface {
	UploadFile(ctx context.Context, req *dto.UploadFileRequest, metadata *ClientMetadata) (*dto.UploadFileResponse, error)
}

// UploadFlowImpl implements UploadFlow
type UploadFlowImpl struct {
	provider     services.PinningProvider
	uploadRepo   repository.UploadRecordRepository
	gatewayURL   string
	maxFileSize  int64
	allowedTypes map[string]struct{}
}

// NewUploadFlow creates a new upload flow. uploadRepo may be nil when the ledger is disabled.
func NewUploadFlow(
	provider services.PinningProvider,
	uploadRepo repository.UploadRecordRepository,
	uploadCfg config.UploadConfig,
	gatewayURL string,
) UploadFlow {
	return &UploadFlowImpl{
		provider:     provider,
		uploadRepo:   uploadRepo,
		gatewayURL:   gatewayURL,
		maxFileSize:  uploadCfg.MaxFileSize,
		allowedTypes: allowedTypeSet(uploadCfg.AllowedTypes),
	}
}

func (f *UploadFlowImpl) UploadFile(ctx context.Context, req *dto.UploadFileRequest, metadata *ClientMetadata) (*dto.UploadFileResponse, error) {
	if req == nil || req.File == nil {
		return nil, NewBusinessError(CodeNoFile, MsgNoFile, ErrNoFile)
	}

	contentType := normalizeContentType(req.ContentType)
	if !f.isAllowed(contentType) {
		return nil, NewBusinessError(CodeInvalidFileType, MsgInvalidFileType, fmt.Errorf("%w: %q", ErrInvalidFileType, req.ContentType))
	}
	if f.maxFileSize > 0 && req.FileSize > f.maxFileSize {
		return nil, NewFileTooLargeError(f.maxFileSize, nil)
	}

	body, detected, err := sniffContent(req.File)
	if err != nil {
		return nil, NewBusinessError(CodeUploadFailed, MsgUploadFailed, err)
	}
	if !f.isAllowed(detected) {
		return nil, NewBusinessError(CodeInvalidFileType, MsgInvalidFileType, fmt.Errorf("%w: content looks like %q", ErrInvalidFileType, detected))
	}

	record := &models.UploadRecord{
		Source:           models.UploadSourceDirect,
		Provider:         f.provider.Name(),
		OriginalFilename: req.OriginalFilename,
		ContentType:      contentType,
		SizeBytes:        req.FileSize,
	}
	applyMetadata(record, metadata)

	result, err := f.provider.Pin(ctx, services.PinInput{
		FileName:    req.OriginalFilename,
		ContentType: contentType,
		Size:        req.FileSize,
		Reader:      body,
	})
	if err != nil {
		be := providerBusinessError(err)
		record.Success = utils.ToPtr(false)
		record.ErrorCode = utils.ToPtr(be.Code)
		record.ErrorMessage = utils.ToPtr(err.Error())
		f.saveRecord(ctx, record)

		log.Printf("upload: %s (%s, %d bytes) failed: %v", req.OriginalFilename, contentType, req.FileSize, err)
		return nil, be
	}

	url := utils.GatewayURL(f.gatewayURL, result.CID)
	record.Success = utils.ToPtr(true)
	record.CID = utils.ToPtr(result.CID)
	record.URL = utils.ToPtr(url)
	f.saveRecord(ctx, record)

	log.Printf("upload: %s pinned as %s", req.OriginalFilename, result.CID)

	return &dto.UploadFileResponse{
		Success:  true,
		URL:      url,
		Provider: f.provider.Name(),
		CID:      result.CID,
		Size:     req.FileSize,
	}, nil
}

func (f *UploadFlowImpl) isAllowed(contentType string) bool {
	_, ok := f.allowedTypes[contentType]
	return ok
}

func (f *UploadFlowImpl) saveRecord(ctx context.Context, record *models.UploadRecord) {
	saveUploadRecord(ctx, f.uploadRepo, record)
}

// saveUploadRecord writes a ledger row. Failures are logged and never reach the client.
func saveUploadRecord(ctx context.Context, repo repository.UploadRecordRepository, record *models.UploadRecord) {
	if repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerWriteTimeout)
	defer cancel()
	if err := repo.Save(ctx, record); err != nil {
		log.Printf("upload ledger: save failed for %s: %v", record.OriginalFilename, err)
	}
}

func applyMetadata(record *models.UploadRecord, metadata *ClientMetadata) {
	if metadata == nil {
		return
	}
	record.RequestID = optionalString(metadata.RequestID)
	record.IPAddress = optionalString(metadata.IPAddress)
	record.UserAgent = optionalString(metadata.UserAgent)
}

func providerBusinessError(err error) *BusinessError {
	if IsProviderNotConfigured(err) {
		return NewBusinessError(CodeProviderNotConfigured, MsgProviderNotConfigured, fmt.Errorf("%w: %w", ErrProviderNotConfigured, err))
	}
	return NewBusinessError(CodeUploadFailed, ClassifyUploadError(err), err)
}

// sniffContent detects the content type from the leading bytes and returns a reader over the whole stream
func sniffContent(r io.Reader) (io.Reader, string, error) {
	head := make([]byte, sniffLimit)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, "", err
	}
	head = head[:n]

	detected := normalizeContentType(mimetype.Detect(head).String())
	return io.MultiReader(bytes.NewReader(head), r), detected, nil
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(mediaType)
}

func allowedTypeSet(types []string) map[string]struct{} {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		if t = normalizeContentType(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}
