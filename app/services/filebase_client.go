package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/mushola/config"
	"github.com/amirphl/mushola/utils"
)

// FilebaseClient pins files through the Filebase IPFS RPC API
// Docs: https://docs.filebase.com/api-documentation/ipfs-rpc-api
type FilebaseClient struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func NewFilebaseClient(cfg config.FilebaseConfig) *FilebaseClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = utils.ProviderUploadTimeout
	}
	baseURL := cfg.RPCURL
	if baseURL == "" {
		baseURL = utils.FilebaseRPCURL
	}
	return &FilebaseClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIToken: cfg.APIToken,
		// The deadline comes from the request context so that it surfaces as context.DeadlineExceeded
		HTTPClient: &http.Client{},
		Timeout:    timeout,
	}
}

func (c *FilebaseClient) Name() string { return utils.FilebaseProviderName }

// add response of /api/v0/add
type filebaseAddResp struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

// Pin streams the file to /api/v0/add. The call is aborted once c.Timeout elapses.
func (c *FilebaseClient) Pin(ctx context.Context, in PinInput) (*PinResult, error) {
	if c.APIToken == "" {
		return nil, ErrMissingToken
	}
	if in.Reader == nil {
		return nil, fmt.Errorf("filebase: empty file")
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	start := time.Now()
	res, err := c.add(ctx, in)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %w", ErrUploadTimeout, c.Timeout, err)
	}
	observePin(c.Name(), err, time.Since(start))
	return res, err
}

func (c *FilebaseClient) add(ctx context.Context, in PinInput) (*PinResult, error) {
	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeFilePart(mw, in))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v0/add", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("filebase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ProviderError{
			Provider:   c.Name(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var out filebaseAddResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("filebase: decode add response: %w", err)
	}
	if out.Hash == "" {
		return nil, ErrMissingCID
	}

	size, err := strconv.ParseInt(out.Size, 10, 64)
	if err != nil {
		size = in.Size
	}
	return &PinResult{CID: out.Hash, Name: out.Name, Size: size}, nil
}

func writeFilePart(mw *multipart.Writer, in PinInput) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(in.FileName)))
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, in.Reader); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
