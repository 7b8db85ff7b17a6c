package dto

import "io"

// UploadFileRequest contains upload details passed from handler to flow.
type UploadFileRequest struct {
	OriginalFilename string    `json:"-"`
	FileSize         int64     `json:"-"`
	ContentType      string    `json:"-"`
	File             io.Reader `json:"-"`
}

// UploadFileResponse represents a successful proxy upload.
type UploadFileResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Provider string `json:"provider"`
	CID      string `json:"cid"`
	Size     int64  `json:"size"`
}

// UploadChunkRequest carries one chunk of a chunked upload.
// Numeric fields are kept as strings on the wire and parsed by the flow.
type UploadChunkRequest struct {
	Chunk       io.Reader `json:"-"`
	ChunkIndex  string    `json:"chunkIndex"`
	TotalChunks string    `json:"totalChunks"`
	FileName    string    `json:"fileName"`
	FileID      string    `json:"fileId"`
}

// UploadChunkResponse acknowledges a chunk. URL, CID and FileName are set once the final chunk arrives.
type UploadChunkResponse struct {
	Success        bool   `json:"success"`
	IsComplete     bool   `json:"isComplete"`
	Progress       int    `json:"progress"`
	ChunkIndex     *int   `json:"chunkIndex,omitempty"`
	ReceivedChunks *int64 `json:"receivedChunks,omitempty"`
	Message        string `json:"message"`
	URL            string `json:"url,omitempty"`
	CID            string `json:"cid,omitempty"`
	FileName       string `json:"fileName,omitempty"`
}
