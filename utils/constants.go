package utils

import (
	"time"
)

// Upload constants
const (
	// MaxUploadSize is the largest file accepted by the upload proxy (50MB)
	MaxUploadSize = int64(50 * 1024 * 1024)

	// MaxUploadSizeLabel is the human readable form of MaxUploadSize
	MaxUploadSizeLabel = "50MB"

	// ProviderUploadTimeout bounds a single call to the pinning provider
	ProviderUploadTimeout = 30 * time.Second

	// FilebaseProviderName is reported back to clients as "provider"
	FilebaseProviderName = "filebase"

	// FilebaseRPCURL is the IPFS RPC endpoint of Filebase
	FilebaseRPCURL = "https://rpc.filebase.io"

	// FilebaseGatewayURL is the public gateway template; {cid} is replaced with the content identifier
	FilebaseGatewayURL = "https://ipfs.filebase.io/ipfs/{cid}"
)

// HTTP caching and CORS constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400

	// ContentCacheControl is sent with every static content response
	ContentCacheControl = "public, s-maxage=86400, stale-while-revalidate=3600"
)

// Environments
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)
