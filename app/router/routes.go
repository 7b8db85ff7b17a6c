// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/amirphl/mushola/app/dto"
	"github.com/amirphl/mushola/app/handlers"
	"github.com/amirphl/mushola/app/middleware"
	businessflow "github.com/amirphl/mushola/business_flow"
	"github.com/amirphl/mushola/config"
	_ "github.com/amirphl/mushola/docs"
	"github.com/amirphl/mushola/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

const (
	healthPath       = "/api/health"
	uploadPathPrefix = "/api/upload"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// HealthProbe pings an optional backing service. A nil probe is reported as disabled.
type HealthProbe func(ctx context.Context) error

// HealthProbes lists the optional services reported by the health endpoint
type HealthProbes struct {
	Cache    HealthProbe
	Database HealthProbe
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app            *fiber.App
	config         *config.Config
	uploadHandler  handlers.UploadHandlerInterface
	contentHandler handlers.ContentHandlerInterface
	probes         HealthProbes
	accessLog      io.Writer
}

// NewFiberRouter creates a new Fiber router. accessLog receives the request log lines; nil means stdout.
func NewFiberRouter(
	cfg *config.Config,
	uploadHandler handlers.UploadHandlerInterface,
	contentHandler handlers.ContentHandlerInterface,
	probes HealthProbes,
	accessLog io.Writer,
) Router {
	if accessLog == nil {
		accessLog = os.Stdout
	}

	r := &FiberRouter{
		config:         cfg,
		uploadHandler:  uploadHandler,
		contentHandler: contentHandler,
		probes:         probes,
		accessLog:      accessLog,
	}

	fiberCfg := fiber.Config{
		AppName:      "Mushola API",
		ServerHeader: "Mushola",
		ErrorHandler: r.errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	}
	if cfg.Server.ProxyHeader != "" {
		fiberCfg.ProxyHeader = cfg.Server.ProxyHeader
		fiberCfg.TrustProxy = true
		fiberCfg.TrustProxyConfig = fiber.TrustProxyConfig{Proxies: cfg.Server.TrustedProxies}
	}
	r.app = fiber.New(fiberCfg)

	return r
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	if r.config.Metrics.Enabled {
		r.app.Get(r.config.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// API documentation route (non-production only)
	if !r.config.IsProduction() {
		api.Get("/docs", r.getAPIDocumentation)
		api.Get("/swagger.json", r.serveSwaggerJSON)
		log.Println("API documentation enabled")
	}

	api.Use(r.rateLimiter(r.config.Security.GlobalRateLimit))

	// Static content
	api.Get("/adzan", r.contentHandler.Adzan)
	api.Get("/doa", r.contentHandler.Doa)

	// Upload proxy with a stricter limit
	uploadLimiter := r.rateLimiter(r.config.Security.UploadRateLimit)
	api.Post("/upload", uploadLimiter, r.uploadHandler.Upload)
	api.Options("/upload", r.uploadHandler.Options)
	api.Post("/upload/chunk", uploadLimiter, r.uploadHandler.UploadChunk)
	api.Options("/upload/chunk", r.uploadHandler.Options)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		ContentSecurityPolicy:     "default-src 'none'; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS is open: the content and upload endpoints are called from any site
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:  r.config.Security.AllowedOrigins,
		AllowMethods:  r.config.Security.AllowedMethods,
		AllowHeaders:  r.config.Security.AllowedHeaders,
		ExposeHeaders: []string{fiber.HeaderXRequestID},
		MaxAge:        r.config.Security.CORSMaxAge,
	}))

	// Compression for JSON responses; uploads are skipped
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), uploadPathPrefix)
		},
	}))

	if r.config.Logging.EnableAccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","pid":"${pid}","request_id":"${respHeader:X-Request-ID}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Stream:     r.accessLog,
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath
			},
		}))
	}

	if r.config.Metrics.Enabled {
		r.app.Use(middleware.Metrics(middleware.MetricsConfig{
			SkipPaths: []string{r.config.Metrics.Path, healthPath},
		}))
	}

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNowRFC3339(),
				requestid.FromContext(c),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

func (r *FiberRouter) rateLimiter(limit int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: r.config.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Success: false,
				Error:   "Too many requests. Please try again later.",
				Code:    "RATE_LIMIT_EXCEEDED",
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
	})
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cacheStatus := probeStatus(ctx, r.probes.Cache)
	databaseStatus := probeStatus(ctx, r.probes.Database)

	status, code, message := "ok", fiber.StatusOK, "Service is healthy"
	if cacheStatus == "down" || databaseStatus == "down" {
		status, code, message = "degraded", fiber.StatusServiceUnavailable, "Service is degraded"
	}

	return c.Status(code).JSON(dto.APIResponse{
		Success: code == fiber.StatusOK,
		Message: message,
		Data: fiber.Map{
			"status":    status,
			"timestamp": utils.UTCNowUnix(),
			"version":   r.config.Deployment.Version,
			"service":   "mushola-api",
			"cache":     cacheStatus,
			"database":  databaseStatus,
		},
	})
}

func probeStatus(ctx context.Context, probe HealthProbe) string {
	if probe == nil {
		return "disabled"
	}
	if err := probe(ctx); err != nil {
		log.Printf("Health probe failed: %v", err)
		return "down"
	}
	return "up"
}

// API documentation endpoint
func (r *FiberRouter) getAPIDocumentation(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "API documentation retrieved successfully",
		Data: fiber.Map{
			"title":       "Mushola API Documentation",
			"version":     r.config.Deployment.Version,
			"description": "Devotional content and IPFS upload proxy",
			"endpoints":   GetRouteDocumentation(),
		},
	})
}

// serveSwaggerJSON returns the registered swagger document
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.SendString(doc)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Success: false,
		Error:   "The requested resource was not found",
		Code:    "NOT_FOUND",
	})
}

// errorHandler is the global error handler. The raw error is only exposed outside production.
// Uploads rejected by the server body limit are answered like any other oversized file.
func (r *FiberRouter) errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code == fiber.StatusRequestEntityTooLarge && strings.HasPrefix(c.Path(), uploadPathPrefix) {
		err = businessflow.NewFileTooLargeError(r.config.Upload.MaxFileSize, err)
	}

	log.Printf("Error (request %s, %s %s): %v", requestid.FromContext(c), c.Method(), c.Path(), err)

	body := dto.ErrorResponse{Success: false}
	var be *businessflow.BusinessError
	switch {
	case businessflow.IsFileTooLarge(err) && errors.As(err, &be):
		code = fiber.StatusBadRequest
		body.Error = be.Message
		body.Code = be.Code
	case fe != nil:
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			message = fe.Message
		}
		body.Error = message
	default:
		body.Error = message
	}

	if !r.config.IsProduction() {
		body.Detail = err.Error()
	}
	return c.Status(code).JSON(body)
}

// GetRouteDocumentation returns API documentation
func GetRouteDocumentation() []map[string]any {
	return []map[string]any{
		{
			"method":      "POST",
			"path":        "/api/upload",
			"description": "Upload a JPEG, PNG or GIF image (max 50MB) to IPFS via Filebase",
			"parameters": map[string]any{
				"file": "file (required) - multipart form field",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/upload/chunk",
			"description": "Acknowledge one chunk of a chunked upload; the last chunk returns a generated CID",
			"parameters": map[string]any{
				"chunk":       "file (required) - chunk bytes",
				"chunkIndex":  "number (required) - zero based index",
				"totalChunks": "number (required) - total number of chunks",
				"fileName":    "string (required) - original file name",
				"fileId":      "string (required) - client generated id shared by all chunks",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/adzan",
			"description": "Adzan text with transliteration, translation and audio ranges",
			"parameters":  map[string]any{},
		},
		{
			"method":      "GET",
			"path":        "/api/doa",
			"description": "Doa after adzan with transliteration, translation and audio ranges",
			"parameters":  map[string]any{},
		},
		{
			"method":      "GET",
			"path":        healthPath,
			"description": "Health check endpoint",
			"parameters":  map[string]any{},
		},
	}
}
