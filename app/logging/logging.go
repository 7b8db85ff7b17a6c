// Package logging wires the standard logger and the access log to their configured outputs
package logging

import (
	"io"
	"log"
	"os"

	"github.com/amirphl/mushola/config"
	"gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"
)

// Setup points the standard logger at the configured output and returns the writer
// the HTTP access log should use. The returned closer flushes the rotating file, if any.
func Setup(cfg config.LoggingConfig) (io.Writer, io.Closer) {
	out, closer := Writer(cfg)
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags | log.LUTC | log.Lmicroseconds)
	return out, closer
}

// Writer builds the writer for cfg without touching the global logger.
func Writer(cfg config.LoggingConfig) (io.Writer, io.Closer) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return os.Stdout, nopCloser{}
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  false,
	}

	if cfg.Output == "both" {
		return io.MultiWriter(os.Stdout, rotating), rotating
	}
	return rotating, rotating
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// GormLevel maps LOG_LEVEL onto the SQL logger. Queries are only traced at debug.
func GormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
