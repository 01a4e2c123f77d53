package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"house-price-service/internal/config"
)

// Init configures the standard logrus logger. When cfg.File is set, output is
// written to stdout and to a size-rotated file. The returned closer releases
// the file and is a no-op otherwise.
func Init(cfg config.LoggerConfig) io.Closer {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
