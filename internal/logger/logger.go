// Package logger cấu hình hệ thống logging dùng chung cho toàn bộ ứng dụng.
// Dựa trên logrus với file rotation qua lumberjack; mỗi logger có tên riêng
// (app, error) và ghi ra stdout, file hoặc cả hai tuỳ cấu hình.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig chứa cấu hình logging
type LogConfig struct {
	Level      string // Log level: debug, info, warn, error
	Format     string // Format: json hoặc text
	Output     string // Output: stdout, file, both
	LogPath    string // Thư mục chứa file log
	MaxSize    int    // Kích thước tối đa mỗi file (MB)
	MaxBackups int    // Số file cũ giữ lại
	MaxAge     int    // Số ngày giữ file log
	Compress   bool   // Nén file cũ
}

// DefaultConfig trả về cấu hình mặc định, cho phép override qua environment
func DefaultConfig() *LogConfig {
	cfg := &LogConfig{
		Level:      "info",
		Format:     "text",
		Output:     "stdout",
		LogPath:    "logs",
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("LOG_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSize = n
		}
	}
	return cfg
}

var (
	// loggers map lưu các logger instances
	loggers   = make(map[string]*logrus.Logger)
	loggersMu sync.Mutex

	// config chứa cấu hình logging
	config *LogConfig
)

// Init khởi tạo hệ thống logging với cấu hình
func Init(cfg *LogConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config = cfg

	// Tạo thư mục logs nếu ghi ra file
	if config.Output == "file" || config.Output == "both" {
		if err := os.MkdirAll(config.LogPath, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	return nil
}

// GetLogger trả về logger theo tên (app, error)
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Nếu chưa init, init với config mặc định
	if config == nil {
		if err := Init(nil); err != nil {
			panic(fmt.Sprintf("Failed to initialize logger: %v", err))
		}
	}

	if logger, ok := loggers[name]; ok {
		return logger
	}

	logger := createLogger(name)
	loggers[name] = logger
	return logger
}

// createLogger tạo một logger mới với cấu hình
func createLogger(name string) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if config.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	var writers []io.Writer

	// File output với rotation
	if config.Output == "file" || config.Output == "both" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(config.LogPath, fmt.Sprintf("%s.log", name)),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}

	if config.Output == "stdout" || config.Output == "both" {
		writers = append(writers, os.Stdout)
	}

	if len(writers) == 1 {
		logger.SetOutput(writers[0])
	} else if len(writers) > 1 {
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger
}

// GetAppLogger trả về logger chính của ứng dụng
func GetAppLogger() *logrus.Logger {
	return GetLogger("app")
}

// GetErrorLogger trả về logger cho errors
func GetErrorLogger() *logrus.Logger {
	return GetLogger("error")
}

// WithRequest trả về entry đã gắn sẵn thông tin request (id, method, path)
// để các handler/middleware log có ngữ cảnh.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	fields := logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}
	if rid := c.Get("X-Request-ID"); rid != "" {
		fields["request_id"] = rid
	}
	return GetAppLogger().WithFields(fields)
}
