// Package logging builds the file-backed zap loggers used by the console.
// The TUI owns the terminal, so nothing here ever writes to stdout.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the Manager
type Config struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Level      string // debug, info, warn, error
}

// Provider hands out scoped loggers
type Provider interface {
	For(scope string) *zap.Logger
}

// Manager owns the base logger and caches one named logger per scope
type Manager struct {
	base       *zap.Logger
	fileWriter *lumberjack.Logger
	loggers    map[string]*zap.Logger
	mu         sync.RWMutex
	level      zapcore.Level
}

// NewManager creates a manager writing JSON lines to a rotating file
func NewManager(cfg Config) (*Manager, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("log file path is required")
	}

	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 7
	}

	level := ParseLevel(cfg.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(fileWriter),
		level,
	)

	m := NewWithCore(core)
	m.fileWriter = fileWriter
	m.level = level
	return m, nil
}

// NewWithCore wraps an existing core, mostly for tests with an observer
func NewWithCore(core zapcore.Core) *Manager {
	return &Manager{
		base:    zap.New(core),
		loggers: make(map[string]*zap.Logger),
		level:   zapcore.DebugLevel,
	}
}

// Nop returns a manager whose loggers discard everything
func Nop() *Manager {
	return NewWithCore(zapcore.NewNopCore())
}

// For returns the logger for a scope such as "api" or "tui.orders".
// Loggers are cached and reused for the same scope.
func (m *Manager) For(scope string) *zap.Logger {
	m.mu.RLock()
	if logger, ok := m.loggers[scope]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if logger, ok := m.loggers[scope]; ok {
		return logger
	}

	logger := m.base.Named(scope)
	m.loggers[scope] = logger
	return logger
}

func (m *Manager) Level() zapcore.Level {
	return m.level
}

// Sync flushes buffered entries
func (m *Manager) Sync() error {
	return m.base.Sync()
}

// Close syncs and closes the log file
func (m *Manager) Close() error {
	_ = m.Sync()
	if m.fileWriter == nil {
		return nil
	}
	return m.fileWriter.Close()
}

// ParseLevel maps a level name to a zap level, defaulting to info
func ParseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.EpochTimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
