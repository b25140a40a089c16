// Package logging provides structured logging for the MIB agent using log/slog.
//
// It offers logfmt and JSON output, a process-wide logger that can change
// level at runtime, component-scoped loggers, and numbered trace channels
// in the style of the host FTP server ("snmp.mib", "snmp.db", ...).
//
// # Basic Usage
//
//	if err := logging.Init(logging.Config{Level: "info", Format: "logfmt"}); err != nil {
//		return err
//	}
//	defer logging.Shutdown()
//
//	logging.GetLogger().Info("agent started", "entries", reg.Len())
//
// # Component Loggers
//
//	log := logging.NewComponentLogger("mib", "registry")
//	log.Debug("enabled entry", "name", "ftps.tlsSessions.sessionCount.0")
//	// Output: ... component=mib component_type=registry name=...
//
// # Trace Channels
//
// Trace channels carry a numeric verbosity. A message is emitted at debug
// level when its verbosity does not exceed the channel's configured maximum:
//
//	logging.SetTraceLevel("snmp.mib", 20)
//	tr := logging.NewTracer("snmp.mib", log)
//	tr.Trace(17, "resetting counter", "name", "daemon.connectionTotal.0")
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log format constants.
const (
	// FormatLogfmt writes key=value records (slog text handler).
	FormatLogfmt = "logfmt"
	// FormatJSON writes one JSON object per record.
	FormatJSON = "json"
)

// Config holds the logger configuration settings.
type Config struct {
	// Level is one of "debug", "info", "warn", "error". Default "info".
	Level string `json:"level" yaml:"level"`

	// Format is "logfmt" or "json". Default "logfmt".
	Format string `json:"format" yaml:"format"`

	// Output is "stdout", "stderr" or a file path. Parent directories
	// of a file path are created.
	Output string `json:"output" yaml:"output"`

	// AddSource includes file:line in every record.
	AddSource bool `json:"add_source" yaml:"add_source"`
}

// DefaultConfig returns info-level logfmt logging to stdout.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: FormatLogfmt,
		Output: "stdout",
	}
}

var (
	globalMu       sync.RWMutex
	globalLogger   *slog.Logger
	globalCloser   io.Closer
	globalLevelVar *slog.LevelVar
)

// New creates an independent logger. The returned closer is non-nil only
// when the output is a file.
func New(config Config) (*slog.Logger, io.Closer, error) {
	logger, _, closer, err := build(config, true)
	return logger, closer, err
}

// Init replaces the global logger. A previously opened log file is closed.
func Init(config Config) error {
	logger, levelVar, closer, err := build(config, false)
	if err != nil {
		return err
	}

	globalMu.Lock()
	previous := globalCloser
	globalLogger = logger
	globalCloser = closer
	globalLevelVar = levelVar
	globalMu.Unlock()

	slog.SetDefault(logger)

	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

// InitWithDefaults initializes the global logger with DefaultConfig.
func InitWithDefaults() error {
	return Init(DefaultConfig())
}

// Shutdown closes the global log file, if any. It is safe to call twice.
func Shutdown() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalCloser != nil {
		err := globalCloser.Close()
		globalCloser = nil
		return err
	}
	return nil
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(level string) error {
	if !ValidateLevel(level) {
		return fmt.Errorf("invalid log level: %q, must be one of: %s, %s, %s, %s",
			level, LevelDebug, LevelInfo, LevelWarn, LevelError)
	}

	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLevelVar != nil {
		globalLevelVar.Set(parseLevel(level))
	}
	return nil
}

// build creates the handler chain for a configuration. Strict mode rejects
// unknown levels and formats instead of falling back to the defaults.
func build(config Config, strict bool) (*slog.Logger, *slog.LevelVar, io.Closer, error) {
	if strict {
		if !ValidateLevel(config.Level) {
			return nil, nil, nil, fmt.Errorf("invalid log level: %q, must be one of: %s, %s, %s, %s",
				config.Level, LevelDebug, LevelInfo, LevelWarn, LevelError)
		}
		if !ValidateFormat(config.Format) {
			return nil, nil, nil, fmt.Errorf("invalid log format: %q, must be one of: %s, %s",
				config.Format, FormatLogfmt, FormatJSON)
		}
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(parseLevel(config.Level))

	var writer io.Writer
	var closer io.Closer
	switch strings.ToLower(config.Output) {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		file, err := openLogFile(config.Output)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open log file %s: %w", config.Output, err)
		}
		writer = file
		closer = file
	}

	opts := &slog.HandlerOptions{
		Level:     levelVar,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if strings.ToLower(config.Format) == FormatJSON {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler), levelVar, closer, nil
}

// parseLevel converts a level string to slog.Level, falling back to info.
// "warning" is accepted as an alias for "warn".
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn, "warning":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidateLevel reports whether level is a valid log level string.
func ValidateLevel(level string) bool {
	switch strings.ToLower(level) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	default:
		return false
	}
}

// ValidateFormat reports whether format is a valid log format string.
func ValidateFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatLogfmt, FormatJSON:
		return true
	default:
		return false
	}
}

// Get returns the global logger, initializing it with defaults if needed.
func Get() *slog.Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()

	if logger == nil {
		if err := InitWithDefaults(); err != nil {
			return slog.Default()
		}
		globalMu.RLock()
		logger = globalLogger
		globalMu.RUnlock()
	}
	return logger
}

// Logger is the logging surface injected into the MIB components.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	// With returns a Logger that adds args to every record.
	With(args ...any) Logger
}

// slogWrapper adapts *slog.Logger to Logger.
type slogWrapper struct {
	logger *slog.Logger
}

func (s *slogWrapper) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *slogWrapper) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *slogWrapper) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *slogWrapper) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

func (s *slogWrapper) DebugContext(ctx context.Context, msg string, args ...any) {
	s.logger.DebugContext(ctx, msg, withContextFields(ctx, args)...)
}

func (s *slogWrapper) InfoContext(ctx context.Context, msg string, args ...any) {
	s.logger.InfoContext(ctx, msg, withContextFields(ctx, args)...)
}

func (s *slogWrapper) WarnContext(ctx context.Context, msg string, args ...any) {
	s.logger.WarnContext(ctx, msg, withContextFields(ctx, args)...)
}

func (s *slogWrapper) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.logger.ErrorContext(ctx, msg, withContextFields(ctx, args)...)
}

func (s *slogWrapper) With(args ...any) Logger {
	return &slogWrapper{logger: s.logger.With(args...)}
}

// FromSlog wraps an existing slog logger.
func FromSlog(logger *slog.Logger) Logger {
	if logger == nil {
		return Discard()
	}
	return &slogWrapper{logger: logger}
}

// GetLogger returns the global logger as a Logger.
func GetLogger() Logger {
	return FromSlog(Get())
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return FromSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ComponentLogger tags every record with "component" and "component_type".
type ComponentLogger struct {
	logger        *slog.Logger
	component     string
	componentType string
}

// NewComponentLogger creates a component logger on top of the global logger.
//
//	log := logging.NewComponentLogger("agent", "handler")
//	log.Warn("storage read failed", "field", 205)
func NewComponentLogger(component, componentType string) *ComponentLogger {
	return &ComponentLogger{
		logger:        Get().With("component", component, "component_type", componentType),
		component:     component,
		componentType: componentType,
	}
}

// base returns the tagged logger, rebuilding it for a zero ComponentLogger.
func (cl *ComponentLogger) base() *slog.Logger {
	if cl.logger == nil {
		return Get().With("component", cl.component, "component_type", cl.componentType)
	}
	return cl.logger
}

func (cl *ComponentLogger) Debug(msg string, args ...any) { cl.base().Debug(msg, args...) }
func (cl *ComponentLogger) Info(msg string, args ...any)  { cl.base().Info(msg, args...) }
func (cl *ComponentLogger) Warn(msg string, args ...any)  { cl.base().Warn(msg, args...) }
func (cl *ComponentLogger) Error(msg string, args ...any) { cl.base().Error(msg, args...) }

func (cl *ComponentLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	cl.base().DebugContext(ctx, msg, withContextFields(ctx, args)...)
}

func (cl *ComponentLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	cl.base().InfoContext(ctx, msg, withContextFields(ctx, args)...)
}

func (cl *ComponentLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	cl.base().WarnContext(ctx, msg, withContextFields(ctx, args)...)
}

func (cl *ComponentLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	cl.base().ErrorContext(ctx, msg, withContextFields(ctx, args)...)
}

// With returns a new logger with additional attributes.
func (cl *ComponentLogger) With(args ...any) Logger {
	return &ComponentLogger{
		logger:        cl.base().With(args...),
		component:     cl.component,
		componentType: cl.componentType,
	}
}

// GetComponent returns the component name.
func (cl *ComponentLogger) GetComponent() string { return cl.component }

// GetComponentType returns the component type.
func (cl *ComponentLogger) GetComponentType() string { return cl.componentType }

// contextKey is the type of context keys recognized by the *Context methods.
type contextKey string

// Context keys copied into records by the *Context logging methods.
const (
	KeyRequestID contextKey = "request_id"
	KeyPeer      contextKey = "peer"
	KeyPDUType   contextKey = "pdu_type"
)

// WithField stores a logging field in ctx.
func WithField(ctx context.Context, key contextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

func withContextFields(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	for _, key := range []contextKey{KeyRequestID, KeyPeer, KeyPDUType} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			args = append(args, string(key), v)
		}
	}
	return args
}

// openLogFile opens a log file for appending after validating the path.
func openLogFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return nil, errors.New("log file path cannot be empty")
	}

	cleanPath := filepath.Clean(filePath)
	if strings.Contains(cleanPath, "..") {
		return nil, fmt.Errorf("invalid log file path: contains directory traversal: %s", cleanPath)
	}

	if filepath.IsAbs(cleanPath) {
		restricted := []string{"/etc/", "/proc/", "/sys/", "/dev/", "/run/secrets"}
		for _, p := range restricted {
			if strings.HasPrefix(cleanPath+"/", p) || cleanPath == strings.TrimSuffix(p, "/") {
				return nil, fmt.Errorf("log file path not allowed: %s", cleanPath)
			}
		}
	}

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	if info, err := os.Lstat(cleanPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return nil, fmt.Errorf("refusing to open symlink for log file: %s", cleanPath)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("log path must be a regular file: %s", cleanPath)
		}
	}

	file, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cleanPath, err)
	}
	return file, nil
}
