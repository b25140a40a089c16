// Package config loads and validates the ftpmib agent configuration.
//
// Configuration files are YAML or JSON, validated against a CUE schema.
// The built-in schema (DefaultSchema) declares every key with its default,
// so an agent runs without any file at all; user values are merged over
// the schema defaults.
//
// # Basic Usage
//
//	manager, err := config.NewManager(config.Options{
//		ConfigPath: "/etc/ftpmib/config.yaml",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer manager.Close()
//
//	settings := manager.Settings()
//	community, _ := manager.GetString("agent.community")
//
// # Environment Variables
//
// Files support $VAR, ${VAR} and ${VAR:-default} substitution before
// parsing:
//
//	agent:
//	  community: "${FTPMIB_COMMUNITY:-public}"
//
// # Hot Reload
//
// With EnableHotReload the config file is watched with fsnotify. Every
// write triggers a reload; callbacks registered with OnConfigChange receive
// nil on success or the load error, in which case the previous
// configuration stays active.
package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/geekxflood/ftpmib/logging"
)

// DefaultSchema is the CUE schema of the agent configuration.
//
//go:embed schema.cue
var DefaultSchema string

var (
	// ErrUnknownPath is returned for a dotted path with no value.
	ErrUnknownPath = errors.New("configuration path not found")

	// ErrValidation is returned when a document violates the schema.
	ErrValidation = errors.New("configuration validation failed")

	// ErrWrongType is returned by the typed getters on a type mismatch.
	ErrWrongType = errors.New("configuration value has the wrong type")
)

// Options configures a Manager.
type Options struct {
	// ConfigPath is a YAML or JSON file. Empty means schema defaults only.
	ConfigPath string

	// SchemaContent replaces DefaultSchema.
	SchemaContent string

	// EnableHotReload watches ConfigPath and reloads it on change.
	EnableHotReload bool

	// HotReloadContext bounds the watcher. Defaults to context.Background.
	HotReloadContext context.Context

	// Logger receives reload diagnostics.
	Logger logging.Logger
}

// Manager holds the active configuration.
type Manager struct {
	mu       sync.RWMutex
	options  Options
	schema   *schema
	data     map[string]any
	settings Settings
	reloader *hotReloader
	notifier *changeNotifier
	logger   logging.Logger
}

// NewManager compiles the schema, loads the configuration file if any and
// starts hot reload when enabled.
func NewManager(options Options) (*Manager, error) {
	if options.EnableHotReload && options.ConfigPath == "" {
		return nil, errors.New("hot reload requires a config path")
	}

	content := options.SchemaContent
	name := "inline-schema"
	if content == "" {
		content = DefaultSchema
		name = "schema.cue"
	}
	s, err := compileSchema([]byte(content), name)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		options:  options,
		schema:   s,
		notifier: newChangeNotifier(),
		logger:   options.Logger,
	}
	if m.logger == nil {
		m.logger = logging.NewComponentLogger("config", "manager")
	}

	if err := m.load(); err != nil {
		return nil, err
	}

	if options.EnableHotReload {
		ctx := options.HotReloadContext
		if ctx == nil {
			ctx = context.Background()
		}
		if err := m.StartHotReload(ctx); err != nil {
			return nil, fmt.Errorf("failed to start hot reload: %w", err)
		}
	}
	return m, nil
}

// load reads, validates and installs the configuration. On failure the
// previous configuration is kept.
func (m *Manager) load() error {
	defaults, err := m.schema.defaults()
	if err != nil {
		return err
	}

	user := make(map[string]any)
	if m.options.ConfigPath != "" {
		user, err = decodeFile(m.options.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	}

	unified, err := m.schema.validate(user)
	if err != nil {
		return err
	}

	var settings Settings
	if err := unified.Decode(&settings); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := settings.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	m.mu.Lock()
	m.data = merge(defaults, user)
	m.settings = settings
	m.mu.Unlock()
	return nil
}

// Settings returns the typed configuration.
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

func (m *Manager) value(path string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lookup(m.data, path)
}

// GetString returns the string at a dotted path, or the default when the
// path is absent.
func (m *Manager) GetString(path string, defaultValue ...string) (string, error) {
	v, err := m.value(path)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], nil
		}
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, not a string", ErrWrongType, path, v)
	}
	return s, nil
}

// GetInt returns the integer at a dotted path.
func (m *Manager) GetInt(path string, defaultValue ...int) (int, error) {
	v, err := m.value(path)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], nil
		}
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s is %T, not an integer", ErrWrongType, path, v)
	}
}

// GetBool returns the boolean at a dotted path.
func (m *Manager) GetBool(path string, defaultValue ...bool) (bool, error) {
	v, err := m.value(path)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], nil
		}
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %T, not a boolean", ErrWrongType, path, v)
	}
	return b, nil
}

// GetDuration parses the duration string at a dotted path.
func (m *Manager) GetDuration(path string, defaultValue ...time.Duration) (time.Duration, error) {
	v, err := m.value(path)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], nil
		}
		return 0, err
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %T, not a duration string", ErrWrongType, path, v)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration at path %s: %w", path, err)
	}
	return d, nil
}

// GetMap returns a copy of the map at a dotted path.
func (m *Manager) GetMap(path string) (map[string]any, error) {
	v, err := m.value(path)
	if err != nil {
		return nil, err
	}
	mv, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not a map", ErrWrongType, path, v)
	}
	return copyMap(mv), nil
}

// Exists reports whether a dotted path has a value.
func (m *Manager) Exists(path string) bool {
	_, err := m.value(path)
	return err == nil
}

// ValidateValue checks a candidate value for one key against the schema,
// e.g. ValidateValue("agent.port", 70000).
func (m *Manager) ValidateValue(path string, value any) error {
	return m.schema.validateValue(path, value)
}

// Reload re-reads the configuration file.
func (m *Manager) Reload() error {
	return m.load()
}

// OnConfigChange registers a callback invoked after every hot reload
// attempt with its error, nil on success.
func (m *Manager) OnConfigChange(callback func(error)) {
	m.notifier.OnChange(callback)
}

// StartHotReload watches the configuration file until ctx ends or
// StopHotReload is called.
func (m *Manager) StartHotReload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.reloader != nil {
		return errors.New("hot reload already started")
	}
	if m.options.ConfigPath == "" {
		return errors.New("no config file to watch")
	}

	reloader, err := newHotReloader(m.options.ConfigPath, m.reload, m.notifier.NotifyChange)
	if err != nil {
		return err
	}
	if err := reloader.Start(ctx); err != nil {
		reloader.Stop()
		return err
	}
	m.reloader = reloader
	return nil
}

func (m *Manager) reload() {
	err := m.load()
	if err != nil {
		m.logger.Warn("configuration reload failed, keeping previous configuration",
			"path", m.options.ConfigPath, "error", err)
	} else {
		m.logger.Info("configuration reloaded", "path", m.options.ConfigPath)
	}
	m.notifier.NotifyChange(err)
}

// StopHotReload stops watching the configuration file.
func (m *Manager) StopHotReload() {
	m.mu.Lock()
	reloader := m.reloader
	m.reloader = nil
	m.mu.Unlock()

	if reloader != nil {
		reloader.Stop()
	}
}

// Close stops hot reload.
func (m *Manager) Close() error {
	m.StopHotReload()
	return nil
}
