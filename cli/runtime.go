package cli

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geekxflood/ftpmib/agent"
	"github.com/geekxflood/ftpmib/config"
	"github.com/geekxflood/ftpmib/logging"
	"github.com/geekxflood/ftpmib/mib"
	"github.com/geekxflood/ftpmib/snmptranslate"
	"github.com/geekxflood/ftpmib/store"
)

// runtime is the object graph every command works on.
type runtime struct {
	manager    *config.Manager
	settings   config.Settings
	store      *store.Store
	registry   *mib.Registry
	handler    *agent.Handler
	translator *snmptranslate.Translator
	logger     logging.Logger
}

// runtimeOptions tweak newRuntime for long-running commands.
type runtimeOptions struct {
	hotReload bool
}

func newRuntime(opts *globalOptions, ro runtimeOptions) (*runtime, error) {
	manager, err := config.NewManager(config.Options{
		ConfigPath:      opts.configPath,
		EnableHotReload: ro.hotReload && opts.configPath != "",
	})
	if err != nil {
		return nil, err
	}

	rt := &runtime{manager: manager, settings: manager.Settings()}
	if err := rt.setupLogging(opts.configPath != ""); err != nil {
		_ = manager.Close()
		return nil, err
	}

	rt.store = store.New(store.WithLogger(logging.NewComponentLogger("store", "memory")))
	rt.registry, err = mib.NewDefault(rt.store, mib.WithLogger(rt.logger))
	if err != nil {
		_ = manager.Close()
		return nil, err
	}
	if err := rt.registry.Initialize(rt.features(opts.features)); err != nil {
		_ = manager.Close()
		return nil, err
	}

	if opts.valuesPath != "" {
		if err := rt.loadValues(opts.valuesPath); err != nil {
			_ = manager.Close()
			return nil, err
		}
	}

	rt.handler, err = agent.NewHandler(rt.registry)
	if err != nil {
		_ = manager.Close()
		return nil, err
	}
	rt.translator, err = snmptranslate.New(rt.registry, rt.settings.Translator.TranslatorConfig())
	if err != nil {
		_ = manager.Close()
		return nil, err
	}
	return rt, nil
}

// setupLogging uses the default logger unless a config file was given.
func (rt *runtime) setupLogging(configured bool) error {
	initLogging := logging.InitWithDefaults
	if configured {
		initLogging = func() error { return logging.Init(rt.settings.Logging.LoggingConfig()) }
	}
	if err := initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if invalid := logging.ParseTraceSpec(rt.settings.Logging.Trace); len(invalid) > 0 {
		return fmt.Errorf("invalid trace channels: %s", strings.Join(invalid, ", "))
	}
	rt.logger = logging.NewComponentLogger("mib", "registry")
	return nil
}

// features merges the configured modules with the --feature flags.
func (rt *runtime) features(extra []string) mib.Features {
	features := rt.settings.Features.FeatureSet()
	for _, name := range extra {
		features[strings.TrimSpace(name)] = true
	}
	return features
}

func (rt *runtime) Close() error {
	var errs []error
	if rt.translator != nil {
		errs = append(errs, rt.translator.Close())
	}
	errs = append(errs, rt.manager.Close(), logging.Shutdown())
	return errors.Join(errs...)
}

// loadValues seeds the store from a YAML map of object names to values.
// Both "daemon.connectionTotal" and "daemon.connectionTotal.0" are accepted.
func (rt *runtime) loadValues(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read values file: %w", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(content, &values); err != nil {
		return fmt.Errorf("failed to parse values file %s: %w", path, err)
	}

	byName := make(map[string]mib.Entry)
	for _, e := range rt.registry.All() {
		byName[e.Name] = e
		byName[e.InstanceName] = e
	}

	var errs []error
	for name, raw := range values {
		e, ok := byName[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown object", name))
			continue
		}
		if err := rt.setValue(e, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid values file %s: %w", path, err)
	}
	return nil
}

func (rt *runtime) setValue(e mib.Entry, raw any) error {
	kind, err := rt.store.Kind(e.Field)
	if err != nil {
		return err
	}
	if kind == store.KindString {
		return rt.store.SetString(e.Field, fmt.Sprint(raw))
	}

	switch v := raw.(type) {
	case int:
		return rt.store.Set(e.Field, int64(v))
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("%v is not an integer", v)
		}
		return rt.store.Set(e.Field, int64(v))
	default:
		return fmt.Errorf("%v is not an integer", raw)
	}
}

// resolve accepts a numeric OID or an object name.
func (rt *runtime) resolve(arg string) (string, error) {
	oid, err := rt.translator.Resolve(arg)
	if err != nil {
		return "", err
	}
	return oid.String(), nil
}
