package config

import (
	"fmt"
	"time"

	"github.com/geekxflood/ftpmib/agent"
	"github.com/geekxflood/ftpmib/logging"
	"github.com/geekxflood/ftpmib/mib"
	"github.com/geekxflood/ftpmib/snmptranslate"
)

// Settings is the typed form of the configuration document.
type Settings struct {
	Logging    LoggingSettings    `json:"logging"`
	Features   FeatureSettings    `json:"features"`
	Agent      AgentSettings      `json:"agent"`
	Metrics    MetricsSettings    `json:"metrics"`
	Translator TranslatorSettings `json:"translator"`
}

// LoggingSettings configures the logging package.
type LoggingSettings struct {
	Level     string `json:"level"`
	Format    string `json:"format"`
	Output    string `json:"output"`
	AddSource bool   `json:"add_source"`
	Trace     string `json:"trace"`
}

// FeatureSettings lists the server modules reported as loaded.
type FeatureSettings struct {
	ModTLS  bool `json:"mod_tls"`
	ModSFTP bool `json:"mod_sftp"`
}

// AgentSettings configures the SNMP listener.
type AgentSettings struct {
	Enabled     bool               `json:"enabled"`
	BindAddress string             `json:"bind_address"`
	Port        int                `json:"port"`
	Community   string             `json:"community"`
	BufferSize  int                `json:"buffer_size"`
	ReadTimeout string             `json:"read_timeout"`
	WorkerPool  WorkerPoolSettings `json:"worker_pool"`
}

// WorkerPoolSettings sizes the agent's request workers.
type WorkerPoolSettings struct {
	Enabled bool `json:"enabled"`
	Size    int  `json:"size"`
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
	Listen    string `json:"listen"`
}

// TranslatorSettings configures OID name translation.
type TranslatorSettings struct {
	CacheSize int  `json:"cache_size"`
	Qualified bool `json:"qualified"`
}

// validate checks what the schema cannot express.
func (s Settings) validate() error {
	d, err := time.ParseDuration(s.Agent.ReadTimeout)
	if err != nil {
		return fmt.Errorf("agent.read_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("agent.read_timeout must be positive, got %s", d)
	}
	return nil
}

// LoggingConfig converts the logging section.
func (s LoggingSettings) LoggingConfig() logging.Config {
	return logging.Config{
		Level:     s.Level,
		Format:    s.Format,
		Output:    s.Output,
		AddSource: s.AddSource,
	}
}

// FeatureSet returns the modules to report as loaded.
func (s FeatureSettings) FeatureSet() mib.Features {
	var loaded []string
	if s.ModTLS {
		loaded = append(loaded, mib.FeatureTLS)
	}
	if s.ModSFTP {
		loaded = append(loaded, mib.FeatureSFTP)
	}
	return mib.NewFeatures(loaded...)
}

// ServerConfig converts the agent section.
func (s AgentSettings) ServerConfig() (agent.ServerConfig, error) {
	timeout, err := time.ParseDuration(s.ReadTimeout)
	if err != nil {
		return agent.ServerConfig{}, fmt.Errorf("agent.read_timeout: %w", err)
	}
	return agent.ServerConfig{
		BindAddress:       s.BindAddress,
		Port:              s.Port,
		Community:         s.Community,
		WorkerPoolEnabled: s.WorkerPool.Enabled,
		WorkerPoolSize:    s.WorkerPool.Size,
		BufferSize:        s.BufferSize,
		ReadTimeout:       timeout,
	}, nil
}

// TranslatorConfig converts the translator section.
func (s TranslatorSettings) TranslatorConfig() snmptranslate.Config {
	return snmptranslate.Config{
		MaxCacheSize: s.CacheSize,
		Qualified:    s.Qualified,
	}
}
