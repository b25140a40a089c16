package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/geekxflood/ftpmib/logging"
	"github.com/geekxflood/ftpmib/mib"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

// writeConfig writes content to a file named name in a fresh temp dir.
func writeConfig(name, content string) string {
	path := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	return path
}

func newManager(path string) (*Manager, error) {
	return NewManager(Options{ConfigPath: path, Logger: logging.Discard()})
}

var _ = Describe("Manager", func() {
	Describe("Defaults", func() {
		It("should run on schema defaults without a file", func() {
			m, err := newManager("")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(m.Close)

			s := m.Settings()
			Expect(s.Logging.Level).To(Equal("info"))
			Expect(s.Logging.Format).To(Equal("logfmt"))
			Expect(s.Features.ModTLS).To(BeFalse())
			Expect(s.Agent.Port).To(Equal(161))
			Expect(s.Agent.Community).To(Equal("public"))
			Expect(s.Agent.WorkerPool.Size).To(Equal(4))
			Expect(s.Metrics.Namespace).To(Equal("proftpd"))
			Expect(s.Translator.CacheSize).To(Equal(1024))
		})

		It("should expose defaults through the getters", func() {
			m, err := newManager("")
			Expect(err).NotTo(HaveOccurred())

			bind, err := m.GetString("agent.bind_address")
			Expect(err).NotTo(HaveOccurred())
			Expect(bind).To(Equal("127.0.0.1"))

			port, err := m.GetInt("agent.port")
			Expect(err).NotTo(HaveOccurred())
			Expect(port).To(Equal(161))

			timeout, err := m.GetDuration("agent.read_timeout")
			Expect(err).NotTo(HaveOccurred())
			Expect(timeout).To(Equal(time.Second))

			enabled, err := m.GetBool("metrics.enabled")
			Expect(err).NotTo(HaveOccurred())
			Expect(enabled).To(BeTrue())
		})
	})

	Describe("Loading files", func() {
		It("should merge a YAML file over the defaults", func() {
			path := writeConfig("config.yaml", `
features:
  mod_tls: true
agent:
  port: 1161
  worker_pool:
    size: 8
`)
			m, err := newManager(path)
			Expect(err).NotTo(HaveOccurred())

			s := m.Settings()
			Expect(s.Features.ModTLS).To(BeTrue())
			Expect(s.Features.ModSFTP).To(BeFalse())
			Expect(s.Agent.Port).To(Equal(1161))
			Expect(s.Agent.WorkerPool.Size).To(Equal(8))
			Expect(s.Agent.WorkerPool.Enabled).To(BeTrue())
			Expect(s.Agent.Community).To(Equal("public"))

			size, err := m.GetInt("agent.worker_pool.size")
			Expect(err).NotTo(HaveOccurred())
			Expect(size).To(Equal(8))
		})

		It("should load JSON files", func() {
			path := writeConfig("config.json", `{"metrics": {"namespace": "ftpd", "listen": ":9100"}}`)
			m, err := newManager(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Settings().Metrics.Namespace).To(Equal("ftpd"))
			Expect(m.Settings().Metrics.Listen).To(Equal(":9100"))
		})

		It("should expand environment variables", func() {
			GinkgoT().Setenv("FTPMIB_TEST_COMMUNITY", "s3cret")
			path := writeConfig("config.yaml", `
agent:
  community: "${FTPMIB_TEST_COMMUNITY}"
  bind_address: "${FTPMIB_TEST_UNSET:-0.0.0.0}"
`)
			m, err := newManager(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Settings().Agent.Community).To(Equal("s3cret"))
			Expect(m.Settings().Agent.BindAddress).To(Equal("0.0.0.0"))
		})

		DescribeTable("rejecting invalid documents",
			func(name, content string) {
				_, err := newManager(writeConfig(name, content))
				Expect(err).To(HaveOccurred())
			},
			Entry("unknown log level", "config.yaml", "logging:\n  level: verbose\n"),
			Entry("port out of range", "config.yaml", "agent:\n  port: 70000\n"),
			Entry("empty community", "config.yaml", "agent:\n  community: \"\"\n"),
			Entry("bad namespace", "config.yaml", "metrics:\n  namespace: \"9lives\"\n"),
			Entry("negative cache", "config.yaml", "translator:\n  cache_size: -1\n"),
			Entry("bad timeout", "config.yaml", "agent:\n  read_timeout: soon\n"),
			Entry("wrong type", "config.yaml", "features:\n  mod_tls: \"yes\"\n"),
			Entry("empty file", "config.yaml", "   \n"),
			Entry("comments only", "config.yaml", "# nothing here\n"),
			Entry("unsupported format", "config.toml", "a = 1\n"),
			Entry("malformed JSON", "config.json", "{"),
		)

		It("should report a validation error for schema violations", func() {
			_, err := newManager(writeConfig("config.yaml", "agent:\n  port: 70000\n"))
			Expect(err).To(MatchError(ErrValidation))
		})

		It("should fail for a missing file", func() {
			_, err := newManager(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
			Expect(err).To(HaveOccurred())
		})

		It("should accept a custom schema", func() {
			m, err := NewManager(Options{
				SchemaContent: `
logging: level: *"debug" | "info"
features: mod_tls: bool | *true
features: mod_sftp: bool | *false
agent: {
	enabled: bool | *false
	bind_address: *"::1" | string
	port: *0 | int
	community: *"c" | string
	buffer_size: *1024 | int
	read_timeout: *"2s" | string
	worker_pool: enabled: *false | bool
	worker_pool: size: *1 | int
}
`,
				Logger: logging.Discard(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Settings().Logging.Level).To(Equal("debug"))
			Expect(m.Settings().Features.ModTLS).To(BeTrue())
		})

		It("should reject an empty or broken schema", func() {
			_, err := NewManager(Options{SchemaContent: "   "})
			Expect(err).To(HaveOccurred())

			_, err = NewManager(Options{SchemaContent: "a: {"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Getters", func() {
		var m *Manager

		BeforeEach(func() {
			var err error
			m, err = newManager("")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return defaults for missing paths", func() {
			v, err := m.GetString("agent.missing", "fallback")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("fallback"))

			n, err := m.GetInt("nothing.here", 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(7))
		})

		It("should fail for missing paths without a default", func() {
			_, err := m.GetString("agent.missing")
			Expect(err).To(MatchError(ErrUnknownPath))
			Expect(m.Exists("agent.missing")).To(BeFalse())
			Expect(m.Exists("agent.port")).To(BeTrue())
		})

		It("should fail on type mismatches", func() {
			_, err := m.GetString("agent.port")
			Expect(err).To(MatchError(ErrWrongType))

			_, err = m.GetBool("agent.community")
			Expect(err).To(MatchError(ErrWrongType))

			_, err = m.GetDuration("agent.port")
			Expect(err).To(MatchError(ErrWrongType))
		})

		It("should return copies of maps", func() {
			section, err := m.GetMap("agent")
			Expect(err).NotTo(HaveOccurred())
			section["community"] = "changed"

			community, _ := m.GetString("agent.community")
			Expect(community).To(Equal("public"))
		})

		DescribeTable("validating single values",
			func(path string, value any, valid bool) {
				err := m.ValidateValue(path, value)
				if valid {
					Expect(err).NotTo(HaveOccurred())
				} else {
					Expect(err).To(HaveOccurred())
				}
			},
			Entry("valid port", "agent.port", 1161, true),
			Entry("port too large", "agent.port", 70000, false),
			Entry("valid level", "logging.level", "debug", true),
			Entry("invalid level", "logging.level", "loud", false),
			Entry("unknown path", "agent.nope", 1, false),
		)
	})

	Describe("Settings conversion", func() {
		It("should build the agent server config", func() {
			m, err := newManager(writeConfig("config.yaml", "agent:\n  read_timeout: 250ms\n  port: 0\n"))
			Expect(err).NotTo(HaveOccurred())

			cfg, err := m.Settings().Agent.ServerConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.ReadTimeout).To(Equal(250 * time.Millisecond))
			Expect(cfg.Port).To(Equal(0))
			Expect(cfg.WorkerPoolEnabled).To(BeTrue())
		})

		It("should build the feature set", func() {
			s := FeatureSettings{ModTLS: true}
			features := s.FeatureSet()
			Expect(features.IsFeatureLoaded(mib.FeatureTLS)).To(BeTrue())
			Expect(features.IsFeatureLoaded(mib.FeatureSFTP)).To(BeFalse())
		})

		It("should build the logging and translator configs", func() {
			m, err := newManager(writeConfig("config.yaml", "logging:\n  format: json\ntranslator:\n  qualified: true\n"))
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Settings().Logging.LoggingConfig().Format).To(Equal("json"))
			Expect(m.Settings().Translator.TranslatorConfig().Qualified).To(BeTrue())
		})
	})

	Describe("Reloading", func() {
		It("should pick up changes on Reload", func() {
			path := writeConfig("config.yaml", "agent:\n  community: first\n")
			m, err := newManager(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.WriteFile(path, []byte("agent:\n  community: second\n"), 0o600)).To(Succeed())
			Expect(m.Reload()).To(Succeed())
			Expect(m.Settings().Agent.Community).To(Equal("second"))
		})

		It("should keep the previous configuration when a reload fails", func() {
			path := writeConfig("config.yaml", "agent:\n  port: 1161\n")
			m, err := newManager(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.WriteFile(path, []byte("agent:\n  port: -5\n"), 0o600)).To(Succeed())
			Expect(m.Reload()).To(MatchError(ErrValidation))
			Expect(m.Settings().Agent.Port).To(Equal(1161))
		})

		It("should require a config path for hot reload", func() {
			_, err := NewManager(Options{EnableHotReload: true})
			Expect(err).To(HaveOccurred())
		})

		It("should hot reload on file writes", func() {
			path := writeConfig("config.yaml", "features:\n  mod_sftp: false\n")
			ctx, cancel := context.WithCancel(context.Background())
			DeferCleanup(cancel)

			m, err := NewManager(Options{
				ConfigPath:       path,
				EnableHotReload:  true,
				HotReloadContext: ctx,
				Logger:           logging.Discard(),
			})
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(m.Close)

			var (
				mu      sync.Mutex
				results []error
			)
			m.OnConfigChange(func(err error) {
				mu.Lock()
				defer mu.Unlock()
				results = append(results, err)
			})

			Expect(m.StartHotReload(ctx)).NotTo(Succeed())

			Expect(os.WriteFile(path, []byte("features:\n  mod_sftp: true\n"), 0o600)).To(Succeed())
			Eventually(func() bool {
				return m.Settings().Features.ModSFTP
			}, 5*time.Second, 50*time.Millisecond).Should(BeTrue())

			Eventually(func() int {
				mu.Lock()
				defer mu.Unlock()
				return len(results)
			}, 5*time.Second, 50*time.Millisecond).Should(BeNumerically(">=", 1))
		})
	})
})

var _ = Describe("Helpers", func() {
	It("should notify every callback with the reload result", func() {
		n := newChangeNotifier()
		var got []error
		n.OnChange(func(err error) { got = append(got, err) })
		n.OnChange(nil)
		n.OnChange(func(err error) {
			got = append(got, err)
			// Registering from a callback must not deadlock or join this round.
			n.OnChange(func(error) { got = append(got, errors.New("late")) })
		})

		boom := errors.New("boom")
		n.NotifyChange(boom)
		Expect(got).To(Equal([]error{boom, boom}))

		n.NotifyChange(nil)
		Expect(got).To(HaveLen(5))
	})

	It("should merge nested maps", func() {
		merged := merge(
			map[string]any{"a": map[string]any{"x": 1, "y": 2}, "b": 1},
			map[string]any{"a": map[string]any{"y": 3}, "c": 4},
		)
		Expect(merged).To(Equal(map[string]any{
			"a": map[string]any{"x": 1, "y": 3},
			"b": 1,
			"c": 4,
		}))
	})

	It("should refuse traversal paths", func() {
		_, err := safeReadFile("../../etc/hosts")
		Expect(err).To(HaveOccurred())

		_, err = safeReadFile("/proc/self/status")
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("expanding environment variables",
		func(input, expected string) {
			GinkgoT().Setenv("FTPMIB_TEST_SET", "value")
			Expect(string(expandEnvironmentVariables([]byte(input)))).To(Equal(expected))
		},
		Entry("plain", "x: $FTPMIB_TEST_SET", "x: value"),
		Entry("braced", "x: ${FTPMIB_TEST_SET}", "x: value"),
		Entry("default unused", "x: ${FTPMIB_TEST_SET:-other}", "x: value"),
		Entry("default used", "x: ${FTPMIB_TEST_UNSET:-other}", "x: other"),
		Entry("unset", "x: ${FTPMIB_TEST_UNSET}", "x: "),
	)
})
