package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/geekxflood/ftpmib/logging"
)

const testValues = `
daemon.software: proftpd
daemon.connectionTotal: 12
daemon.restartCount.0: 3
daemon.connectionCount: 5
ftp.sessions.sessionCount: 2
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(NewRootCommand(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestList(t *testing.T) {
	t.Run("enabled_only", func(t *testing.T) {
		out, _, code := execute(t, "list", "-o", "json")
		require.Equal(t, 0, code)

		var rows []objectRow
		require.NoError(t, json.Unmarshal([]byte(out), &rows))
		assert.NotEmpty(t, rows)
		for _, r := range rows {
			assert.True(t, r.Enabled, r.Name)
			assert.False(t, strings.HasPrefix(r.Name, "ftps."), r.Name)
		}
	})

	t.Run("all", func(t *testing.T) {
		out, _, code := execute(t, "list", "--all", "-o", "json")
		require.Equal(t, 0, code)

		var rows []objectRow
		require.NoError(t, json.Unmarshal([]byte(out), &rows))
		assert.Len(t, rows, 109)
	})

	t.Run("feature_flag", func(t *testing.T) {
		out, _, code := execute(t, "list", "--feature", "mod_tls")
		require.Equal(t, 0, code)
		assert.Contains(t, out, "ftps.tlsSessions.sessionCount.0")
		assert.NotContains(t, out, "sftp.sftpSessions.sessionCount.0")
	})
}

func TestGet(t *testing.T) {
	values := writeFile(t, "values.yaml", testValues)

	out, _, code := execute(t, "--values", values, "-o", "json",
		"get", "daemon.software.0", "1.3.6.1.4.1.17852.2.2.2.7.0", "daemon.connectionTotal")
	require.Equal(t, 0, code)

	var got []binding
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)

	assert.Equal(t, "daemon.software.0", got[0].Name)
	assert.Equal(t, "STRING", got[0].Type)
	assert.Equal(t, "proftpd", got[0].Value)

	assert.Equal(t, "Counter32", got[1].Type)
	assert.EqualValues(t, 12, got[1].Value)

	assert.Equal(t, "noSuchInstance", got[2].Type)
	assert.Nil(t, got[2].Value)
}

func TestNextAndWalk(t *testing.T) {
	out, _, code := execute(t, "-o", "yaml", "next", "daemon.software.0")
	require.Equal(t, 0, code)

	var next []binding
	require.NoError(t, yaml.Unmarshal([]byte(out), &next))
	require.Len(t, next, 1)
	assert.Equal(t, "daemon.version.0", next[0].Name)

	out, _, code = execute(t, "-o", "json", "walk", "ftp.timeouts")
	require.Equal(t, 0, code)

	var walked []binding
	require.NoError(t, json.Unmarshal([]byte(out), &walked))
	assert.Len(t, walked, 4)

	out, _, code = execute(t, "walk", "scp")
	require.Equal(t, 0, code)
	assert.Empty(t, strings.TrimSpace(strings.TrimPrefix(out, "OID  NAME  TYPE  VALUE")))
}

func TestTranslate(t *testing.T) {
	out, _, code := execute(t, "translate", "1.3.6.1.4.1.17852.2.2.2.9.0", "snmp.packetsReceivedTotal.0")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "daemon.restartCount.0")
	assert.Contains(t, out, "1.3.6.1.4.1.17852.2.2.4.1.0")

	_, stderr, code := execute(t, "translate", "no.such.object")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "name not found")
}

func TestReset(t *testing.T) {
	values := writeFile(t, "values.yaml", testValues)

	out, _, code := execute(t, "--values", values, "-o", "json", "reset")
	require.Equal(t, 0, code)

	var rows []valueRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))

	got := make(map[string]float64)
	for _, r := range rows {
		got[r.Name] = r.Value.(float64)
	}
	assert.Equal(t, float64(3), got["daemon.restartCount.0"])
	assert.Equal(t, float64(0), got["daemon.connectionTotal.0"])
	assert.NotContains(t, got, "daemon.connectionCount.0")
}

func TestMetrics(t *testing.T) {
	values := writeFile(t, "values.yaml", testValues)
	cfg := writeFile(t, "config.yaml", "metrics:\n  namespace: ftpd\n")

	out, _, code := execute(t, "--config", cfg, "--values", values, "metrics")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `ftpd_daemon_connection_total{oid="1.3.6.1.4.1.17852.2.2.2.7.0"} 12`)
	assert.Contains(t, out, "# TYPE ftpd_daemon_connection_count gauge")
	assert.NotContains(t, out, "ftpd_ftps_")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad_output", []string{"-o", "xml", "list"}, "unknown output format"},
		{"missing_config", []string{"--config", "/nonexistent/ftpmib.yaml", "list"}, "failed to load config file"},
		{"missing_args", []string{"get"}, "requires at least 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}

	t.Run("bad_values_file", func(t *testing.T) {
		values := writeFile(t, "values.yaml", "daemon.bogus: 1\ndaemon.connectionTotal: many\n")
		_, stderr, code := execute(t, "--values", values, "list")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "daemon.bogus: unknown object")
		assert.Contains(t, stderr, "not an integer")
	})
}

func TestRuntimeLogging(t *testing.T) {
	t.Cleanup(func() { _ = logging.InitWithDefaults() })

	cfg := writeFile(t, "config.yaml", "logging:\n  level: debug\n  output: stderr\n")
	rt, err := newRuntime(&globalOptions{configPath: cfg}, runtimeOptions{})
	require.NoError(t, err)
	assert.True(t, logging.Get().Enabled(context.Background(), slog.LevelDebug))
	require.NoError(t, rt.Close())

	rt, err = newRuntime(&globalOptions{}, runtimeOptions{})
	require.NoError(t, err)
	assert.False(t, logging.Get().Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logging.Get().Enabled(context.Background(), slog.LevelInfo))
	require.NoError(t, rt.Close())
}
