package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/geekxflood/ftpmib/agent"
	"github.com/geekxflood/ftpmib/logging"
	"github.com/geekxflood/ftpmib/metrics"
	"github.com/geekxflood/ftpmib/mib"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var (
		port        int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SNMP agent and the Prometheus endpoint",
		Long: `serve answers SNMPv1/v2c Get, GetNext and GetBulk requests for the
PROFTPD-MIB and exposes the same objects on /metrics.

The configuration file is watched and log settings apply immediately.
Changing the enabled modules requires a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(opts, runtimeOptions{hotReload: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			if cmd.Flags().Changed("port") {
				rt.settings.Agent.Port = port
			}
			if cmd.Flags().Changed("metrics-listen") {
				rt.settings.Metrics.Listen = metricsAddr
			}
			return rt.serve(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 161, "UDP port of the SNMP agent")
	cmd.Flags().StringVar(&metricsAddr, "metrics-listen", ":9617", "listen address of the metrics endpoint")
	return cmd
}

func (rt *runtime) serve(ctx context.Context) error {
	logger := logging.NewComponentLogger("cli", "serve")
	start := time.Now()

	_ = rt.store.SetString(mib.FieldDaemonSoftware, "ftpmib")
	_ = rt.store.SetString(mib.FieldDaemonVersion, Version)
	rt.manager.OnConfigChange(func(err error) {
		if err != nil {
			return
		}
		rt.applyReload(logger)
	})

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var serverOpts []agent.ServerOption
	var metricsHandler http.Handler
	if rt.settings.Metrics.Enabled {
		collector, err := metrics.NewCollector(rt.registry, rt.settings.Metrics.Namespace)
		if err != nil {
			return err
		}
		if err := metrics.Register(promReg, collector); err != nil {
			return err
		}
		agentMetrics, err := metrics.NewAgentMetrics(promReg, rt.settings.Metrics.Namespace)
		if err != nil {
			return err
		}
		serverOpts = append(serverOpts, agent.WithObserver(agentMetrics))
		metricsHandler = agentMetrics.Handler()
	}

	g, ctx := errgroup.WithContext(ctx)

	if rt.settings.Agent.Enabled {
		cfg, err := rt.settings.Agent.ServerConfig()
		if err != nil {
			return err
		}
		server, err := agent.NewServer(rt.handler, cfg, serverOpts...)
		if err != nil {
			return err
		}
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("failed to start SNMP agent: %w", err)
		}
		logger.Info("SNMP agent listening", "address", server.Addr().String())

		g.Go(func() error {
			<-ctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Stop(stopCtx)
		})
	}

	if metricsHandler != nil {
		logger.Info("metrics endpoint listening", "address", rt.settings.Metrics.Listen)
		g.Go(func() error {
			err := metrics.Serve(ctx, rt.settings.Metrics.Listen, metricsHandler)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				_ = rt.store.Set(mib.FieldDaemonUptime, int64(now.Sub(start)/(10*time.Millisecond)))
			}
		}
	})

	err := g.Wait()
	logger.Info("shutting down", "uptime", time.Since(start).Round(time.Second).String())
	return err
}

// applyReload applies a reloaded configuration to the running agent. The
// registry is read without locks while serving, so enablement is fixed for
// the life of the process.
func (rt *runtime) applyReload(logger logging.Logger) {
	settings := rt.manager.Settings()

	if err := logging.SetLevel(settings.Logging.Level); err != nil {
		logger.Warn("failed to apply log level", "level", settings.Logging.Level, "error", err)
	}
	if invalid := logging.ParseTraceSpec(settings.Logging.Trace); len(invalid) > 0 {
		logger.Warn("ignoring invalid trace channels", "channels", invalid)
	}
	if settings.Features != rt.settings.Features {
		logger.Warn("module changes take effect after a restart",
			"mod_tls", settings.Features.ModTLS, "mod_sftp", settings.Features.ModSFTP)
	}
	logger.Info("configuration applied", "level", settings.Logging.Level)
}
