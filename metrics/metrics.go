// Package metrics exports PROFTPD-MIB values and agent traffic to
// Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geekxflood/ftpmib/mib"
)

// DefaultNamespace prefixes every exported metric name.
const DefaultNamespace = "proftpd"

// Collector exposes every enabled numeric MIB object as a metric. Values
// are read from storage at scrape time.
type Collector struct {
	reg     *mib.Registry
	storage mib.Storage
	metrics []objectMetric
}

type objectMetric struct {
	idx       int
	entry     mib.Entry
	desc      *prometheus.Desc
	valueType prometheus.ValueType
	scale     float64
}

// NewCollector builds a collector over reg. Objects without a stored value
// or with a non-numeric type are skipped.
func NewCollector(reg *mib.Registry, namespace string) (*Collector, error) {
	if reg == nil {
		return nil, errors.New("registry cannot be nil")
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{reg: reg, storage: reg.Storage()}
	for i, e := range reg.All() {
		if e.Field == mib.FieldNone || !e.Type.IsNumeric() {
			continue
		}

		m := objectMetric{idx: i, entry: e, valueType: prometheus.GaugeValue, scale: 1}
		name := MetricName(e.Name)
		switch {
		case e.Type.IsCounter():
			m.valueType = prometheus.CounterValue
		case e.Type == mib.TypeTimeTicks:
			name += "_seconds"
			m.scale = 0.01
		}
		m.desc = prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", name),
			fmt.Sprintf("PROFTPD-MIB %s (%s).", e.InstanceName, e.Type),
			nil,
			prometheus.Labels{"oid": e.OID.String()},
		)
		c.metrics = append(c.metrics, m)
	}
	return c, nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector. Disabled objects are skipped and
// storage failures surface as invalid metrics.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics {
		if !c.reg.Enabled(m.idx) {
			continue
		}
		raw, err := c.storage.Value(m.entry.Field)
		if err != nil {
			ch <- prometheus.NewInvalidMetric(m.desc, err)
			continue
		}
		v, ok := toFloat(raw)
		if !ok {
			ch <- prometheus.NewInvalidMetric(m.desc, fmt.Errorf("%s: non-numeric value %T", m.entry.InstanceName, raw))
			continue
		}
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, v*m.scale)
	}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// MetricName converts a dotted camelCase object name to snake_case, e.g.
// "ftp.dataTransfers.kbUploadTotal" to "ftp_data_transfers_kb_upload_total".
func MetricName(objectName string) string {
	var b strings.Builder
	prev := rune(0)
	for _, r := range objectName {
		switch {
		case r == '.' || r == '-':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// AgentMetrics counts and times the requests answered by the SNMP agent.
type AgentMetrics struct {
	gatherer prometheus.Gatherer

	Requests  *prometheus.CounterVec
	Durations *prometheus.HistogramVec
}

// NewAgentMetrics registers the agent request metrics against reg,
// defaulting to the global Prometheus registry when nil.
func NewAgentMetrics(reg prometheus.Registerer, namespace string) (*AgentMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	requestsName := prometheus.BuildFQName(namespace, "agent", "requests_total")
	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: requestsName,
		Help: "SNMP requests processed by the agent, labeled by PDU type and outcome.",
	}, []string{"pdu_type", "outcome"}), requestsName)
	if err != nil {
		return nil, err
	}

	durationsName := prometheus.BuildFQName(namespace, "agent", "request_duration_seconds")
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    durationsName,
		Help:    "SNMP request processing latency in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}, []string{"pdu_type"}), durationsName)
	if err != nil {
		return nil, err
	}

	return &AgentMetrics{
		gatherer:  gatherer,
		Requests:  requests,
		Durations: durations,
	}, nil
}

// ObserveRequest records one processed request.
func (m *AgentMetrics) ObserveRequest(pduType string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Requests.WithLabelValues(pduType, outcome).Inc()
	m.Durations.WithLabelValues(pduType).Observe(elapsed.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (m *AgentMetrics) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if m != nil && m.gatherer != nil {
		gatherer = m.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Register adds c to reg, treating an identical earlier registration as
// success.
func Register(reg prometheus.Registerer, c *Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// Serve runs an HTTP server exposing handler at /metrics until ctx ends.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
