package logging

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// Trace channel names used by the MIB agent.
const (
	ChannelMIB   = "snmp.mib"
	ChannelDB    = "snmp.db"
	ChannelAgent = "snmp.agent"
)

var (
	traceMu     sync.RWMutex
	traceLevels = map[string]int{}
)

// SetTraceLevel sets the maximum verbosity emitted on a channel.
// A level of 0 or less disables the channel.
func SetTraceLevel(channel string, level int) {
	traceMu.Lock()
	defer traceMu.Unlock()

	if level <= 0 {
		delete(traceLevels, channel)
		return
	}
	traceLevels[channel] = level
}

// TraceLevel returns the configured maximum verbosity of a channel.
func TraceLevel(channel string) int {
	traceMu.RLock()
	defer traceMu.RUnlock()
	return traceLevels[channel]
}

// ParseTraceSpec applies a "channel:level" list such as
// "snmp.mib:20,snmp.db:10". Malformed items are returned unapplied.
func ParseTraceSpec(spec string) (invalid []string) {
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		channel, level, ok := strings.Cut(item, ":")
		n, err := strconv.Atoi(strings.TrimSpace(level))
		if !ok || channel == "" || err != nil || n < 0 {
			invalid = append(invalid, item)
			continue
		}
		SetTraceLevel(channel, n)
	}
	return invalid
}

// Tracer writes verbosity-gated debug records for one channel.
// The zero value is not usable; use NewTracer.
type Tracer struct {
	channel string
	logger  Logger
}

// NewTracer returns a tracer for channel writing through logger. A nil
// logger writes through the global logger.
func NewTracer(channel string, logger Logger) *Tracer {
	if logger == nil {
		logger = GetLogger()
	}
	return &Tracer{channel: channel, logger: logger}
}

// Enabled reports whether a message of the given verbosity would be written.
func (t *Tracer) Enabled(level int) bool {
	return t != nil && level <= TraceLevel(t.channel)
}

// Trace writes msg at debug level if level is within the channel maximum.
func (t *Tracer) Trace(level int, msg string, args ...any) {
	if !t.Enabled(level) {
		return
	}
	args = append(args, "channel", t.channel, "trace_level", level)
	t.logger.Debug(msg, args...)
}

// TraceContext is Trace with the request fields stored in ctx by WithField.
func (t *Tracer) TraceContext(ctx context.Context, level int, msg string, args ...any) {
	if !t.Enabled(level) {
		return
	}
	args = append(args, "channel", t.channel, "trace_level", level)
	t.logger.DebugContext(ctx, msg, args...)
}
