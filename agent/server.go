package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/geekxflood/ftpmib/logging"
	"github.com/geekxflood/ftpmib/mib"
)

var (
	// ErrBadCommunity is returned for requests carrying the wrong community.
	ErrBadCommunity = errors.New("community mismatch")

	// ErrUnsupportedVersion is returned for SNMPv3 requests.
	ErrUnsupportedVersion = errors.New("unsupported SNMP version")

	// ErrUnsupportedPDU is returned for PDUs the agent does not answer.
	ErrUnsupportedPDU = errors.New("unsupported PDU type")
)

// ServerConfig holds the UDP listener settings.
type ServerConfig struct {
	BindAddress       string
	Port              int
	Community         string
	WorkerPoolEnabled bool
	WorkerPoolSize    int
	BufferSize        int
	ReadTimeout       time.Duration
}

// DefaultServerConfig returns listener settings for a local agent.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		BindAddress:       "127.0.0.1",
		Port:              161,
		Community:         "public",
		WorkerPoolEnabled: true,
		WorkerPoolSize:    4,
		BufferSize:        8192,
		ReadTimeout:       time.Second,
	}
}

func (c ServerConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 0 and 65535", c.Port)
	}
	if c.BindAddress == "" {
		return errors.New("bind address cannot be empty")
	}
	if c.WorkerPoolEnabled && c.WorkerPoolSize < 1 {
		return fmt.Errorf("invalid worker pool size %d: must be at least 1", c.WorkerPoolSize)
	}
	if c.BufferSize < 484 {
		return fmt.Errorf("invalid buffer size %d: must be at least 484", c.BufferSize)
	}
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be positive")
	}
	return nil
}

// PacketProcessor handles one received datagram.
type PacketProcessor interface {
	ProcessPacket(ctx context.Context, packet []byte, addr *net.UDPAddr) error
}

// RequestObserver records the outcome of each answered or rejected request.
type RequestObserver interface {
	ObserveRequest(pduType string, err error, elapsed time.Duration)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithObserver reports every processed packet to o.
func WithObserver(o RequestObserver) ServerOption {
	return func(s *Server) {
		s.observer = o
	}
}

// WithServerLogger sets the logger used by the listener.
func WithServerLogger(logger logging.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
			s.tracer = logging.NewTracer(logging.ChannelAgent, logger)
		}
	}
}

// counterStore is implemented by storages that can record agent traffic.
type counterStore interface {
	Incr(field mib.Field, delta int64) (int64, error)
}

// Server answers SNMPv1 and SNMPv2c requests over UDP.
type Server struct {
	cfg      ServerConfig
	handler  *Handler
	decoder  *gosnmp.GoSNMP
	traffic  counterStore
	observer RequestObserver
	logger   logging.Logger
	tracer   *logging.Tracer

	conn    *net.UDPConn
	pool    *WorkerPool
	buffers *BufferPool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer returns a server answering from handler. Traffic counters in
// the snmp group are updated when the handler's storage supports it.
func NewServer(handler *Handler, cfg ServerConfig, opts ...ServerOption) (*Server, error) {
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := logging.NewComponentLogger("agent", "server")
	s := &Server{
		cfg:     cfg,
		handler: handler,
		decoder: &gosnmp.GoSNMP{Version: gosnmp.Version2c},
		logger:  logger,
		tracer:  logging.NewTracer(logging.ChannelAgent, logger),
		buffers: NewBufferPool(cfg.BufferSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cs, ok := handler.storage.(counterStore); ok {
		s.traffic = cs
	}
	if cfg.WorkerPoolEnabled {
		s.pool = NewWorkerPool(cfg.WorkerPoolSize, s, s.logger)
	}
	return s, nil
}

// Start binds the UDP socket and begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.BindAddress, fmt.Sprint(s.cfg.Port))
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP address %s: %w", addr, err)
	}
	s.conn = conn

	ctx, s.cancel = context.WithCancel(ctx)
	if s.pool != nil {
		s.pool.Start(ctx)
	}

	s.wg.Add(1)
	go s.listen(ctx)

	s.logger.Info("SNMP agent listening", "address", conn.LocalAddr().String())
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() *net.UDPAddr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// Stop closes the socket and waits for in-flight requests, or for ctx.
func (s *Server) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Warn("failed to close UDP socket", "error", err)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		if s.pool != nil {
			s.pool.Stop()
		}
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("SNMP agent stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) listen(ctx context.Context) {
	defer s.wg.Done()

	buffer := make([]byte, s.cfg.BufferSize)
	for ctx.Err() == nil {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
		}

		n, addr, err := s.conn.ReadFromUDP(buffer)
		if err != nil {
			var netErr net.Error
			switch {
			case errors.Is(err, net.ErrClosed):
				return
			case errors.As(err, &netErr) && netErr.Timeout():
				continue
			default:
				s.logger.Warn("failed to read UDP packet", "error", err)
				continue
			}
		}

		if err := s.dispatch(ctx, buffer[:n], addr); err != nil && !errors.Is(err, context.Canceled) {
			s.tracer.Trace(5, "request failed", "peer", addr.String(), "error", err)
		}
	}
}

// dispatch hands the packet to the worker pool, copying it out of the
// read buffer, or processes it inline when the pool is disabled.
func (s *Server) dispatch(ctx context.Context, packet []byte, addr *net.UDPAddr) error {
	if s.pool == nil {
		return s.ProcessPacket(ctx, packet, addr)
	}
	buf := s.buffers.Get()
	buf = append(buf, packet...)
	return s.pool.Submit(ctx, Job{packet: buf, addr: addr, buffers: s.buffers})
}

// ProcessPacket decodes a request, answers it and writes the response.
func (s *Server) ProcessPacket(ctx context.Context, packet []byte, addr *net.UDPAddr) error {
	start := time.Now()
	s.count(mib.FieldSNMPPktsRecvTotal)

	req, err := s.decoder.SnmpDecodePacket(packet)
	if err != nil {
		s.count(mib.FieldSNMPPktsDroppedTotal)
		err = fmt.Errorf("failed to decode packet: %w", err)
		s.observe("undecodable", err, start)
		return err
	}

	ctx = logging.WithField(ctx, logging.KeyPeer, addr.String())
	ctx = logging.WithField(ctx, logging.KeyPDUType, pduTypeName(req.PDUType))
	ctx = logging.WithField(ctx, logging.KeyRequestID, strconv.FormatUint(uint64(req.RequestID), 10))
	err = s.answer(ctx, req, addr)
	s.observe(pduTypeName(req.PDUType), err, start)
	return err
}

func (s *Server) answer(ctx context.Context, req *gosnmp.SnmpPacket, addr *net.UDPAddr) error {
	if req.Version == gosnmp.Version3 {
		s.count(mib.FieldSNMPPktsDroppedTotal)
		return ErrUnsupportedVersion
	}
	if req.Community != s.cfg.Community {
		s.count(mib.FieldSNMPPktsAuthErrTotal)
		return ErrBadCommunity
	}

	resp, err := s.Respond(req)
	if err != nil {
		s.count(mib.FieldSNMPPktsDroppedTotal)
		return err
	}
	out, err := resp.MarshalMsg()
	if err != nil {
		s.count(mib.FieldSNMPPktsDroppedTotal)
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if _, err := s.conn.WriteToUDP(out, addr); err != nil {
		return fmt.Errorf("failed to send response to %s: %w", addr, err)
	}
	s.count(mib.FieldSNMPPktsSentTotal)

	s.tracer.TraceContext(ctx, 15, "answered request", "bindings", len(resp.Variables))
	return nil
}

func (s *Server) observe(pduType string, err error, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveRequest(pduType, err, time.Since(start))
	}
}

func pduTypeName(t gosnmp.PDUType) string {
	switch t {
	case gosnmp.GetRequest:
		return "get"
	case gosnmp.GetNextRequest:
		return "getnext"
	case gosnmp.GetBulkRequest:
		return "getbulk"
	case gosnmp.SetRequest:
		return "set"
	default:
		return "other"
	}
}

// Respond builds the GetResponse for a decoded request.
func (s *Server) Respond(req *gosnmp.SnmpPacket) (*gosnmp.SnmpPacket, error) {
	oids := make([]string, len(req.Variables))
	for i, v := range req.Variables {
		oids[i] = v.Name
	}

	resp := &gosnmp.SnmpPacket{
		Version:   req.Version,
		Community: req.Community,
		PDUType:   gosnmp.GetResponse,
		RequestID: req.RequestID,
	}

	switch req.PDUType {
	case gosnmp.GetRequest:
		resp.Variables = s.handler.Get(oids...)
	case gosnmp.GetNextRequest:
		resp.Variables = s.handler.GetNext(oids...)
	case gosnmp.GetBulkRequest:
		if req.Version == gosnmp.Version1 {
			return nil, fmt.Errorf("%w: GetBulk in SNMPv1", ErrUnsupportedPDU)
		}
		resp.Variables = s.handler.GetBulk(int(req.NonRepeaters), int(req.MaxRepetitions), oids...)
	case gosnmp.SetRequest:
		resp.Variables = req.Variables
		resp.Error = gosnmp.NotWritable
		if req.Version == gosnmp.Version1 {
			resp.Error = gosnmp.ReadOnly
		}
		if len(req.Variables) > 0 {
			resp.ErrorIndex = 1
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPDU, req.PDUType)
	}

	if req.Version == gosnmp.Version1 {
		downgradeV1(req, resp)
	}
	return resp, nil
}

// downgradeV1 replaces SNMPv2 exception bindings with a noSuchName error,
// the only way SNMPv1 can report a missing object.
func downgradeV1(req, resp *gosnmp.SnmpPacket) {
	for i, v := range resp.Variables {
		switch v.Type {
		case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView:
			resp.Error = gosnmp.NoSuchName
			resp.ErrorIndex = uint8(min(i+1, 255))
			resp.Variables = req.Variables
			return
		}
	}
}

func (s *Server) count(field mib.Field) {
	if s.traffic == nil {
		return
	}
	if _, err := s.traffic.Incr(field, 1); err != nil {
		s.tracer.Trace(10, "failed to count packet", "field", uint32(field), "error", err)
	}
}
