package agent

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/geekxflood/ftpmib/logging"
)

// BufferPool recycles request buffers handed to the worker pool.
type BufferPool struct {
	size    int
	buffers sync.Pool
}

// NewBufferPool returns a pool of buffers with capacity size.
func NewBufferPool(size int) *BufferPool {
	bp := &BufferPool{size: size}
	bp.buffers.New = func() any {
		return make([]byte, 0, size)
	}
	return bp
}

// Get returns an empty buffer.
func (bp *BufferPool) Get() []byte {
	buf, ok := bp.buffers.Get().([]byte)
	if !ok {
		return make([]byte, 0, bp.size)
	}
	return buf[:0]
}

// Put returns a buffer to the pool. Buffers that grew past twice the pool
// size are dropped.
func (bp *BufferPool) Put(buf []byte) {
	if cap(buf) <= 2*bp.size {
		bp.buffers.Put(buf[:0])
	}
}

// Job is one received datagram queued for a worker.
type Job struct {
	packet  []byte
	addr    *net.UDPAddr
	buffers *BufferPool
}

// WorkerPool processes queued packets on a fixed set of goroutines.
type WorkerPool struct {
	workers   int
	processor PacketProcessor
	tracer    *logging.Tracer
	jobs      chan Job
	ctx       context.Context
	wg        sync.WaitGroup
	once      sync.Once
}

// NewWorkerPool returns a stopped pool of size workers. Failed requests are
// traced on the snmp.agent channel of logger.
func NewWorkerPool(size int, processor PacketProcessor, logger logging.Logger) *WorkerPool {
	return &WorkerPool{
		workers:   size,
		processor: processor,
		tracer:    logging.NewTracer(logging.ChannelAgent, logger),
		jobs:      make(chan Job, size*2),
	}
}

// Start launches the workers. They process jobs with ctx.
func (w *WorkerPool) Start(ctx context.Context) {
	w.ctx = ctx
	for range w.workers {
		w.wg.Add(1)
		go w.worker()
	}
}

// Stop closes the queue and waits for queued jobs to finish. Submit must
// not be called after Stop.
func (w *WorkerPool) Stop() {
	w.once.Do(func() {
		close(w.jobs)
	})
	w.wg.Wait()
}

func (w *WorkerPool) worker() {
	defer w.wg.Done()

	for job := range w.jobs {
		if err := w.processor.ProcessPacket(w.ctx, job.packet, job.addr); err != nil && !errors.Is(err, context.Canceled) {
			w.tracer.Trace(5, "request failed", "peer", job.addr.String(), "error", err)
		}
		if job.buffers != nil {
			job.buffers.Put(job.packet)
		}
	}
}

// Submit queues a job, blocking until a slot frees up or ctx ends.
func (w *WorkerPool) Submit(ctx context.Context, job Job) error {
	select {
	case w.jobs <- job:
		return nil
	case <-ctx.Done():
		if job.buffers != nil {
			job.buffers.Put(job.packet)
		}
		return ctx.Err()
	}
}
