package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/trfv/score-cutter-sub000/model"
)

// DefaultPoolSize is used when a size below 1 is requested
const DefaultPoolSize = 4

// ErrTerminated is returned by Submit after Terminate
var ErrTerminated = errors.New("dispatch: pool terminated")

// Pool runs requests on a fixed set of worker goroutines.
//
// Each worker has its own input channel and all workers reply on one
// shared result channel. Replies are matched to their Future by task id;
// a reply whose task id is not pending is dropped. A task submitted while
// every worker is busy waits in a FIFO queue and goes to the next worker
// that finishes.
type Pool struct {
	handler HandlerFunc
	ids     model.IDGenerator
	logger  *slog.Logger
	size    int

	inputs  []chan Request
	results chan result

	mu         sync.Mutex
	idle       []int
	queue      []Request
	pending    map[string]*Future
	terminated bool

	ctx    context.Context
	cancel context.CancelFunc
}

// result is a reply tagged with the worker that produced it
type result struct {
	worker int
	resp   Response
}

// Option configures a Pool
type Option func(*Pool)

// WithSize sets the number of workers. Values below 1 select
// DefaultPoolSize.
func WithSize(n int) Option {
	return func(p *Pool) {
		p.size = n
	}
}

// WithHandler replaces the function workers run (default: Handle)
func WithHandler(h HandlerFunc) Option {
	return func(p *Pool) {
		p.handler = h
	}
}

// WithIDs sets the task id generator (default: random UUIDs)
func WithIDs(ids model.IDGenerator) Option {
	return func(p *Pool) {
		p.ids = ids
	}
}

// WithLogger sets the logger for dispatch events (default: discard)
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = l
	}
}

// NewPool starts a worker pool. The pool size defaults to the number of
// CPUs.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		handler: Handle,
		ids:     model.UUIDGenerator{},
		size:    runtime.NumCPU(),
		pending: make(map[string]*Future),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.size <= 0 {
		p.size = DefaultPoolSize
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.inputs = make([]chan Request, p.size)
	p.results = make(chan result, p.size)
	p.idle = make([]int, 0, p.size)

	for i := range p.inputs {
		// A worker only receives a task while idle, so one slot never blocks.
		p.inputs[i] = make(chan Request, 1)
		p.idle = append(p.idle, i)
		go p.work(i)
	}
	go p.collect()

	return p
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return p.size
}

// Submit assigns req a fresh task id and hands it to an idle worker, or
// queues it if every worker is busy.
func (p *Pool) Submit(req Request) (*Future, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.terminated {
		return nil, ErrTerminated
	}

	req.TaskID = p.ids.NewID()
	f := &Future{TaskID: req.TaskID, PageIndex: req.PageIndex, done: make(chan struct{})}
	p.pending[req.TaskID] = f

	if n := len(p.idle); n > 0 {
		w := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.inputs[w] <- req
		p.logger.Debug("task dispatched", "task", req.TaskID, "type", req.Type, "page", req.PageIndex, "worker", w)
	} else {
		p.queue = append(p.queue, req)
		p.logger.Debug("task queued", "task", req.TaskID, "type", req.Type, "page", req.PageIndex, "queued", len(p.queue))
	}

	return f, nil
}

// Run submits req and waits for its reply. An ERROR reply is returned as
// a *TaskError.
func (p *Pool) Run(ctx context.Context, req Request) (Response, error) {
	f, err := p.Submit(req)
	if err != nil {
		return Response{}, err
	}
	return f.Wait(ctx)
}

// Terminate stops the pool. Queued tasks are discarded and pending
// futures are never settled; callers waiting on them must give up through
// their context. A worker in the middle of a task exits when the task
// returns. Terminate may be called more than once.
func (p *Pool) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.terminated {
		return
	}
	p.terminated = true
	p.cancel()

	p.logger.Debug("pool terminated", "pending", len(p.pending), "queued", len(p.queue))
	p.idle = nil
	p.queue = nil
	p.pending = make(map[string]*Future)
}

func (p *Pool) work(id int) {
	for {
		select {
		case <-p.ctx.Done():
			return
		case req := <-p.inputs[id]:
			resp := safely(p.handler, req)
			select {
			case p.results <- result{worker: id, resp: resp}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

func (p *Pool) collect() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case r := <-p.results:
			p.settle(r)
		}
	}
}

// settle resolves the future a reply belongs to and gives the worker its
// next task.
func (p *Pool) settle(r result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.pending[r.resp.TaskID]
	if !ok {
		p.logger.Debug("dropping reply for unknown task", "task", r.resp.TaskID, "worker", r.worker)
		return
	}
	delete(p.pending, r.resp.TaskID)
	f.settle(r.resp)

	if len(p.queue) > 0 {
		next := p.queue[0]
		p.queue = p.queue[1:]
		p.inputs[r.worker] <- next
		p.logger.Debug("task dispatched", "task", next.TaskID, "type", next.Type, "page", next.PageIndex, "worker", r.worker)
		return
	}
	p.idle = append(p.idle, r.worker)
}

// Future is the eventual reply to a submitted request
type Future struct {
	TaskID    string
	PageIndex int

	done chan struct{}
	resp Response
	err  error
}

func (f *Future) settle(resp Response) {
	f.resp = resp
	f.err = responseErr(resp)
	close(f.done)
}

// Done is closed once the reply has arrived
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the reply arrives or ctx is done. An ERROR reply is
// returned together with a *TaskError.
func (f *Future) Wait(ctx context.Context) (Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}
