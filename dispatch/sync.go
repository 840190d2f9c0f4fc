package dispatch

import (
	"context"
	"strconv"
	"sync/atomic"
)

// Runner executes detection requests. *Pool runs them on its workers;
// Sync runs them on the calling goroutine.
type Runner interface {
	Run(ctx context.Context, req Request) (Response, error)
	Size() int
}

// Sync is the single-threaded fallback. It calls the handler directly and
// DetectPages runs one page at a time through it.
type Sync struct {
	// Handler defaults to Handle
	Handler HandlerFunc

	n atomic.Int64
}

// Size always returns 1
func (s *Sync) Size() int {
	return 1
}

// Run handles req immediately. An ERROR reply is returned together with
// a *TaskError.
func (s *Sync) Run(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	h := s.Handler
	if h == nil {
		h = Handle
	}
	req.TaskID = "sync-" + strconv.FormatInt(s.n.Add(1), 10)
	resp := safely(h, req)
	return resp, responseErr(resp)
}
