// Package dispatch runs page detection across a pool of worker goroutines.
//
// Work is described by a small request/response protocol: a Request names
// the detection to run (DETECT_SYSTEMS or DETECT_STAFFS) together with the
// page's RGBA buffer, and a Response carries the detected pixel bands or an
// ERROR message. Handle is the worker body; it never panics and reports
// malformed buffers as ERROR responses.
//
// A Pool owns a fixed number of workers. Submit returns a Future that
// settles when the task's reply arrives:
//
//	pool := dispatch.NewPool(dispatch.WithSize(4))
//	defer pool.Terminate()
//
//	f, err := pool.Submit(dispatch.Request{Type: dispatch.DetectSystems, ...})
//	if err != nil {
//		return err
//	}
//	resp, err := f.Wait(ctx)
//
// DetectPages drives a whole batch through any Runner, a *Pool or the
// single-threaded Sync, and returns results in page order.
package dispatch
