package dispatch

import (
	"fmt"

	"github.com/trfv/score-cutter-sub000/layout"
	"github.com/trfv/score-cutter-sub000/raster"
)

// HandlerFunc runs one request to completion. Pool workers and Sync both
// call it; Handle is the default.
type HandlerFunc func(Request) Response

// Handle runs the detection named by req.Type on req's pixel buffer.
// Malformed buffers, unknown request types and panics produce an ERROR
// response; Handle itself never panics.
func Handle(req Request) Response {
	return safely(detect, req)
}

// safely calls h and turns a panic into an ERROR response
func safely(h HandlerFunc, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = errorResponse(req, fmt.Sprintf("panic: %v", r))
		}
	}()
	return h(req)
}

func detect(req Request) Response {
	profile, err := raster.Profile(req.RGBA, req.Width, req.Height)
	if err != nil {
		return errorResponse(req, err.Error())
	}

	switch req.Type {
	case DetectSystems:
		cfg := layout.DefaultSystemConfig()
		if req.SystemGapHeight > 0 {
			cfg.MinGapHeight = req.SystemGapHeight
		}
		return Response{
			Type:      SystemsDetected,
			TaskID:    req.TaskID,
			PageIndex: req.PageIndex,
			Systems:   layout.NewSystemDetectorWithConfig(cfg).Detect(profile),
		}

	case DetectStaffs:
		cfg := layout.DefaultStaffConfig()
		if req.PartGapHeight > 0 {
			cfg.MinPartGapHeight = req.PartGapHeight
		}
		return Response{
			Type:           StaffsDetected,
			TaskID:         req.TaskID,
			PageIndex:      req.PageIndex,
			StaffsBySystem: layout.NewStaffDetectorWithConfig(cfg).DetectAll(profile, req.SystemBoundaries),
		}

	default:
		return errorResponse(req, fmt.Sprintf("unknown request type %q", req.Type))
	}
}
