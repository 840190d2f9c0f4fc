package dispatch

import (
	"fmt"

	"github.com/trfv/score-cutter-sub000/layout"
)

// RequestType identifies the detection a worker runs
type RequestType string

const (
	// DetectSystems finds the systems of a page
	DetectSystems RequestType = "DETECT_SYSTEMS"
	// DetectStaffs finds the staves inside each given system
	DetectStaffs RequestType = "DETECT_STAFFS"
)

// ResponseType identifies a worker reply
type ResponseType string

const (
	SystemsDetected ResponseType = "SYSTEMS_DETECTED"
	StaffsDetected  ResponseType = "STAFFS_DETECTED"
	ResponseError   ResponseType = "ERROR"
)

// Request is a single detection task. RGBA holds Width*Height*4 bytes of
// the rasterized page; workers only read it.
type Request struct {
	Type      RequestType `json:"type"`
	TaskID    string      `json:"taskId"`
	PageIndex int         `json:"pageIndex"`
	RGBA      []byte      `json:"rgbaData"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`

	// DETECT_SYSTEMS
	SystemGapHeight int `json:"systemGapHeight,omitempty"`

	// DETECT_STAFFS
	SystemBoundaries []layout.Boundary `json:"systemBoundaries,omitempty"`
	PartGapHeight    int               `json:"partGapHeight,omitempty"`
}

// Response is a worker reply. TaskID and PageIndex echo the request.
type Response struct {
	Type           ResponseType        `json:"type"`
	TaskID         string              `json:"taskId"`
	PageIndex      int                 `json:"pageIndex"`
	Systems        []layout.Boundary   `json:"systems,omitempty"`
	StaffsBySystem [][]layout.Boundary `json:"staffsBySystem,omitempty"`
	Message        string              `json:"message,omitempty"`
}

// TaskError is returned for a task whose worker replied with ERROR
type TaskError struct {
	TaskID    string
	PageIndex int
	Message   string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s (page %d) failed: %s", e.TaskID, e.PageIndex, e.Message)
}

// errorResponse builds an ERROR reply for req
func errorResponse(req Request, message string) Response {
	return Response{
		Type:      ResponseError,
		TaskID:    req.TaskID,
		PageIndex: req.PageIndex,
		Message:   message,
	}
}

// responseErr converts an ERROR reply into a *TaskError
func responseErr(resp Response) error {
	if resp.Type != ResponseError {
		return nil
	}
	return &TaskError{TaskID: resp.TaskID, PageIndex: resp.PageIndex, Message: resp.Message}
}
