package core

import "sync/atomic"

// Status is the outcome of a node run.
type Status int32

const (
	// Running means the run has not produced a final outcome yet.
	Running Status = iota
	// Success is a positive final outcome.
	Success
	// Failure is a negative final outcome. It is a control-flow signal, not an error.
	Failure
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// Done reports whether the status is final (Success or Failure).
func (s Status) Done() bool { return s == Success || s == Failure }

// ResultCell is a mutable box holding the Status of one node run. A fresh cell
// is created for each run and shared by pointer between the producing node and
// its consumers, so a parent can observe Running across ticks without asking
// the child again.
//
// Only the node owning the run writes the cell; any number of ancestors may
// read it, from any goroutine.
type ResultCell struct {
	v atomic.Int32
}

// NewResultCell returns a cell initialized to Running.
func NewResultCell() *ResultCell {
	return &ResultCell{} // zero value is Running
}

// Get returns the current status.
func (c *ResultCell) Get() Status { return Status(c.v.Load()) }

// Set stores a new status.
func (c *ResultCell) Set(s Status) { c.v.Store(int32(s)) }

// Done reports whether the cell holds a final status.
func (c *ResultCell) Done() bool { return c.Get().Done() }
