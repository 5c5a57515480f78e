package node

import (
	"errors"
	"sync/atomic"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/logging"
	"github.com/hupe1980/agenttree/scheduler"
	"github.com/hupe1980/agenttree/sensing"
)

var (
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("node already initialized")

	// ErrMissingParameter is returned when a required parameter is absent.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrInvalidParameter is returned when a parameter value cannot be parsed.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownParameter is returned for a parameter name the node does not accept.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrUnknownType is returned by Registry.New for an unregistered type name.
	ErrUnknownType = errors.New("unknown node type")
)

// Node is a behavior tree node. Run is only valid after a successful Init.
type Node interface {
	scheduler.Runner

	ID() int
	Type() string
	Init(id int, params []core.Parameter) error

	AddChild(child Node)
	Children() []Node

	Initialized() bool
	Scheduled() bool
	Executed() bool
	State() State

	MarkScheduled()
	ResetFlags()
}

// State is the lifecycle state derived from a node's flags.
type State int

const (
	StateCreated State = iota
	StateInitialized
	StateScheduled
	StateRunning
	StateExecuted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateInitialized:
		return "Initialized"
	case StateScheduled:
		return "Scheduled"
	case StateRunning:
		return "Running"
	case StateExecuted:
		return "Executed"
	default:
		return "Unknown"
	}
}

// Sensing is the capability sensor nodes query. *sensing.Registry implements it.
type Sensing interface {
	Find(name string) (*sensing.Sensor, bool)
	All(sense sensing.Sense) []*sensing.Sensor
	Check(s *sensing.Sensor) bool
	LastSensed(s *sensing.Sensor) []core.Handle
}

// World answers entity position lookups. *world.Directory implements it.
type World interface {
	FindPosition(name string) (core.Vec3, bool)
}

// Dependencies are the collaborators handed to node constructors.
type Dependencies struct {
	Sensing Sensing
	World   World
	Logger  logging.Logger
}

var lastID atomic.Int64

// NextID returns the next process-unique node id.
func NextID() int {
	return int(lastID.Add(1))
}

// reserveID advances the id generator so that NextID never returns id again.
func reserveID(id int) {
	for {
		cur := lastID.Load()
		if int64(id) <= cur || lastID.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}
