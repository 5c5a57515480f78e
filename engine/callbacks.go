package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/tree"
)

// CallbackType defines the lifecycle points where callbacks are executed.
//
// Callbacks hook into the engine's tick loop without modifying core logic.
// They run synchronously on the goroutine ticking the tree, so they must be
// fast.
type CallbackType string

const (
	// CallbackBeforeTick is triggered before a tree is ticked. Returning an
	// error skips the tick and halts the tree.
	CallbackBeforeTick CallbackType = "before_tick"

	// CallbackAfterTick is triggered after a tree was ticked without fault.
	CallbackAfterTick CallbackType = "after_tick"

	// CallbackOnRunComplete is triggered once per completed root run.
	CallbackOnRunComplete CallbackType = "on_run_complete"

	// CallbackOnFault is triggered when a tree's scheduler reports a fault.
	CallbackOnFault CallbackType = "on_fault"
)

// CallbackContext carries the information a callback may inspect.
type CallbackContext struct {
	// TreeName is the name the tree was registered under.
	TreeName string

	// Tree is the tree being ticked.
	Tree *tree.Tree

	// Runs is the number of completed root runs at callback time.
	Runs uint64

	// Err is the fault for CallbackOnFault, nil otherwise.
	Err error

	// CallbackType indicates which lifecycle point triggered this execution.
	CallbackType CallbackType

	// Metadata provides extensible storage for custom callback data.
	Metadata map[string]any
}

// Callback defines the interface for tick lifecycle hooks.
//
// Callbacks that return errors halt the associated tree. Use this for
// invariants that must hold between ticks.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	cb := NewFunctionCallback(
//	    CallbackOnRunComplete,
//	    func(ctx context.Context, cc *CallbackContext) error {
//	        log.Printf("%s finished run %d", cc.TreeName, cc.Runs)
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager routes callbacks by type.
//
// Callbacks are executed in registration order, and any callback returning
// an error prevents subsequent callbacks from running. Registration and
// execution are safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates a new callback manager instance.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback to the manager for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks executes all registered callbacks for the specified type
// and returns the first error.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	cm.mu.RLock()
	callbacks := cm.callbacks[callbackType]
	cm.mu.RUnlock()

	callbackCtx.CallbackType = callbackType

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}

// LoggingCallback forwards lifecycle events to a logging function.
//
// Example:
//
//	callback := NewLoggingCallback(CallbackOnFault, func(msg string) {
//	    log.Printf("[ENGINE] %s", msg)
//	})
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a new logging callback.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the tree name, run count and error, if any.
func (c *LoggingCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	if c.logger == nil {
		return nil
	}

	message := fmt.Sprintf("[%s] Tree: %s, Runs: %d", c.callbackType, callbackCtx.TreeName, callbackCtx.Runs)
	if callbackCtx.Err != nil {
		message += fmt.Sprintf(", Error: %v", callbackCtx.Err)
	}
	c.logger(message)

	return nil
}

// BlackboardValidationCallback validates a tree's blackboard after every
// tick. A validation error halts the tree.
//
// Example:
//
//	validator := func(values map[string]core.Value) error {
//	    if hp, ok := values["hp"]; ok {
//	        if n, _ := hp.AsInt(); n < 0 {
//	            return errors.New("hp must not be negative")
//	        }
//	    }
//	    return nil
//	}
//	callback := NewBlackboardValidationCallback(validator)
type BlackboardValidationCallback struct {
	validator func(values map[string]core.Value) error
}

// NewBlackboardValidationCallback creates a new blackboard validation callback.
func NewBlackboardValidationCallback(validator func(values map[string]core.Value) error) *BlackboardValidationCallback {
	return &BlackboardValidationCallback{
		validator: validator,
	}
}

// Type returns the callback type (always CallbackAfterTick).
func (c *BlackboardValidationCallback) Type() CallbackType {
	return CallbackAfterTick
}

// Execute validates a snapshot of the tree's blackboard.
func (c *BlackboardValidationCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	if c.validator != nil && callbackCtx.Tree != nil {
		return c.validator(callbackCtx.Tree.Blackboard().Snapshot())
	}
	return nil
}
