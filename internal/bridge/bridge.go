package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownCommand is returned when no handler is registered for a command
var ErrUnknownCommand = errors.New("unknown command")

// Invoker calls a named backend command with JSON-encodable arguments
type Invoker interface {
	Invoke(ctx context.Context, command string, args any) (json.RawMessage, error)
}

// Handler serves a single command. The returned value is JSON-encoded.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// CommandError is a failure reported by a command handler.
// Message is the text the backend chose to expose to the caller.
type CommandError struct {
	Command string
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	return e.Command + ": " + e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Router dispatches commands to registered handlers in-process
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRouter creates an empty router
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register binds a handler to a command name, replacing any previous one
func (r *Router) Register(command string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[command] = h
}

// Commands returns registered command names in sorted order
func (r *Router) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke implements Invoker
func (r *Router) Invoke(ctx context.Context, command string, args any) (json.RawMessage, error) {
	payload, err := encodeArgs(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s args: %w", command, err)
	}
	return r.Dispatch(ctx, command, payload)
}

// Dispatch runs a command whose arguments are already JSON-encoded
func (r *Router) Dispatch(ctx context.Context, command string, args json.RawMessage) (json.RawMessage, error) {
	r.mu.RLock()
	h, ok := r.handlers[command]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}

	result, err := h(ctx, args)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return nil, err
		}
		return nil, &CommandError{Command: command, Message: err.Error(), Err: err}
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", command, err)
	}
	return out, nil
}

// DecodeArgs unmarshals handler arguments, treating an empty payload as {}
func DecodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// ErrorMessage extracts the backend-provided message from an Invoke error,
// falling back to the error text itself.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Message != "" {
		return cmdErr.Message
	}
	return err.Error()
}

func encodeArgs(args any) (json.RawMessage, error) {
	switch v := args.(type) {
	case nil:
		return json.RawMessage("{}"), nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}
