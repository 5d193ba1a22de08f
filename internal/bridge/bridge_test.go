package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoArgs struct {
	Query string `json:"query"`
}

func newTestRouter() *Router {
	r := NewRouter()
	r.Register("echo", func(_ context.Context, raw json.RawMessage) (any, error) {
		var args echoArgs
		if err := DecodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return map[string]string{"query": args.Query}, nil
	})
	r.Register("fail", func(context.Context, json.RawMessage) (any, error) {
		return nil, errors.New("API error: quota exceeded")
	})
	r.Register("typed", func(context.Context, json.RawMessage) (any, error) {
		return nil, &CommandError{Command: "typed", Message: "custom message"}
	})
	return r
}

func TestRouter_Invoke(t *testing.T) {
	r := newTestRouter()

	raw, err := r.Invoke(context.Background(), "echo", echoArgs{Query: "bohemian rhapsody"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"bohemian rhapsody"}`, string(raw))
}

func TestRouter_InvokeNilArgs(t *testing.T) {
	r := newTestRouter()

	raw, err := r.Invoke(context.Background(), "echo", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":""}`, string(raw))
}

func TestRouter_UnknownCommand(t *testing.T) {
	r := newTestRouter()

	_, err := r.Invoke(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRouter_HandlerError(t *testing.T) {
	r := newTestRouter()

	_, err := r.Invoke(context.Background(), "fail", nil)
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "fail", cmdErr.Command)
	assert.Equal(t, "API error: quota exceeded", cmdErr.Message)
	assert.Equal(t, "API error: quota exceeded", ErrorMessage(err))
}

func TestRouter_TypedHandlerErrorKept(t *testing.T) {
	r := newTestRouter()

	_, err := r.Invoke(context.Background(), "typed", nil)
	assert.Equal(t, "custom message", ErrorMessage(err))
}

func TestRouter_BadArgs(t *testing.T) {
	r := newTestRouter()

	_, err := r.Dispatch(context.Background(), "echo", json.RawMessage(`{"query":42}`))
	require.Error(t, err)
	assert.Contains(t, ErrorMessage(err), "invalid arguments")
}

func TestRouter_Commands(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, []string{"echo", "fail", "typed"}, r.Commands())
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "plain", ErrorMessage(errors.New("plain")))
}
