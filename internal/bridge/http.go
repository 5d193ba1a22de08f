package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HTTP transport constants
const (
	InvokePathPrefix     = "/invoke/"
	HealthPath           = "/health"
	MaxArgsBodySize      = 1 << 20
	DefaultClientTimeout = 30 * time.Minute
)

// Dispatcher runs commands with pre-encoded arguments. Router implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, command string, args json.RawMessage) (json.RawMessage, error)
}

type errorBody struct {
	Error string `json:"error"`
}

// NewHTTPHandler exposes a dispatcher as POST /invoke/{command}.
// A zero timeout leaves requests unbounded, which long downloads need.
func NewHTTPHandler(d Dispatcher, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post(InvokePathPrefix+"{command}", func(w http.ResponseWriter, req *http.Request) {
		command := chi.URLParam(req, "command")

		body, err := io.ReadAll(io.LimitReader(req.Body, MaxArgsBodySize+1))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "failed to read request body"})
			return
		}
		if len(body) > MaxArgsBodySize {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "arguments too large"})
			return
		}
		if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "arguments are not valid JSON"})
			return
		}

		result, err := d.Dispatch(req.Context(), command, body)
		if err != nil {
			status := http.StatusInternalServerError
			var cmdErr *CommandError
			switch {
			case errors.Is(err, ErrUnknownCommand):
				status = http.StatusNotFound
			case errors.As(err, &cmdErr):
				status = http.StatusUnprocessableEntity
			}
			log.Printf("Command %s failed: %v", command, err)
			writeJSON(w, status, errorBody{Error: ErrorMessage(err)})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HTTPClient invokes commands on a remote bridge served by NewHTTPHandler
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for the bridge at baseURL
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Invoke implements Invoker
func (c *HTTPClient) Invoke(ctx context.Context, command string, args any) (json.RawMessage, error) {
	payload, err := encodeArgs(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s args: %w", command, err)
	}

	endpoint := c.baseURL + InvokePathPrefix + url.PathEscape(command)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", command, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", command, err)
	}

	if resp.StatusCode == http.StatusOK {
		return json.RawMessage(body), nil
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Error == "" {
		eb.Error = fmt.Sprintf("bridge status %d", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
	return nil, &CommandError{Command: command, Message: eb.Error}
}
