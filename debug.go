package vkinit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Severity is the class of a driver diagnostic message.
type Severity uint32

const (
	SeverityInformation Severity = 1 << iota
	SeverityWarning
	SeverityPerformanceWarning
	SeverityError
	SeverityDebug
)

func (s Severity) String() string {
	switch {
	case s&SeverityError != 0:
		return "ERROR"
	case s&SeverityWarning != 0:
		return "WARNING"
	case s&SeverityPerformanceWarning != 0:
		return "PERFORMANCE WARNING"
	case s&SeverityDebug != 0:
		return "DEBUG"
	default:
		return "INFORMATION"
	}
}

// DebugMessage is a diagnostic reported asynchronously by the driver.
type DebugMessage struct {
	Severity    Severity
	LayerPrefix string
	Code        int32
	Text        string
}

// DiagnosticsHandler receives driver diagnostics. The driver may call it from
// any thread.
type DiagnosticsHandler interface {
	HandleMessage(msg DebugMessage)
}

// HandlerFunc adapts a function to DiagnosticsHandler.
type HandlerFunc func(msg DebugMessage)

func (f HandlerFunc) HandleMessage(msg DebugMessage) { f(msg) }

// StderrHandler writes the text of every message to W, or to os.Stderr when W
// is nil.
type StderrHandler struct {
	W  io.Writer
	mu sync.Mutex
}

func (h *StderrHandler) HandleMessage(msg DebugMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w := h.W
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Validation layer: %s\n", msg.Text)
}

// LogHandler routes messages to a structured logger, choosing the level from
// the message severity.
type LogHandler struct {
	Logger *slog.Logger
}

func (h LogHandler) HandleMessage(msg DebugMessage) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	switch {
	case msg.Severity&SeverityError != 0:
		level = slog.LevelError
	case msg.Severity&(SeverityWarning|SeverityPerformanceWarning) != 0:
		level = slog.LevelWarn
	case msg.Severity&SeverityDebug != 0:
		level = slog.LevelDebug
	}
	logger.Log(context.Background(), level, msg.Text,
		"layer", msg.LayerPrefix, "code", msg.Code, "severity", msg.Severity.String())
}

// DebugHook is a registered diagnostics callback, scoped to its instance.
type DebugHook struct {
	Instance *Instance
	Handle   DebugHandle
	Handler  DiagnosticsHandler

	destroyed bool
}

// SetDebugHandler registers handler to receive the instance's diagnostics.
// The instance must have been created with the diagnostics extension.
func (i *Instance) SetDebugHandler(handler DiagnosticsHandler) (*DebugHook, error) {
	if !contains(i.Extensions, DebugReportExtension) {
		return nil, errors.Errorf("instance was created without %s", DebugReportExtension)
	}
	if handler == nil {
		handler = &StderrHandler{}
	}
	h, err := i.Host.CreateDebugCallback(i.Handle, handler)
	if err != nil {
		return nil, errors.Wrap(err, "failed to set up debug callback")
	}
	return &DebugHook{Instance: i, Handle: h, Handler: handler}, nil
}

// Destroy unregisters the callback. Later calls do nothing.
func (d *DebugHook) Destroy() {
	if d == nil || d.destroyed {
		return
	}
	d.destroyed = true
	d.Instance.Host.DestroyDebugCallback(d.Instance.Handle, d.Handle)
}
