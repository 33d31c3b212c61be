// Package dockerapi is the abstract boundary (C2) between the core
// aggregator and a Docker-Engine-API-compatible daemon. The core depends
// only on the ContainerAPI interface below; dockerAdapter backs it with the
// real daemon and FakeAdapter backs it with an in-memory double for tests.
package dockerapi

import (
	"context"
	"io"
	"time"
)

// Kind classifies a failure from the daemon into one of four buckets the
// core reacts to differently (§7 of the design).
type Kind int

const (
	// KindNotFound means the container no longer exists.
	KindNotFound Kind = iota
	// KindDisconnected means the daemon could not be reached at all.
	KindDisconnected
	// KindTransient means a stream broke but the daemon is otherwise fine.
	KindTransient
	// KindFatal means an unexpected, unrecoverable failure.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindDisconnected:
		return "disconnected"
	case KindTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// Error wraps an underlying error with the Kind the core should react to.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, k Kind) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Kind == k
}

// ContainerRef is the minimal identity returned by a list call.
type ContainerRef struct {
	ID string
}

// PortBinding is one host-side binding for a container port.
type PortBinding struct {
	HostIP   string
	HostPort string
}

// ContainerDetail is the inspect payload the core needs (§6).
type ContainerDetail struct {
	ID         string
	Name       string // leading "/" already stripped
	Image      string
	RawStatus  string // lowercase runtime state
	HealthRaw  string // "" when the container has no healthcheck
	StartedAt  time.Time
	Labels     map[string]string
	Ports      map[string][]PortBinding // "containerPort/proto" -> bindings
}

// Event is a single daemon event (§6). Only Type == "container" events are
// relevant to the core; the adapter filters server-side where possible.
type Event struct {
	Type   string
	Status string // create, start, die, destroy, health_status, rename, ...
	ID     string
	Time   time.Time
}

// StatsSample mirrors the shape of the Docker Engine stats JSON (§6): the
// daemon hands back both the current and previous CPU snapshot in every
// frame, so the core never needs to remember the prior sample itself.
type StatsSample struct {
	CPUTotalUsage     uint64
	CPUSystemUsage    uint64
	PreCPUTotalUsage  uint64
	PreCPUSystemUsage uint64
	OnlineCPUs        int
	PercpuCount       int
	MemoryUsage       int64
	MemoryLimit       int64
}

// CommandResult is the outcome of a one-shot action (restart/stop).
type CommandResult struct {
	ExitCode int
	Stderr   string
}

// ContainerAPI is the port the core consumes. Every method can fail with an
// *Error of one of the four Kinds above.
type ContainerAPI interface {
	// Ping checks daemon liveness.
	Ping(ctx context.Context) error

	// ListAll returns every container the daemon currently knows about.
	ListAll(ctx context.Context) ([]ContainerRef, error)

	// Inspect returns the detail payload for one container.
	Inspect(ctx context.Context, id string) (ContainerDetail, error)

	// StreamEvents returns a channel of container-type events. The channel
	// closes when ctx is canceled or the stream errors; errs receives at
	// most one error before closing.
	StreamEvents(ctx context.Context) (<-chan Event, <-chan error)

	// StreamStats returns a channel of stats samples for one container.
	// It closes when the container exits, ctx is canceled, or the stream
	// errors; errs receives at most one error before closing.
	StreamStats(ctx context.Context, id string) (<-chan StatsSample, <-chan error)

	// Logs returns a ready-to-run external command streaming container
	// logs, with stdio left for the caller to wire to the terminal.
	Logs(ctx context.Context, id string, tail int, follow bool) (Command, error)

	// ExecInteractive returns a ready-to-run external command for an
	// interactive shell session inside the container.
	ExecInteractive(ctx context.Context, id string, argv []string) (Command, error)

	// Restart restarts a container and reports its outcome.
	Restart(ctx context.Context, id string) (CommandResult, error)

	// Stop stops a container and reports its outcome.
	Stop(ctx context.Context, id string) (CommandResult, error)

	// Close releases any resources held by the adapter.
	Close() error
}

// Command is the minimal surface the action dispatcher (C6) needs from a
// child process: wire up stdio individually, run it, get an exit code
// back. Shaped to match bubbletea's tea.ExecCommand interface (Run,
// SetStdin, SetStdout, SetStderr) so a Command can be handed straight to
// tea.ExecProcess without an adapter.
type Command interface {
	SetStdin(io.Reader)
	SetStdout(io.Writer)
	SetStderr(io.Writer)
	Run() error
	ExitCode() int
}
