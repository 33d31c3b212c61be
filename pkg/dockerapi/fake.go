package dockerapi

import (
	"context"
	"io"
	"sync"
)

// FakeAdapter is an in-memory ContainerAPI double. Tests drive it by
// changing its containers through PutContainer/RemoveContainer and pushing synthetic events/stats onto the
// channels it hands back, rather than by talking to a real daemon.
type FakeAdapter struct {
	mu         sync.Mutex
	containers map[string]ContainerDetail

	events    chan Event
	eventErrs chan error

	statsByID map[string]chan StatsSample
	statErrs  map[string]chan error

	pingErr error
}

// NewFakeAdapter returns an empty fake ready for a test to populate.
func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{
		containers: make(map[string]ContainerDetail),
		events:     make(chan Event, 16),
		eventErrs:  make(chan error, 1),
		statsByID:  make(map[string]chan StatsSample),
		statErrs:   make(map[string]chan error),
	}
}

// SetPingErr makes Ping fail with err (use an *Error for Kind fidelity).
func (f *FakeAdapter) SetPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

// PutContainer inserts or replaces a container's detail record.
func (f *FakeAdapter) PutContainer(d ContainerDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containers[d.ID] = d
}

// RemoveContainer deletes a container's record, so a subsequent Inspect
// returns NotFound.
func (f *FakeAdapter) RemoveContainer(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.containers, id)
}

// PushEvent sends a synthetic event into the event stream.
func (f *FakeAdapter) PushEvent(ev Event) {
	f.events <- ev
}

// StatsChan returns the channel StreamStats(id) will push samples onto,
// creating it if needed, so a test can push samples for a container before
// or after the monitor starts consuming them.
func (f *FakeAdapter) StatsChan(id string) chan StatsSample {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.statsByID[id]; ok {
		return ch
	}
	ch := make(chan StatsSample, 16)
	f.statsByID[id] = ch
	f.statErrs[id] = make(chan error, 1)
	return ch
}

func (f *FakeAdapter) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *FakeAdapter) ListAll(ctx context.Context) ([]ContainerRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make([]ContainerRef, 0, len(f.containers))
	for id := range f.containers {
		refs = append(refs, ContainerRef{ID: id})
	}
	return refs, nil
}

func (f *FakeAdapter) Inspect(ctx context.Context, id string) (ContainerDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.containers[id]
	if !ok {
		return ContainerDetail{}, &Error{Kind: KindNotFound}
	}
	return d, nil
}

func (f *FakeAdapter) StreamEvents(ctx context.Context) (<-chan Event, <-chan error) {
	go func() {
		<-ctx.Done()
	}()
	return f.events, f.eventErrs
}

func (f *FakeAdapter) StreamStats(ctx context.Context, id string) (<-chan StatsSample, <-chan error) {
	ch := f.StatsChan(id)
	f.mu.Lock()
	errs := f.statErrs[id]
	f.mu.Unlock()
	return ch, errs
}

func (f *FakeAdapter) Logs(ctx context.Context, id string, tail int, follow bool) (Command, error) {
	return &noopCommand{}, nil
}

func (f *FakeAdapter) ExecInteractive(ctx context.Context, id string, argv []string) (Command, error) {
	return &noopCommand{}, nil
}

func (f *FakeAdapter) Restart(ctx context.Context, id string) (CommandResult, error) {
	return CommandResult{ExitCode: 0}, nil
}

func (f *FakeAdapter) Stop(ctx context.Context, id string) (CommandResult, error) {
	return CommandResult{ExitCode: 0}, nil
}

func (f *FakeAdapter) Close() error { return nil }

// noopCommand is a Command that does nothing, for tests that only care
// about which action was dispatched rather than a real child process.
type noopCommand struct{}

func (c *noopCommand) SetStdin(io.Reader)   {}
func (c *noopCommand) SetStdout(io.Writer)  {}
func (c *noopCommand) SetStderr(io.Writer)  {}
func (c *noopCommand) Run() error           { return nil }
func (c *noopCommand) ExitCode() int        { return 0 }

var _ ContainerAPI = (*FakeAdapter)(nil)
