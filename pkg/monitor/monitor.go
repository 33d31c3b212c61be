// Package monitor owns the live container-state aggregator: an in-memory,
// event-driven model of every container on the daemon, kept current by an
// event worker and one stats worker per running container, and projected on
// demand into a renderable, project-grouped snapshot.
package monitor

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dockedup/dockedup/pkg/dockerapi"
	"github.com/dockedup/dockedup/pkg/format"
	"github.com/dockedup/dockedup/pkg/logger"
)

// noProject is the group label for containers with no Compose project label.
const noProject = "(No Project)"

const composeProjectLabel = "com.docker.compose.project"
const composeServiceLabel = "com.docker.compose.service"

// joinTimeout bounds how long Stop waits for workers to exit.
const joinTimeout = 2 * time.Second

// Record is the renderable projection of one container. Every *Display
// field is already formatted by pkg/format; the renderer never computes a
// glyph or a percentage itself.
type Record struct {
	ID             string
	Name           string
	Project        string
	Image          string
	ComposeService string
	RawStatus      string
	StatusDisplay  format.Styled
	HealthRaw      string
	HealthDisplay  format.Styled
	StartedAt      time.Time
	CPUDisplay     format.Styled
	MemoryDisplay  format.Styled
	Ports          map[string][]format.PortBinding
	Labels         map[string]string
}

// ProjectGroup is every container that shares one Compose project label,
// sorted by container name.
type ProjectGroup struct {
	Project    string
	Containers []Record
}

// Snapshot is the immutable, renderable projection of the container map:
// an ordered list of project groups, themselves ordered by project name.
type Snapshot struct {
	Groups []ProjectGroup
}

// Flatten lists every record in the same order the renderer draws them:
// group order, then container order within each group. App state keys its
// flat index off this ordering.
func (s Snapshot) Flatten() []Record {
	var out []Record
	for _, g := range s.Groups {
		out = append(out, g.Containers...)
	}
	return out
}

// entry is the monitor's internal bookkeeping for one tracked container.
type entry struct {
	record       Record
	cancelStats  context.CancelFunc
	statsRunning bool
}

// Monitor is the live container aggregator (C3).
type Monitor struct {
	api dockerapi.ContainerAPI

	mu      sync.Mutex
	records map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Monitor over the given daemon port. Call Run to start it.
func New(api dockerapi.ContainerAPI) *Monitor {
	return &Monitor{
		api:     api,
		records: make(map[string]*entry),
	}
}

// Run performs the initial populate (list, inspect each, spawn stats
// workers for running containers) and launches the event worker. It
// returns once the initial populate is done; the event and stats workers
// keep running in the background until Stop is called.
func (m *Monitor) Run(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	refs, err := m.api.ListAll(m.ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		m.addOrUpdate(m.ctx, ref.ID)
	}
	logger.Info("monitor: initial populate found %d container(s)", len(refs))

	m.wg.Add(1)
	go m.runEventWorker()

	return nil
}

// Stop signals every worker to exit and joins them with a bounded timeout.
// A timeout is logged, not propagated: an orphaned worker is abandoned
// rather than left to hang the shutdown path.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(joinTimeout):
		logger.Warn("monitor: shutdown join timed out after %s, abandoning workers", joinTimeout)
	}
}

// Snapshot produces the current renderable projection. The lock is held
// only long enough to copy records out; nothing blocking happens while it
// is held.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	byProject := make(map[string][]Record, len(m.records))
	for _, e := range m.records {
		byProject[e.record.Project] = append(byProject[e.record.Project], e.record)
	}
	m.mu.Unlock()

	projects := make([]string, 0, len(byProject))
	for p := range byProject {
		projects = append(projects, p)
	}
	sort.Strings(projects)

	groups := make([]ProjectGroup, 0, len(projects))
	for _, p := range projects {
		containers := byProject[p]
		sort.Slice(containers, func(i, j int) bool { return containers[i].Name < containers[j].Name })
		groups = append(groups, ProjectGroup{Project: p, Containers: containers})
	}
	return Snapshot{Groups: groups}
}

func (m *Monitor) runEventWorker() {
	defer m.wg.Done()

	events, errs := m.api.StreamEvents(m.ctx)
	for {
		select {
		case <-m.ctx.Done():
			return
		case err, ok := <-errs:
			if ok && err != nil {
				logger.Warn("monitor: event stream error: %v", err)
			}
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type != "container" {
				continue
			}
			m.dispatchEvent(ev)
		}
	}
}

func (m *Monitor) dispatchEvent(ev dockerapi.Event) {
	logger.Debug("monitor: event %s status=%s id=%s", ev.Type, ev.Status, ev.ID)
	switch {
	case matchesAny(ev.Status, "create", "start", "restart", "rename") || strings.HasPrefix(ev.Status, "health_status"):
		m.addOrUpdate(m.ctx, ev.ID)
	case matchesAny(ev.Status, "die", "stop", "kill", "destroy"):
		m.remove(ev.ID)
	}
}

func matchesAny(s string, options ...string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}

// addOrUpdate inspects a container and writes its refreshed record,
// spawning a stats worker if it is now running and has none, and cancelling
// its stats worker if it is no longer running. An inspect NotFound is
// treated as a removal.
func (m *Monitor) addOrUpdate(ctx context.Context, id string) {
	detail, err := m.api.Inspect(ctx, id)
	if err != nil {
		if dockerapi.IsKind(err, dockerapi.KindNotFound) {
			m.remove(id)
			return
		}
		logger.Warn("monitor: inspect %s failed: %v", id, err)
		return
	}

	record := Record{
		ID:             detail.ID,
		Name:           detail.Name,
		Project:        projectOf(detail.Labels),
		Image:          detail.Image,
		ComposeService: detail.Labels[composeServiceLabel],
		RawStatus:      detail.RawStatus,
		StatusDisplay:  format.Status(detail.RawStatus),
		HealthRaw:      detail.HealthRaw,
		HealthDisplay:  format.Health(detail.HealthRaw),
		StartedAt:      detail.StartedAt,
		Ports:          convertPorts(detail.Ports),
		Labels:         detail.Labels,
		CPUDisplay:     format.Styled{Text: "—", Tone: format.ToneMuted},
		MemoryDisplay:  format.Styled{Text: "—", Tone: format.ToneMuted},
	}

	m.mu.Lock()
	existing, tracked := m.records[id]
	running := detail.RawStatus == "running"

	if tracked {
		// Stats display is only ever written by the stats worker; preserve
		// it across an inspect-driven refresh.
		record.CPUDisplay = existing.record.CPUDisplay
		record.MemoryDisplay = existing.record.MemoryDisplay
		existing.record = record
	} else {
		existing = &entry{record: record}
		m.records[id] = existing
	}

	needsSpawn := running && !existing.statsRunning
	needsCancel := !running && existing.statsRunning
	var workerCtx context.Context
	if needsSpawn {
		var cancel context.CancelFunc
		workerCtx, cancel = context.WithCancel(m.ctx)
		existing.cancelStats = cancel
		existing.statsRunning = true
	}
	if needsCancel && existing.cancelStats != nil {
		existing.cancelStats()
		existing.statsRunning = false
		existing.cancelStats = nil
	}
	m.mu.Unlock()

	if needsSpawn {
		m.wg.Add(1)
		go m.runStatsWorker(workerCtx, id)
	}
}

func (m *Monitor) remove(id string) {
	m.mu.Lock()
	existing, ok := m.records[id]
	if ok {
		if existing.cancelStats != nil {
			existing.cancelStats()
		}
		delete(m.records, id)
	}
	m.mu.Unlock()
}

func (m *Monitor) runStatsWorker(ctx context.Context, id string) {
	defer m.wg.Done()

	samples, errs := m.api.StreamStats(ctx, id)
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if ok && err != nil {
				logger.Warn("monitor: stats stream for %s error: %v", id, err)
			}
			return
		case sample, ok := <-samples:
			if !ok {
				return
			}
			m.applyStats(id, sample)
		}
	}
}

func (m *Monitor) applyStats(id string, sample dockerapi.StatsSample) {
	online := sample.OnlineCPUs
	if online <= 0 {
		online = sample.PercpuCount
	}
	if online <= 0 {
		online = 1
	}
	cur := format.CPUSample{Valid: true, TotalUsage: sample.CPUTotalUsage, SystemUsage: sample.CPUSystemUsage, OnlineCPUs: online}
	prev := format.CPUSample{Valid: true, TotalUsage: sample.PreCPUTotalUsage, SystemUsage: sample.PreCPUSystemUsage, OnlineCPUs: online}
	cpuDisplay := format.CPUPercent(cur, prev)
	memDisplay := format.Memory(sample.MemoryUsage, sample.MemoryLimit)

	m.mu.Lock()
	if existing, ok := m.records[id]; ok {
		existing.record.CPUDisplay = cpuDisplay
		existing.record.MemoryDisplay = memDisplay
	}
	m.mu.Unlock()
}

func projectOf(labels map[string]string) string {
	if p, ok := labels[composeProjectLabel]; ok && p != "" {
		return p
	}
	return noProject
}

func convertPorts(in map[string][]dockerapi.PortBinding) map[string][]format.PortBinding {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]format.PortBinding, len(in))
	for port, bindings := range in {
		fb := make([]format.PortBinding, 0, len(bindings))
		for _, b := range bindings {
			fb = append(fb, format.PortBinding{HostIP: b.HostIP, HostPort: b.HostPort})
		}
		out[port] = fb
	}
	return out
}
