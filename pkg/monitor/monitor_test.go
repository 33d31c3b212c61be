package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/dockedup/dockedup/pkg/dockerapi"
)

// eventually polls cond until it returns true or the deadline passes,
// since the monitor's event and stats workers run on their own goroutines.
func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !cond() {
		t.Fatal("condition not met within deadline")
	}
}

func TestGrouping(t *testing.T) {
	fake := dockerapi.NewFakeAdapter()
	fake.PutContainer(dockerapi.ContainerDetail{
		ID: "c-backend", Name: "backend-service", RawStatus: "running", HealthRaw: "healthy",
		StartedAt: time.Now(),
		Labels:    map[string]string{"com.docker.compose.project": "my-app"},
		Ports:     map[string][]dockerapi.PortBinding{"8000/tcp": {{HostIP: "0.0.0.0", HostPort: "8000"}}},
	})
	fake.PutContainer(dockerapi.ContainerDetail{
		ID: "c-redis", Name: "redis-cache", RawStatus: "restarting",
		Labels: map[string]string{"com.docker.compose.project": "my-app"},
		Ports:  map[string][]dockerapi.PortBinding{"6379/tcp": {{HostIP: "0.0.0.0", HostPort: "6379"}}},
	})
	fake.PutContainer(dockerapi.ContainerDetail{
		ID: "c-old", Name: "old-container", RawStatus: "exited",
	})

	m := New(fake)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer m.Stop()

	snap := m.Snapshot()
	if len(snap.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(snap.Groups))
	}
	if snap.Groups[0].Project != noProject {
		t.Errorf("expected %q first (sorts before my-app), got %q", noProject, snap.Groups[0].Project)
	}
	myApp := snap.Groups[1]
	if myApp.Project != "my-app" || len(myApp.Containers) != 2 {
		t.Fatalf("expected my-app with 2 containers, got %+v", myApp)
	}
	if myApp.Containers[0].Name != "backend-service" || myApp.Containers[1].Name != "redis-cache" {
		t.Fatalf("expected name order backend-service, redis-cache, got %s, %s",
			myApp.Containers[0].Name, myApp.Containers[1].Name)
	}

	backend := myApp.Containers[0]
	if backend.StatusDisplay.Text != "✅ Up" {
		t.Errorf("backend status = %q", backend.StatusDisplay.Text)
	}
	if backend.HealthDisplay.Text != "🟢 Healthy" {
		t.Errorf("backend health = %q", backend.HealthDisplay.Text)
	}
	if backend.Ports["8000/tcp"][0].HostPort != "8000" {
		t.Errorf("backend ports = %+v", backend.Ports)
	}

	redis := myApp.Containers[1]
	if redis.StatusDisplay.Text != "🔁 Restarting" {
		t.Errorf("redis status = %q", redis.StatusDisplay.Text)
	}
	if redis.HealthDisplay.Text != "—" {
		t.Errorf("redis health = %q, want —", redis.HealthDisplay.Text)
	}

	old := snap.Groups[0].Containers[0]
	if old.StatusDisplay.Text != "❌ Down" {
		t.Errorf("old-container status = %q", old.StatusDisplay.Text)
	}
}

func TestStartEvent(t *testing.T) {
	fake := dockerapi.NewFakeAdapter()
	m := New(fake)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer m.Stop()

	fake.PutContainer(dockerapi.ContainerDetail{ID: "c1", Name: "one", RawStatus: "running", StartedAt: time.Now()})
	fake.PushEvent(dockerapi.Event{Type: "container", Status: "start", ID: "c1"})

	eventually(t, func() bool {
		flat := m.Snapshot().Flatten()
		return len(flat) == 1 && flat[0].ID == "c1"
	})

	eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		e, ok := m.records["c1"]
		return ok && e.statsRunning
	})
}

func TestDieEvent(t *testing.T) {
	fake := dockerapi.NewFakeAdapter()
	fake.PutContainer(dockerapi.ContainerDetail{ID: "c1", Name: "one", RawStatus: "running", StartedAt: time.Now()})
	fake.PutContainer(dockerapi.ContainerDetail{ID: "c2", Name: "two", RawStatus: "running", StartedAt: time.Now()})

	m := New(fake)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer m.Stop()

	eventually(t, func() bool { return len(m.Snapshot().Flatten()) == 2 })

	fake.RemoveContainer("c1")
	fake.PushEvent(dockerapi.Event{Type: "container", Status: "die", ID: "c1"})

	eventually(t, func() bool {
		flat := m.Snapshot().Flatten()
		return len(flat) == 1 && flat[0].ID == "c2"
	})
}

func TestStatsUpdate(t *testing.T) {
	fake := dockerapi.NewFakeAdapter()
	fake.PutContainer(dockerapi.ContainerDetail{ID: "c1", Name: "one", RawStatus: "running", StartedAt: time.Now()})

	m := New(fake)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer m.Stop()

	eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		e, ok := m.records["c1"]
		return ok && e.statsRunning
	})

	fake.StatsChan("c1") <- dockerapi.StatsSample{
		CPUTotalUsage: 2000, PreCPUTotalUsage: 1000,
		CPUSystemUsage: 10000, PreCPUSystemUsage: 5000,
		OnlineCPUs:  2,
		MemoryUsage: 50 * 1024 * 1024, MemoryLimit: 100 * 1024 * 1024,
	}

	eventually(t, func() bool {
		flat := m.Snapshot().Flatten()
		return len(flat) == 1 && flat[0].CPUDisplay.Text == "40.00%"
	})

	flat := m.Snapshot().Flatten()
	if flat[0].MemoryDisplay.Text != "50.0MiB / 100.0MiB (50.0%)" {
		t.Errorf("memory display = %q", flat[0].MemoryDisplay.Text)
	}
}

func TestInspectNotFoundTreatedAsRemoval(t *testing.T) {
	fake := dockerapi.NewFakeAdapter()
	fake.PutContainer(dockerapi.ContainerDetail{ID: "c1", Name: "one", RawStatus: "running", StartedAt: time.Now()})

	m := New(fake)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer m.Stop()

	eventually(t, func() bool { return len(m.Snapshot().Flatten()) == 1 })

	fake.RemoveContainer("c1")
	fake.PushEvent(dockerapi.Event{Type: "container", Status: "restart", ID: "c1"})

	eventually(t, func() bool { return len(m.Snapshot().Flatten()) == 0 })
}

func TestNonContainerEventsIgnored(t *testing.T) {
	fake := dockerapi.NewFakeAdapter()
	m := New(fake)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer m.Stop()

	fake.PushEvent(dockerapi.Event{Type: "network", Status: "connect", ID: "net1"})
	time.Sleep(20 * time.Millisecond)

	if len(m.Snapshot().Flatten()) != 0 {
		t.Errorf("network event should not have created a container record")
	}
}
