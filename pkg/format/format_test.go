package format

import (
	"strings"
	"testing"
	"time"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		raw      string
		wantText string
		wantTone Tone
	}{
		{"running", "✅ Up", ToneGood},
		{"Up 5 minutes", "✅ Up", ToneGood},
		{"restarting", "🔁 Restarting", ToneWarn},
		{"exited (1) 2 hours ago", "❌ Down", ToneBad},
		{"dead", "❌ Down", ToneBad},
		{"paused", "❓ Paused", ToneMuted},
	}
	for _, c := range cases {
		got := Status(c.raw)
		if got.Text != c.wantText || got.Tone != c.wantTone {
			t.Errorf("Status(%q) = %+v, want {%q %v}", c.raw, got, c.wantText, c.wantTone)
		}
	}
}

func TestHealth(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", "—"},
		{"healthy", "🟢 Healthy"},
		{"unhealthy", "🔴 Unhealthy"},
		{"starting", "🟡 Starting"},
		{"weird", "weird"},
	}
	for _, c := range cases {
		if got := Health(c.raw); got.Text != c.want {
			t.Errorf("Health(%q) = %q, want %q", c.raw, got.Text, c.want)
		}
	}
}

func TestPorts(t *testing.T) {
	if got := Ports(nil); got != "—" {
		t.Errorf("Ports(nil) = %q, want —", got)
	}

	bindings := map[string][]PortBinding{
		"8000/tcp": {{HostIP: "0.0.0.0", HostPort: "8000"}},
	}
	if got := Ports(bindings); got != "8000 -> 8000/tcp" {
		t.Errorf("Ports = %q", got)
	}

	bindings = map[string][]PortBinding{
		"8000/tcp": {{HostIP: "127.0.0.1", HostPort: "9000"}},
	}
	if got := Ports(bindings); got != "127.0.0.1:9000 -> 8000/tcp" {
		t.Errorf("Ports with explicit ip = %q", got)
	}

	bindings = map[string][]PortBinding{
		"80/tcp": {{HostIP: "::", HostPort: "8080"}},
	}
	if got := Ports(bindings); got != "8080 -> 80/tcp" {
		t.Errorf("Ports with :: ip = %q", got)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.0iB"},
		{1023, "1023.0iB"},
		{1024, "1.0KiB"},
		{1048576, "1.0MiB"},
		{1073741824, "1.0GiB"},
	}
	for _, c := range cases {
		if got := Bytes(c.in); got != c.want {
			t.Errorf("Bytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := Bytes(-1); got != "—" {
		t.Errorf("Bytes(-1) = %q, want —", got)
	}
}

func TestMemory(t *testing.T) {
	got := Memory(50*1024*1024, 100*1024*1024)
	if !strings.Contains(got.Text, "50.0MiB / 100.0MiB (50.0%)") {
		t.Errorf("Memory = %q", got.Text)
	}
	if got.Tone != ToneInfo {
		t.Errorf("Memory tone = %v, want ToneInfo", got.Tone)
	}

	got = Memory(90*1024*1024, 100*1024*1024)
	if got.Tone != ToneBad {
		t.Errorf("Memory at 90%% tone = %v, want ToneBad", got.Tone)
	}

	got = Memory(70*1024*1024, 100*1024*1024)
	if got.Tone != ToneWarn {
		t.Errorf("Memory at 70%% tone = %v, want ToneWarn", got.Tone)
	}

	if got := Memory(-1, 100); got.Text != "—" {
		t.Errorf("Memory with missing usage = %q", got.Text)
	}
}

func TestUptime(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	if got := Uptime(time.Time{}, now); got != "—" {
		t.Errorf("Uptime(zero) = %q, want —", got)
	}
	if got := Uptime(now.Add(-90*time.Second), now); got != "1m30s" {
		t.Errorf("Uptime(90s) = %q", got)
	}
	if got := Uptime(now.Add(-2*time.Hour-5*time.Minute), now); got != "2h5m" {
		t.Errorf("Uptime(2h5m) = %q", got)
	}
	if got := Uptime(now.Add(-3*24*time.Hour-4*time.Hour), now); got != "3d4h" {
		t.Errorf("Uptime(3d4h) = %q", got)
	}
	if got := Uptime(now.Add(-5*time.Second), now); got != "5s" {
		t.Errorf("Uptime(5s) = %q", got)
	}
}

func TestCPUPercentValues(t *testing.T) {
	prev := CPUSample{Valid: true, TotalUsage: 1000, SystemUsage: 5000, OnlineCPUs: 2}
	cur := CPUSample{Valid: true, TotalUsage: 2000, SystemUsage: 10000, OnlineCPUs: 2}

	got := CPUPercent(cur, prev)
	if got.Text != "40.00%" {
		t.Errorf("CPUPercent = %q, want 40.00%%", got.Text)
	}
	if got.Tone != ToneInfo {
		t.Errorf("CPUPercent tone = %v, want ToneInfo", got.Tone)
	}

	if got := CPUPercent(cur, CPUSample{}); got.Text != "—" {
		t.Errorf("CPUPercent with no previous sample = %q, want —", got.Text)
	}

	same := CPUSample{Valid: true, TotalUsage: 1000, SystemUsage: 5000, OnlineCPUs: 2}
	if got := CPUPercent(same, same); got.Text != "0.00%" {
		t.Errorf("CPUPercent with zero deltas = %q, want 0.00%%", got.Text)
	}
}
