// Package format holds pure, side-effect-free functions that turn raw
// container/stats fields into display-ready strings. Nothing here touches
// the network, a terminal, or a clock other than the "now" passed in by the
// caller; every function is a straight value-in, value-out transform so it
// can be tested without a daemon or a TUI.
package format

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Tone is the semantic color a formatted value should be rendered in.
// Pure formatters return a Tone instead of embedding markup so the render
// layer (which owns the actual palette) is the only place a color value
// lives.
type Tone int

const (
	ToneMuted Tone = iota
	ToneGood
	ToneWarn
	ToneBad
	ToneInfo
)

// Styled pairs a display string with the tone it should be rendered in.
type Styled struct {
	Text string
	Tone Tone
}

// Status maps a lowercase-ish raw runtime state to a glyph-led display string.
func Status(rawStatus string) Styled {
	s := strings.ToLower(rawStatus)
	switch {
	case strings.Contains(s, "running") || strings.Contains(s, "up"):
		return Styled{"✅ Up", ToneGood}
	case strings.Contains(s, "restarting"):
		return Styled{"🔁 Restarting", ToneWarn}
	case strings.Contains(s, "exited") || strings.Contains(s, "dead"):
		return Styled{"❌ Down", ToneBad}
	default:
		return Styled{"❓ " + capitalize(rawStatus), ToneMuted}
	}
}

// Health maps a raw health status to a glyph-led display string.
func Health(healthRaw string) Styled {
	switch healthRaw {
	case "":
		return Styled{"—", ToneMuted}
	case "healthy":
		return Styled{"🟢 Healthy", ToneGood}
	case "unhealthy":
		return Styled{"🔴 Unhealthy", ToneBad}
	case "starting":
		return Styled{"🟡 Starting", ToneWarn}
	default:
		return Styled{healthRaw, ToneMuted}
	}
}

// PortBinding is a single host-side binding for a container port.
type PortBinding struct {
	HostIP   string
	HostPort string
}

// Ports formats a container-port -> host-bindings map into a multi-line
// string, one line per container port showing only its first host binding,
// suppressing the host IP when it is the wildcard address. Ports without any
// host binding are shown bare.
func Ports(bindings map[string][]PortBinding) string {
	if len(bindings) == 0 {
		return "—"
	}
	containerPorts := make([]string, 0, len(bindings))
	for cp := range bindings {
		containerPorts = append(containerPorts, cp)
	}
	sort.Strings(containerPorts)

	lines := make([]string, 0, len(containerPorts))
	for _, cp := range containerPorts {
		hostBindings := bindings[cp]
		if len(hostBindings) == 0 {
			lines = append(lines, cp)
			continue
		}
		b := hostBindings[0]
		prefix := ""
		if b.HostIP != "" && b.HostIP != "0.0.0.0" && b.HostIP != "::" {
			prefix = b.HostIP + ":"
		}
		lines = append(lines, fmt.Sprintf("%s%s -> %s", prefix, b.HostPort, cp))
	}
	return strings.Join(lines, "\n")
}

// Bytes renders a byte count using IEC suffixes with one decimal place.
// A negative count stands for "not available".
func Bytes(n int64) string {
	if n < 0 {
		return "—"
	}
	const unit = 1024.0
	suffixes := [...]string{"", "K", "M", "G", "T"}
	size := float64(n)
	i := 0
	for size >= unit && i < len(suffixes)-1 {
		size /= unit
		i++
	}
	return fmt.Sprintf("%.1f%siB", size, suffixes[i])
}

// Memory renders "usage / limit (pct%)", colored by how full the limit is.
// Either field being negative stands for "not available".
func Memory(usage, limit int64) Styled {
	if usage < 0 || limit < 0 {
		return Styled{"—", ToneMuted}
	}
	pct := 0.0
	if limit > 0 {
		pct = float64(usage) / float64(limit) * 100.0
	}
	tone := ToneInfo
	switch {
	case pct > 85.0:
		tone = ToneBad
	case pct > 60.0:
		tone = ToneWarn
	}
	return Styled{fmt.Sprintf("%s / %s (%.1f%%)", Bytes(usage), Bytes(limit), pct), tone}
}

// Uptime renders a compact duration from startedAt to now, keeping only the
// largest non-zero unit and the unit just below it (which may be zero, as in
// "3d0h"). The zero time.Time value (Go's own zero value
// is the RFC-3339 sentinel 0001-01-01T00:00:00Z) stands for "not running".
func Uptime(startedAt, now time.Time) string {
	if startedAt.IsZero() {
		return "—"
	}
	d := now.Sub(startedAt)
	if d < 0 {
		d = 0
	}
	totalSeconds := int(d.Seconds())
	days := totalSeconds / 86400
	hours := (totalSeconds % 86400) / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// CPUSample is one cpu/system-usage pair taken from a stats frame. Valid is
// false when the sample could not be read (so callers can distinguish "no
// data yet" from "zero usage").
type CPUSample struct {
	Valid       bool
	TotalUsage  uint64
	SystemUsage uint64
	OnlineCPUs  int
}

// CPUPercent computes a percentage from the current and previous CPU
// samples, following the same delta math the daemon's own CLI uses.
func CPUPercent(cur, prev CPUSample) Styled {
	if !cur.Valid || !prev.Valid {
		return Styled{"—", ToneMuted}
	}
	deltaC := float64(cur.TotalUsage) - float64(prev.TotalUsage)
	deltaS := float64(cur.SystemUsage) - float64(prev.SystemUsage)
	if deltaS > 0 && deltaC > 0 {
		online := cur.OnlineCPUs
		if online <= 0 {
			online = 1
		}
		pct := (deltaC / deltaS) * float64(online) * 100.0
		tone := ToneInfo
		switch {
		case pct > 80.0:
			tone = ToneBad
		case pct > 50.0:
			tone = ToneWarn
		}
		return Styled{fmt.Sprintf("%.2f%%", pct), tone}
	}
	return Styled{"0.00%", ToneMuted}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
