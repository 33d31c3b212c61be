package dockerapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

// dockerAdapter backs ContainerAPI with a real Docker-Engine-API daemon,
// following the same client construction the teacher's collector uses:
// environment discovery plus API-version negotiation.
type dockerAdapter struct {
	cli *client.Client
}

// NewDockerAdapter connects to the daemon using standard environment
// discovery (DOCKER_HOST et al.) and negotiates the API version.
func NewDockerAdapter() (ContainerAPI, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, &Error{Kind: KindFatal, Err: err}
	}
	return &dockerAdapter{cli: cli}, nil
}

func (a *dockerAdapter) Ping(ctx context.Context) error {
	if _, err := a.cli.Ping(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (a *dockerAdapter) ListAll(ctx context.Context) ([]ContainerRef, error) {
	list, err := a.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, classify(err)
	}
	refs := make([]ContainerRef, 0, len(list))
	for _, c := range list {
		refs = append(refs, ContainerRef{ID: c.ID})
	}
	return refs, nil
}

func (a *dockerAdapter) Inspect(ctx context.Context, id string) (ContainerDetail, error) {
	inspect, err := a.cli.ContainerInspect(ctx, id)
	if err != nil {
		return ContainerDetail{}, classify(err)
	}

	detail := ContainerDetail{
		ID:        inspect.ID,
		Name:      strings.TrimPrefix(inspect.Name, "/"),
		RawStatus: strings.ToLower(inspect.State.Status),
		Labels:    inspect.Config.Labels,
		Ports:     convertPorts(inspect.NetworkSettings),
	}
	if inspect.Config != nil {
		detail.Image = inspect.Config.Image
	}
	if inspect.State != nil && inspect.State.Health != nil {
		detail.HealthRaw = strings.ToLower(inspect.State.Health.Status)
	}
	if detail.RawStatus == "running" {
		if t, err := time.Parse(time.RFC3339Nano, inspect.State.StartedAt); err == nil {
			detail.StartedAt = t
		}
	}
	return detail, nil
}

func convertPorts(ns *container.NetworkSettings) map[string][]PortBinding {
	if ns == nil {
		return nil
	}
	out := make(map[string][]PortBinding, len(ns.Ports))
	for port, bindings := range ns.Ports {
		out[string(port)] = convertBindings(bindings)
	}
	return out
}

func convertBindings(bindings []nat.PortBinding) []PortBinding {
	if len(bindings) == 0 {
		return nil
	}
	out := make([]PortBinding, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, PortBinding{HostIP: b.HostIP, HostPort: b.HostPort})
	}
	return out
}

func (a *dockerAdapter) StreamEvents(ctx context.Context) (<-chan Event, <-chan error) {
	out := make(chan Event)
	errs := make(chan error, 1)

	filterArgs := filters.NewArgs(filters.Arg("type", "container"))
	eventsCh, errCh := a.cli.Events(ctx, events.ListOptions{Filters: filterArgs})

	go func() {
		defer close(out)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-errCh:
				if err != nil {
					errs <- classify(err)
				}
				return
			case ev, ok := <-eventsCh:
				if !ok {
					return
				}
				select {
				case out <- Event{
					Type:   string(ev.Type),
					Status: string(ev.Action),
					ID:     ev.Actor.ID,
					Time:   time.Unix(ev.Time, ev.TimeNano%1e9),
				}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, errs
}

func (a *dockerAdapter) StreamStats(ctx context.Context, id string) (<-chan StatsSample, <-chan error) {
	out := make(chan StatsSample)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		resp, err := a.cli.ContainerStats(ctx, id, true)
		if err != nil {
			errs <- classify(err)
			return
		}
		defer resp.Body.Close()

		decoder := json.NewDecoder(io.LimitReader(resp.Body, 10*1024*1024))
		for {
			var stats container.StatsResponse
			if err := decoder.Decode(&stats); err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil {
					errs <- classify(err)
				}
				return
			}
			sample := StatsSample{
				CPUTotalUsage:     stats.CPUStats.CPUUsage.TotalUsage,
				CPUSystemUsage:    stats.CPUStats.SystemUsage,
				PreCPUTotalUsage:  stats.PreCPUStats.CPUUsage.TotalUsage,
				PreCPUSystemUsage: stats.PreCPUStats.SystemUsage,
				OnlineCPUs:        int(stats.CPUStats.OnlineCPUs),
				PercpuCount:       len(stats.CPUStats.CPUUsage.PercpuUsage),
				MemoryUsage:       int64(stats.MemoryStats.Usage),
				MemoryLimit:       int64(stats.MemoryStats.Limit),
			}
			select {
			case out <- sample:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}

func (a *dockerAdapter) Logs(ctx context.Context, id string, tail int, follow bool) (Command, error) {
	args := []string{"logs", "--tail", strconv.Itoa(tail)}
	if follow {
		args = append(args, "--follow")
	}
	args = append(args, id)
	return newExecCommand(ctx, args...), nil
}

func (a *dockerAdapter) ExecInteractive(ctx context.Context, id string, argv []string) (Command, error) {
	args := append([]string{"exec", "-it", id}, argv...)
	return newExecCommand(ctx, args...), nil
}

func (a *dockerAdapter) Restart(ctx context.Context, id string) (CommandResult, error) {
	if err := a.cli.ContainerRestart(ctx, id, container.StopOptions{}); err != nil {
		return CommandResult{ExitCode: 1, Stderr: err.Error()}, nil
	}
	return CommandResult{ExitCode: 0}, nil
}

func (a *dockerAdapter) Stop(ctx context.Context, id string) (CommandResult, error) {
	if err := a.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		return CommandResult{ExitCode: 1, Stderr: err.Error()}, nil
	}
	return CommandResult{ExitCode: 0}, nil
}

func (a *dockerAdapter) Close() error {
	return a.cli.Close()
}

// classify maps a docker-client error onto one of the four Kinds the core
// reacts to.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if client.IsErrNotFound(err) {
		return &Error{Kind: KindNotFound, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTransient, Err: err}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "cannot connect to the docker daemon") {
		return &Error{Kind: KindDisconnected, Err: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: KindTransient, Err: err}
	}
	return &Error{Kind: KindFatal, Err: err}
}

func newExecCommand(ctx context.Context, args ...string) Command {
	return &osExecCommand{cmd: exec.CommandContext(ctx, "docker", args...)}
}

// osExecCommand adapts *exec.Cmd to the Command interface the dispatcher
// uses, mirroring the way the teacher shells out to the `docker` binary
// with inherited stdio.
type osExecCommand struct {
	cmd *exec.Cmd
}

func (c *osExecCommand) SetStdin(r io.Reader)  { c.cmd.Stdin = r }
func (c *osExecCommand) SetStdout(w io.Writer) { c.cmd.Stdout = w }
func (c *osExecCommand) SetStderr(w io.Writer) { c.cmd.Stderr = w }

func (c *osExecCommand) Run() error {
	return c.cmd.Run()
}

func (c *osExecCommand) ExitCode() int {
	return c.cmd.ProcessState.ExitCode()
}
