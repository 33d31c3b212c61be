package dockerapi

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"context canceled", context.Canceled, KindTransient},
		{"context deadline", context.DeadlineExceeded, KindTransient},
		{"connection refused", errors.New("dial tcp: connection refused"), KindDisconnected},
		{"cannot connect", errors.New("Cannot connect to the Docker daemon at unix:///var/run/docker.sock"), KindDisconnected},
		{"unexpected", errors.New("boom"), KindFatal},
	}
	for _, c := range cases {
		got := classify(c.err)
		if !IsKind(got, c.want) {
			t.Errorf("classify(%v) kind = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestConvertPorts(t *testing.T) {
	if got := convertPorts(nil); got != nil {
		t.Errorf("convertPorts(nil) = %+v, want nil", got)
	}

	ns := &container.NetworkSettings{
		NetworkSettingsBase: container.NetworkSettingsBase{
			Ports: nat.PortMap{
				"8000/tcp": []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: "8000"}},
				"9000/tcp": nil,
			},
		},
	}
	got := convertPorts(ns)
	if len(got["8000/tcp"]) != 1 || got["8000/tcp"][0].HostPort != "8000" {
		t.Errorf("convertPorts = %+v", got)
	}
	if len(got["9000/tcp"]) != 0 {
		t.Errorf("convertPorts for unbound port = %+v, want empty", got["9000/tcp"])
	}
}
