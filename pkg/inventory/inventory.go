// Package inventory reads the ecosystem service inventory from the gateway.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"netsight/pkg/gateway"
)

// Caller performs a gateway request and decodes a 2xx body into out.
// *gateway.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, req gateway.Request, out any) error
}

// Service is one container in the ecosystem.
type Service struct {
	Container string `json:"container"`
	Name      string `json:"name"`
	State     string `json:"state"`
	Image     string `json:"image"`
	HostPorts List   `json:"host_ports"`
	DockerIPs List   `json:"docker_ips"`
	Function  string `json:"function"`
}

// DisplayName prefers the container name over the service name.
func (s Service) DisplayName() string {
	if s.Container != "" {
		return s.Container
	}
	return s.Name
}

// Up reports whether the container is running ("Up", "Up 3 hours", ...).
func (s Service) Up() bool {
	return strings.HasPrefix(strings.TrimSpace(s.State), "Up")
}

// List is a field the inventory script emits either as a string or as an
// array of strings.
type List []string

// UnmarshalJSON accepts a string, an array of strings, or null.
func (l *List) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
		} else {
			*l = List{s}
		}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// String joins the entries, or "-" when there are none.
func (l List) String() string {
	if len(l) == 0 {
		return "-"
	}
	return strings.Join(l, ", ")
}

// Client fetches the inventory.
type Client struct {
	gw   Caller
	path string
}

// NewClient creates an inventory client for path on gw.
func NewClient(gw Caller, path string) *Client {
	return &Client{gw: gw, path: path}
}

// List returns the services sorted by display name. The endpoint may answer
// with a bare array or with {"services": [...]}.
func (c *Client) List(ctx context.Context) ([]Service, error) {
	var raw json.RawMessage
	if err := c.gw.Call(ctx, gateway.Request{Method: http.MethodGet, Path: c.path}, &raw); err != nil {
		slog.Error("inventory_list_error", "error", err)
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	services, err := decodeServices(raw)
	if err != nil {
		slog.Error("inventory_decode_error", "error", err)
		return nil, fmt.Errorf("%w: %v", gateway.ErrTransport, err)
	}

	sort.SliceStable(services, func(i, j int) bool {
		return services[i].DisplayName() < services[j].DisplayName()
	})
	slog.Debug("inventory_list", "count", len(services))
	return services, nil
}

func decodeServices(raw json.RawMessage) ([]Service, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var services []Service
		if err := json.Unmarshal(raw, &services); err != nil {
			return nil, fmt.Errorf("failed to parse inventory: %w", err)
		}
		return services, nil
	}

	var envelope struct {
		Services []Service `json:"services"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}
	return envelope.Services, nil
}

// Summary counts running and stopped services.
func Summary(services []Service) (up, down int) {
	for _, s := range services {
		if s.Up() {
			up++
		} else {
			down++
		}
	}
	return up, down
}
