package inventorytable

import (
	"errors"
	"strings"
	"testing"

	"netsight/pkg/inventory"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/golden"
)

var sampleServices = []inventory.Service{
	{Container: "mariadb-auth", State: "Up 3 hours", Image: "mariadb:11", HostPorts: inventory.List{"3307->3306"}, DockerIPs: inventory.List{"172.18.0.4"}, Function: "user store"},
	{Container: "onos-collector", State: "Exited (1)", Image: "onos-collector:latest", Function: "telemetry"},
	{Container: "ui-gateway", State: "Up 3 hours", Image: "aiops/ui-gateway:1.4", HostPorts: inventory.List{"8089->8089"}, DockerIPs: inventory.List{"172.18.0.2"}, Function: "auth + chat proxy"},
}

func TestRender_Golden(t *testing.T) {
	out := strings.Join(Render(sampleServices, 120), "\n")
	golden.RequireEqual(t, []byte(out))
}

func TestRender_FitsWidth(t *testing.T) {
	for _, width := range []int{60, 80} {
		for _, line := range Render(sampleServices, width) {
			if w := ansi.StringWidth(line); w > width {
				t.Errorf("width %d: line %q is %d wide", width, line, w)
			}
		}
	}
}

func TestRender_Empty(t *testing.T) {
	lines := Render(nil, 80)
	if len(lines) != 1 || lines[0] != "No services reported." {
		t.Errorf("Unexpected empty render %v", lines)
	}
}

func TestView(t *testing.T) {
	view := ansi.Strip(View(sampleServices, nil, 120))
	if !strings.HasPrefix(view, "3 services, 2 up, 1 down") {
		t.Errorf("Expected summary first, got %q", view)
	}

	view = ansi.Strip(View(nil, errors.New("gateway returned status 502"), 80))
	if view != "Error loading inventory: gateway returned status 502" {
		t.Errorf("Unexpected error view %q", view)
	}
}
