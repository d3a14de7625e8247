package inventorytable

import (
	"fmt"
	"strings"

	"netsight/pkg/inventory"
	"netsight/pkg/ui/components/utils"
	"netsight/pkg/ui/styles"

	"github.com/mattn/go-runewidth"
)

type column struct {
	title string
	min   int
	value func(inventory.Service) string
}

var columns = []column{
	{"CONTAINER", 10, func(s inventory.Service) string { return s.DisplayName() }},
	{"STATE", 6, func(s inventory.Service) string { return s.State }},
	{"IMAGE", 8, func(s inventory.Service) string { return s.Image }},
	{"HOST PORTS", 8, func(s inventory.Service) string { return s.HostPorts.String() }},
	{"DOCKER IPS", 8, func(s inventory.Service) string { return s.DockerIPs.String() }},
	{"FUNCTION", 8, func(s inventory.Service) string { return s.Function }},
}

const columnGap = "  "

// Render lays out services as a fixed-width table no wider than width.
// Plain text only; styled runs are added by View.
func Render(services []inventory.Service, width int) []string {
	if len(services) == 0 {
		return []string{"No services reported."}
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col.title)
		for _, s := range services {
			if w := runewidth.StringWidth(col.value(s)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	widths = shrink(widths, width-len(columnGap)*(len(columns)-1))

	row := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = utils.Fit(cell, widths[i])
		}
		return strings.TrimRight(strings.Join(parts, columnGap), " ")
	}

	titles := make([]string, len(columns))
	for i, col := range columns {
		titles[i] = col.title
	}

	lines := []string{row(titles)}
	for _, s := range services {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = col.value(s)
		}
		lines = append(lines, row(cells))
	}
	return lines
}

// shrink narrows the widest columns until the total fits budget, never going
// below each column's minimum.
func shrink(widths []int, budget int) []int {
	total := 0
	for _, w := range widths {
		total += w
	}
	for total > budget {
		idx := -1
		for i, w := range widths {
			if w > columns[i].min && (idx == -1 || w > widths[idx]) {
				idx = i
			}
		}
		if idx == -1 {
			break
		}
		widths[idx]--
		total--
	}
	return widths
}

// View renders the table with a summary line and running/stopped colouring.
func View(services []inventory.Service, err error, width int) string {
	if err != nil {
		return styles.ErrorStyle.Render("Error loading inventory: " + err.Error())
	}

	up, down := inventory.Summary(services)
	summary := styles.TextMutedStyle.Render(fmt.Sprintf("%d services, %d up, %d down", len(services), up, down))

	lines := Render(services, width)
	out := make([]string, 0, len(lines)+2)
	out = append(out, summary, styles.TextBoldStyle.Render(lines[0]))
	for i, line := range lines[1:] {
		if i < len(services) && !services[i].Up() {
			out = append(out, styles.ErrorStyle.Render(line))
			continue
		}
		out = append(out, styles.TextStyle.Render(line))
	}
	return strings.Join(out, "\n")
}
