package ui

import (
	"strings"
	"testing"
)

func TestLayoutManager_DockHeight(t *testing.T) {
	tests := []struct {
		height int
		want   int
	}{
		{10, minDockHeight},
		{30, 12},
		{60, maxDockHeight},
	}

	lm := NewLayoutManager()
	for _, tt := range tests {
		lm.SetSize(80, tt.height)
		if got := lm.DockHeight(); got != tt.want {
			t.Errorf("DockHeight() at height %d = %d, want %d", tt.height, got, tt.want)
		}
	}
}

func TestLayoutManager_BodyHeight(t *testing.T) {
	lm := NewLayoutManager()

	lm.SetSize(80, 40)
	if got := lm.BodyHeight(); got != 40-3-16 {
		t.Errorf("BodyHeight() = %d, want %d", got, 40-3-16)
	}

	lm.SetSize(80, 5)
	if got := lm.BodyHeight(); got != 1 {
		t.Errorf("Expected body height floor of 1, got %d", got)
	}
}

func TestLayoutManager_RenderLayout(t *testing.T) {
	lm := NewLayoutManager()
	lm.SetSize(40, 30)

	out := lm.RenderLayout("header", "nav", "one\ntwo", "dock", "status")
	lines := strings.Split(out, "\n")

	want := 3 + lm.BodyHeight() + 1
	if len(lines) != want {
		t.Fatalf("Expected %d lines, got %d", want, len(lines))
	}
	if !strings.HasPrefix(lines[0], "header") || !strings.HasPrefix(lines[len(lines)-1], "status") {
		t.Errorf("Unexpected layout order: %q", lines)
	}

	w, h := lm.GetDimensions()
	if w != 40 || h != 30 {
		t.Errorf("GetDimensions() = %d, %d", w, h)
	}
}
