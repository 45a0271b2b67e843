package export

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
	"github.com/san-kum/sphfluid/internal/storage"
	"github.com/san-kum/sphfluid/internal/viz"
)

func TestFrameToSVG(t *testing.T) {
	positions := []sph.Vec2{{X: 0, Y: 0}, {X: 0.1, Y: -0.2}, {X: 0.2, Y: 0.3}}
	svg := FrameToSVG(positions, sph.DefaultParams(), 200)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	// one vessel circle plus one per particle
	if got := strings.Count(svg, "<circle"); got != len(positions)+1 {
		t.Errorf("expected %d circles, got %d", len(positions)+1, got)
	}
	if !strings.Contains(svg, `cx="100.0" cy="100.0"`) {
		t.Error("origin should map to the image center")
	}
}

func TestFrameToSVGSkipsNonFinite(t *testing.T) {
	positions := []sph.Vec2{{X: 0, Y: 0}, {X: math.Inf(1)}}
	svg := FrameToSVG(positions, sph.DefaultParams(), 100)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected vessel and one particle, got %d circles", got)
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2) != "" {
		t.Error("nil canvas should render nothing")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
}

func TestTrackToSVG(t *testing.T) {
	if TrackToSVG([]sph.Vec2{{}}, 100, 100, "#fff") != "" {
		t.Error("a single point is not a track")
	}
	svg := TrackToSVG([]sph.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}, 120, 120, "#fff")
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected two line segments, got %q", svg)
	}
}

func TestWriteJSON(t *testing.T) {
	meta := storage.RunMetadata{ID: "circle_1", Preset: "circle", Seed: 7}
	frames := []sim.Frame{
		{Index: 0, Positions: []sph.Vec2{{X: 0.1, Y: 0.2}}},
		{Index: 3, Positions: []sph.Vec2{{X: 0.1, Y: 0.15}}},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, frames); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if got.Run.ID != "circle_1" || got.Run.Seed != 7 {
		t.Errorf("metadata lost: %+v", got.Run)
	}
	if len(got.Frames) != 2 || got.Frames[1].Frame != 3 {
		t.Fatalf("unexpected frames: %+v", got.Frames)
	}
	if got.Frames[1].Positions[0] != [2]float64{0.1, 0.15} {
		t.Errorf("position mismatch: %v", got.Frames[1].Positions[0])
	}
}
