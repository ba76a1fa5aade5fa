package api

import (
	"image/color"
	"testing"

	"github.com/hoshinonyaruko/snake-expert/structs"
)

func rgbAt(t *testing.T, snap structs.Snapshot, p structs.Position) (uint8, uint8, uint8) {
	t.Helper()
	const block = 10
	img := renderSnapshot(snap, block)
	c := color.NRGBAModel.Convert(img.At(p.X*block+block/2, p.Y*block+block/2)).(color.NRGBA)
	return c.R, c.G, c.B
}

func testSnapshot() structs.Snapshot {
	apple := structs.Position{X: 8, Y: 8}
	return structs.Snapshot{
		TileCount: 12,
		Snake:     []structs.Position{{X: 2, Y: 2}, {X: 1, Y: 2}},
		Apple:     &apple,
		Obstacles: []structs.Position{{X: 5, Y: 5}},
	}
}

func TestRenderSnapshotColors(t *testing.T) {
	snap := testSnapshot()

	if r, g, _ := rgbAt(t, snap, structs.Position{X: 2, Y: 2}); g <= r {
		t.Errorf("Expected a green head, got r=%d g=%d", r, g)
	}
	if r, g, _ := rgbAt(t, snap, structs.Position{X: 8, Y: 8}); r <= g {
		t.Errorf("Expected a red apple, got r=%d g=%d", r, g)
	}
	if r, g, b := rgbAt(t, snap, structs.Position{X: 10, Y: 10}); r != 255 || g != 255 || b != 255 {
		t.Errorf("Expected a white empty cell, got %d,%d,%d", r, g, b)
	}
	if r, g, b := rgbAt(t, snap, structs.Position{X: 5, Y: 5}); r > 100 || g > 100 || b > 100 {
		t.Errorf("Expected a dark obstacle, got %d,%d,%d", r, g, b)
	}
}

func TestRenderSnapshotInvertsWhilePhasing(t *testing.T) {
	snap := testSnapshot()
	snap.Phasing = true

	if r, g, b := rgbAt(t, snap, structs.Position{X: 10, Y: 10}); r != 0 || g != 0 || b != 0 {
		t.Errorf("Expected an inverted empty cell, got %d,%d,%d", r, g, b)
	}
	if r, g, _ := rgbAt(t, snap, structs.Position{X: 2, Y: 2}); r <= g {
		t.Errorf("Expected an inverted head, got r=%d g=%d", r, g)
	}
}

func TestRenderSnapshotSize(t *testing.T) {
	img := renderSnapshot(testSnapshot(), 20)
	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 240 {
		t.Errorf("Expected 240x240, got %v", b)
	}
}
