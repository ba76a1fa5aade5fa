package snake

import (
	"testing"

	"github.com/hoshinonyaruko/snake-expert/structs"
)

func TestRandomEmptyCellAvoidsOccupied(t *testing.T) {
	g := newTestGame(t)
	// 只留下 y >= 20 的几行
	for x := 0; x < g.tileCount; x++ {
		for y := 0; y < 20; y++ {
			if p := pos(x, y); !g.onSnake(p) {
				g.obstacles.Put(p)
			}
		}
	}
	m := pos(0, 20)
	g.mine = &m
	g.items = []structs.Item{{Type: structs.ItemBomb, X: 1, Y: 20}}
	g.preview = []structs.Position{pos(2, 20)}
	g.apple = pos(3, 20)
	g.hasApple = true

	for i := 0; i < 200; i++ {
		p := g.randomEmptyCell()
		if p.Y < 20 || (p.X < 4 && p.Y == 20) {
			t.Fatalf("Expected an empty cell, got %v", p)
		}
	}
}

func TestRandomEmptyCellTerminatesOnFullGrid(t *testing.T) {
	g := newTestGame(t)
	for x := 0; x < g.tileCount; x++ {
		for y := 0; y < g.tileCount; y++ {
			g.obstacles.Put(pos(x, y))
		}
	}

	p := g.randomEmptyCell()
	if !g.inBounds(p) {
		t.Errorf("Expected an in-bounds cell even when the grid is full, got %v", p)
	}
}

func TestIsAppleUnsafe(t *testing.T) {
	tests := []struct {
		name      string
		obstacles []structs.Position
		preview   []structs.Position
		cell      structs.Position
		want      bool
	}{
		{"open", nil, nil, pos(5, 5), false},
		{"two sides", []structs.Position{pos(4, 5), pos(6, 5)}, nil, pos(5, 5), false},
		{"three sides", []structs.Position{pos(4, 5), pos(6, 5), pos(5, 4)}, nil, pos(5, 5), true},
		{"preview counts", []structs.Position{pos(4, 5), pos(6, 5)}, []structs.Position{pos(5, 6)}, pos(5, 5), true},
		{"walls do not count", []structs.Position{pos(1, 0)}, nil, pos(0, 0), false},
		{"diagonals do not count", []structs.Position{pos(4, 4), pos(6, 6), pos(4, 6), pos(6, 4)}, nil, pos(5, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			for _, p := range tt.obstacles {
				g.obstacles.Put(p)
			}
			g.preview = tt.preview
			if got := g.isAppleUnsafe(tt.cell); got != tt.want {
				t.Errorf("isAppleUnsafe(%v) = %v, expected %v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestPlaceAppleAvoidsUnsafeCells(t *testing.T) {
	g := newTestGame(t)
	// 偶数列是墙；左半边的奇数列再隔行加墙，那里的空格子四面被围
	for x := 0; x < g.tileCount; x++ {
		for y := 0; y < g.tileCount; y++ {
			p := pos(x, y)
			if g.onSnake(p) {
				continue
			}
			if x%2 == 0 || (x < 12 && y%2 == 0) {
				g.obstacles.Put(p)
			}
		}
	}

	for i := 0; i < 100; i++ {
		g.placeApple()
		if g.OccupiedBy(g.apple) != structs.OccupantApple {
			t.Fatalf("Expected the apple on a free cell, got %v", g.apple)
		}
		if g.isAppleUnsafe(g.apple) {
			t.Fatalf("Apple placed on an unsafe cell %v", g.apple)
		}
	}
}

func TestOccupiedByPrecedence(t *testing.T) {
	g := newTestGame(t)
	head := g.Head()
	g.obstacles.Put(head)

	g.obstacles.Put(pos(1, 1))
	m := pos(1, 1)
	g.mine = &m

	g.items = []structs.Item{{Type: structs.ItemBomb, X: 2, Y: 2}, {Type: structs.ItemPhase, X: 3, Y: 3}}
	g.apple = pos(3, 3)
	g.hasApple = true

	tests := []struct {
		p    structs.Position
		want structs.Occupant
	}{
		{head, structs.OccupantSnake},
		{pos(1, 1), structs.OccupantObstacle},
		{pos(2, 2), structs.OccupantItem},
		{pos(3, 3), structs.OccupantItem},
		{pos(4, 4), structs.OccupantEmpty},
	}
	for _, tt := range tests {
		if got := g.OccupiedBy(tt.p); got != tt.want {
			t.Errorf("OccupiedBy(%v) = %v, expected %v", tt.p, got, tt.want)
		}
	}

	g.obstacles.Remove(pos(1, 1))
	if got := g.OccupiedBy(pos(1, 1)); got != structs.OccupantMine {
		t.Errorf("Expected mine, got %v", got)
	}
	g.items = nil
	if got := g.OccupiedBy(pos(3, 3)); got != structs.OccupantApple {
		t.Errorf("Expected apple, got %v", got)
	}
}
