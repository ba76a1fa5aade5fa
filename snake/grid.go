package snake

import (
	"github.com/hoshinonyaruko/snake-expert/structs"
)

// OccupiedBy 返回格子上的占用者，按 蛇 > 障碍 > 地雷 > 道具 > 苹果 的优先级
func (g *Game) OccupiedBy(p structs.Position) structs.Occupant {
	switch {
	case g.onSnake(p):
		return structs.OccupantSnake
	case g.obstacles.Has(p):
		return structs.OccupantObstacle
	case g.mine != nil && *g.mine == p:
		return structs.OccupantMine
	case g.itemIndexAt(p) >= 0:
		return structs.OccupantItem
	case g.hasApple && g.apple == p:
		return structs.OccupantApple
	}
	return structs.OccupantEmpty
}

func (g *Game) inBounds(p structs.Position) bool {
	return p.X >= 0 && p.X < g.tileCount && p.Y >= 0 && p.Y < g.tileCount
}

func (g *Game) onSnake(p structs.Position) bool {
	for _, seg := range g.body {
		if seg == p {
			return true
		}
	}
	return false
}

func (g *Game) onPreview(p structs.Position) bool {
	for _, c := range g.preview {
		if c == p {
			return true
		}
	}
	return false
}

func (g *Game) itemIndexAt(p structs.Position) int {
	for i, it := range g.items {
		if it.X == p.X && it.Y == p.Y {
			return i
		}
	}
	return -1
}

func (g *Game) randomCell() structs.Position {
	return structs.Position{X: g.rng.Intn(g.tileCount), Y: g.rng.Intn(g.tileCount)}
}

// randomEmptyCell 随机找一个空格子。尝试次数有上限，用尽时返回最后一次抽到的格子，
// 地图几乎被占满时不保证结果有效。
func (g *Game) randomEmptyCell() structs.Position {
	return g.sampleCell(func(p structs.Position) bool { return true })
}

// sampleCell 在空格子中抽样，并额外要求 accept(p) 为 true
func (g *Game) sampleCell(accept func(structs.Position) bool) structs.Position {
	var p structs.Position
	for i := 0; i < placementTries; i++ {
		p = g.randomCell()
		if g.OccupiedBy(p) == structs.OccupantEmpty && !g.onPreview(p) && accept(p) {
			return p
		}
	}
	return p
}

// isCellFreeForObstacle 障碍图案只能放在完全空的格子上
func (g *Game) isCellFreeForObstacle(p structs.Position) bool {
	return g.inBounds(p) && g.OccupiedBy(p) == structs.OccupantEmpty
}

// isAppleUnsafe 四个相邻格子里有 3 个以上是障碍（含预告障碍）时，苹果不放在这里
func (g *Game) isAppleUnsafe(p structs.Position) bool {
	blocked := 0
	for _, d := range []structs.Direction{structs.Up, structs.Down, structs.Left, structs.Right} {
		n := p.Add(d)
		if g.obstacles.Has(n) || g.onPreview(n) {
			blocked++
		}
	}
	return blocked >= 3
}

func (g *Game) placeApple() {
	g.hasApple = false
	g.apple = g.sampleCell(func(p structs.Position) bool { return !g.isAppleUnsafe(p) })
	g.hasApple = true
}
