package snake

import (
	"github.com/hoshinonyaruko/snake-expert/structs"
)

const (
	bombSquare = "square"
	bombCross  = "cross"
	bombX      = "x"
)

var bombPatterns = []string{bombSquare, bombCross, bombX}

// applyItemEffect 蛇头吃到道具时的效果
func (g *Game) applyItemEffect(item structs.Item) {
	switch item.Type {
	case structs.ItemBomb:
		g.detonateBomb(item.Pos(), bombPatterns[g.choice(len(bombPatterns))])
	case structs.ItemSuperbomb:
		g.detonateSuperbomb(item.Pos())
	case structs.ItemShrink:
		if len(g.body) > 1 {
			g.body = g.body[:len(g.body)-1]
		}
		g.showHUD("Shrink: the snake is one cell shorter.")
	case structs.ItemTeleport:
		axis := structs.AxisHorizontal
		if g.rng.Intn(2) == 1 {
			axis = structs.AxisVertical
		}
		g.portal = &structs.PortalEdge{Axis: axis}
		if axis == structs.AxisHorizontal {
			g.showHUD("Teleport: pass through the top/bottom wall once.")
		} else {
			g.showHUD("Teleport: pass through the left/right wall once.")
		}
	case structs.ItemPhase:
		g.phasing = true
		exit := g.randomEmptyCell()
		g.phaseExit = &exit
		g.showHUD("Phase shift: reach the exit to return.")
	}
}

// bombArea 返回炸弹影响的格子（已裁剪到地图内）
func (g *Game) bombArea(c structs.Position, pattern string) []structs.Position {
	var cells []structs.Position
	switch pattern {
	case bombSquare:
		for x := c.X - 2; x <= c.X+2; x++ {
			for y := c.Y - 2; y <= c.Y+2; y++ {
				if p := (structs.Position{X: x, Y: y}); g.inBounds(p) {
					cells = append(cells, p)
				}
			}
		}
	case bombCross:
		for i := 0; i < g.tileCount; i++ {
			cells = append(cells, structs.Position{X: i, Y: c.Y})
			if i != c.Y {
				cells = append(cells, structs.Position{X: c.X, Y: i})
			}
		}
	default:
		for i := -g.tileCount; i <= g.tileCount; i++ {
			if p := (structs.Position{X: c.X + i, Y: c.Y + i}); g.inBounds(p) {
				cells = append(cells, p)
			}
			if i == 0 {
				continue
			}
			if p := (structs.Position{X: c.X + i, Y: c.Y - i}); g.inBounds(p) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

func (g *Game) detonateBomb(c structs.Position, pattern string) {
	cells := g.bombArea(c, pattern)
	for _, p := range cells {
		g.obstacles.Remove(p)
	}
	g.highlight(cells)
	g.showHUD("Bomb: obstacles cleared.")
}

// detonateSuperbomb 找到最近的障碍，把与它八方向相连的整块障碍一起清掉
func (g *Game) detonateSuperbomb(c structs.Position) {
	if g.obstacles.Size() == 0 {
		g.showHUD("Super bomb: no obstacles to clear.")
		return
	}

	var best structs.Position
	bestDist := -1
	g.obstacles.Each(func(p structs.Position) {
		d := abs(p.X-c.X) + abs(p.Y-c.Y)
		if bestDist < 0 || d < bestDist || (d == bestDist && (p.Y < best.Y || (p.Y == best.Y && p.X < best.X))) {
			best, bestDist = p, d
		}
	})

	group := g.obstacleGroup(best)
	for _, p := range group {
		g.obstacles.Remove(p)
	}
	g.highlight(group)
	g.showHUD("Super bomb: obstacle cluster cleared.")
}

// obstacleGroup 从 start 出发，按八方向找出相连的整块障碍
func (g *Game) obstacleGroup(start structs.Position) []structs.Position {
	stack := []structs.Position{start}
	visited := map[structs.Position]bool{start: true}
	var group []structs.Position
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, p)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				n := structs.Position{X: p.X + dx, Y: p.Y + dy}
				if !visited[n] && g.obstacles.Has(n) {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return group
}

func (g *Game) highlight(cells []structs.Position) {
	g.highlights = g.highlights[:0]
	for _, p := range cells {
		g.highlights = append(g.highlights, structs.Highlight{X: p.X, Y: p.Y, TTL: highlightTicks})
	}
}
