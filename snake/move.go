package snake

import (
	"github.com/hoshinonyaruko/snake-expert/structs"
)

// Tick 推进一步。只有 Running 状态才会移动。
func (g *Game) Tick() TickResult {
	if g.state != structs.StateRunning {
		return TickIdle
	}
	g.ticks++
	if g.hudTimer > 0 {
		g.hudTimer--
	}

	g.dir = g.nextDir
	next := g.body[0].Add(g.dir)

	// 传送门（相位移动中不生效）
	if g.portal != nil && !g.portal.Used && !g.phasing {
		if wrapped, ok := g.portalWrap(next); ok {
			next = wrapped
			g.portal.Used = true
			g.showHUD("Portal crossed.")
		}
	}

	// 撞墙；相位移动时从对面出来
	if g.phasing {
		next.X, next.Y = WrapPosition(next.X, next.Y, g.tileCount, g.tileCount)
	} else if !g.inBounds(next) {
		g.gameOver()
		return TickGameOver
	}

	if !g.phasing {
		// 自己、障碍、地雷
		if g.onSnake(next) || g.obstacles.Has(next) || (g.mine != nil && *g.mine == next) {
			g.gameOver()
			return TickGameOver
		}
	}

	g.body = append([]structs.Position{next}, g.body...)

	// 相位出口
	if g.phasing && g.phaseExit != nil && *g.phaseExit == next {
		g.phasing = false
		g.phaseExit = nil
		g.showHUD("Phase shift ended.")
	}

	if !g.phasing {
		if i := g.itemIndexAt(next); i >= 0 {
			item := g.items[i]
			g.items = append(g.items[:i], g.items[i+1:]...)
			g.applyItemEffect(item)
		}
	}

	if !g.phasing && g.hasApple && g.apple == next {
		g.handleAppleEaten()
	} else if len(g.body) > 1 {
		// 刚吃了缩短道具时蛇头已经压进来，身体至少留一格
		g.body = g.body[:len(g.body)-1]
	}

	// 地雷每两个 tick 走一步
	if g.mine != nil {
		g.mineTick++
		if g.mineTick%2 == 0 && g.moveMineTowardsHead() {
			g.gameOver()
			return TickGameOver
		}
	}

	kept := g.highlights[:0]
	for _, h := range g.highlights {
		h.TTL--
		if h.TTL > 0 {
			kept = append(kept, h)
		}
	}
	g.highlights = kept

	return TickMoved
}

// portalWrap 穿过与传送门轴垂直的边界时，从对面出来
func (g *Game) portalWrap(p structs.Position) (structs.Position, bool) {
	n := g.tileCount
	switch g.portal.Axis {
	case structs.AxisHorizontal:
		if p.Y < 0 {
			p.Y = n - 1
			return p, true
		}
		if p.Y >= n {
			p.Y = 0
			return p, true
		}
	case structs.AxisVertical:
		if p.X < 0 {
			p.X = n - 1
			return p, true
		}
		if p.X >= n {
			p.X = 0
			return p, true
		}
	}
	return p, false
}

// moveMineTowardsHead 沿差值更大的轴走一步（|dx| > |dy| 走 x，否则走 y），
// 走出地图就这次不动。返回 true 表示地雷撞上了蛇头。
func (g *Game) moveMineTowardsHead() bool {
	head := g.body[0]
	dx, dy := head.X-g.mine.X, head.Y-g.mine.Y

	step := structs.Direction{}
	if abs(dx) > abs(dy) {
		step.DX = sign(dx)
	} else if dy != 0 {
		step.DY = sign(dy)
	}

	next := g.mine.Add(step)
	if !g.inBounds(next) {
		return false
	}
	*g.mine = next
	return next == head && !g.phasing
}

// WrapPosition 确保位置不会超出地图边界
func WrapPosition(x, y, width, height int) (int, int) {
	if x < 0 {
		x += width
	} else if x >= width {
		x -= width
	}
	if y < 0 {
		y += height
	} else if y >= height {
		y -= height
	}
	return x, y
}

func sign(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}
