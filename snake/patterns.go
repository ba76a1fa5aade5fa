package snake

import (
	"github.com/hoshinonyaruko/snake-expert/structs"
)

const patternTries = 500

// Pattern 生成一批预告障碍格子
type Pattern interface {
	Name() string
	Cells(g *Game) []structs.Position
}

// Patterns 障碍图案，均匀抽选
var Patterns = []Pattern{
	cornersPattern{},
	clusterPattern{name: "crosses", count: 4, shape: crossShape},
	clusterPattern{name: "xshapes", count: 4, shape: xShape},
	clusterPattern{name: "lines", count: 4, shape: lineShape},
	clusterPattern{name: "squares", count: 3, shape: squareShape},
	splitPattern{},
}

// cornersPattern 四个角落的阶梯形装饰
type cornersPattern struct{}

func (cornersPattern) Name() string { return "corners" }

func (cornersPattern) Cells(g *Game) []structs.Position {
	n := g.tileCount
	// 左上角的形状，其余三个角镜像
	stair := []structs.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 2}}
	var cells []structs.Position
	for _, mirror := range [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}} {
		for _, c := range stair {
			p := c
			if mirror[0] {
				p.X = n - 1 - c.X
			}
			if mirror[1] {
				p.Y = n - 1 - c.Y
			}
			if g.isCellFreeForObstacle(p) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

// clusterPattern 在随机位置放 count 个相同形状，任何一格被占用就重抽
type clusterPattern struct {
	name  string
	count int
	shape func(g *Game) []structs.Position
}

func (c clusterPattern) Name() string { return c.name }

func (c clusterPattern) Cells(g *Game) []structs.Position {
	var cells []structs.Position
	taken := make(map[structs.Position]bool)
	created := 0
	for try := 0; try < patternTries && created < c.count; try++ {
		candidate := c.shape(g)
		ok := true
		for _, p := range candidate {
			if taken[p] || !g.isCellFreeForObstacle(p) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for _, p := range candidate {
			taken[p] = true
		}
		cells = append(cells, candidate...)
		created++
	}
	return cells
}

// randomInt 闭区间 [min, max]
func (g *Game) randomInt(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

func crossShape(g *Game) []structs.Position {
	cx, cy := g.randomInt(2, g.tileCount-3), g.randomInt(2, g.tileCount-3)
	return []structs.Position{{X: cx, Y: cy}, {X: cx - 1, Y: cy}, {X: cx + 1, Y: cy}, {X: cx, Y: cy - 1}, {X: cx, Y: cy + 1}}
}

func xShape(g *Game) []structs.Position {
	cx, cy := g.randomInt(2, g.tileCount-3), g.randomInt(2, g.tileCount-3)
	return []structs.Position{{X: cx, Y: cy}, {X: cx - 1, Y: cy - 1}, {X: cx + 1, Y: cy - 1}, {X: cx - 1, Y: cy + 1}, {X: cx + 1, Y: cy + 1}}
}

func lineShape(g *Game) []structs.Position {
	cells := make([]structs.Position, 0, 5)
	if g.rng.Intn(2) == 0 {
		y, x0 := g.randomInt(1, g.tileCount-2), g.randomInt(0, g.tileCount-5)
		for i := 0; i < 5; i++ {
			cells = append(cells, structs.Position{X: x0 + i, Y: y})
		}
		return cells
	}
	x, y0 := g.randomInt(1, g.tileCount-2), g.randomInt(0, g.tileCount-5)
	for i := 0; i < 5; i++ {
		cells = append(cells, structs.Position{X: x, Y: y0 + i})
	}
	return cells
}

func squareShape(g *Game) []structs.Position {
	x0, y0 := g.randomInt(1, g.tileCount-4), g.randomInt(1, g.tileCount-4)
	cells := make([]structs.Position, 0, 9)
	for dx := 0; dx < 3; dx++ {
		for dy := 0; dy < 3; dy++ {
			cells = append(cells, structs.Position{X: x0 + dx, Y: y0 + dy})
		}
	}
	return cells
}

// splitPattern 穿过中心把地图分开的一整条线（竖/横/两条对角线），中间 3 格留空。
// 线上的道具和地雷会被清掉，苹果会被挪走（见 setPreview）。
type splitPattern struct{}

const (
	splitVertical   = "vertical"
	splitHorizontal = "horizontal"
	splitDiagMain   = "diagMain"
	splitDiagAnti   = "diagAnti"
)

var splitKinds = []string{splitVertical, splitHorizontal, splitDiagMain, splitDiagAnti}

func (splitPattern) Name() string { return "split" }

func (splitPattern) Cells(g *Game) []structs.Position {
	return splitLine(g, splitKinds[g.choice(len(splitKinds))])
}

func splitLine(g *Game, kind string) []structs.Position {
	n := g.tileCount
	mid := n / 2
	head := g.body[0]
	var cells []structs.Position
	for i := 0; i < n; i++ {
		if abs(i-mid) <= 1 {
			continue
		}
		var p structs.Position
		switch kind {
		case splitVertical:
			p = structs.Position{X: mid, Y: i}
		case splitHorizontal:
			p = structs.Position{X: i, Y: mid}
		case splitDiagMain:
			p = structs.Position{X: i, Y: i}
		default:
			p = structs.Position{X: i, Y: n - 1 - i}
		}
		if p == head || g.obstacles.Has(p) {
			continue
		}
		cells = append(cells, p)
	}
	return cells
}

// spawnObstaclePreview 生成预告障碍，还不会阻挡蛇
func (g *Game) spawnObstaclePreview() Pattern {
	pattern := Patterns[g.choice(len(Patterns))]
	g.setPreview(pattern.Cells(g))
	return pattern
}

// setPreview 预告格子上不能留着道具/地雷/苹果
func (g *Game) setPreview(cells []structs.Position) {
	g.preview = cells
	appleDisplaced := false
	for _, p := range g.preview {
		if i := g.itemIndexAt(p); i >= 0 {
			g.items = append(g.items[:i], g.items[i+1:]...)
		}
		if g.mine != nil && *g.mine == p {
			g.mine = nil
		}
		if g.hasApple && g.apple == p {
			appleDisplaced = true
		}
	}
	if appleDisplaced {
		g.placeApple()
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
