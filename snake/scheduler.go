package snake

import (
	"fmt"
	"math"

	"github.com/hoshinonyaruko/snake-expert/structs"
)

// hazard 预告中的危险事件，三种之一
type hazard interface {
	Kind() structs.HazardKind
	apply(g *Game) string
}

type obstacleHazard struct{}

type mineHazard struct{}

type speedHazard struct {
	deltaTenths int // -2, -1, 1, 2
}

func (obstacleHazard) Kind() structs.HazardKind { return structs.HazardObstacle }
func (mineHazard) Kind() structs.HazardKind     { return structs.HazardMine }
func (speedHazard) Kind() structs.HazardKind    { return structs.HazardSpeed }

// 预告障碍转为真正的障碍，压在上面的道具被移除
func (obstacleHazard) apply(g *Game) string {
	for _, p := range g.preview {
		g.obstacles.Put(p)
		if i := g.itemIndexAt(p); i >= 0 {
			g.items = append(g.items[:i], g.items[i+1:]...)
		}
	}
	g.preview = nil
	return ""
}

func (mineHazard) apply(g *Game) string {
	g.spawnMine()
	return ""
}

func (h speedHazard) apply(g *Game) string {
	return g.applySpeedDelta(h.deltaTenths).String()
}

// pendingEvent 已预告、下一个苹果后生效的事件
type pendingEvent struct {
	hazard hazard
	item   structs.ItemKind
}

// PendingHazard 当前预告的危险类型，没有则为空
func (g *Game) PendingHazard() structs.HazardKind {
	if g.pending == nil || g.pending.hazard == nil {
		return ""
	}
	return g.pending.hazard.Kind()
}

// PendingItem 当前预告的道具类型，没有则为空
func (g *Game) PendingItem() structs.ItemKind {
	if g.pending == nil {
		return ""
	}
	return g.pending.item
}

func (g *Game) rollItem() structs.ItemKind {
	return structs.ItemKinds[g.choice(len(structs.ItemKinds))]
}

func (g *Game) rollSpeedDelta() int {
	return speedSteps[g.choice(len(speedSteps))]
}

// handleAppleEaten 计数并驱动 预告 -> 生效 两个阶段
func (g *Game) handleAppleEaten() {
	g.score++
	g.applesSinceEvent++

	// 吃到任何苹果都会清掉地雷
	g.mine = nil

	interval := g.difficulty.SpawnInterval()
	switch {
	case g.applesSinceEvent == interval-1 && g.pending == nil:
		g.warn()
	case g.applesSinceEvent >= interval:
		g.applesSinceEvent = 0
		g.warning = false
		g.applyPending()
	}
	g.placeApple()
}

// warn 抽选下一次的危险和道具，只预告不生效
func (g *Game) warn() {
	kind := structs.HazardKinds[g.choice(len(structs.HazardKinds))]
	item := g.rollItem()
	g.warning = true

	switch kind {
	case structs.HazardObstacle:
		g.spawnObstaclePreview()
		g.pending = &pendingEvent{hazard: obstacleHazard{}, item: item}
		g.showHUD("WARNING! Obstacles appear after the next apple.")
	case structs.HazardMine:
		g.pending = &pendingEvent{hazard: mineHazard{}, item: item}
		g.showHUD("WARNING! A mine appears after the next apple.")
	default:
		delta := g.rollSpeedDelta()
		g.pending = &pendingEvent{hazard: speedHazard{deltaTenths: delta}, item: item}
		after := clampSpeed(g.speedFactor + float64(delta)/10)
		g.showHUD(fmt.Sprintf("WARNING! Speed %s after the next apple (then %d%%)",
			signedPercent(delta*10), int(math.Round(after*100))))
	}
}

// applyPending 生效预告的事件。记录缺失时重新抽选而不是报错。
func (g *Game) applyPending() {
	ev := g.pending
	if ev == nil {
		ev = &pendingEvent{}
	}
	if ev.hazard == nil {
		switch structs.HazardKinds[g.choice(len(structs.HazardKinds))] {
		case structs.HazardObstacle:
			ev.hazard = obstacleHazard{}
		case structs.HazardMine:
			ev.hazard = mineHazard{}
		default:
			ev.hazard = speedHazard{deltaTenths: g.rollSpeedDelta()}
		}
	}
	if ev.item == "" {
		ev.item = g.rollItem()
	}

	msg := ev.hazard.apply(g)
	g.spawnItems(ev.item)
	g.pending = nil

	if msg != "" {
		msg += " | "
	}
	g.showHUD(msg + "Item spawned: " + itemNames[ev.item])
}

// spawnMine 地雷至少离蛇头 3 格（切比雪夫距离）
func (g *Game) spawnMine() {
	head := g.body[0]
	p := g.sampleCell(func(p structs.Position) bool {
		return abs(p.X-head.X) > 2 || abs(p.Y-head.Y) > 2
	})
	g.mine = &p
	g.mineTick = 0
}

var itemNames = map[structs.ItemKind]string{
	structs.ItemBomb:      "bomb",
	structs.ItemSuperbomb: "super bomb",
	structs.ItemShrink:    "shrink",
	structs.ItemTeleport:  "teleport",
	structs.ItemPhase:     "phase shift",
}

func (g *Game) spawnItems(kind structs.ItemKind) {
	for i := 0; i < kind.SpawnCount(); i++ {
		p := g.randomEmptyCell()
		g.items = append(g.items, structs.Item{Type: kind, X: p.X, Y: p.Y})
	}
}
