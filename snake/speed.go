package snake

import (
	"fmt"
	"math"
	"time"
)

const (
	minSpeedFactor = 0.8
	maxSpeedFactor = 1.2
)

// speedSteps 速度事件的变化量，单位 0.1
var speedSteps = []int{-2, -1, 1, 2}

// SpeedChange 一次速度事件的结果。Intended 是预告时的变化量（百分比），
// Actual 是被限制在 [80%,120%] 之后真正的变化量。
type SpeedChange struct {
	Intended int
	Actual   int
	Current  int
}

// Changed 限制把变化量全部吃掉时返回 false
func (c SpeedChange) Changed() bool {
	return c.Actual != 0
}

func (c SpeedChange) String() string {
	if !c.Changed() {
		return fmt.Sprintf("Speed change applied: no change (now %d%%)", c.Current)
	}
	return fmt.Sprintf("Speed change applied: %s (now %d%%)", signedPercent(c.Intended), c.Current)
}

// TickInterval = base * 难度系数 / speedFactor
func (g *Game) TickInterval() time.Duration {
	ms := g.baseTickMs * g.difficulty.SpeedMultiplier() / g.speedFactor
	return time.Duration(ms * float64(time.Millisecond))
}

// applySpeedDelta 累加并限制速度系数。显示的百分比总是预告的变化量。
func (g *Game) applySpeedDelta(deltaTenths int) SpeedChange {
	old := g.speedFactor
	g.speedFactor = clampSpeed(old + float64(deltaTenths)/10)
	return SpeedChange{
		Intended: deltaTenths * 10,
		Actual:   int(math.Round((g.speedFactor - old) * 100)),
		Current:  int(math.Round(g.speedFactor * 100)),
	}
}

func clampSpeed(f float64) float64 {
	f = math.Round(f*1000) / 1000
	if f > maxSpeedFactor {
		return maxSpeedFactor
	}
	if f < minSpeedFactor {
		return minSpeedFactor
	}
	return f
}

func signedPercent(p int) string {
	if p > 0 {
		return fmt.Sprintf("+%d%%", p)
	}
	return fmt.Sprintf("%d%%", p)
}
