package snake

import (
	"sort"

	"github.com/hoshinonyaruko/snake-expert/structs"
)

// Snapshot 复制当前状态，调用方可以随意持有
func (g *Game) Snapshot() structs.Snapshot {
	snap := structs.Snapshot{
		TileCount:     g.tileCount,
		Tick:          g.ticks,
		State:         g.state.String(),
		Running:       g.state == structs.StateRunning || g.state == structs.StatePaused,
		Paused:        g.state == structs.StatePaused,
		GameOver:      g.state == structs.StateGameOver,
		Score:         g.score,
		Difficulty:    g.difficulty,
		SpeedFactor:   g.speedFactor,
		TickMs:        float64(g.TickInterval().Microseconds()) / 1000,
		Snake:         append([]structs.Position(nil), g.body...),
		Direction:     g.nextDir,
		Preview:       append([]structs.Position(nil), g.preview...),
		Items:         append([]structs.Item(nil), g.items...),
		Phasing:       g.phasing,
		Highlights:    append([]structs.Highlight(nil), g.highlights...),
		Warning:       g.warning,
		PendingHazard: g.PendingHazard(),
	}
	if g.hudTimer > 0 {
		snap.HUDMessage = g.hudMessage
		snap.HUDTimer = g.hudTimer
	}
	if g.hasApple {
		apple := g.apple
		snap.Apple = &apple
	}
	if g.mine != nil {
		mine := *g.mine
		snap.Mine = &mine
	}
	if g.portal != nil {
		portal := *g.portal
		snap.Portal = &portal
	}
	if g.phaseExit != nil {
		exit := *g.phaseExit
		snap.PhaseExit = &exit
	}

	snap.Obstacles = make([]structs.Position, 0, g.obstacles.Size())
	g.obstacles.Each(func(p structs.Position) {
		snap.Obstacles = append(snap.Obstacles, p)
	})
	sort.Slice(snap.Obstacles, func(i, j int) bool {
		a, b := snap.Obstacles[i], snap.Obstacles[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return snap
}
