// 关于的蛇的更新
package snake

import (
	"time"

	"github.com/hoshinonyaruko/snake-expert/structs"
	"github.com/zyedidia/generic/mapset"
	"golang.org/x/exp/rand"
)

const (
	DefaultTileCount  = 25
	DefaultBaseTickMs = 120.0

	hudTicks       = 30 // HUD 消息显示的 tick 数
	highlightTicks = 8
	restartGuard   = 200 * time.Millisecond // 死亡后短时间内忽略方向键
	placementTries = 1000
)

// TickResult 每个 tick 只会有一种结果
type TickResult int

const (
	TickIdle TickResult = iota // 未运行/暂停/已结束，什么都不做
	TickMoved
	TickGameOver
)

// Options 创建游戏时的参数
type Options struct {
	TileCount  int
	BaseTickMs float64
	Difficulty structs.Difficulty
	Seed       uint64 // 0 表示使用当前时间
}

// Game 一局专家模式的全部可变状态。所有方法都不是并发安全的，
// 由调用方（ticker.Runner）串行调用。
type Game struct {
	rng *rand.Rand
	now func() time.Time

	tileCount  int
	baseTickMs float64
	difficulty structs.Difficulty

	state        structs.State
	lastGameOver time.Time
	ticks        uint64

	body    []structs.Position // 蛇头在前
	dir     structs.Direction  // 本 tick 使用的方向
	nextDir structs.Direction  // 输入缓冲，下个 tick 生效

	apple    structs.Position
	hasApple bool
	score    int

	speedFactor float64

	obstacles mapset.Set[structs.Position]
	preview   []structs.Position
	mine      *structs.Position
	mineTick  int
	items     []structs.Item
	portal    *structs.PortalEdge
	phasing   bool
	phaseExit *structs.Position

	highlights []structs.Highlight

	applesSinceEvent int
	warning          bool
	pending          *pendingEvent

	hudMessage string
	hudTimer   int
}

// New 创建一个处于 Idle 状态的游戏
func New(opts Options) *Game {
	if opts.TileCount < 10 {
		opts.TileCount = DefaultTileCount
	}
	if opts.BaseTickMs <= 0 {
		opts.BaseTickMs = DefaultBaseTickMs
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	g := &Game{
		rng:        rand.New(rand.NewSource(seed)),
		now:        time.Now,
		tileCount:  opts.TileCount,
		baseTickMs: opts.BaseTickMs,
		difficulty: structs.ParseDifficulty(string(opts.Difficulty)),
		obstacles:  mapset.New[structs.Position](),
	}
	g.Reset()
	return g
}

// Reset 回到 Idle，清空本局所有状态
func (g *Game) Reset() {
	cx, cy := g.tileCount/2, g.tileCount/2
	// 初始长度 2，向右
	g.body = []structs.Position{{X: cx + 1, Y: cy}, {X: cx, Y: cy}}
	g.dir = structs.Right
	g.nextDir = structs.Right

	g.state = structs.StateIdle
	g.ticks = 0
	g.score = 0
	g.speedFactor = 1.0

	g.applesSinceEvent = 0
	g.warning = false
	g.pending = nil
	g.hudMessage = ""
	g.hudTimer = 0

	g.obstacles.Clear()
	g.preview = nil
	g.mine = nil
	g.mineTick = 0
	g.items = nil
	g.portal = nil
	g.phasing = false
	g.phaseExit = nil
	g.highlights = nil

	g.hasApple = false
	g.placeApple()
}

// Start 只在 Idle 或 GameOver 时开始新的一局，不负责解除暂停
func (g *Game) Start() bool {
	if g.state != structs.StateIdle && g.state != structs.StateGameOver {
		return false
	}
	g.Reset()
	g.state = structs.StateRunning
	return true
}

// Stop 强制结束
func (g *Game) Stop() {
	if g.state != structs.StateGameOver {
		g.gameOver()
	}
}

// PauseToggle Running <-> Paused
func (g *Game) PauseToggle() {
	switch g.state {
	case structs.StateRunning:
		g.state = structs.StatePaused
	case structs.StatePaused:
		g.state = structs.StateRunning
	}
}

// SetDirection 处理方向输入。Idle/GameOver 时隐式开始新的一局，Paused 时恢复。
// 返回 false 表示输入被忽略。
func (g *Game) SetDirection(dx, dy int) bool {
	d := structs.Direction{DX: dx, DY: dy}
	if !d.IsUnit() {
		return false
	}

	switch g.state {
	case structs.StateIdle:
		g.Start()
	case structs.StateGameOver:
		if g.now().Sub(g.lastGameOver) < restartGuard {
			return false
		}
		g.Start()
	case structs.StatePaused:
		g.state = structs.StateRunning
	}

	// 禁止直接掉头
	if d == g.dir.Opposite() || d == g.nextDir.Opposite() {
		return false
	}
	g.nextDir = d
	return true
}

// OnDifficultyChanged 切换难度，不影响已经预告的事件
func (g *Game) OnDifficultyChanged(s string) structs.Difficulty {
	g.difficulty = structs.ParseDifficulty(s)
	return g.difficulty
}

func (g *Game) gameOver() {
	g.state = structs.StateGameOver
	g.lastGameOver = g.now()
}

func (g *Game) showHUD(msg string) {
	g.hudMessage = msg
	g.hudTimer = hudTicks
}

func (g *Game) State() structs.State { return g.state }
func (g *Game) Difficulty() structs.Difficulty { return g.difficulty }
func (g *Game) Score() int { return g.score }
func (g *Game) Len() int { return len(g.body) }
func (g *Game) Head() structs.Position { return g.body[0] }
func (g *Game) TileCount() int { return g.tileCount }
func (g *Game) SpeedFactor() float64 { return g.speedFactor }
func (g *Game) Ticks() uint64 { return g.ticks }
func (g *Game) HUD() string { return g.hudMessage }

// Looping 计时器是否应该在跑
func (g *Game) Looping() bool {
	return g.state == structs.StateRunning
}

func (g *Game) choice(n int) int {
	return g.rng.Intn(n)
}
