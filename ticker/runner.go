// ticker 用定时器驱动一局游戏，并把每一帧推送给订阅者
package ticker

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-expert/snake"
	"github.com/hoshinonyaruko/snake-expert/structs"
)

const subscriberBuffer = 8

// Runner 持有一局游戏。所有命令和 tick 都在同一把锁下执行，不会交错。
type Runner struct {
	mu   sync.Mutex
	id   string
	game *snake.Game

	timer    *time.Timer
	gen      uint64 // 每次重新设定计时器都会加一，旧的回调直接丢弃
	interval time.Duration

	subs    map[int]chan structs.Snapshot
	nextSub int

	onGameOver func(structs.RunRecord)
	reported   bool
	closed     bool
}

// New 创建一个 Runner，计时器在游戏开始之前不会启动
func New(id string, game *snake.Game) *Runner {
	return &Runner{
		id:   id,
		game: game,
		subs: make(map[int]chan structs.Snapshot),
	}
}

func (r *Runner) ID() string { return r.id }

// OnGameOver 每一局结束时调用一次，在锁外执行
func (r *Runner) OnGameOver(fn func(structs.RunRecord)) {
	r.mu.Lock()
	r.onGameOver = fn
	r.mu.Unlock()
}

func (r *Runner) Start() bool {
	var ok bool
	r.do(func(g *snake.Game) {
		ok = g.Start()
		if ok {
			log.Printf("session %s started (%s)", r.id, g.Difficulty())
		}
	})
	return ok
}

func (r *Runner) Stop() {
	r.do(func(g *snake.Game) { g.Stop() })
}

func (r *Runner) PauseToggle() {
	r.do(func(g *snake.Game) { g.PauseToggle() })
}

func (r *Runner) SetDirection(d structs.Direction) bool {
	var ok bool
	r.do(func(g *snake.Game) { ok = g.SetDirection(d.DX, d.DY) })
	return ok
}

func (r *Runner) SetDifficulty(s string) structs.Difficulty {
	var d structs.Difficulty
	r.do(func(g *snake.Game) { d = g.OnDifficultyChanged(s) })
	return d
}

func (r *Runner) Reset() {
	r.do(func(g *snake.Game) { g.Reset() })
}

// Snapshot 当前帧
func (r *Runner) Snapshot() structs.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Subscribe 订阅之后的每一帧。消费太慢时会丢帧。
func (r *Runner) Subscribe() (<-chan structs.Snapshot, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan structs.Snapshot, subscriberBuffer)
	if r.closed {
		close(ch)
		return ch, func() {}
	}
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if c, ok := r.subs[id]; ok {
				delete(r.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Close 停止计时器并关闭所有订阅
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.disarmLocked()
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
}

// do 执行一个命令，然后按新状态调整计时器并推送一帧
func (r *Runner) do(fn func(g *snake.Game)) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	fn(r.game)
	hook, rec := r.afterLocked()
	r.mu.Unlock()

	if hook != nil {
		hook(rec)
	}
}

func (r *Runner) fire(gen uint64) {
	r.mu.Lock()
	if r.closed || gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	r.game.Tick()
	hook, rec := r.afterLocked()
	r.mu.Unlock()

	if hook != nil {
		hook(rec)
	}
}

// afterLocked 处理状态变化：计时器、结束记录、推送
func (r *Runner) afterLocked() (func(structs.RunRecord), structs.RunRecord) {
	r.rearmLocked()

	var hook func(structs.RunRecord)
	var rec structs.RunRecord
	if r.game.State() == structs.StateGameOver {
		if !r.reported {
			r.reported = true
			log.Printf("session %s game over, score %d", r.id, r.game.Score())
			if r.onGameOver != nil && r.game.Ticks() > 0 {
				hook = r.onGameOver
				rec = structs.RunRecord{
					ID:          uuid.NewString(),
					SessionID:   r.id,
					Score:       r.game.Score(),
					Length:      r.game.Len(),
					Difficulty:  r.game.Difficulty(),
					SpeedFactor: r.game.SpeedFactor(),
					Ticks:       r.game.Ticks(),
					EndedAt:     time.Now(),
				}
			}
		}
	} else {
		r.reported = false
	}

	r.publishLocked()
	return hook, rec
}

// rearmLocked 只在运行时保留计时器；间隔变化时重新计时
func (r *Runner) rearmLocked() {
	if !r.game.Looping() {
		r.disarmLocked()
		return
	}
	interval := r.game.TickInterval()
	if r.timer != nil && interval == r.interval {
		return
	}
	r.disarmLocked()
	r.interval = interval
	gen := r.gen
	r.timer = time.AfterFunc(interval, func() { r.fire(gen) })
}

func (r *Runner) disarmLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}

func (r *Runner) snapshotLocked() structs.Snapshot {
	snap := r.game.Snapshot()
	snap.SessionID = r.id
	return snap
}

func (r *Runner) publishLocked() {
	if len(r.subs) == 0 {
		return
	}
	snap := r.snapshotLocked()
	for _, ch := range r.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
