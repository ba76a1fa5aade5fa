// snake-tui 在终端里玩专家模式，成绩写进同一个数据库
package main

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-expert/config"
	"github.com/hoshinonyaruko/snake-expert/snake"
	"github.com/hoshinonyaruko/snake-expert/sqlite"
	"github.com/hoshinonyaruko/snake-expert/structs"
	"github.com/hoshinonyaruko/snake-expert/ticker"
)

var difficultyKeys = map[rune]string{
	'1': string(structs.Easy),
	'2': string(structs.Normal),
	'3': string(structs.Hard),
}

func main() {
	cfg := config.LoadConfig("./config.json")
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	s, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v", err)
		os.Exit(1)
	}
	if err := s.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v", err)
		os.Exit(1)
	}
	s.SetStyle(styleDefault)
	defer s.Fini()

	runner := ticker.New(uuid.NewString(), snake.New(snake.Options{
		TileCount:  cfg.TileCount,
		BaseTickMs: cfg.BaseTickMs,
		Difficulty: structs.Difficulty(cfg.Difficulty),
		Seed:       cfg.Seed,
	}))
	defer runner.Close()

	var best atomic.Int64
	refreshBest := func(difficulty string) {
		if v, err := sqlite.BestScore(db, difficulty); err == nil {
			best.Store(int64(v))
		}
	}
	refreshBest(cfg.Difficulty)

	runner.OnGameOver(func(rec structs.RunRecord) {
		if err := sqlite.InsertRun(db, &rec); err != nil {
			log.Printf("failed to save run: %v", err)
			return
		}
		refreshBest(string(rec.Difficulty))
	})

	frames, cancel := runner.Subscribe()
	defer cancel()
	go func() {
		for snap := range frames {
			drawSnapshot(s, snap, int(best.Load()))
		}
	}()
	drawSnapshot(s, runner.Snapshot(), int(best.Load()))

	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventResize:
			s.Sync()
			drawSnapshot(s, runner.Snapshot(), int(best.Load()))
		case *tcell.EventKey:
			if !handleKey(runner, ev, refreshBest) {
				return
			}
		case nil:
			return
		}
	}
}

// handleKey 返回 false 表示退出
func handleKey(r *ticker.Runner, ev *tcell.EventKey, refreshBest func(string)) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		r.SetDirection(structs.Up)
	case tcell.KeyDown:
		r.SetDirection(structs.Down)
	case tcell.KeyLeft:
		r.SetDirection(structs.Left)
	case tcell.KeyRight:
		r.SetDirection(structs.Right)
	case tcell.KeyEscape:
		r.PauseToggle()
	case tcell.KeyEnter:
		r.Start()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 's', 'S':
			r.Stop()
		case 'r', 'R':
			r.Reset()
		default:
			if d, ok := difficultyKeys[ev.Rune()]; ok {
				refreshBest(string(r.SetDifficulty(d)))
			}
		}
	}
	return true
}
