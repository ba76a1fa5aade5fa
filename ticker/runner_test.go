package ticker

import (
	"testing"
	"time"

	"github.com/hoshinonyaruko/snake-expert/snake"
	"github.com/hoshinonyaruko/snake-expert/structs"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	r := New("test-session", snake.New(snake.Options{Seed: 3, BaseTickMs: 5}))
	t.Cleanup(r.Close)
	return r
}

func TestRunnerIdleHasNoTimer(t *testing.T) {
	r := newTestRunner(t)

	time.Sleep(30 * time.Millisecond)
	if snap := r.Snapshot(); snap.Tick != 0 || snap.State != "idle" {
		t.Errorf("Expected an idle game without ticks, got state %s tick %d", snap.State, snap.Tick)
	}
	if r.timer != nil {
		t.Error("Expected no timer while idle")
	}
}

func TestRunnerTicksAndPublishes(t *testing.T) {
	r := newTestRunner(t)
	frames, cancel := r.Subscribe()
	defer cancel()

	if !r.Start() {
		t.Fatal("Expected Start to succeed")
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-frames:
			if !ok {
				t.Fatal("Subscription closed unexpectedly")
			}
			if snap.SessionID != "test-session" {
				t.Fatalf("Expected session id on frames, got %q", snap.SessionID)
			}
			if snap.Tick >= 3 {
				return
			}
		case <-deadline:
			t.Fatal("Expected ticks to be published")
		}
	}
}

func TestRunnerPauseStopsTicking(t *testing.T) {
	r := newTestRunner(t)
	r.Start()
	time.Sleep(20 * time.Millisecond)

	r.PauseToggle()
	paused := r.Snapshot()
	if !paused.Paused {
		t.Fatalf("Expected paused state, got %s", paused.State)
	}
	time.Sleep(30 * time.Millisecond)
	if snap := r.Snapshot(); snap.Tick != paused.Tick {
		t.Errorf("Expected no ticks while paused, got %d -> %d", paused.Tick, snap.Tick)
	}

	r.PauseToggle()
	time.Sleep(30 * time.Millisecond)
	if snap := r.Snapshot(); snap.Tick == paused.Tick && snap.State == "running" {
		t.Error("Expected ticks to resume")
	}
}

func TestRunnerReportsGameOverOnce(t *testing.T) {
	r := newTestRunner(t)
	records := make(chan structs.RunRecord, 4)
	r.OnGameOver(func(rec structs.RunRecord) { records <- rec })

	r.Start()
	// 一直向右，最多十几个 tick 就会撞墙
	var rec structs.RunRecord
	select {
	case rec = <-records:
	case <-time.After(3 * time.Second):
		t.Fatal("Expected a game over record")
	}

	if rec.SessionID != "test-session" || rec.ID == "" || rec.Ticks == 0 {
		t.Errorf("Unexpected record %+v", rec)
	}
	if rec.Difficulty != structs.Normal {
		t.Errorf("Expected normal difficulty, got %s", rec.Difficulty)
	}

	r.Stop()
	select {
	case extra := <-records:
		t.Errorf("Expected a single record per run, got another %+v", extra)
	case <-time.After(30 * time.Millisecond):
	}

	if snap := r.Snapshot(); !snap.GameOver {
		t.Errorf("Expected game over, got %s", snap.State)
	}
}

func TestRunnerStopWithoutTicksIsNotRecorded(t *testing.T) {
	r := newTestRunner(t)
	called := false
	r.OnGameOver(func(structs.RunRecord) { called = true })

	r.Stop()
	if called {
		t.Error("A run that never ticked must not be recorded")
	}
}

func TestRunnerDirectionStartsGame(t *testing.T) {
	r := newTestRunner(t)

	if !r.SetDirection(structs.Up) {
		t.Fatal("Expected up to be accepted")
	}
	if snap := r.Snapshot(); snap.State != "running" || snap.Direction != structs.Up {
		t.Errorf("Expected a running game heading up, got %s %v", snap.State, snap.Direction)
	}
}

func TestRunnerDifficulty(t *testing.T) {
	r := newTestRunner(t)
	if d := r.SetDifficulty("hard"); d != structs.Hard {
		t.Errorf("Expected hard, got %s", d)
	}
	if d := r.SetDifficulty("???"); d != structs.Normal {
		t.Errorf("Expected fallback to normal, got %s", d)
	}
}

func TestRunnerCloseEndsSubscriptions(t *testing.T) {
	r := New("closing", snake.New(snake.Options{Seed: 1, BaseTickMs: 5}))
	frames, cancel := r.Subscribe()
	r.Start()
	r.Close()

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-frames:
			if !ok {
				cancel()
				if r.Start() {
					t.Error("Commands after Close must be ignored")
				}
				return
			}
		case <-timeout:
			t.Fatal("Expected the subscription to be closed")
		}
	}
}

func TestRunnerRearmsOnIntervalChange(t *testing.T) {
	// 间隔足够长，测试期间不会真正 tick
	game := snake.New(snake.Options{Seed: 3, BaseTickMs: 1000})
	r := New("slow-session", game)
	t.Cleanup(r.Close)

	r.Start()
	r.mu.Lock()
	before, gen := r.interval, r.gen
	r.mu.Unlock()
	if before != game.TickInterval() {
		t.Fatalf("Expected interval %v, got %v", game.TickInterval(), before)
	}

	// 方向改变不影响间隔，计时器保持不动
	r.SetDirection(structs.Up)
	r.mu.Lock()
	if r.gen != gen {
		t.Errorf("Expected the timer to be kept on direction input, generation %d -> %d", gen, r.gen)
	}
	r.mu.Unlock()

	for _, d := range []string{"easy", "hard"} {
		r.SetDifficulty(d)
		r.mu.Lock()
		got, want, armed := r.interval, game.TickInterval(), r.timer != nil
		r.mu.Unlock()
		if !armed {
			t.Fatalf("%s: expected an armed timer", d)
		}
		if got != want {
			t.Errorf("%s: expected re-armed interval %v, got %v", d, want, got)
		}
		if got == before {
			t.Errorf("%s: expected the interval to change from %v", d, before)
		}
	}
}
