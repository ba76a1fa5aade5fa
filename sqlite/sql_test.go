package sqlite

import (
	"database/sql"
	"testing"
	"time"

	"github.com/hoshinonyaruko/snake-expert/structs"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndTopRuns(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []structs.RunRecord{
		{SessionID: "a", Score: 4, Length: 6, Difficulty: structs.Normal, SpeedFactor: 1.1, Ticks: 300, EndedAt: base},
		{SessionID: "a", Score: 9, Length: 11, Difficulty: structs.Normal, SpeedFactor: 0.9, Ticks: 800, EndedAt: base.Add(time.Minute)},
		{SessionID: "b", Score: 12, Length: 14, Difficulty: structs.Hard, SpeedFactor: 1.2, Ticks: 900, EndedAt: base.Add(2 * time.Minute)},
		{SessionID: "b", Score: 9, Length: 10, Difficulty: structs.Normal, SpeedFactor: 1.0, Ticks: 700, EndedAt: base.Add(3 * time.Minute)},
	}
	for i := range runs {
		if err := InsertRun(db, &runs[i]); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
		if runs[i].ID == "" {
			t.Fatal("Expected an id to be assigned")
		}
	}

	all, err := TopRuns(db, 10, "")
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(all) != 4 || all[0].Score != 12 {
		t.Fatalf("Expected 4 runs led by score 12, got %+v", all)
	}

	normal, err := TopRuns(db, 2, "normal")
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(normal) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(normal))
	}
	// 同分时先达成的在前
	if normal[0].ID != runs[1].ID || normal[1].ID != runs[3].ID {
		t.Errorf("Unexpected order %v, %v", normal[0].ID, normal[1].ID)
	}
	if normal[0].Ticks != 800 || normal[0].SpeedFactor != 0.9 || normal[0].Difficulty != structs.Normal {
		t.Errorf("Unexpected round trip %+v", normal[0])
	}
	if !normal[0].EndedAt.Equal(runs[1].EndedAt) {
		t.Errorf("Expected EndedAt %v, got %v", runs[1].EndedAt, normal[0].EndedAt)
	}
}

func TestBestScore(t *testing.T) {
	db := openTestDB(t)

	best, err := BestScore(db, "easy")
	if err != nil || best != 0 {
		t.Fatalf("Expected 0 without runs, got %d (%v)", best, err)
	}

	for _, score := range []int{3, 8, 5} {
		run := structs.RunRecord{SessionID: "s", Score: score, Difficulty: structs.Easy}
		if err := InsertRun(db, &run); err != nil {
			t.Fatal(err)
		}
	}
	run := structs.RunRecord{SessionID: "s", Score: 20, Difficulty: structs.Hard}
	if err := InsertRun(db, &run); err != nil {
		t.Fatal(err)
	}

	if best, err = BestScore(db, "easy"); err != nil || best != 8 {
		t.Errorf("Expected best easy score 8, got %d (%v)", best, err)
	}
}

func TestDeleteSessionRuns(t *testing.T) {
	db := openTestDB(t)
	for _, id := range []string{"x", "x", "y"} {
		run := structs.RunRecord{SessionID: id, Score: 1, Difficulty: structs.Normal}
		if err := InsertRun(db, &run); err != nil {
			t.Fatal(err)
		}
	}

	n, err := DeleteSessionRuns(db, "x")
	if err != nil || n != 2 {
		t.Fatalf("Expected 2 deleted rows, got %d (%v)", n, err)
	}
	left, err := TopRuns(db, 10, "")
	if err != nil || len(left) != 1 || left[0].SessionID != "y" {
		t.Errorf("Expected only session y to remain, got %+v (%v)", left, err)
	}
}
