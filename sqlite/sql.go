package sqlite

import (
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-expert/structs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const createRunsTableSQL = `
CREATE TABLE IF NOT EXISTS Runs (
    ID TEXT PRIMARY KEY,
    SessionID TEXT,
    Score INTEGER,
    Length INTEGER,
    Difficulty TEXT,
    SpeedFactor REAL,
    Ticks INTEGER,
    EndedAt TIMESTAMP
);
`

const createRunsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_runs_difficulty_score ON Runs (Difficulty, Score DESC);
`

const maxTopRuns = 100

func executeSQL(db *sql.DB, sqlStatement string) {
	_, err := db.Exec(sqlStatement)
	if err != nil {
		log.Fatalf("Error executing SQL statement: %s\n%s", sqlStatement, err)
	}
}

// Open 打开数据库并建表
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if path == ":memory:" {
		// 每个连接都是一个独立的内存库
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping %s", path)
	}
	InitializeDatabase(db)
	return db, nil
}

func InitializeDatabase(db *sql.DB) {
	executeSQL(db, createRunsTableSQL)
	executeSQL(db, createRunsIndexSQL)
}

// InsertRun 保存一局的结果，没有 ID 时生成一个
func InsertRun(db *sql.DB, run *structs.RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.EndedAt.IsZero() {
		run.EndedAt = time.Now()
	}

	// 开启事务
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}

	_, err = tx.Exec("INSERT OR REPLACE INTO Runs (ID, SessionID, Score, Length, Difficulty, SpeedFactor, Ticks, EndedAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.SessionID, run.Score, run.Length, string(run.Difficulty), run.SpeedFactor, int64(run.Ticks), run.EndedAt.UTC())
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "insert run")
	}

	// 提交事务
	return errors.Wrap(tx.Commit(), "commit")
}

// TopRuns 按分数从高到低，difficulty 为空时不过滤
func TopRuns(db *sql.DB, limit int, difficulty string) ([]structs.RunRecord, error) {
	if limit <= 0 || limit > maxTopRuns {
		limit = 10
	}

	query := "SELECT ID, SessionID, Score, Length, Difficulty, SpeedFactor, Ticks, EndedAt FROM Runs"
	args := []interface{}{}
	if difficulty != "" {
		query += " WHERE Difficulty = ?"
		args = append(args, difficulty)
	}
	query += " ORDER BY Score DESC, EndedAt ASC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []structs.RunRecord
	for rows.Next() {
		var run structs.RunRecord
		var diff string
		var ticks int64
		if err := rows.Scan(&run.ID, &run.SessionID, &run.Score, &run.Length, &diff, &run.SpeedFactor, &ticks, &run.EndedAt); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		run.Difficulty = structs.Difficulty(diff)
		run.Ticks = uint64(ticks)
		runs = append(runs, run)
	}
	return runs, errors.Wrap(rows.Err(), "iterate runs")
}

// BestScore 某个难度的最高分，没有记录时为 0
func BestScore(db *sql.DB, difficulty string) (int, error) {
	var best sql.NullInt64
	err := db.QueryRow("SELECT MAX(Score) FROM Runs WHERE Difficulty = ?", difficulty).Scan(&best)
	if err != nil {
		return 0, errors.Wrap(err, "best score")
	}
	return int(best.Int64), nil
}

// DeleteSessionRuns 删除某个会话的全部记录
func DeleteSessionRuns(db *sql.DB, sessionID string) (int64, error) {
	result, err := db.Exec("DELETE FROM Runs WHERE SessionID = ?", sessionID)
	if err != nil {
		return 0, errors.Wrap(err, "delete runs")
	}
	return result.RowsAffected()
}
