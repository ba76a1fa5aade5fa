package structs

import (
	"fmt"
	"time"
)

// Position 描述游戏地图上的一个坐标位置。
type Position struct {
	X int `json:"x" msgpack:"x"` // X坐标
	Y int `json:"y" msgpack:"y"` // Y坐标
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add 返回按方向移动一格后的位置
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Direction 单位方向向量
type Direction struct {
	DX int `json:"dx" msgpack:"dx"`
	DY int `json:"dy" msgpack:"dy"`
}

var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// ParseDirection 解析 "up", "down", "left", "right"
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Direction{}, false
}

// Opposite 反方向
func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

// IsUnit 是否为上下左右四个单位向量之一
func (d Direction) IsUnit() bool {
	return (d.DX == 0) != (d.DY == 0) && d.DX >= -1 && d.DX <= 1 && d.DY >= -1 && d.DY <= 1
}

// Difficulty 难度
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ParseDifficulty 未知的值一律回退到 normal
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case Easy, Hard:
		return Difficulty(s)
	}
	return Normal
}

// SpawnInterval 返回每次事件之间需要吃掉的苹果数
func (d Difficulty) SpawnInterval() int {
	switch d {
	case Easy:
		return 7
	case Hard:
		return 3
	}
	return 5
}

// SpeedMultiplier 基础间隔的倍数，简单更慢，困难更快
func (d Difficulty) SpeedMultiplier() float64 {
	switch d {
	case Easy:
		return 1.1
	case Hard:
		return 0.9
	}
	return 1.0
}

// State 游戏状态
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	}
	return "idle"
}

// HazardKind 危险事件类型
type HazardKind string

const (
	HazardObstacle HazardKind = "obstacle"
	HazardMine     HazardKind = "mine"
	HazardSpeed    HazardKind = "speed"
)

// HazardKinds 抽选顺序
var HazardKinds = []HazardKind{HazardObstacle, HazardMine, HazardSpeed}

// ItemKind 道具类型
type ItemKind string

const (
	ItemBomb      ItemKind = "bomb"
	ItemSuperbomb ItemKind = "superbomb"
	ItemShrink    ItemKind = "shrink"
	ItemTeleport  ItemKind = "teleport"
	ItemPhase     ItemKind = "phase"
)

// ItemKinds 抽选顺序
var ItemKinds = []ItemKind{ItemBomb, ItemSuperbomb, ItemShrink, ItemTeleport, ItemPhase}

// SpawnCount 每次事件生成的数量
func (k ItemKind) SpawnCount() int {
	switch k {
	case ItemBomb:
		return 4
	case ItemShrink:
		return 3
	}
	return 1
}

// Item 地图上的道具
type Item struct {
	Type ItemKind `json:"type" msgpack:"type"`
	X    int      `json:"x" msgpack:"x"`
	Y    int      `json:"y" msgpack:"y"`
}

func (it Item) Pos() Position {
	return Position{X: it.X, Y: it.Y}
}

// Axis 传送门所在的轴
type Axis string

const (
	AxisHorizontal Axis = "horizontal" // 上/下边界
	AxisVertical   Axis = "vertical"   // 左/右边界
)

// PortalEdge 一次性的穿墙规则
type PortalEdge struct {
	Axis Axis `json:"axis" msgpack:"axis"`
	Used bool `json:"used" msgpack:"used"`
}

// Highlight 炸弹影响范围的短暂高亮
type Highlight struct {
	X   int `json:"x" msgpack:"x"`
	Y   int `json:"y" msgpack:"y"`
	TTL int `json:"ttl" msgpack:"ttl"`
}

// Occupant 格子上的占用者
type Occupant int

const (
	OccupantEmpty Occupant = iota
	OccupantSnake
	OccupantObstacle
	OccupantMine
	OccupantItem
	OccupantApple
)

// Snapshot 描述一帧的只读游戏状态，供绘图和推送使用。
type Snapshot struct {
	SessionID     string      `json:"session_id" msgpack:"session_id"`
	TileCount     int         `json:"tile_count" msgpack:"tile_count"`
	Tick          uint64      `json:"tick" msgpack:"tick"`
	State         string      `json:"state" msgpack:"state"`
	Running       bool        `json:"running" msgpack:"running"`
	Paused        bool        `json:"paused" msgpack:"paused"`
	GameOver      bool        `json:"game_over" msgpack:"game_over"`
	Score         int         `json:"score" msgpack:"score"`
	Difficulty    Difficulty  `json:"difficulty" msgpack:"difficulty"`
	SpeedFactor   float64     `json:"speed_factor" msgpack:"speed_factor"`
	TickMs        float64     `json:"tick_ms" msgpack:"tick_ms"`
	Snake         []Position  `json:"snake" msgpack:"snake"` // 蛇头在前
	Direction     Direction   `json:"direction" msgpack:"direction"`
	Apple         *Position   `json:"apple" msgpack:"apple"`
	Obstacles     []Position  `json:"obstacles" msgpack:"obstacles"`
	Preview       []Position  `json:"preview_obstacles" msgpack:"preview_obstacles"`
	Mine          *Position   `json:"mine" msgpack:"mine"`
	Items         []Item      `json:"items" msgpack:"items"`
	Portal        *PortalEdge `json:"portal_edge" msgpack:"portal_edge"`
	Phasing       bool        `json:"phasing" msgpack:"phasing"`
	PhaseExit     *Position   `json:"phase_exit" msgpack:"phase_exit"`
	Highlights    []Highlight `json:"highlights" msgpack:"highlights"`
	HUDMessage    string      `json:"hud_message" msgpack:"hud_message"`
	HUDTimer      int         `json:"hud_timer" msgpack:"hud_timer"`
	Warning       bool        `json:"warning" msgpack:"warning"`
	PendingHazard HazardKind  `json:"pending_hazard,omitempty" msgpack:"pending_hazard,omitempty"`
}

// RunRecord 一局结束后的记录，持久化到数据库
type RunRecord struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	Score       int        `json:"score"`
	Length      int        `json:"length"`
	Difficulty  Difficulty `json:"difficulty"`
	SpeedFactor float64    `json:"speed_factor"`
	Ticks       uint64     `json:"ticks"`
	EndedAt     time.Time  `json:"ended_at"`
}
