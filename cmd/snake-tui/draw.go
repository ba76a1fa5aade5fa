package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-expert/structs"
)

var (
	styleDefault   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleBorder    = styleDefault.Foreground(tcell.ColorDarkGray)
	styleHead      = styleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleBody      = styleDefault.Foreground(tcell.ColorGreen)
	styleApple     = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleObstacle  = styleDefault.Foreground(tcell.ColorSilver)
	stylePreview   = styleDefault.Foreground(tcell.ColorOrangeRed)
	styleMine      = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorRed)
	styleItem      = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleExit      = styleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleHighlight = styleDefault.Background(tcell.ColorOlive)
	styleWarning   = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus    = styleDefault.Foreground(tcell.ColorAqua)
)

var itemGlyphs = map[structs.ItemKind]rune{
	structs.ItemBomb:      'b',
	structs.ItemSuperbomb: 'B',
	structs.ItemShrink:    's',
	structs.ItemTeleport:  't',
	structs.ItemPhase:     'p',
}

// 地图左上角在屏幕上的位置（含边框）
const (
	boardX = 0
	boardY = 2
)

func cellAt(p structs.Position) (int, int) {
	return boardX + 1 + p.X, boardY + 1 + p.Y
}

// DrawText 从 (x, y) 开始写一行字
func DrawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// drawSnapshot 把一帧画到终端上
func drawSnapshot(s tcell.Screen, snap structs.Snapshot, best int) {
	s.Clear()
	n := snap.TileCount

	status := fmt.Sprintf("Score: %d  Best: %d  Speed: %d%%  Difficulty: %s  State: %s",
		snap.Score, best, int(snap.SpeedFactor*100+0.5), snap.Difficulty, snap.State)
	DrawText(s, 0, 0, status, styleStatus)
	if snap.HUDMessage != "" {
		style := styleDefault
		if snap.Warning {
			style = styleWarning
		}
		DrawText(s, 0, 1, snap.HUDMessage, style)
	}

	// 边框；传送门可用的两条边用 ':' 表示
	horizontal, vertical := '-', '|'
	if snap.Portal != nil && !snap.Portal.Used {
		if snap.Portal.Axis == structs.AxisHorizontal {
			horizontal = ':'
		} else {
			vertical = ':'
		}
	}
	for i := 0; i <= n+1; i++ {
		s.SetContent(boardX+i, boardY, horizontal, nil, styleBorder)
		s.SetContent(boardX+i, boardY+n+1, horizontal, nil, styleBorder)
		s.SetContent(boardX, boardY+i, vertical, nil, styleBorder)
		s.SetContent(boardX+n+1, boardY+i, vertical, nil, styleBorder)
	}

	put := func(p structs.Position, r rune, style tcell.Style) {
		x, y := cellAt(p)
		s.SetContent(x, y, r, nil, style)
	}

	for _, h := range snap.Highlights {
		put(structs.Position{X: h.X, Y: h.Y}, ' ', styleHighlight)
	}
	for _, p := range snap.Preview {
		put(p, '+', stylePreview)
	}
	for _, p := range snap.Obstacles {
		put(p, '#', styleObstacle)
	}
	for _, it := range snap.Items {
		put(it.Pos(), itemGlyphs[it.Type], styleItem)
	}
	if snap.Apple != nil {
		put(*snap.Apple, '*', styleApple)
	}
	if snap.Mine != nil {
		put(*snap.Mine, 'X', styleMine)
	}
	if snap.PhaseExit != nil {
		put(*snap.PhaseExit, 'E', styleExit)
	}
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			put(snap.Snake[i], '@', styleHead)
		} else {
			put(snap.Snake[i], 'o', styleBody)
		}
	}

	help := "arrows steer  Enter start  Esc pause  s stop  r reset  1/2/3 difficulty  q quit"
	DrawText(s, 0, boardY+n+2, help, styleBorder)
	s.Show()
}
