package tty

import (
	"fmt"

	"arcade/internal/game"

	"github.com/gdamore/tcell/v2"
)

const (
	boardLeft = 2
	boardTop  = 2
	cellWidth = 2 // one board cell is two terminal columns wide
)

var (
	styleText   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleHead   = tcell.StyleDefault.Foreground(tcell.ColorLime)
	styleBody   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFood   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// status is the host-side information drawn next to the board.
type status struct {
	Best    int
	Muted   bool
	Player  string
	Message string
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawCell(s tcell.Screen, col, row int, r rune, style tcell.Style) {
	x := boardLeft + 1 + col*cellWidth
	y := boardTop + 1 + row
	s.SetContent(x, y, r, nil, style)
	s.SetContent(x+1, y, r, nil, style)
}

func drawFrame(s tcell.Screen, w, h int) {
	right := boardLeft + 1 + w*cellWidth
	bottom := boardTop + 1 + h
	for x := boardLeft; x <= right; x++ {
		s.SetContent(x, boardTop, '─', nil, styleBorder)
		s.SetContent(x, bottom, '─', nil, styleBorder)
	}
	for y := boardTop; y <= bottom; y++ {
		s.SetContent(boardLeft, y, '│', nil, styleBorder)
		s.SetContent(right, y, '│', nil, styleBorder)
	}
	s.SetContent(boardLeft, boardTop, '┌', nil, styleBorder)
	s.SetContent(right, boardTop, '┐', nil, styleBorder)
	s.SetContent(boardLeft, bottom, '└', nil, styleBorder)
	s.SetContent(right, bottom, '┘', nil, styleBorder)
}

// sidebarX is the first column right of a board w cells wide.
func sidebarX(w int) int {
	return boardLeft + 1 + w*cellWidth + 3
}

func pieceStyle(k game.PieceKind) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.GetColor(k.Color()))
}

func drawSnake(s tcell.Screen, snap game.SnakeSnapshot, st status) {
	n := snap.GridSize
	drawFrame(s, n, n)

	if snap.Food != nil {
		drawCell(s, snap.Food.X, snap.Food.Y, '●', styleFood)
	}
	for i, c := range snap.Body {
		if i == 0 {
			drawCell(s, c.X, c.Y, '█', styleHead)
			continue
		}
		drawCell(s, c.X, c.Y, '▓', styleBody)
	}

	x := sidebarX(n)
	drawText(s, x, boardTop, styleBanner, "SNAKE")
	drawText(s, x, boardTop+2, styleText, fmt.Sprintf("Score: %d", snap.Score))
	drawText(s, x, boardTop+3, styleText, fmt.Sprintf("Best:  %d", snap.HighScore))
	drawText(s, x, boardTop+4, styleText, fmt.Sprintf("Length: %d", len(snap.Body)))
	drawSidebarFooter(s, x, boardTop+6, st)

	drawOverlay(s, n, n, snap.State, "Space/Enter to restart")
}

func drawTetris(s tcell.Screen, snap game.TetrisSnapshot, st status) {
	drawFrame(s, game.BoardWidth, game.BoardHeight)

	for y, row := range snap.Board {
		for x, k := range row {
			if k == game.KindNone {
				drawCell(s, x, y, '·', styleDim)
				continue
			}
			drawCell(s, x, y, '█', pieceStyle(k))
		}
	}

	x := sidebarX(game.BoardWidth)
	drawText(s, x, boardTop, styleBanner, "TETRIS")
	drawText(s, x, boardTop+2, styleText, fmt.Sprintf("Score: %d", snap.Score))
	drawText(s, x, boardTop+3, styleText, fmt.Sprintf("Lines: %d", snap.Lines))
	drawText(s, x, boardTop+4, styleText, fmt.Sprintf("Level: %d", snap.Level))
	drawText(s, x, boardTop+5, styleText, fmt.Sprintf("Best:  %d", max(st.Best, snap.Score)))

	drawText(s, x, boardTop+7, styleText, "Next:")
	for dy, row := range snap.Next.Shape {
		for dx, filled := range row {
			if filled {
				px := x + dx*cellWidth
				s.SetContent(px, boardTop+8+dy, '█', nil, pieceStyle(snap.Next.Kind))
				s.SetContent(px+1, boardTop+8+dy, '█', nil, pieceStyle(snap.Next.Kind))
			}
		}
	}
	drawSidebarFooter(s, x, boardTop+12, st)

	drawOverlay(s, game.BoardWidth, game.BoardHeight, snap.State, "Enter to restart")
}

func drawSidebarFooter(s tcell.Screen, x, y int, st status) {
	if st.Player != "" {
		drawText(s, x, y, styleDim, "Player: "+st.Player)
	}
	sound := "on"
	if st.Muted {
		sound = "off"
	}
	drawText(s, x, y+1, styleDim, "Sound: "+sound+" (m)")
	drawText(s, x, y+3, styleDim, "Arrows move, Space pause")
	drawText(s, x, y+4, styleDim, "Tab switch game, q quit")
	if st.Message != "" {
		drawText(s, x, y+6, styleBanner, st.Message)
	}
}

func drawOverlay(s tcell.Screen, w, h int, state game.State, restart string) {
	var title string
	switch state {
	case game.StatePaused:
		title = "PAUSED"
	case game.StateOver:
		title = "GAME OVER"
	default:
		return
	}

	mid := boardTop + 1 + h/2
	center := boardLeft + 1 + w*cellWidth/2
	drawText(s, center-len(title)/2, mid, styleBanner, title)
	if state == game.StateOver {
		drawText(s, center-len(restart)/2, mid+1, styleText, restart)
	}
}

// render clears the screen and draws whatever engine is active.
func render(s tcell.Screen, e game.Engine, st status) {
	s.Clear()
	switch snap := e.Snapshot().(type) {
	case game.SnakeSnapshot:
		drawSnake(s, snap, st)
	case game.TetrisSnapshot:
		drawTetris(s, snap, st)
	}
	s.Show()
}
