package game

const (
	BoardWidth  = 10
	BoardHeight = 20
)

// Board is the settled stack. Its dimensions are fixed by the array type.
type Board [BoardHeight][BoardWidth]PieceKind

// Collides reports whether shape placed with its top-left at (x, y) leaves
// the board sideways or at the bottom, or overlaps a settled cell. Cells above
// the top edge only take part in the side checks.
func (b *Board) Collides(shape Shape, x, y int) bool {
	for r, row := range shape {
		for c, filled := range row {
			if !filled {
				continue
			}
			bx, by := x+c, y+r
			if bx < 0 || bx >= BoardWidth || by >= BoardHeight {
				return true
			}
			if by >= 0 && b[by][bx] != KindNone {
				return true
			}
		}
	}
	return false
}

// Merge writes the piece's visible cells into the board.
func (b *Board) Merge(p Piece) {
	for r, row := range p.Shape {
		for c, filled := range row {
			if !filled {
				continue
			}
			bx, by := p.X+c, p.Y+r
			if by < 0 || by >= BoardHeight || bx < 0 || bx >= BoardWidth {
				continue
			}
			b[by][bx] = p.Kind
		}
	}
}

// ClearLines drops every full row, shifts the rest down and returns how many
// rows went.
func (b *Board) ClearLines() int {
	var kept Board
	dst := BoardHeight - 1
	for y := BoardHeight - 1; y >= 0; y-- {
		if b.rowFull(y) {
			continue
		}
		kept[dst] = b[y]
		dst--
	}
	cleared := dst + 1
	*b = kept
	return cleared
}

func (b *Board) rowFull(y int) bool {
	for x := 0; x < BoardWidth; x++ {
		if b[y][x] == KindNone {
			return false
		}
	}
	return true
}

// Overlay returns a copy of the board with p drawn on top. The receiver is
// left untouched.
func (b *Board) Overlay(p Piece) Board {
	out := *b
	out.Merge(p)
	return out
}
