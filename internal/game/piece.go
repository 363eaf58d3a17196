package game

import "fmt"

// PieceKind identifies a tetromino. The zero value marks an empty board cell.
type PieceKind uint8

const (
	KindNone PieceKind = iota
	KindI
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// Kinds lists the seven spawnable tetrominoes.
var Kinds = [...]PieceKind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

type tetromino struct {
	name  string
	color string
	rows  []string
}

var tetrominoes = map[PieceKind]tetromino{
	KindI: {name: "I", color: "#00F0F0", rows: []string{"####"}},
	KindO: {name: "O", color: "#F0F000", rows: []string{"##", "##"}},
	KindT: {name: "T", color: "#A000F0", rows: []string{".#.", "###"}},
	KindS: {name: "S", color: "#00F000", rows: []string{".##", "##."}},
	KindZ: {name: "Z", color: "#F00000", rows: []string{"##.", ".##"}},
	KindJ: {name: "J", color: "#0000F0", rows: []string{"#..", "###"}},
	KindL: {name: "L", color: "#F0A000", rows: []string{"..#", "###"}},
}

func (k PieceKind) String() string {
	if t, ok := tetrominoes[k]; ok {
		return t.name
	}
	return ""
}

// Color is the display colour of the kind as a #RRGGBB string.
func (k PieceKind) Color() string {
	return tetrominoes[k].color
}

// Shape returns a fresh copy of the canonical spawn orientation.
func (k PieceKind) Shape() Shape {
	t, ok := tetrominoes[k]
	if !ok {
		return nil
	}
	return ParseShape(t.rows...)
}

// MarshalText encodes a kind as its letter so boards serialise compactly.
func (k PieceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PieceKind) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*k = KindNone
		return nil
	}
	for kind, t := range tetrominoes {
		if t.name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown piece kind %q", b)
}

// Shape is a rectangular occupancy matrix indexed [row][col].
type Shape [][]bool

// ParseShape builds a shape from rows where '#' marks an occupied cell.
func ParseShape(rows ...string) Shape {
	s := make(Shape, len(rows))
	for r, row := range rows {
		s[r] = make([]bool, len(row))
		for c, ch := range row {
			s[r][c] = ch == '#'
		}
	}
	return s
}

func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

func (s Shape) Height() int { return len(s) }

// Rotate returns the shape turned 90° clockwise: transpose, then reverse
// each resulting row.
func (s Shape) Rotate() Shape {
	h, w := s.Height(), s.Width()
	out := make(Shape, w)
	for r := 0; r < w; r++ {
		out[r] = make([]bool, h)
		for c := 0; c < h; c++ {
			out[r][c] = s[h-1-c][r]
		}
	}
	return out
}

func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for r := range s {
		out[r] = append([]bool(nil), s[r]...)
	}
	return out
}

func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for r := range s {
		if len(s[r]) != len(o[r]) {
			return false
		}
		for c := range s[r] {
			if s[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

type Piece struct {
	Kind  PieceKind
	Shape Shape
	X, Y  int
}

// spawnPiece places a canonical piece at the top-centre of the board.
func spawnPiece(k PieceKind) Piece {
	shape := k.Shape()
	return Piece{
		Kind:  k,
		Shape: shape,
		X:     BoardWidth/2 - shape.Width()/2,
		Y:     0,
	}
}

// pieceQueue holds the live piece and its successor.
type pieceQueue struct {
	current Piece
	next    Piece
}

// advance promotes next to current and queues a fresh piece behind it.
func (q *pieceQueue) advance(draw func() PieceKind) {
	q.current = q.next
	q.next = spawnPiece(draw())
}
