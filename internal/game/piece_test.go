package game

import (
	"encoding/json"
	"testing"
)

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for _, k := range Kinds {
		s := k.Shape()
		r := s
		for i := 0; i < 4; i++ {
			r = r.Rotate()
		}
		if !r.Equal(s) {
			t.Fatalf("%s: four rotations gave %v; want %v", k, r, s)
		}
	}
}

func TestRotateClockwise(t *testing.T) {
	got := KindT.Shape().Rotate()
	want := ParseShape("#.", "##", "#.")
	if !got.Equal(want) {
		t.Fatalf("T rotated = %v; want %v", got, want)
	}

	got = KindL.Shape().Rotate()
	want = ParseShape("#.", "#.", "##")
	if !got.Equal(want) {
		t.Fatalf("L rotated = %v; want %v", got, want)
	}
}

func TestShapeReturnsCopy(t *testing.T) {
	s := KindI.Shape()
	s[0][0] = false
	if !KindI.Shape()[0][0] {
		t.Fatalf("canonical shape was mutated through a returned copy")
	}
}

func TestSpawnCentred(t *testing.T) {
	want := map[PieceKind]int{KindI: 3, KindO: 4, KindT: 4, KindS: 4, KindZ: 4, KindJ: 4, KindL: 4}
	for k, x := range want {
		p := spawnPiece(k)
		if p.X != x || p.Y != 0 {
			t.Fatalf("%s spawned at (%d,%d); want (%d,0)", k, p.X, p.Y, x)
		}
	}
}

func TestPieceKindText(t *testing.T) {
	b, err := json.Marshal([]PieceKind{KindNone, KindJ})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["","J"]` {
		t.Fatalf("marshal = %s", b)
	}

	var k PieceKind
	if err := k.UnmarshalText([]byte("S")); err != nil || k != KindS {
		t.Fatalf("unmarshal S = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("X")); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestBoardCollides(t *testing.T) {
	var b Board
	b[10][3] = KindL
	o := KindO.Shape()

	cases := []struct {
		name string
		x, y int
		want bool
	}{
		{"free", 0, 0, false},
		{"left edge", -1, 0, true},
		{"right edge", BoardWidth - 1, 0, true},
		{"floor", 0, BoardHeight - 1, true},
		{"above top", 0, -1, false},
		{"settled cell", 2, 9, true},
		{"beside settled cell", 4, 9, false},
	}
	for _, tc := range cases {
		if got := b.Collides(o, tc.x, tc.y); got != tc.want {
			t.Fatalf("%s: Collides = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestBoardClearLines(t *testing.T) {
	var b Board
	fill := func(y int) {
		for x := 0; x < BoardWidth; x++ {
			b[y][x] = KindI
		}
	}
	fill(19)
	fill(17)
	b[18][2] = KindT
	b[16][7] = KindZ

	if n := b.ClearLines(); n != 2 {
		t.Fatalf("cleared %d; want 2", n)
	}

	var want Board
	want[19][2] = KindT
	want[18][7] = KindZ
	if b != want {
		t.Fatalf("rows not shifted down correctly")
	}
}

func TestBoardMergeSkipsAboveTop(t *testing.T) {
	var b Board
	b.Merge(Piece{Kind: KindJ, Shape: KindJ.Shape(), X: 0, Y: -1})

	if b[0][0] != KindJ || b[0][1] != KindJ || b[0][2] != KindJ {
		t.Fatalf("visible row not merged: %v", b[0])
	}
}
