package game

import (
	"errors"
	"testing"
	"time"
)

func TestParseKey(t *testing.T) {
	cases := map[string]Key{
		"ArrowUp":    KeyUp,
		"arrowdown":  KeyDown,
		"Left":       KeyLeft,
		"d":          KeyRight,
		" ":          KeyPause,
		"Space":      KeyPause,
		"Spacebar":   KeyPause,
		"Enter":      KeyConfirm,
		"return":     KeyConfirm,
		"":           KeyNone,
		"Escape":     KeyNone,
		"ArrowUpish": KeyNone,
	}
	for in, want := range cases {
		if got := ParseKey(in); got != want {
			t.Fatalf("ParseKey(%q) = %s; want %s", in, got, want)
		}
	}
}

func TestParseGameType(t *testing.T) {
	if gt, err := ParseGameType("tetris"); err != nil || gt != TypeTetris {
		t.Fatalf("tetris: %v %v", gt, err)
	}
	if _, err := ParseGameType("pong"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("pong: err = %v; want ErrUnknownGame", err)
	}
}

func TestFactoryCreateGame(t *testing.T) {
	f := NewFactoryWithIntervals(100*time.Millisecond, 0)

	e, err := f.CreateGame(TypeSnake, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Type() != TypeSnake || e.Interval() != 100*time.Millisecond {
		t.Fatalf("snake: type=%s interval=%v", e.Type(), e.Interval())
	}

	e, err = f.CreateGame(TypeTetris, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Type() != TypeTetris || e.Interval() != TetrisBaseInterval {
		t.Fatalf("tetris: type=%s interval=%v", e.Type(), e.Interval())
	}

	if _, err := f.CreateGame("pong", nil); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("err = %v; want ErrUnknownGame", err)
	}
}

func TestFactoryDescribe(t *testing.T) {
	infos := NewFactory().Describe()
	if len(infos) != 2 {
		t.Fatalf("got %d games", len(infos))
	}
	tetris := infos[1]
	if tetris.Width != BoardWidth || tetris.Height != BoardHeight || tetris.PieceColors["I"] != "#00F0F0" {
		t.Fatalf("tetris info = %+v", tetris)
	}
}
