package domain

import "time"

// Player - гостевой игрок, создаётся по имени
type Player struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
