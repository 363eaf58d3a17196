package main

import (
	"context"
	"flag"
	"log"
	"os"

	"arcade/internal/db"
	"arcade/internal/repository"
	"arcade/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	name := flag.String("name", "tester", "player name")
	flag.Parse()

	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	service.InitJWT(os.Getenv("JWT_SECRET"))
	players := service.NewPlayerService(repository.NewPlayerRepository(pool))

	sess, err := players.Guest(context.Background(), *name)
	if err != nil {
		log.Fatalf("create player failed: %v", err)
	}

	log.Printf("player id=%d name=%s created_at=%v\n", sess.Player.ID, sess.Player.Name, sess.Player.CreatedAt)
	log.Printf("token=%s\n", sess.Token)
}
