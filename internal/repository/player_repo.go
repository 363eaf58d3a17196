package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"arcade/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrNameTaken = errors.New("player name taken")
)

const uniqueViolation = "23505"

// Players is implemented by the Postgres and in-memory repositories.
type Players interface {
	Create(ctx context.Context, p *domain.Player) error
	GetByID(ctx context.Context, id int64) (*domain.Player, error)
	GetByName(ctx context.Context, name string) (*domain.Player, error)
}

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create inserts p. Names are unique regardless of case; a clash returns
// ErrNameTaken.
func (r *PlayerRepository) Create(ctx context.Context, p *domain.Player) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO players (name)
		 VALUES ($1)
		 RETURNING id, created_at`,
		p.Name,
	).Scan(&p.ID, &p.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrNameTaken
	}
	return err
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, created_at
		 FROM players
		 WHERE id = $1`,
		id,
	)
	return scanPlayer(row)
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*domain.Player, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, created_at
		 FROM players
		 WHERE lower(name) = lower($1)`,
		name,
	)
	return scanPlayer(row)
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// MemoryPlayerRepository keeps players in process when no database is
// configured. IDs come from a local sequence.
type MemoryPlayerRepository struct {
	mu     sync.RWMutex
	seq    int64
	byID   map[int64]*domain.Player
	byName map[string]int64
}

func NewMemoryPlayerRepository() *MemoryPlayerRepository {
	return &MemoryPlayerRepository{
		byID:   make(map[int64]*domain.Player),
		byName: make(map[string]int64),
	}
}

func (r *MemoryPlayerRepository) Create(_ context.Context, p *domain.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(p.Name)
	if _, ok := r.byName[key]; ok {
		return ErrNameTaken
	}

	r.seq++
	p.ID = r.seq
	p.CreatedAt = time.Now().UTC()

	cp := *p
	r.byID[p.ID] = &cp
	r.byName[key] = p.ID
	return nil
}

func (r *MemoryPlayerRepository) GetByID(_ context.Context, id int64) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryPlayerRepository) GetByName(_ context.Context, name string) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}
