package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"arcade/internal/domain"
	"arcade/internal/repository"
)

var ErrInvalidName = errors.New("invalid player name")

const maxNameLength = 32

// PlayerService handles guest sign-in
type PlayerService struct {
	players repository.Players
}

// NewPlayerService creates a player service on any Players backend
func NewPlayerService(players repository.Players) *PlayerService {
	return &PlayerService{players: players}
}

// GuestSession is what a client receives after signing in.
type GuestSession struct {
	Token  string         `json:"token"`
	Player *domain.Player `json:"player"`
}

// Guest reuses the player with the given name or creates one, then issues a
// token for it. Names are not secret: anyone who types a name plays as that
// player. When a concurrent sign-in creates the same name first, its player is
// reused.
func (s *PlayerService) Guest(ctx context.Context, name string) (*GuestSession, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidName
	}

	player, err := s.players.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		player = &domain.Player{Name: name}
		err = s.players.Create(ctx, player)
		if errors.Is(err, repository.ErrNameTaken) {
			player, err = s.players.GetByName(ctx, name)
		}
		if err != nil {
			return nil, fmt.Errorf("create player: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("lookup player: %w", err)
	}

	token, err := GenerateJWT(player.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &GuestSession{Token: token, Player: player}, nil
}

// Player resolves a player id taken from a token.
func (s *PlayerService) Player(ctx context.Context, id int64) (*domain.Player, error) {
	return s.players.GetByID(ctx, id)
}
