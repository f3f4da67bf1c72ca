package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games    map[string]*model.Game
	queue    *model.Queue
	matches  map[string]string // playerID -> gameID
	freePlay bool
	mu       sync.RWMutex
}

func NewGameManager(freePlay bool) *GameManager {
	return &GameManager{
		games:    make(map[string]*model.Game),
		queue:    model.NewQueue(),
		matches:  make(map[string]string),
		freePlay: freePlay,
	}
}

// Run pairs queued players every interval until ctx is cancelled.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("matchmaking stopped")
			return
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

// processMatchmaking seats every complete pair of queued players in a new game.
func (gm *GameManager) processMatchmaking() {
	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}
		gameID := uuid.New().String()
		game := model.NewGame(gameID, gm.freePlay)
		if _, err := game.AddPlayer(player1.ID); err != nil {
			log.WithError(err).WithField("player", player1.ID).Error("error adding player to game")
			continue
		}
		if _, err := game.AddPlayer(player2.ID); err != nil {
			log.WithError(err).WithField("player", player2.ID).Error("error adding player to game")
			continue
		}

		gm.mu.Lock()
		gm.games[gameID] = game
		gm.matches[player1.ID] = gameID
		gm.matches[player2.ID] = gameID
		gm.mu.Unlock()
		log.WithFields(log.Fields{"game": gameID, "white": player1.ID, "black": player2.ID}).Info("match found")
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewGame(gameID, gm.freePlay)
	log.WithField("game", gameID).Info("game created")
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (engine.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

// MatchFor returns the game a queued player was placed in, if any.
func (gm *GameManager) MatchFor(playerID string) (string, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	gameID, ok := gm.matches[playerID]
	return gameID, ok
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) (engine.Outcome, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.Outcome{}, err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) Promote(gameID string, playerID string, req model.PromotionRequest) (engine.Piece, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.Piece{}, err
	}
	return game.Promote(playerID, req)
}

func (gm *GameManager) LegalMoves(gameID string, from engine.Square) ([]engine.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from)
}

func (gm *GameManager) AllLegalMoves(gameID string) ([]model.LegalMovesResponse, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.AllLegalMoves(), nil
}

func (gm *GameManager) Setup(gameID string, playerID string, req model.SetupRequest) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.Setup(playerID, req)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}
