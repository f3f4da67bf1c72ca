package service

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (engine.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchmakingStatus(playerID string) (string, bool) {
	return gs.gameManager.MatchFor(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) (engine.Outcome, error) {
	outcome, err := gs.gameManager.MakeMove(gameID, playerID, move)
	if err != nil {
		return engine.Outcome{}, fmt.Errorf("move in game %s: %w", gameID, err)
	}
	return outcome, nil
}

func (gs *GameService) HandlePromotion(gameID string, playerID string, req model.PromotionRequest) (engine.Piece, error) {
	piece, err := gs.gameManager.Promote(gameID, playerID, req)
	if err != nil {
		return engine.Piece{}, fmt.Errorf("promotion in game %s: %w", gameID, err)
	}
	return piece, nil
}

func (gs *GameService) LegalMoves(gameID string, from engine.Square) ([]engine.Square, error) {
	return gs.gameManager.LegalMoves(gameID, from)
}

func (gs *GameService) AllLegalMoves(gameID string) ([]model.LegalMovesResponse, error) {
	return gs.gameManager.AllLegalMoves(gameID)
}

func (gs *GameService) SetupBoard(gameID string, playerID string, req model.SetupRequest) (model.GameState, error) {
	state, err := gs.gameManager.Setup(gameID, playerID, req)
	if err != nil {
		return model.GameState{}, fmt.Errorf("setup in game %s: %w", gameID, err)
	}
	return state, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}
