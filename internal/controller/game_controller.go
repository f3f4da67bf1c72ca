package controller

import (
	"github.com/apex/log"
	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on r.
func (gc *GameController) Register(r fiber.Router) {
	r.Post("/create", gc.CreateGame)
	r.Post("/join/:gameId", gc.JoinGame)
	r.Post("/matchmaking/join", gc.JoinMatchmaking)
	r.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	r.Get("/matchmaking/status", gc.MatchmakingStatus)
	r.Get("/:gameId", gc.GetGameState)
	r.Get("/:gameId/moves", gc.LegalMoves)
	r.Get("/:gameId/moves/all", gc.AllLegalMoves)
	r.Post("/:gameId/move", gc.MakeMove)
	r.Post("/:gameId/promote", gc.Promote)
	r.Post("/:gameId/setup", gc.SetupBoard)
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.PlayerIDKey).(string)
	return id
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		log.WithError(err).Error("create game")
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	color, err := gc.gameService.JoinGame(gameID, playerID(c))
	if err != nil {
		log.WithError(err).WithField("game", gameID).Warn("join game")
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from := engine.Square{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(model.LegalMovesResponse{From: from, Moves: moves})
}

func (gc *GameController) AllLegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.AllLegalMoves(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(moves)
}

// SetupBoard places pieces in a free-play game.
func (gc *GameController) SetupBoard(c *fiber.Ctx) error {
	var req model.SetupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid setup body",
		})
	}
	state, err := gc.gameService.SetupBoard(c.Params("gameId"), playerID(c), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}
	outcome, err := gc.gameService.HandleMove(c.Params("gameId"), playerID(c), move)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(outcome)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req model.PromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid promotion body",
		})
	}
	piece, err := gc.gameService.HandlePromotion(c.Params("gameId"), playerID(c), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(piece)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerID(c)); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(playerID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "player not in queue",
		})
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

// MatchmakingStatus is polled by queued players until a game is found.
func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	gameID, ok := gc.gameService.MatchmakingStatus(playerID(c))
	if !ok {
		return c.JSON(fiber.Map{
			"status": "queued",
		})
	}
	return c.JSON(fiber.Map{
		"status":  "matched",
		"game_id": gameID,
	})
}
