package model

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/apex/log"
	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull         = errors.New("game is full")
	ErrNotInGame        = errors.New("player not in game")
	ErrUnauthorized     = errors.New("not authorized to join this game")
	ErrAlreadyConnected = errors.New("player already connected")
	ErrSetupDisabled    = errors.New("board setup requires free play")
	ErrInvalidSetup     = errors.New("invalid board setup")
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// Game serialises access to one engine and fans its state out to observers.
type Game struct {
	ID          string
	mu          sync.Mutex
	engine      *engine.Engine
	players     Players
	lastMove    *engine.Outcome
	connections *GameConnections
	logger      log.Interface
}

type GameState struct {
	Board           *engine.BoardState                                          `json:"boardState"`
	ToMove          engine.Color                                                `json:"toMove"`
	MoveCounter     int                                                         `json:"moveCounter"`
	WhiteInCheck    bool                                                        `json:"whiteInCheck"`
	BlackInCheck    bool                                                        `json:"blackInCheck"`
	PromotionState  engine.PromotionState                                       `json:"promotionState"`
	PromotionSquare *engine.Square                                              `json:"promotionSquare"`
	LastMove        *engine.Outcome                                             `json:"lastMove"`
	Castling        map[engine.Color]map[engine.CastleSide]engine.CastlingState `json:"castling"`
	PieceCounts     map[engine.Color]map[engine.PieceType]int                   `json:"pieceCounts"`
	HasLegalMoves   bool                                                        `json:"hasLegalMoves"`
	Players         Players                                                     `json:"players"`
	FreePlay        bool                                                        `json:"freePlay"`
}

func NewGame(id string, freePlay bool) *Game {
	e := engine.NewEngine()
	e.SetFreePlay(freePlay)
	return &Game{
		ID:          id,
		engine:      e,
		connections: NewGameConnections(),
		logger:      log.WithField("game", id),
	}
}

func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.players.colorOf(playerID); ok {
		return c, nil
	}
	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: engine.White}
		g.logger.WithField("player", playerID).Info("white seated")
		return engine.White, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: engine.Black}
		g.logger.WithField("player", playerID).Info("black seated")
		return engine.Black, nil
	}
	return "", ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	state := GameState{
		Board:          g.engine.Board(),
		ToMove:         g.engine.ToMove(),
		MoveCounter:    g.engine.MoveCounter(),
		WhiteInCheck:   g.engine.IsCheck(engine.White),
		BlackInCheck:   g.engine.IsCheck(engine.Black),
		PromotionState: g.engine.PromotionState(),
		LastMove:       g.lastMove,
		Castling:       make(map[engine.Color]map[engine.CastleSide]engine.CastlingState, 2),
		PieceCounts:    g.engine.PieceCounts(),
		HasLegalMoves:  len(g.engine.AllLegalMoves(g.engine.ToMove())) > 0,
		Players:        g.players,
		FreePlay:       g.engine.FreePlay(),
	}
	if sq, ok := g.engine.PendingPromotion(); ok {
		state.PromotionSquare = &sq
	}
	for _, c := range []engine.Color{engine.White, engine.Black} {
		state.Castling[c] = map[engine.CastleSide]engine.CastlingState{
			engine.ShortCastle: g.engine.CastlingState(c, engine.ShortCastle),
			engine.LongCastle:  g.engine.CastlingState(c, engine.LongCastle),
		}
	}
	return state
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.players.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return !g.players.full()
}

// authorize checks that playerID may act for the side the engine expects.
// In free play any seated player may move either colour.
func (g *Game) authorize(playerID string) error {
	c, ok := g.players.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if !g.engine.FreePlay() && c != g.engine.ToMove() {
		return engine.ErrNotYourTurn
	}
	return nil
}

func (g *Game) LegalMoves(from engine.Square) ([]engine.Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.engine.LegalMoves(from)
}

// AllLegalMoves lists every legal move of the side to move, one entry per
// piece that can move.
func (g *Game) AllLegalMoves() []LegalMovesResponse {
	g.mu.Lock()
	defer g.mu.Unlock()

	all := g.engine.AllLegalMoves(g.engine.ToMove())
	out := make([]LegalMovesResponse, 0, len(all))
	for from, moves := range all {
		out = append(out, LegalMovesResponse{From: from, Moves: moves})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From.Row != out[j].From.Row {
			return out[i].From.Row < out[j].From.Row
		}
		return out[i].From.Col < out[j].From.Col
	})
	return out
}

// Setup rearranges the board of a free-play game. Placements are applied in
// order after the optional clear; a rejected placement stops the setup.
func (g *Game) Setup(playerID string, req SetupRequest) (GameState, error) {
	g.mu.Lock()
	if !g.engine.FreePlay() {
		g.mu.Unlock()
		return GameState{}, ErrSetupDisabled
	}
	if _, ok := g.players.colorOf(playerID); !ok {
		g.mu.Unlock()
		return GameState{}, ErrNotInGame
	}
	if err := req.validate(); err != nil {
		g.mu.Unlock()
		return GameState{}, err
	}

	if req.Clear {
		g.engine.Clear()
	}
	var setupErr error
	for _, pl := range req.Placements {
		var piece *engine.Piece
		if pl.Piece != nil {
			piece = engine.NewPiece(pl.Piece.Type, pl.Piece.Color)
		}
		if err := g.engine.Place(pl.Square, piece); err != nil {
			setupErr = err
			break
		}
	}
	if setupErr == nil && req.ToMove != "" {
		g.engine.SetSideToMove(req.ToMove)
	}
	g.lastMove = nil
	state := g.snapshot()
	g.mu.Unlock()

	if setupErr != nil {
		g.logger.WithError(setupErr).WithField("player", playerID).Warn("setup stopped")
	} else {
		g.logger.WithField("player", playerID).WithField("placements", len(req.Placements)).Info("board set up")
	}
	g.broadcastState(state)
	return state, setupErr
}

func (g *Game) MakeMove(playerID string, move WSMove) (engine.Outcome, error) {
	g.mu.Lock()
	if err := g.authorize(playerID); err != nil {
		g.mu.Unlock()
		return engine.Outcome{}, err
	}
	outcome, err := g.engine.CommitMove(move.From, move.To)
	if err != nil {
		g.mu.Unlock()
		g.logger.WithError(err).WithField("player", playerID).Debug("move rejected")
		return engine.Outcome{}, err
	}
	g.lastMove = &outcome
	state := g.snapshot()
	g.mu.Unlock()

	g.logger.WithFields(log.Fields{
		"from":         move.From,
		"to":           move.To,
		"whiteInCheck": outcome.WhiteInCheck,
		"blackInCheck": outcome.BlackInCheck,
		"promotion":    outcome.PromotionPending,
	}).Info("move committed")
	g.broadcastState(state)
	return outcome, nil
}

func (g *Game) Promote(playerID string, req PromotionRequest) (engine.Piece, error) {
	g.mu.Lock()
	if err := g.authorize(playerID); err != nil {
		g.mu.Unlock()
		return engine.Piece{}, err
	}
	piece, err := g.engine.ResolvePromotion(req.Square, req.Piece)
	if err != nil {
		g.mu.Unlock()
		return engine.Piece{}, err
	}
	if g.lastMove != nil {
		outcome := *g.lastMove
		outcome.PromotionPending = false
		outcome.Piece = piece
		outcome.WhiteInCheck = g.engine.IsCheck(engine.White)
		outcome.BlackInCheck = g.engine.IsCheck(engine.Black)
		outcome.ToMove = g.engine.ToMove()
		outcome.MoveCounter = g.engine.MoveCounter()
		g.lastMove = &outcome
	}
	state := g.snapshot()
	g.mu.Unlock()

	g.logger.WithField("square", req.Square).WithField("piece", piece.Type).Info("promotion resolved")
	g.broadcastState(state)
	return piece, nil
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	isAuthorized := g.authorizedObserver(playerID)
	state := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrUnauthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection, reject the new one
		g.connections.mu.Unlock()
		logger := g.logger.WithField("player", playerID)
		if err := conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		); err != nil {
			logger.WithError(err).Warn("failed to send close frame")
		}
		if err := conn.Close(); err != nil {
			logger.WithError(err).Warn("failed to close duplicate connection")
		}
		return ErrAlreadyConnected
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	g.logger.WithField("player", playerID).Info("connection registered")

	g.broadcastState(state)
	return nil
}

func (g *Game) authorizedObserver(playerID string) bool {
	_, seated := g.players.colorOf(playerID)
	return seated || g.canSpectate()
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		delete(g.connections.connections, playerID)
		g.logger.WithField("player", playerID).Info("connection unregistered")
	}
}

// broadcastState sends state to every registered connection and drops the
// ones that fail.
func (g *Game) broadcastState(state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		g.logger.WithError(err).Error("failed to marshal state")
		return
	}

	g.connections.mu.RLock()
	active := make(map[string]Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	var failed []string
	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			g.logger.WithError(err).WithField("player", playerID).Warn("failed to send state")
			failed = append(failed, playerID)
		}
	}
	if len(failed) == 0 {
		return
	}
	g.connections.mu.Lock()
	for _, playerID := range failed {
		delete(g.connections.connections, playerID)
	}
	g.connections.mu.Unlock()
}

func (g *Game) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("game %s: %s to move, %s", g.ID, g.engine.ToMove(), g.engine)
}
