package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/apex/log"
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// lockedConn serialises writes from the read loop and game broadcasts.
type lockedConn struct {
	mu   sync.Mutex
	conn model.Conn
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(v)
}

func (l *lockedConn) WriteMessage(messageType int, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteMessage(messageType, data)
}

func (l *lockedConn) Close() error {
	return l.conn.Close()
}

// HandleConnection runs for the lifetime of one websocket connection.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	logger := log.WithFields(log.Fields{"game": gameID, "player": playerID})
	conn := &lockedConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		logger.WithError(err).Warn("failed to register connection")
		wsc.sendError(conn, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.WithError(err).Debug("read loop ended")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, fmt.Errorf("parse message: %w", err))
			continue
		}

		if err := wsc.handleMessage(conn, gameID, playerID, msg); err != nil {
			logger.WithError(err).WithField("type", msg.Type).Debug("message rejected")
			wsc.sendError(conn, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(conn model.Conn, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypePromote:
		var req model.PromotionRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		_, err := wsc.gameService.HandlePromotion(gameID, playerID, req)
		return err

	case ws.MessageTypeSelect:
		var req model.SelectRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		moves, err := wsc.gameService.LegalMoves(gameID, req.Square)
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypeLegalMoves, model.LegalMovesResponse{From: req.Square, Moves: moves})
		if err != nil {
			return err
		}
		return conn.WriteJSON(reply)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(conn model.Conn, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		return
	}
	if werr := conn.WriteJSON(msg); werr != nil {
		log.WithError(werr).Debug("failed to send error")
	}
}
