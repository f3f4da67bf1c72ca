package controller

import (
	"encoding/json"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	. "gopkg.in/check.v1"
)

type recordingConn struct {
	sent []ws.Message
}

func (r *recordingConn) WriteJSON(v interface{}) error {
	if msg, ok := v.(ws.Message); ok {
		r.sent = append(r.sent, msg)
	}
	return nil
}

func (r *recordingConn) WriteMessage(int, []byte) error { return nil }
func (r *recordingConn) Close() error                   { return nil }

type WebSocketSuite struct {
	wsc    *WebSocketController
	gs     *service.GameService
	gameID string
}

var _ = Suite(&WebSocketSuite{})

func (s *WebSocketSuite) SetUpTest(c *C) {
	s.gs = service.NewGameService(service.NewGameManager(false))
	s.wsc = NewWebSocketController(s.gs)
	gameID, err := s.gs.CreateGame()
	c.Assert(err, IsNil)
	_, err = s.gs.JoinGame(gameID, "white")
	c.Assert(err, IsNil)
	_, err = s.gs.JoinGame(gameID, "black")
	c.Assert(err, IsNil)
	s.gameID = gameID
}

func message(c *C, t ws.MessageType, payload interface{}) ws.Message {
	msg, err := ws.NewMessage(t, payload)
	c.Assert(err, IsNil)
	return msg
}

func (s *WebSocketSuite) TestSelectRepliesWithLegalMoves(c *C) {
	conn := &recordingConn{}
	msg := message(c, ws.MessageTypeSelect, model.SelectRequest{Square: engine.Square{Row: 7, Col: 1}})
	c.Assert(s.wsc.handleMessage(conn, s.gameID, "white", msg), IsNil)

	c.Assert(conn.sent, HasLen, 1)
	c.Assert(conn.sent[0].Type, Equals, ws.MessageTypeLegalMoves)
	var reply model.LegalMovesResponse
	c.Assert(json.Unmarshal(conn.sent[0].Payload, &reply), IsNil)
	c.Assert(reply.Moves, HasLen, 2)
}

func (s *WebSocketSuite) TestMoveAndPromoteErrors(c *C) {
	conn := &recordingConn{}
	ok := message(c, ws.MessageTypeMove, move(6, 3, 4, 3))
	c.Assert(s.wsc.handleMessage(conn, s.gameID, "white", ok), IsNil)

	again := message(c, ws.MessageTypeMove, move(4, 3, 3, 3))
	c.Assert(s.wsc.handleMessage(conn, s.gameID, "white", again), ErrorMatches, ".*not your turn.*")

	promote := message(c, ws.MessageTypePromote, model.PromotionRequest{Square: engine.Square{Row: 7, Col: 0}, Piece: engine.Queen})
	c.Assert(s.wsc.handleMessage(conn, s.gameID, "black", promote), NotNil)

	c.Assert(s.wsc.handleMessage(conn, s.gameID, "white", ws.Message{Type: "dig"}), ErrorMatches, "unknown message type: dig")
}

func (s *WebSocketSuite) TestSendError(c *C) {
	conn := &recordingConn{}
	s.wsc.sendError(conn, engine.ErrIllegalMove)
	c.Assert(conn.sent, HasLen, 1)
	c.Assert(conn.sent[0].Type, Equals, ws.MessageTypeError)
	var payload ws.ErrorPayload
	c.Assert(json.Unmarshal(conn.sent[0].Payload, &payload), IsNil)
	c.Assert(payload.Error, Equals, engine.ErrIllegalMove.Error())
}
