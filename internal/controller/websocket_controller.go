package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/sanchess-backend/internal/middleware"
	"github.com/benbeisheim/sanchess-backend/internal/model"
	"github.com/benbeisheim/sanchess-backend/internal/service"
	"github.com/benbeisheim/sanchess-backend/internal/ws"
)

var errPromotionExpected = errors.New("a promotion piece is expected")

// clientConn is the part of a websocket connection the controller uses.
type clientConn interface {
	service.Conn
	ReadMessage() (messageType int, p []byte, err error)
	SetReadDeadline(t time.Time) error
}

type WebSocketController struct {
	gameService      *service.GameService
	promotionTimeout time.Duration
}

func NewWebSocketController(gameService *service.GameService, promotionTimeout time.Duration) *WebSocketController {
	return &WebSocketController{
		gameService:      gameService,
		promotionTimeout: promotionTimeout,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	if err := wsc.serve(c, gameID, playerID); err != nil {
		log.Warnw("websocket rejected", "game", gameID, "player", playerID, "error", err)
		_ = c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
	}
	_ = c.Close()
}

// serve registers conn with the game and handles its messages until the
// client goes away. It only returns an error if registration fails.
func (wsc *WebSocketController) serve(conn clientConn, gameID, playerID string) error {
	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		return err
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			log.Debugw("websocket closed", "game", gameID, "player", playerID, "error", err)
			return nil
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			wsc.sendError(gameID, playerID, fmt.Errorf("invalid message: %w", err))
			continue
		}
		if err := wsc.handleMessage(conn, gameID, playerID, msg); err != nil {
			wsc.sendError(gameID, playerID, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(conn clientConn, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := msg.Decode(&move); err != nil {
			return err
		}
		chooser := model.PromotionFunc(func(color model.PlayerColor, sq model.Square) (string, error) {
			return wsc.askPromotion(conn, gameID, playerID, color, sq)
		})
		_, err := wsc.gameService.HandleMove(gameID, playerID, move.Notation, chooser)
		return err

	case ws.MessageTypeTakeBack:
		req := ws.TakeBackPayload{Count: 1}
		if len(msg.Payload) > 0 {
			if err := msg.Decode(&req); err != nil {
				return err
			}
		}
		_, err := wsc.gameService.TakeBack(gameID, playerID, req.Count)
		return err

	case ws.MessageTypePromotion:
		return errors.New("no promotion is pending")

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// askPromotion sends a promotion request and waits for the answer on the
// same connection. Other messages arriving meanwhile are refused. A read
// that times out leaves the connection unusable, so the client is dropped.
func (wsc *WebSocketController) askPromotion(conn clientConn, gameID, playerID string, color model.PlayerColor, sq model.Square) (string, error) {
	req, err := ws.NewMessage(ws.MessageTypePromotionRequest, ws.PromotionRequestPayload{Color: color, Square: sq})
	if err != nil {
		return "", err
	}
	if err := wsc.gameService.Send(gameID, playerID, req); err != nil {
		return "", err
	}

	if err := conn.SetReadDeadline(time.Now().Add(wsc.promotionTimeout)); err != nil {
		return "", err
	}
	defer conn.SetReadDeadline(time.Time{})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return "", fmt.Errorf("waiting for promotion piece: %w", err)
		}
		var msg ws.Message
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != ws.MessageTypePromotion {
			wsc.sendError(gameID, playerID, errPromotionExpected)
			continue
		}
		var answer ws.PromotionPayload
		if err := msg.Decode(&answer); err != nil {
			wsc.sendError(gameID, playerID, errPromotionExpected)
			continue
		}
		return answer.Piece, nil
	}
}

func (wsc *WebSocketController) sendError(gameID, playerID string, err error) {
	msg, encErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if encErr != nil {
		log.Errorw("failed to encode error", "error", encErr)
		return
	}
	if sendErr := wsc.gameService.Send(gameID, playerID, msg); sendErr != nil {
		log.Warnw("failed to send error", "game", gameID, "player", playerID, "error", sendErr)
	}
}
