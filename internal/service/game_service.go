package service

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/sanchess-backend/internal/model"
	"github.com/benbeisheim/sanchess-backend/internal/ws"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateOptions selects the starting position of a new game. The zero
// value is the standard 8x8 setup.
type CreateOptions struct {
	Files     int               `json:"files"`
	Ranks     int               `json:"ranks"`
	Placement string            `json:"placement"`
	ToMove    model.PlayerColor `json:"toMove"`
}

func (o CreateOptions) modelOptions() ([]model.Option, error) {
	var opts []model.Option
	if o.Files != 0 || o.Ranks != 0 {
		dims, err := model.NewDimensions(o.Files, o.Ranks)
		if err != nil {
			return nil, err
		}
		opts = append(opts, model.WithDimensions(dims))
	}
	if o.Placement != "" {
		toMove := o.ToMove
		if toMove == "" {
			toMove = model.PlayerColorWhite
		}
		opts = append(opts, model.WithPosition(o.Placement, toMove))
	}
	return opts, nil
}

func (gs *GameService) CreateGame(opts CreateOptions) (string, error) {
	gameID := uuid.New().String()

	modelOpts, err := opts.modelOptions()
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	if _, err := gs.gameManager.CreateGame(gameID, modelOpts...); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Infow("game created", "game", gameID, "games", gs.gameManager.Count())
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	color, err := s.seat(playerID)
	if err == nil {
		s.version++
	}
	state := s.state()
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	log.Infow("player joined", "game", gameID, "player", playerID, "color", color)
	s.broadcast(state)
	return color, nil
}

func (gs *GameService) GetGameState(gameID string) (GameState, error) {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(), nil
}

// mutate runs fn on the session under its lock once check has approved
// the caller, then broadcasts the resulting state. A failed history import
// still changes the game, so it is broadcast too.
func (gs *GameService) mutate(gameID string, check, fn func(*Session) error) (GameState, error) {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}

	s.mu.Lock()
	if err := check(s); err != nil {
		s.mu.Unlock()
		return GameState{}, err
	}
	fnErr := fn(s)
	var importErr *model.ImportError
	changed := fnErr == nil || errors.As(fnErr, &importErr)
	if changed {
		s.version++
	}
	state := s.state()
	s.mu.Unlock()

	if changed {
		s.broadcast(state)
	}
	return state, fnErr
}

func seated(playerID string) func(*Session) error {
	return func(s *Session) error {
		if !s.isSeated(playerID) {
			return ErrNotSeated
		}
		return nil
	}
}

// HandleMove plays notation for playerID. chooser is asked for the
// promotion piece when the notation does not name one; it may be nil.
func (gs *GameService) HandleMove(gameID, playerID, notation string, chooser model.PromotionChooser) (GameState, error) {
	state, err := gs.mutate(gameID,
		func(s *Session) error { return s.mayMove(playerID) },
		func(s *Session) error {
			s.chooser = chooser
			defer func() { s.chooser = nil }()
			return s.game.MakeMove(notation)
		})
	if err != nil {
		log.Debugw("move rejected", "game", gameID, "player", playerID, "move", notation, "error", err)
		return state, err
	}
	log.Infow("move played", "game", gameID, "player", playerID, "move", state.LastMove.Notation)
	return state, nil
}

func (gs *GameService) TakeBack(gameID, playerID string, n int) (GameState, error) {
	return gs.mutate(gameID, seated(playerID),
		func(s *Session) error { return s.game.TakeBack(n) })
}

func (gs *GameService) Restart(gameID, playerID string) (GameState, error) {
	return gs.mutate(gameID, seated(playerID),
		func(s *Session) error { return s.game.Restart() })
}

// ImportHistory restarts the game and replays moves. On failure the moves
// before the bad one remain played and the error is a *model.ImportError.
func (gs *GameService) ImportHistory(gameID, playerID string, moves []string) (GameState, error) {
	state, err := gs.mutate(gameID, seated(playerID),
		func(s *Session) error { return s.game.LoadHistory(moves) })
	if err != nil {
		log.Warnw("history import stopped", "game", gameID, "error", err)
	}
	return state, err
}

// DeleteGame ends a session for good. Only a seated player may do it.
func (gs *GameService) DeleteGame(gameID, playerID string) error {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	ok := s.isSeated(playerID)
	s.mu.Unlock()
	if !ok {
		return ErrNotSeated
	}
	gs.gameManager.RemoveGame(gameID)
	log.Infow("game deleted", "game", gameID, "player", playerID, "games", gs.gameManager.Count())
	return nil
}

func (gs *GameService) History(gameID string) ([]string, error) {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.History(), nil
}

func (gs *GameService) LegalMoves(gameID string) ([]model.SimpleMove, error) {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.LegalMoves(), nil
}

// RegisterConnection attaches a live connection and sends it the current
// state. Anyone may watch; only seated players may act.
func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := s.register(playerID, conn); err != nil {
		return err
	}
	log.Infow("connection registered", "game", gameID, "player", playerID)

	s.mu.Lock()
	state := s.state()
	s.mu.Unlock()
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		return err
	}
	return s.send(playerID, msg)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	s.unregister(playerID, conn)
	log.Infow("connection unregistered", "game", gameID, "player", playerID)
}

// Send writes msg to playerID's registered connection, in turn with any
// broadcast.
func (gs *GameService) Send(gameID, playerID string, msg ws.Message) error {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return s.send(playerID, msg)
}
