package service

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/sanchess-backend/internal/model"
	"github.com/benbeisheim/sanchess-backend/internal/ws"
)

// Conn is the write side of a client connection. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteJSON(v any) error
}

// peer serialises writes to one connection.
type peer struct {
	conn Conn
	mu   sync.Mutex
}

func (p *peer) send(msg ws.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteJSON(msg)
}

// sessionConnections are the live connections watching one game.
type sessionConnections struct {
	peers map[string]*peer // playerID -> connection
	mu    sync.RWMutex
}

// Players names the player ids holding each seat.
type Players struct {
	White string `json:"white,omitempty"`
	Black string `json:"black,omitempty"`
}

// GameState is what clients see of a session.
type GameState struct {
	ID string `json:"id"`
	// Version grows with every change to the session; clients keep the
	// highest one they have seen.
	Version int `json:"version"`
	model.Snapshot
	Players Players `json:"players"`
}

// Session is one game with its seats and observers. The engine is not safe
// for concurrent use, so every access to game goes through mu.
type Session struct {
	ID    string
	mu    sync.Mutex
	game  *model.Game
	seats map[model.PlayerColor]string

	// chooser answers promotion questions for the move in progress.
	chooser model.PromotionChooser
	version int

	// broadcastMu orders broadcasts; lastSent is the newest version sent.
	broadcastMu sync.Mutex
	lastSent    int

	connections *sessionConnections
}

func newSession(id string, opts ...model.Option) (*Session, error) {
	s := &Session{
		ID:          id,
		seats:       make(map[model.PlayerColor]string),
		connections: &sessionConnections{peers: make(map[string]*peer)},
	}
	opts = append(opts, model.WithPromotionChooser(model.PromotionFunc(s.choosePromotion)))
	game, err := model.NewGame(opts...)
	if err != nil {
		return nil, err
	}
	s.game = game
	return s, nil
}

func (s *Session) choosePromotion(color model.PlayerColor, sq model.Square) (string, error) {
	if s.chooser == nil {
		return "", ErrNoPromotionChoice
	}
	return s.chooser.ChoosePromotion(color, sq)
}

// seat gives playerID the first free seat, or the seat already held.
func (s *Session) seat(playerID string) (model.PlayerColor, error) {
	for _, c := range []model.PlayerColor{model.PlayerColorWhite, model.PlayerColorBlack} {
		if s.seats[c] == playerID {
			return c, nil
		}
	}
	for _, c := range []model.PlayerColor{model.PlayerColorWhite, model.PlayerColorBlack} {
		if s.seats[c] == "" {
			s.seats[c] = playerID
			return c, nil
		}
	}
	return "", ErrGameFull
}

func (s *Session) isSeated(playerID string) bool {
	return playerID != "" &&
		(s.seats[model.PlayerColorWhite] == playerID || s.seats[model.PlayerColorBlack] == playerID)
}

// mayMove reports whether playerID may move for the side to move. A seat
// nobody has taken yet may be played by any seated player.
func (s *Session) mayMove(playerID string) error {
	if !s.isSeated(playerID) {
		return ErrNotSeated
	}
	if owner := s.seats[s.game.ToMove()]; owner != "" && owner != playerID {
		return ErrNotYourTurn
	}
	return nil
}

func (s *Session) state() GameState {
	return GameState{
		ID:       s.ID,
		Version:  s.version,
		Snapshot: s.game.Snapshot(),
		Players: Players{
			White: s.seats[model.PlayerColorWhite],
			Black: s.seats[model.PlayerColorBlack],
		},
	}
}

func (s *Session) register(playerID string, conn Conn) error {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	if _, exists := s.connections.peers[playerID]; exists {
		return ErrAlreadyConnected
	}
	s.connections.peers[playerID] = &peer{conn: conn}
	return nil
}

// unregister drops playerID's connection if it is still conn.
func (s *Session) unregister(playerID string, conn Conn) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	if p, exists := s.connections.peers[playerID]; exists && p.conn == conn {
		delete(s.connections.peers, playerID)
	}
}

func (s *Session) send(playerID string, msg ws.Message) error {
	s.connections.mu.RLock()
	p, ok := s.connections.peers[playerID]
	s.connections.mu.RUnlock()
	if !ok {
		return ErrNotConnected
	}
	return p.send(msg)
}

// broadcast sends state to every connection, dropping the ones that fail.
// A state older than one already broadcast is discarded.
func (s *Session) broadcast(state GameState) {
	s.broadcastMu.Lock()
	defer s.broadcastMu.Unlock()
	if state.Version <= s.lastSent {
		return
	}
	s.lastSent = state.Version

	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Errorw("failed to encode game state", "game", s.ID, "error", err)
		return
	}

	s.connections.mu.RLock()
	active := make(map[string]*peer, len(s.connections.peers))
	for playerID, p := range s.connections.peers {
		active[playerID] = p
	}
	s.connections.mu.RUnlock()

	for playerID, p := range active {
		if err := p.send(msg); err != nil {
			log.Warnw("dropping connection after failed send", "game", s.ID, "player", playerID, "error", err)
			s.unregister(playerID, p.conn)
		}
	}
}
