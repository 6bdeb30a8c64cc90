package service

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/sanchess-backend/internal/model"
)

// GameManager is the registry of live sessions.
type GameManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewGameManager() *GameManager {
	return &GameManager{
		sessions: make(map[string]*Session),
	}
}

func (gm *GameManager) CreateGame(gameID string, opts ...model.Option) (*Session, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.sessions[gameID]; exists {
		return nil, ErrGameExists
	}
	s, err := newSession(gameID, opts...)
	if err != nil {
		return nil, err
	}
	gm.sessions[gameID] = s
	log.Debugw("session created", "game", gameID)
	return s, nil
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.sessions[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return s, nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.sessions, gameID)
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}
