package service

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameExists        = errors.New("game already exists")
	ErrGameFull          = errors.New("game is full")
	ErrNotSeated         = errors.New("player has not joined this game")
	ErrNotYourTurn       = errors.New("it is not your turn")
	ErrAlreadyConnected  = errors.New("player already has a connection to this game")
	ErrNotConnected      = errors.New("player has no connection to this game")
	ErrNoPromotionChoice = errors.New("no promotion piece was given")
)
