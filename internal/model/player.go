package model

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func (c PlayerColor) Opposite() PlayerColor {
	if c == PlayerColorWhite {
		return PlayerColorBlack
	}
	return PlayerColorWhite
}

// Title is the display name used in game messages.
func (c PlayerColor) Title() string {
	if c == PlayerColorWhite {
		return "White"
	}
	return "Black"
}

func (c PlayerColor) Valid() bool {
	return c == PlayerColorWhite || c == PlayerColorBlack
}

// Player exclusively owns one side's live pieces.
type Player struct {
	color   PlayerColor
	forward int // rank direction this side's pawns advance in
	pieces  []*Piece
}

func newPlayer(color PlayerColor) *Player {
	forward := 1
	if color == PlayerColorBlack {
		forward = -1
	}
	return &Player{color: color, forward: forward}
}

func (p *Player) Color() PlayerColor {
	return p.color
}

func (p *Player) Forward() int {
	return p.forward
}

// Pieces returns a copy of the live pieces, safe to iterate while the
// player is mutated.
func (p *Player) Pieces() []*Piece {
	out := make([]*Piece, len(p.pieces))
	copy(out, p.pieces)
	return out
}

func (p *Player) King() *Piece {
	for _, piece := range p.pieces {
		if piece.kind == King {
			return piece
		}
	}
	return nil
}

func (p *Player) add(piece *Piece) {
	piece.owner = p
	p.pieces = append(p.pieces, piece)
}

// remove drops piece and returns the index it was held at, or -1.
func (p *Player) remove(piece *Piece) int {
	for i, q := range p.pieces {
		if q == piece {
			p.pieces = append(p.pieces[:i], p.pieces[i+1:]...)
			return i
		}
	}
	return -1
}

// restore puts back a piece removed from index i.
func (p *Player) restore(i int, piece *Piece) {
	if i < 0 || i > len(p.pieces) {
		p.add(piece)
		return
	}
	p.pieces = append(p.pieces, nil)
	copy(p.pieces[i+1:], p.pieces[i:])
	p.pieces[i] = piece
}

func (p *Player) clear() {
	p.pieces = nil
}

// beginTurn expires the en passant eligibility of this side's pawns: it
// only lasts for the opponent's immediate reply.
func (p *Player) beginTurn() {
	for _, piece := range p.pieces {
		piece.enPassant = false
	}
}
