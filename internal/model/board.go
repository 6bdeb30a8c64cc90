package model

import "fmt"

// Board is a grid of square slots. Slots reference pieces owned by a
// Player; the board never creates or destroys pieces itself.
type Board struct {
	dims    Dimensions
	squares []*Piece
}

func NewBoard(dims Dimensions) *Board {
	return &Board{
		dims:    dims,
		squares: make([]*Piece, dims.Files*dims.Ranks),
	}
}

func (b *Board) Dimensions() Dimensions {
	return b.dims
}

func (b *Board) index(s Square) (int, error) {
	if !b.dims.Contains(s) {
		return 0, fmt.Errorf("%w: trying to access square (file, rank) = (%d, %d)", ErrBoardAccess, s.File, s.Rank)
	}
	return s.Rank*b.dims.Files + s.File, nil
}

// Piece returns the piece on s, or nil if the square is empty.
func (b *Board) Piece(s Square) (*Piece, error) {
	i, err := b.index(s)
	if err != nil {
		return nil, err
	}
	return b.squares[i], nil
}

// Set places p on the square stored in p.
func (b *Board) Set(p *Piece) error {
	i, err := b.index(p.square)
	if err != nil {
		return err
	}
	b.squares[i] = p
	return nil
}

func (b *Board) Remove(s Square) error {
	i, err := b.index(s)
	if err != nil {
		return err
	}
	b.squares[i] = nil
	return nil
}

func (b *Board) HasPiece(s Square) (bool, error) {
	p, err := b.Piece(s)
	return p != nil, err
}

// Owner returns the owner of the piece on s, or nil for an empty square.
func (b *Board) Owner(s Square) (*Player, error) {
	p, err := b.Piece(s)
	if err != nil || p == nil {
		return nil, err
	}
	return p.owner, nil
}

// Kind returns the type of the piece on s, or NoPiece for an empty square.
func (b *Board) Kind(s Square) (PieceType, error) {
	p, err := b.Piece(s)
	if err != nil || p == nil {
		return NoPiece, err
	}
	return p.kind, nil
}

func (b *Board) Clear() {
	for i := range b.squares {
		b.squares[i] = nil
	}
}

// at is the in-package shortcut for squares already known to be on the
// board. Off-board squares read as empty.
func (b *Board) at(s Square) *Piece {
	p, err := b.Piece(s)
	if err != nil {
		return nil
	}
	return p
}

// occupiedByOpponent reports whether s holds a piece owned by someone other than
// player.
func (b *Board) occupiedByOpponent(s Square, player *Player) bool {
	p := b.at(s)
	return p != nil && p.owner != player
}

// move relocates p to dest, keeping the slot and the piece's own
// coordinate in step.
func (b *Board) move(p *Piece, dest Square) error {
	if _, err := b.index(dest); err != nil {
		return err
	}
	if err := b.Remove(p.square); err != nil {
		return err
	}
	p.square = dest
	return b.Set(p)
}

// checkSync verifies that every referenced piece sits on the slot that
// matches its own coordinate and belongs to one of players.
func (b *Board) checkSync(players ...*Player) error {
	seen := make(map[*Piece]bool)
	for i, p := range b.squares {
		if p == nil {
			continue
		}
		s := NewSquare(i%b.dims.Files, i/b.dims.Files)
		if p.square != s {
			return fmt.Errorf("piece %s stored at %s believes it is on %s", p.kind, s, p.square)
		}
		seen[p] = true
	}
	for _, pl := range players {
		for _, p := range pl.pieces {
			if !seen[p] {
				return fmt.Errorf("%s %s on %s is missing from the board", pl.color, p.kind, p.square)
			}
			if p.owner != pl {
				return fmt.Errorf("%s on %s has the wrong owner", p.kind, p.square)
			}
			delete(seen, p)
		}
	}
	if len(seen) > 0 {
		return fmt.Errorf("%d pieces on the board have no owner", len(seen))
	}
	return nil
}
