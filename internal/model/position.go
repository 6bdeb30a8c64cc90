package model

import (
	"fmt"
	"strings"
	"unicode"
)

type placedPiece struct {
	color PlayerColor
	kind  PieceType
	sq    Square
}

// position is a start position read from a FEN piece placement.
type position struct {
	dims   Dimensions
	pieces []placedPiece
	toMove PlayerColor
}

var placementLetters = map[rune]PieceType{
	'p': Pawn,
	'r': Rook,
	'n': Knight,
	'b': Bishop,
	'q': Queen,
	'k': King,
}

func parsePlacement(placement string, toMove PlayerColor) (*position, error) {
	if !toMove.Valid() {
		return nil, fmt.Errorf("%w: unknown side to move %q", ErrPosition, toMove)
	}
	rows := strings.Split(strings.TrimSpace(placement), "/")
	pos := &position{toMove: toMove}
	kings := map[PlayerColor]int{}

	for i, row := range rows {
		rank := len(rows) - 1 - i
		file := 0
		empty := 0
		for _, c := range row {
			if unicode.IsDigit(c) {
				empty = empty*10 + int(c-'0')
				continue
			}
			file += empty
			empty = 0
			kind, ok := placementLetters[unicode.ToLower(c)]
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece letter %q", ErrPosition, c)
			}
			color := PlayerColorBlack
			if unicode.IsUpper(c) {
				color = PlayerColorWhite
			}
			if kind == King {
				kings[color]++
			}
			pos.pieces = append(pos.pieces, placedPiece{color: color, kind: kind, sq: NewSquare(file, rank)})
			file++
		}
		file += empty
		if i == 0 {
			pos.dims.Files = file
		} else if file != pos.dims.Files {
			return nil, fmt.Errorf("%w: rank %d has %d files, expected %d", ErrPosition, rank+1, file, pos.dims.Files)
		}
	}
	pos.dims.Ranks = len(rows)
	if err := pos.dims.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPosition, err)
	}
	if kings[PlayerColorWhite] != 1 || kings[PlayerColorBlack] != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrPosition)
	}
	for _, pp := range pos.pieces {
		if pp.kind == Pawn && (pp.sq.Rank == 0 || pp.sq.Rank == pos.dims.lastRank()) {
			return nil, fmt.Errorf("%w: pawn on %v, pawns cannot stand on the first or last rank", ErrPosition, pp.sq)
		}
	}
	return pos, nil
}

// place puts the position's pieces on g's board. Pieces away from their
// starting rank count as moved.
func (pos *position) place(g *Game) error {
	for _, pp := range pos.pieces {
		owner := g.player(pp.color)
		p, err := g.place(owner, pp.kind, pp.sq)
		if err != nil {
			return err
		}
		home := 0
		if pp.color == PlayerColorBlack {
			home = pos.dims.lastRank()
		}
		switch pp.kind {
		case Pawn:
			p.hasMoved = pp.sq.Rank != home+owner.forward
		case King, Rook:
			p.hasMoved = pp.sq.Rank != home
		default:
			p.hasMoved = true
		}
	}
	return nil
}

// Placement renders the board as a FEN piece placement, top rank first.
func (b *Board) Placement() string {
	var sb strings.Builder
	for rank := b.dims.lastRank(); rank >= 0; rank-- {
		empty := 0
		for file := 0; file < b.dims.Files; file++ {
			p := b.at(NewSquare(file, rank))
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				fmt.Fprintf(&sb, "%d", empty)
				empty = 0
			}
			letter := rune(p.kind.symbol())
			if p.owner.color == PlayerColorBlack {
				letter = unicode.ToLower(letter)
			}
			sb.WriteRune(letter)
		}
		if empty > 0 {
			fmt.Fprintf(&sb, "%d", empty)
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
