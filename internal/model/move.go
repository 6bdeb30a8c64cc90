package model

import "fmt"

type CastleSide int

const (
	NoCastle CastleSide = iota
	ShortCastle
	LongCastle
)

func (c CastleSide) MarshalText() ([]byte, error) {
	switch c {
	case ShortCastle:
		return []byte("short"), nil
	case LongCastle:
		return []byte("long"), nil
	}
	return []byte(""), nil
}

func (c *CastleSide) UnmarshalText(b []byte) error {
	switch string(b) {
	case "short":
		*c = ShortCastle
	case "long":
		*c = LongCastle
	case "":
		*c = NoCastle
	default:
		return fmt.Errorf("unknown castle side %q", string(b))
	}
	return nil
}

// Intent is what the notation says. The parser builds it and nothing
// downstream writes to it.
type Intent struct {
	Text      string    // as submitted
	Notation  string    // the move text without annotation suffixes
	Piece     PieceType // NoPiece for castling
	Castle    CastleSide
	From      Square // either component may be Unknown
	To        Square
	Capture   bool
	Promotion PieceType // named in the notation, NoPiece otherwise
}

// Outcome is what validation and commit found out about an intent. Piece
// predicates fill the movement fields; the game fills the rest.
type Outcome struct {
	From          Square
	To            Square
	Captures      bool
	CaptureSquare Square // differs from To for en passant
	EnPassant     bool
	DoubleStep    bool // the pawn becomes capturable en passant
	Promotion     bool
	PromotedTo    PieceType
	Check         bool
	Checkmate     bool
}

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Ply is a finalized move as recorded in the history.
type Ply struct {
	Color          PlayerColor     `json:"color"`
	Piece          PieceType       `json:"piece"`
	From           Square          `json:"from"`
	To             Square          `json:"to"`
	Captured       PieceType       `json:"captured"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion"`
	EnPassant      bool            `json:"enPassant"`
	Check          bool            `json:"check"`
	Checkmate      bool            `json:"checkmate"`
	Notation       string          `json:"notation"`
}

// SimpleMove identifies a legal move independently of notation.
type SimpleMove struct {
	From      Square     `json:"from"`
	To        Square     `json:"to"`
	Promotion PieceType  `json:"promotion,omitempty"`
	Castle    CastleSide `json:"castle,omitempty"`
}
