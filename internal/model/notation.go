package model

import (
	"strings"
)

const (
	captureSymbol   = 'x'
	checkSymbol     = '+'
	checkmateSymbol = '#'
	promotionSymbol = '='
	enPassantMarker = "e.p."
	shortCastling   = "O-O"
	longCastling    = "O-O-O"
)

var pieceLetters = map[byte]PieceType{
	'R': Rook,
	'N': Knight,
	'B': Bishop,
	'Q': Queen,
	'K': King,
}

// Parser converts algebraic notation into an Intent and renders the
// annotation suffixes of a finished move.
type Parser struct {
	dims Dimensions
}

func NewParser(dims Dimensions) *Parser {
	return &Parser{dims: dims}
}

func (ps *Parser) fileValue(c byte) int {
	f := int(c) - 'a'
	if f < 0 || f >= ps.dims.Files {
		return Unknown
	}
	return f
}

func (ps *Parser) rankValue(c byte) int {
	r := int(c) - '1'
	if r < 0 || r >= ps.dims.Ranks {
		return Unknown
	}
	return r
}

func (ps *Parser) square(file, rank byte) (Square, bool) {
	s := NewSquare(ps.fileValue(file), ps.rankValue(rank))
	return s, s.File != Unknown && s.Rank != Unknown
}

// stripAnnotations removes en passant, promotion, check and checkmate
// suffixes. It undoes what Annotate adds.
func stripAnnotations(move string) string {
	if i := strings.Index(move, enPassantMarker); i >= 0 {
		return move[:i]
	}
	if i := strings.IndexAny(move, string([]byte{checkSymbol, promotionSymbol, checkmateSymbol})); i >= 0 {
		return move[:i]
	}
	return move
}

func parseErr(text, format string, args ...any) *MoveError {
	return moveErr(text, StageAwaitingMove, ErrParse, format, args...)
}

// Parse reads a move such as "e4", "exd5", "Nbd7", "R1xa3", "e8=Q+" or
// "O-O-O". Source squares the notation leaves open are Unknown.
func (ps *Parser) Parse(text string) (Intent, error) {
	move := strings.TrimSpace(text)
	in := Intent{
		Text: text,
		From: NewSquare(Unknown, Unknown),
	}

	switch strings.TrimRight(move, string([]byte{checkSymbol, checkmateSymbol})) {
	case shortCastling:
		in.Notation, in.Castle = shortCastling, ShortCastle
		return in, nil
	case longCastling:
		in.Notation, in.Castle = longCastling, LongCastle
		return in, nil
	}

	// The promotion letter has to be read before stripping, since the
	// suffix is cut at the promotion symbol.
	if i := strings.IndexByte(move, promotionSymbol); i >= 0 {
		if i+1 >= len(move) {
			return in, parseErr(text, "illegal promotion piece")
		}
		kind, ok := pieceLetters[move[i+1]]
		if !ok || !kind.CanPromoteTo() {
			return in, parseErr(text, "illegal promotion piece")
		}
		in.Promotion = kind
	}

	move = stripAnnotations(move)
	in.Notation = move
	if len(move) < 2 {
		return in, parseErr(text, "syntax error")
	}

	if kind, ok := pieceLetters[move[0]]; ok {
		in.Piece = kind
		return ps.parsePiece(in, move[1:])
	}
	if ps.fileValue(move[0]) != Unknown {
		in.Piece = Pawn
		return ps.parsePawn(in, move)
	}
	return in, parseErr(text, "illegal piece symbol")
}

// Pawns carry no disambiguation: either "e4" or "exd5".
func (ps *Parser) parsePawn(in Intent, move string) (Intent, error) {
	var dest string
	switch {
	case len(move) == 4 && move[1] == captureSymbol:
		in.Capture = true
		dest = move[2:]
	case len(move) == 2:
		dest = move
	default:
		return in, parseErr(in.Text, "bad syntax (probably in destination square)")
	}

	to, ok := ps.square(dest[0], dest[1])
	if !ok {
		return in, parseErr(in.Text, "bad syntax in the destination square")
	}
	in.From.File = ps.fileValue(move[0])
	in.To = to
	return in, nil
}

func (ps *Parser) parsePiece(in Intent, body string) (Intent, error) {
	if len(body) < 2 {
		return in, parseErr(in.Text, "bad syntax (probably in destination square)")
	}
	dest, hint := body[len(body)-2:], body[:len(body)-2]
	if strings.HasSuffix(hint, string(captureSymbol)) {
		in.Capture = true
		hint = hint[:len(hint)-1]
	}

	to, ok := ps.square(dest[0], dest[1])
	if !ok {
		return in, parseErr(in.Text, "bad syntax in the destination square")
	}
	in.To = to

	if hint == "" {
		return in, nil
	}
	if in.Piece == King {
		return in, parseErr(in.Text, "illegal source square specifier")
	}
	switch len(hint) {
	case 1:
		if f := ps.fileValue(hint[0]); f != Unknown {
			in.From.File = f
		} else if r := ps.rankValue(hint[0]); r != Unknown {
			in.From.Rank = r
		} else {
			return in, parseErr(in.Text, "illegal source square specifier")
		}
	case 2:
		from, ok := ps.square(hint[0], hint[1])
		if !ok {
			return in, parseErr(in.Text, "illegal source square specifier")
		}
		in.From = from
	default:
		return in, parseErr(in.Text, "bad syntax (probably in destination square)")
	}
	return in, nil
}

// Annotate appends, in order, the en passant marker, the promotion, and
// the check or checkmate symbol to the intent's bare notation.
func (ps *Parser) Annotate(in Intent, out Outcome) string {
	var sb strings.Builder
	sb.WriteString(in.Notation)
	if out.EnPassant {
		sb.WriteString(enPassantMarker)
	}
	if out.Promotion {
		sb.WriteByte(promotionSymbol)
		sb.WriteString(out.PromotedTo.Letter())
	}
	if out.Check {
		sb.WriteByte(checkSymbol)
	}
	if out.Checkmate {
		sb.WriteByte(checkmateSymbol)
	}
	return sb.String()
}
