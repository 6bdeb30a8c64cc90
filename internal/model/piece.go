package model

import (
	"fmt"
	"strings"
)

type PieceType int

const (
	NoPiece PieceType = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

var pieceNames = map[PieceType]string{
	Pawn:   "pawn",
	Rook:   "rook",
	Knight: "knight",
	Bishop: "bishop",
	Queen:  "queen",
	King:   "king",
}

func (p PieceType) String() string {
	if name, ok := pieceNames[p]; ok {
		return name
	}
	return "none"
}

// Letter is the notation letter of the piece type; pawns have none.
func (p PieceType) Letter() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// symbol is the board letter used in snapshots and placements.
func (p PieceType) symbol() byte {
	if p == Pawn {
		return 'P'
	}
	if l := p.Letter(); l != "" {
		return l[0]
	}
	return '?'
}

// CanPromoteTo reports whether a pawn may become p.
func (p PieceType) CanPromoteTo() bool {
	return p == Rook || p == Knight || p == Bishop || p == Queen
}

func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PieceType) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for t, name := range pieceNames {
		if s == name || (t.Letter() != "" && s == strings.ToLower(t.Letter())) {
			*p = t
			return nil
		}
	}
	if s == "" || s == "none" {
		*p = NoPiece
		return nil
	}
	return fmt.Errorf("unknown piece type %q", string(b))
}

// Piece is one live chessman. It is owned by exactly one Player; the
// Board only references it.
type Piece struct {
	kind      PieceType
	square    Square
	hasMoved  bool
	enPassant bool // made a double step on its owner's last move
	owner     *Player
}

func newPiece(kind PieceType, sq Square, owner *Player) *Piece {
	return &Piece{kind: kind, square: sq, owner: owner}
}

func (p *Piece) Type() PieceType { return p.kind }
func (p *Piece) Square() Square { return p.square }
func (p *Piece) HasMoved() bool { return p.hasMoved }
func (p *Piece) Owner() *Player { return p.owner }
func (p *Piece) CanBeEnPassanted() bool { return p.enPassant }

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s on %s", p.owner.color, p.kind, p.square)
}

// ThreatensSquare reports whether the piece attacks dest. forward is the
// rank direction the piece's owner advances in.
func (p *Piece) ThreatensSquare(dest Square, forward int, b *Board) bool {
	return movements[p.kind].threatens(p, dest, forward, b)
}

// CanMoveTo decides whether the piece may make the probed move and, if so,
// returns the derived outcome fields.
func (p *Piece) CanMoveTo(pr Probe, b *Board) (Outcome, bool) {
	return movements[p.kind].canMoveTo(p, pr, b)
}

// ReachableSquares lists every square the piece could move to on the
// current board, ignoring king safety.
func (p *Piece) ReachableSquares(forward int, b *Board) []Square {
	return movements[p.kind].reachable(p, forward, b)
}

// Probe is the move-intent a piece predicate is asked about.
type Probe struct {
	To      Square
	Capture bool
	Forward int
}

type movement interface {
	threatens(p *Piece, dest Square, forward int, b *Board) bool
	canMoveTo(p *Piece, pr Probe, b *Board) (Outcome, bool)
	reachable(p *Piece, forward int, b *Board) []Square
}

var movements = map[PieceType]movement{
	Pawn:   pawnMovement{},
	Rook:   slider{straight: true},
	Knight: leaper{offsets: knightOffsets},
	Bishop: slider{diagonal: true},
	Queen:  slider{straight: true, diagonal: true},
	King:   leaper{offsets: kingOffsets},
}

var knightOffsets = []Square{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
var kingOffsets = []Square{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

func direction(from, to int) int {
	switch {
	case from > to:
		return -1
	case from < to:
		return 1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// standardCanMoveTo is the rule shared by every piece but the pawn: the
// piece must threaten dest, and the capture marker must agree with what is
// standing there.
func standardCanMoveTo(m movement, p *Piece, pr Probe, b *Board) (Outcome, bool) {
	if !m.threatens(p, pr.To, pr.Forward, b) {
		return Outcome{}, false
	}
	target := b.at(pr.To)
	if target == nil {
		return Outcome{To: pr.To}, !pr.Capture
	}
	if pr.Capture && target.owner != p.owner {
		return Outcome{To: pr.To, Captures: true, CaptureSquare: pr.To}, true
	}
	return Outcome{}, false
}

func standardReachable(m movement, p *Piece, forward int, b *Board) []Square {
	var squares []Square
	dims := b.Dimensions()
	for rank := 0; rank < dims.Ranks; rank++ {
		for file := 0; file < dims.Files; file++ {
			next := NewSquare(file, rank)
			if !m.threatens(p, next, forward, b) {
				continue
			}
			if target := b.at(next); target == nil || target.owner != p.owner {
				squares = append(squares, next)
			}
		}
	}
	return squares
}

// slider covers rooks, bishops and queens.
type slider struct {
	straight bool
	diagonal bool
}

func (m slider) threatens(p *Piece, dest Square, _ int, b *Board) bool {
	from := p.square
	if dest == from || !b.Dimensions().Contains(dest) {
		return false
	}
	df, dr := dest.File-from.File, dest.Rank-from.Rank
	straight := df == 0 || dr == 0
	diagonal := abs(df) == abs(dr)
	if !(m.straight && straight) && !(m.diagonal && diagonal) {
		return false
	}
	return canFollowLine(from, dest, b)
}

func (m slider) canMoveTo(p *Piece, pr Probe, b *Board) (Outcome, bool) {
	return standardCanMoveTo(m, p, pr, b)
}

func (m slider) reachable(p *Piece, forward int, b *Board) []Square {
	return standardReachable(m, p, forward, b)
}

// canFollowLine walks from `from` towards dest one square at a time and
// reports whether dest is reached before any occupied square. Walking off
// the board means there is no line.
func canFollowLine(from, dest Square, b *Board) bool {
	df := direction(from.File, dest.File)
	dr := direction(from.Rank, dest.Rank)
	if df == 0 && dr == 0 {
		return false
	}
	dims := b.Dimensions()
	for s := from.offset(df, dr); dims.Contains(s); s = s.offset(df, dr) {
		if s == dest {
			return true
		}
		if b.at(s) != nil {
			return false
		}
	}
	return false
}

// leaper covers knights and kings: fixed offsets, no blocking.
type leaper struct {
	offsets []Square
}

func (m leaper) threatens(p *Piece, dest Square, _ int, b *Board) bool {
	if !b.Dimensions().Contains(dest) {
		return false
	}
	for _, o := range m.offsets {
		if p.square.offset(o.File, o.Rank) == dest {
			return true
		}
	}
	return false
}

func (m leaper) canMoveTo(p *Piece, pr Probe, b *Board) (Outcome, bool) {
	return standardCanMoveTo(m, p, pr, b)
}

func (m leaper) reachable(p *Piece, forward int, b *Board) []Square {
	return standardReachable(m, p, forward, b)
}

type pawnMovement struct{}

// A pawn threatens the two squares diagonally ahead of it whether or not a
// capture is possible there.
func (pawnMovement) threatens(p *Piece, dest Square, forward int, b *Board) bool {
	return b.Dimensions().Contains(dest) &&
		dest.Rank == p.square.Rank+forward &&
		abs(dest.File-p.square.File) == 1
}

func (m pawnMovement) canMoveTo(p *Piece, pr Probe, b *Board) (Outcome, bool) {
	if pr.Capture {
		return m.canCapture(p, pr, b)
	}

	src, dest := p.square, pr.To
	if !b.Dimensions().Contains(dest) || b.at(dest) != nil {
		return Outcome{}, false
	}
	if !src.SameFile(dest) || direction(src.Rank, dest.Rank) != pr.Forward {
		return Outcome{}, false
	}

	switch dest.Rank {
	case src.Rank + pr.Forward:
		return Outcome{To: dest, Promotion: isPromotionRank(dest, pr.Forward, b)}, true
	case src.Rank + 2*pr.Forward:
		if p.hasMoved || b.at(src.offset(0, pr.Forward)) != nil {
			return Outcome{}, false
		}
		// On a four-rank board the double step reaches the last rank.
		return Outcome{To: dest, DoubleStep: true, Promotion: isPromotionRank(dest, pr.Forward, b)}, true
	}
	return Outcome{}, false
}

func (pawnMovement) canCapture(p *Piece, pr Probe, b *Board) (Outcome, bool) {
	src, dest := p.square, pr.To
	if !b.Dimensions().Contains(dest) ||
		abs(dest.File-src.File) != 1 ||
		dest.Rank != src.Rank+pr.Forward {
		return Outcome{}, false
	}

	if b.occupiedByOpponent(dest, p.owner) {
		return Outcome{
			To:            dest,
			Captures:      true,
			CaptureSquare: dest,
			Promotion:     isPromotionRank(dest, pr.Forward, b),
		}, true
	}
	if b.at(dest) != nil {
		return Outcome{}, false
	}

	// En passant: the victim stands beside the pawn, on the source rank.
	victimSq := NewSquare(dest.File, src.Rank)
	victim := b.at(victimSq)
	if victim != nil && victim.owner != p.owner && victim.kind == Pawn && victim.enPassant {
		return Outcome{
			To:            dest,
			Captures:      true,
			CaptureSquare: victimSq,
			EnPassant:     true,
		}, true
	}
	return Outcome{}, false
}

func (m pawnMovement) reachable(p *Piece, forward int, b *Board) []Square {
	var squares []Square
	for _, step := range []int{1, 2} {
		next := p.square.offset(0, step*forward)
		if _, ok := m.canMoveTo(p, Probe{To: next, Forward: forward}, b); ok {
			squares = append(squares, next)
		}
	}
	for _, side := range []int{-1, 1} {
		next := p.square.offset(side, forward)
		if _, ok := m.canCapture(p, Probe{To: next, Capture: true, Forward: forward}, b); ok {
			squares = append(squares, next)
		}
	}
	return squares
}

func isPromotionRank(s Square, forward int, b *Board) bool {
	if forward > 0 {
		return s.Rank == b.Dimensions().lastRank()
	}
	return s.Rank == 0
}
