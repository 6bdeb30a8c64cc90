package model

import (
	"fmt"
	"strings"
)

type Status int

const (
	StatusPlaying Status = iota
	StatusCheckmate
	StatusStalemate
)

func (s Status) String() string {
	switch s {
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	}
	return "playing"
}

// PromotionChooser is asked which piece a pawn becomes when the move text
// did not say. It is asked again after an unrecognised answer; an error
// abandons the move.
type PromotionChooser interface {
	ChoosePromotion(color PlayerColor, square Square) (string, error)
}

type PromotionFunc func(color PlayerColor, square Square) (string, error)

func (f PromotionFunc) ChoosePromotion(color PlayerColor, square Square) (string, error) {
	return f(color, square)
}

type Option func(*Game) error

func WithPromotionChooser(c PromotionChooser) Option {
	return func(g *Game) error {
		g.chooser = c
		return nil
	}
}

// WithDimensions sets the board size for the standard setup.
func WithDimensions(d Dimensions) Option {
	return func(g *Game) error {
		if err := d.validate(); err != nil {
			return err
		}
		g.dims = d
		return nil
	}
}

// WithPosition starts the game, and every restart or takeback, from the
// given FEN piece placement instead of the standard setup.
func WithPosition(placement string, toMove PlayerColor) Option {
	return func(g *Game) error {
		pos, err := parsePlacement(placement, toMove)
		if err != nil {
			return err
		}
		g.setup = pos
		g.dims = pos.dims
		return nil
	}
}

// Game is the turn state machine. It owns the board, both players and the
// move history. A Game is not safe for concurrent use.
type Game struct {
	dims    Dimensions
	board   *Board
	white   *Player
	black   *Player
	inTurn  *Player
	parser  *Parser
	chooser PromotionChooser
	setup   *position // nil for the standard setup

	history []string
	plies   []Ply
	turn    int
	status  Status
	winner  PlayerColor
	check   bool
	lastMsg string
}

func NewGame(opts ...Option) (*Game, error) {
	g := &Game{
		dims:  StandardDimensions,
		white: newPlayer(PlayerColorWhite),
		black: newPlayer(PlayerColorBlack),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	if g.setup == nil && (g.dims.Files < len(backRank) || g.dims.Ranks < 4) {
		return nil, fmt.Errorf("%w: the standard setup needs at least %d files and 4 ranks", ErrPosition, len(backRank))
	}
	g.board = NewBoard(g.dims)
	g.parser = NewParser(g.dims)
	if err := g.reset(); err != nil {
		return nil, err
	}
	return g, nil
}

var backRank = []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// reset puts the game back to its starting position.
func (g *Game) reset() error {
	g.board.Clear()
	g.white.clear()
	g.black.clear()

	g.inTurn = g.white
	if g.setup == nil {
		if err := g.standardSetup(); err != nil {
			return err
		}
	} else {
		if err := g.setup.place(g); err != nil {
			return err
		}
		g.inTurn = g.player(g.setup.toMove)
	}

	g.history = nil
	g.plies = nil
	g.turn = 1
	g.status = StatusPlaying
	g.winner = ""
	g.lastMsg = ""

	opp := g.opponent(g.inTurn)
	if g.kingThreatened(opp, g.inTurn) {
		return fmt.Errorf("%w: %s is in check but it is %s's move", ErrPosition, opp.color, g.inTurn.color)
	}
	g.check = g.kingThreatened(g.inTurn, opp)
	if !g.hasLegalMove(g.inTurn) {
		g.settle(opp, g.check)
	}
	return nil
}

func (g *Game) standardSetup() error {
	last := g.dims.lastRank()
	for file := 0; file < g.dims.Files; file++ {
		if _, err := g.place(g.white, Pawn, NewSquare(file, 1)); err != nil {
			return err
		}
		if _, err := g.place(g.black, Pawn, NewSquare(file, last-1)); err != nil {
			return err
		}
	}
	for file, kind := range backRank {
		if _, err := g.place(g.white, kind, NewSquare(file, 0)); err != nil {
			return err
		}
		if _, err := g.place(g.black, kind, NewSquare(file, last)); err != nil {
			return err
		}
	}
	return nil
}

// place creates a piece for owner and puts it on the board.
func (g *Game) place(owner *Player, kind PieceType, sq Square) (*Piece, error) {
	p := newPiece(kind, sq, owner)
	if err := g.board.Set(p); err != nil {
		return nil, err
	}
	owner.add(p)
	return p, nil
}

func (g *Game) player(c PlayerColor) *Player {
	if c == PlayerColorBlack {
		return g.black
	}
	return g.white
}

func (g *Game) opponent(p *Player) *Player {
	if p == g.white {
		return g.black
	}
	return g.white
}

// threatens reports whether any piece of by attacks sq.
func (g *Game) threatens(sq Square, by *Player) bool {
	for _, p := range by.pieces {
		if p.ThreatensSquare(sq, by.forward, g.board) {
			return true
		}
	}
	return false
}

func (g *Game) kingThreatened(p, by *Player) bool {
	king := p.King()
	return king != nil && g.threatens(king.square, by)
}

// MakeMove submits one move in algebraic notation. On failure the returned
// error is a *MoveError and the game is left exactly as it was.
func (g *Game) MakeMove(notation string) error {
	if err := g.makeMove(notation); err != nil {
		g.lastMsg = err.Error()
		return err
	}
	return nil
}

func (g *Game) makeMove(notation string) error {
	if g.status != StatusPlaying {
		return moveErr(notation, StageAwaitingMove, ErrGameOver, "the game has already ended: %s", g.resultText())
	}

	in, err := g.parser.Parse(notation)
	if err != nil {
		return err
	}

	var (
		out Outcome
		ply Ply
	)
	if in.Castle != NoCastle {
		if out, ply, err = g.castle(in); err != nil {
			return err
		}
	} else {
		if out, err = g.resolveSource(in); err != nil {
			return err
		}
		safe, err := g.simulate(g.inTurn, out)
		if err != nil {
			return moveErr(in.Text, StageSourceResolved, ErrBoardAccess, "%v", err)
		}
		if !safe {
			return moveErr(in.Text, StageSourceResolved, ErrIllegalMove, "the move would leave your king in check")
		}
		if out.Promotion {
			if out.PromotedTo, err = g.resolvePromotion(in, out); err != nil {
				return err
			}
		} else if in.Promotion != NoPiece {
			return moveErr(in.Text, StageSimulated, ErrIllegalMove, "only a pawn reaching the last rank can be promoted")
		}
		if ply, err = g.commit(out); err != nil {
			return moveErr(in.Text, StageSimulated, ErrBoardAccess, "%v", err)
		}
	}

	g.finalize(in, out, ply)
	return nil
}

// resolveSource checks the destination square against the capture marker
// and finds the one piece that can make the move.
func (g *Game) resolveSource(in Intent) (Outcome, error) {
	mover := g.inTurn
	target, err := g.board.Piece(in.To)
	if err != nil {
		return Outcome{}, moveErr(in.Text, StageParsed, ErrSquareValidation, "%v", err)
	}

	switch {
	case target != nil && target.owner != mover && !in.Capture:
		return Outcome{}, moveErr(in.Text, StageParsed, ErrSquareValidation,
			"the destination square has an opponent's piece, yet no capture was indicated")
	case target != nil && target.owner == mover:
		return Outcome{}, moveErr(in.Text, StageParsed, ErrSquareValidation,
			"the destination square is blocked by your own piece")
	case target == nil && in.Capture && in.Piece != Pawn:
		// Pawns may capture onto an empty square en passant; that is
		// settled by the pawn's own rules.
		return Outcome{}, moveErr(in.Text, StageParsed, ErrSquareValidation,
			"the move is a capture, but the destination square is empty")
	}

	var (
		found *Piece
		out   Outcome
	)
	probe := Probe{To: in.To, Capture: in.Capture, Forward: mover.forward}
	for _, p := range mover.pieces {
		if p.kind != in.Piece || !p.square.matches(in.From) {
			continue
		}
		o, ok := p.CanMoveTo(probe, g.board)
		if !ok {
			continue
		}
		if found != nil {
			return Outcome{}, moveErr(in.Text, StageParsed, ErrIllegalMove,
				"more than one piece can make this move, please adjust your notation")
		}
		found, out = p, o
	}
	if found == nil {
		return Outcome{}, moveErr(in.Text, StageParsed, ErrIllegalMove, "no piece can make this move")
	}
	out.From = found.square
	return out, nil
}

// trial records what apply changed so that undo can put it back.
type trial struct {
	moving     *Piece
	captured   *Piece
	capturedAt int
	from       Square
}

func (g *Game) apply(player *Player, out Outcome) (*trial, error) {
	for _, sq := range []Square{out.From, out.To} {
		if _, err := g.board.index(sq); err != nil {
			return nil, err
		}
	}
	moving := g.board.at(out.From)
	if moving == nil || moving.owner != player {
		return nil, fmt.Errorf("no %s piece on %s", player.color, out.From)
	}
	t := &trial{moving: moving, from: out.From, capturedAt: -1}

	if out.Captures {
		victim, err := g.board.Piece(out.CaptureSquare)
		if err != nil {
			return nil, err
		}
		if victim == nil {
			return nil, fmt.Errorf("nothing to capture on %s", out.CaptureSquare)
		}
		t.captured = victim
		t.capturedAt = victim.owner.remove(victim)
		if err := g.board.Remove(out.CaptureSquare); err != nil {
			return nil, err
		}
	}
	if err := g.board.move(moving, out.To); err != nil {
		return nil, err
	}
	return t, nil
}

func (g *Game) undo(t *trial) error {
	if err := g.board.move(t.moving, t.from); err != nil {
		return err
	}
	if t.captured != nil {
		t.captured.owner.restore(t.capturedAt, t.captured)
		return g.board.Set(t.captured)
	}
	return nil
}

// simulate plays out on the board, checks whether player's king survives,
// and reverts the board and both players to exactly their prior state.
func (g *Game) simulate(player *Player, out Outcome) (bool, error) {
	t, err := g.apply(player, out)
	if err != nil {
		return false, err
	}
	safe := !g.kingThreatened(player, g.opponent(player))
	return safe, g.undo(t)
}

func (g *Game) resolvePromotion(in Intent, out Outcome) (PieceType, error) {
	if in.Promotion != NoPiece {
		return in.Promotion, nil
	}
	if g.chooser == nil {
		return NoPiece, moveErr(in.Text, StageSimulated, ErrIllegalMove,
			"your pawn will be promoted, select the promotion piece (R, N, B, Q)")
	}
	for {
		answer, err := g.chooser.ChoosePromotion(g.inTurn.color, out.To)
		if err != nil {
			return NoPiece, moveErr(in.Text, StageSimulated, ErrIllegalMove, "promotion was not resolved: %v", err)
		}
		if kind, ok := PromotionChoice(answer); ok {
			return kind, nil
		}
	}
}

// PromotionChoice maps an answer such as "Q", "n" or "rook" to a piece a
// pawn may become.
func PromotionChoice(answer string) (PieceType, bool) {
	var kind PieceType
	if err := kind.UnmarshalText([]byte(strings.TrimSpace(answer))); err != nil {
		return NoPiece, false
	}
	return kind, kind.CanPromoteTo()
}

// commit makes the validated move for real.
func (g *Game) commit(out Outcome) (Ply, error) {
	mover := g.inTurn
	t, err := g.apply(mover, out)
	if err != nil {
		return Ply{}, err
	}

	moving := t.moving
	ply := Ply{
		Color:     mover.color,
		Piece:     moving.kind,
		From:      out.From,
		To:        out.To,
		EnPassant: out.EnPassant,
	}
	if t.captured != nil {
		ply.Captured = t.captured.kind
	}

	moving.hasMoved = true
	if out.DoubleStep {
		moving.enPassant = true
	}
	if out.Promotion {
		if err := g.promote(moving, out.PromotedTo); err != nil {
			return Ply{}, err
		}
		ply.Promotion = out.PromotedTo
	}
	return ply, nil
}

func (g *Game) promote(pawn *Piece, kind PieceType) error {
	owner, sq := pawn.owner, pawn.square
	owner.remove(pawn)
	if err := g.board.Remove(sq); err != nil {
		return err
	}
	p, err := g.place(owner, kind, sq)
	if err != nil {
		return err
	}
	p.hasMoved = true
	return nil
}

// finalize classifies the position the opponent now faces, records the
// annotated move and passes the turn.
func (g *Game) finalize(in Intent, out Outcome, ply Ply) {
	mover, opp := g.inTurn, g.opponent(g.inTurn)

	check := g.kingThreatened(opp, mover)
	g.lastMsg = ""
	if !g.hasLegalMove(opp) {
		out.Checkmate = check
		g.settle(mover, check)
	} else {
		out.Check = check
	}

	ply.Check, ply.Checkmate = out.Check, out.Checkmate
	ply.Notation = g.parser.Annotate(in, out)
	g.history = append(g.history, ply.Notation)
	g.plies = append(g.plies, ply)
	g.check = check

	if g.status == StatusPlaying {
		g.changeTurn()
	}
}

// settle ends the game: checkmate in favour of winner, or stalemate.
func (g *Game) settle(winner *Player, check bool) {
	if check {
		g.status = StatusCheckmate
		g.winner = winner.color
	} else {
		g.status = StatusStalemate
	}
	g.lastMsg = g.resultText()
}

func (g *Game) resultText() string {
	switch g.status {
	case StatusCheckmate:
		return g.winner.Title() + " won!"
	case StatusStalemate:
		return "Stalemate."
	}
	return ""
}

func (g *Game) changeTurn() {
	g.inTurn = g.opponent(g.inTurn)
	if g.inTurn == g.white {
		g.turn++
	}
	g.inTurn.beginTurn()
}

// candidates lists every pseudo-legal move of player's piece p with the
// capture and en passant fields filled in, ready for simulation.
func (g *Game) candidates(player *Player, p *Piece) []Outcome {
	var outs []Outcome
	for _, sq := range p.ReachableSquares(player.forward, g.board) {
		capture := g.board.at(sq) != nil || (p.kind == Pawn && !sq.SameFile(p.square))
		out, ok := p.CanMoveTo(Probe{To: sq, Capture: capture, Forward: player.forward}, g.board)
		if !ok {
			continue
		}
		out.From = p.square
		outs = append(outs, out)
	}
	return outs
}

// hasLegalMove searches every piece of player for one move that does not
// leave its king in check. Castling is never the only legal move, so it is
// not tried.
func (g *Game) hasLegalMove(player *Player) bool {
	for _, p := range player.Pieces() {
		for _, out := range g.candidates(player, p) {
			if safe, err := g.simulate(player, out); err == nil && safe {
				return true
			}
		}
	}
	return false
}

// LegalMoves lists every legal move of the side to move, castling
// included, with one entry per promotion piece.
func (g *Game) LegalMoves() []SimpleMove {
	if g.status != StatusPlaying {
		return nil
	}
	var moves []SimpleMove
	for _, p := range g.inTurn.Pieces() {
		for _, out := range g.candidates(g.inTurn, p) {
			if safe, err := g.simulate(g.inTurn, out); err != nil || !safe {
				continue
			}
			if !out.Promotion {
				moves = append(moves, SimpleMove{From: out.From, To: out.To})
				continue
			}
			for _, kind := range []PieceType{Queen, Rook, Bishop, Knight} {
				moves = append(moves, SimpleMove{From: out.From, To: out.To, Promotion: kind})
			}
		}
	}
	for _, side := range []CastleSide{ShortCastle, LongCastle} {
		if plan, err := g.planCastling(g.inTurn, side); err == nil {
			moves = append(moves, SimpleMove{From: plan.kingFrom, To: plan.kingTo, Castle: side})
		}
	}
	return moves
}

// TakeBack undoes the last n moves by replaying the rest of the history
// from the starting position.
func (g *Game) TakeBack(n int) error {
	if n <= 0 {
		return g.fail(fmt.Errorf("%w: a non-positive argument given to takeback", ErrTakeBack))
	}
	if n > len(g.history) {
		return g.fail(fmt.Errorf("%w: more takebacks than moves made", ErrTakeBack))
	}
	keep := make([]string, len(g.history)-n)
	copy(keep, g.history)
	return g.replay(keep)
}

// LoadHistory restarts the game and replays moves through the full
// validator. It stops at the first move that cannot be made and returns an
// *ImportError; the moves before it stay played.
func (g *Game) LoadHistory(moves []string) error {
	return g.replay(moves)
}

func (g *Game) replay(moves []string) error {
	if err := g.reset(); err != nil {
		return g.fail(err)
	}
	for i, m := range moves {
		if err := g.makeMove(m); err != nil {
			return g.fail(&ImportError{Index: i, Notation: m, Err: err})
		}
	}
	return nil
}

func (g *Game) fail(err error) error {
	g.lastMsg = err.Error()
	return err
}

// Restart begins a new game from the starting position.
func (g *Game) Restart() error {
	return g.reset()
}

func (g *Game) Dimensions() Dimensions {
	return g.dims
}

func (g *Game) ToMove() PlayerColor {
	return g.inTurn.color
}

func (g *Game) Turn() int {
	return g.turn
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) IsCheckmate() bool {
	return g.status == StatusCheckmate
}

func (g *Game) IsStalemate() bool {
	return g.status == StatusStalemate
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.check
}

// Winner returns the winning side after checkmate.
func (g *Game) Winner() (PlayerColor, bool) {
	return g.winner, g.status == StatusCheckmate
}

// Message is the diagnostic of the last failure, or the result once the
// game has ended.
func (g *Game) Message() string {
	return g.lastMsg
}

func (g *Game) History() []string {
	out := make([]string, len(g.history))
	copy(out, g.history)
	return out
}

func (g *Game) LastMove() *Ply {
	if len(g.plies) == 0 {
		return nil
	}
	ply := g.plies[len(g.plies)-1]
	return &ply
}
