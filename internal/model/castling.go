package model

import "fmt"

type castlingPlan struct {
	king     *Piece
	rook     *Piece
	kingFrom Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
}

// planCastling runs every castling test for player without touching the
// board: king and rook unmoved, king not in check, and every square
// between them empty and unattacked.
func (g *Game) planCastling(player *Player, side CastleSide) (castlingPlan, error) {
	opp := g.opponent(player)
	king := player.King()
	if king == nil || king.hasMoved {
		return castlingPlan{}, fmt.Errorf("the king has already moved")
	}
	if g.threatens(king.square, opp) {
		return castlingPlan{}, fmt.Errorf("the king is in check")
	}

	rank := king.square.Rank
	rookFile, kingFile := 0, 2
	if side == ShortCastle {
		rookFile, kingFile = g.dims.lastFile(), g.dims.lastFile()-1
	}
	rookSq := NewSquare(rookFile, rank)
	rook := g.board.at(rookSq)
	if rook == nil || rook.kind != Rook || rook.owner != player || rook.hasMoved {
		return castlingPlan{}, fmt.Errorf("the rook has already moved")
	}

	step := direction(king.square.File, rookFile)
	plan := castlingPlan{
		king:     king,
		rook:     rook,
		kingFrom: king.square,
		kingTo:   NewSquare(kingFile, rank),
		rookFrom: rookSq,
		rookTo:   NewSquare(kingFile-step, rank),
	}
	if step == 0 || direction(plan.kingTo.File, rookFile) != step || direction(king.square.File, plan.kingTo.File) != step {
		return castlingPlan{}, fmt.Errorf("the king is not placed for this castling")
	}

	for file := king.square.File + step; file != rookFile; file += step {
		sq := NewSquare(file, rank)
		if g.board.at(sq) != nil || g.threatens(sq, opp) {
			return castlingPlan{}, fmt.Errorf("problematic square at %s", sq)
		}
	}
	return plan, nil
}

// castle validates and performs a castling move; on failure nothing has
// been changed.
func (g *Game) castle(in Intent) (Outcome, Ply, error) {
	mover := g.inTurn
	plan, err := g.planCastling(mover, in.Castle)
	if err != nil {
		return Outcome{}, Ply{}, moveErr(in.Text, StageParsed, ErrIllegalMove, "castling not possible: %v", err)
	}

	for _, sq := range []Square{plan.kingFrom, plan.rookFrom} {
		if err := g.board.Remove(sq); err != nil {
			return Outcome{}, Ply{}, moveErr(in.Text, StageSimulated, ErrBoardAccess, "%v", err)
		}
	}
	plan.king.square, plan.rook.square = plan.kingTo, plan.rookTo
	plan.king.hasMoved, plan.rook.hasMoved = true, true
	for _, p := range []*Piece{plan.king, plan.rook} {
		if err := g.board.Set(p); err != nil {
			return Outcome{}, Ply{}, moveErr(in.Text, StageSimulated, ErrBoardAccess, "%v", err)
		}
	}

	out := Outcome{From: plan.kingFrom, To: plan.kingTo}
	ply := Ply{
		Color:          mover.color,
		Piece:          King,
		From:           plan.kingFrom,
		To:             plan.kingTo,
		CastleRookMove: &CastleRookMove{From: plan.rookFrom, To: plan.rookTo},
	}
	return out, ply, nil
}
