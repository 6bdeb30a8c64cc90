package model

import (
	"errors"
	"testing"

	"github.com/benbeisheim/sanchess-backend/internal/testutil"
)

func newGame(t *testing.T, opts ...Option) *Game {
	t.Helper()
	g, err := NewGame(opts...)
	testutil.AssertNoError(t, err)
	return g
}

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if err := g.MakeMove(m); err != nil {
			t.Fatalf("MakeMove(%q): %v", m, err)
		}
		if err := g.board.checkSync(g.white, g.black); err != nil {
			t.Fatalf("after %q: %v", m, err)
		}
	}
}

type observed struct {
	Placement string
	ToMove    PlayerColor
	Turn      int
	Status    Status
	History   []string
}

func observe(g *Game) observed {
	return observed{
		Placement: g.board.Placement(),
		ToMove:    g.ToMove(),
		Turn:      g.Turn(),
		Status:    g.Status(),
		History:   g.History(),
	}
}

func stageOf(t *testing.T, err error) Stage {
	t.Helper()
	var me *MoveError
	if !errors.As(err, &me) {
		t.Fatalf("expected a *MoveError, got %T: %v", err, err)
	}
	return me.Stage
}

func TestOpening(t *testing.T) {
	g := newGame(t)
	play(t, g, "e4", "e5", "Nf3", "Nc6", "Bb5")

	testutil.AssertEqual(t, g.History(), []string{"e4", "e5", "Nf3", "Nc6", "Bb5"})
	testutil.AssertEqual(t, g.ToMove(), PlayerColorBlack)
	testutil.AssertEqual(t, g.Turn(), 3)
	testutil.AssertEqual(t, g.board.Placement(), "r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R")
	testutil.AssertFalse(t, g.InCheck())
	testutil.AssertEqual(t, g.Message(), "")

	bishop, err := g.board.Piece(NewSquare(1, 4))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, bishop.Type(), Bishop)
	testutil.AssertTrue(t, bishop.ThreatensSquare(NewSquare(2, 5), g.white.Forward(), g.board), "Bb5 attacks c6")
	testutil.AssertFalse(t, bishop.ThreatensSquare(NewSquare(4, 7), g.white.Forward(), g.board), "c6 shields e8")

	last := g.LastMove()
	testutil.AssertEqual(t, *last, Ply{
		Color:    PlayerColorWhite,
		Piece:    Bishop,
		From:     NewSquare(5, 0),
		To:       NewSquare(1, 4),
		Notation: "Bb5",
	})
}

func TestTakeBack(t *testing.T) {
	g := newGame(t)
	play(t, g, "e4", "e5", "Nf3", "Nc6", "Bb5")

	testutil.AssertNoError(t, g.TakeBack(2))
	testutil.AssertEqual(t, g.History(), []string{"e4", "e5", "Nf3"})
	testutil.AssertEqual(t, g.ToMove(), PlayerColorBlack)
	testutil.AssertEqual(t, g.Turn(), 2)
	testutil.AssertEqual(t, g.board.Placement(), "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R")

	before := observe(g)
	testutil.AssertErrorIs(t, g.TakeBack(0), ErrTakeBack)
	testutil.AssertErrorIs(t, g.TakeBack(-1), ErrTakeBack)
	testutil.AssertErrorIs(t, g.TakeBack(4), ErrTakeBack)
	testutil.AssertEqual(t, observe(g), before)
	testutil.AssertContains(t, g.Message(), "more takebacks than moves made")

	testutil.AssertNoError(t, g.TakeBack(3))
	testutil.AssertEqual(t, observe(g), observe(newGame(t)))
}

func TestTakeBackRestoresEnPassant(t *testing.T) {
	g := newGame(t)
	play(t, g, "e4", "a6", "e5", "d5", "h3")
	testutil.AssertNoError(t, g.TakeBack(1))
	play(t, g, "exd6")
	testutil.AssertTrue(t, g.LastMove().EnPassant)

	g = newGame(t)
	play(t, g, "e4", "a6", "e5", "d5", "h3", "h6")
	testutil.AssertNoError(t, g.TakeBack(2))
	play(t, g, "h3", "h6")
	before := observe(g)
	testutil.AssertErrorIs(t, g.MakeMove("exd6"), ErrIllegalMove)
	testutil.AssertEqual(t, observe(g), before)
}

func TestRejectedMovesLeaveNoTrace(t *testing.T) {
	tests := []struct {
		move string
		kind error
	}{
		{"e5", ErrIllegalMove},
		{"Qh5", ErrIllegalMove},
		{"Bb5", ErrIllegalMove},
		{"exd5", ErrIllegalMove},
		{"O-O", ErrIllegalMove},
		{"O-O-O", ErrIllegalMove},
		{"e4=Q", ErrIllegalMove},
		{"Ne2", ErrSquareValidation},
		{"Ke2", ErrSquareValidation},
		{"Nxf3", ErrSquareValidation},
		{"Zz9", ErrParse},
		{"Nf3x", ErrParse},
	}
	g := newGame(t)
	play(t, g, "d4", "d5")
	for _, tt := range tests {
		t.Run(tt.move, func(t *testing.T) {
			before := observe(g)
			err := g.MakeMove(tt.move)
			testutil.AssertErrorIs(t, err, tt.kind)
			testutil.AssertEqual(t, observe(g), before)
			testutil.AssertNoError(t, g.board.checkSync(g.white, g.black))
			testutil.AssertEqual(t, g.Message(), err.Error())
		})
	}

	// The game carries on normally afterwards.
	play(t, g, "Nf3")
	testutil.AssertEqual(t, g.Message(), "")
}

func TestDestinationCaptureMarker(t *testing.T) {
	g := newGame(t)
	play(t, g, "e4", "d5")

	err := g.MakeMove("ed5")
	testutil.AssertErrorIs(t, err, ErrParse)

	err = g.MakeMove("Qd5")
	testutil.AssertErrorIs(t, err, ErrSquareValidation)

	play(t, g, "Qf3", "Nc6")
	err = g.MakeMove("Qf7")
	testutil.AssertErrorIs(t, err, ErrSquareValidation)
	testutil.AssertContains(t, err.Error(), "no capture was indicated")
	testutil.AssertEqual(t, stageOf(t, err), StageParsed)

	play(t, g, "Qxf7")
	testutil.AssertTrue(t, g.InCheck())
	testutil.AssertEqual(t, g.History()[4], "Qxf7+")
}

func TestAmbiguityAndDisambiguation(t *testing.T) {
	const knights = "4k3/8/8/8/8/5N2/8/1N5K"
	const rooks = "4k3/8/8/R7/8/8/8/R3K3"

	tests := []struct {
		name      string
		placement string
		move      string
		wantErr   bool
		from      Square
	}{
		{"knights ambiguous", knights, "Nd2", true, Square{}},
		{"knight by file", knights, "Nbd2", false, NewSquare(1, 0)},
		{"knight by other file", knights, "Nfd2", false, NewSquare(5, 2)},
		{"knight by rank", knights, "N1d2", false, NewSquare(1, 0)},
		{"knight by square", knights, "Nf3d2", false, NewSquare(5, 2)},
		{"knight wrong hint", knights, "Ncd2", true, Square{}},
		{"rooks ambiguous", rooks, "Ra3", true, Square{}},
		{"rook by rank", rooks, "R5a3", false, NewSquare(0, 4)},
		{"rook by rank 1", rooks, "R1a3", false, NewSquare(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, WithPosition(tt.placement, PlayerColorWhite))
			before := observe(g)
			err := g.MakeMove(tt.move)
			if tt.wantErr {
				testutil.AssertErrorIs(t, err, ErrIllegalMove)
				testutil.AssertEqual(t, observe(g), before)
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, g.LastMove().From, tt.from)
		})
	}

	g := newGame(t, WithPosition(knights, PlayerColorWhite))
	err := g.MakeMove("Nd2")
	testutil.AssertContains(t, err.Error(), "more than one piece can make this move")
}

func TestPinnedPieceCannotMove(t *testing.T) {
	g := newGame(t, WithPosition("4k3/4r3/8/8/8/8/4B3/4K3", PlayerColorWhite))
	before := observe(g)

	err := g.MakeMove("Bd3")
	testutil.AssertErrorIs(t, err, ErrIllegalMove)
	testutil.AssertContains(t, err.Error(), "would leave your king in check")
	testutil.AssertEqual(t, stageOf(t, err), StageSourceResolved)
	testutil.AssertEqual(t, observe(g), before)

	// The king may step off the line instead.
	play(t, g, "Kd2")
}

func TestEnPassant(t *testing.T) {
	g := newGame(t)
	play(t, g, "e4", "a6", "e5", "d5", "exd6")

	testutil.AssertEqual(t, g.History()[4], "exd6e.p.")
	testutil.AssertEqual(t, g.board.Placement(), "rnbqkbnr/1pp1pppp/p2P4/8/8/8/PPPP1PPP/RNBQKBNR")

	last := g.LastMove()
	testutil.AssertTrue(t, last.EnPassant)
	testutil.AssertEqual(t, last.Captured, Pawn)
}

func TestEnPassantExpires(t *testing.T) {
	g := newGame(t)
	play(t, g, "e4", "a6", "e5", "d5", "h3", "h6")

	before := observe(g)
	err := g.MakeMove("exd6")
	testutil.AssertErrorIs(t, err, ErrIllegalMove)
	testutil.AssertEqual(t, observe(g), before)
}

func TestEnPassantOnlyAfterDoubleStep(t *testing.T) {
	g := newGame(t)
	play(t, g, "e4", "d6", "e5", "d5")

	// d6-d5 was two single steps, so the pawn is not capturable en passant.
	err := g.MakeMove("exd6")
	testutil.AssertErrorIs(t, err, ErrIllegalMove)
}

func TestCheckmate(t *testing.T) {
	g := newGame(t)
	play(t, g, "f3", "e5", "g4", "Qh4")

	testutil.AssertEqual(t, g.History(), []string{"f3", "e5", "g4", "Qh4#"})
	testutil.AssertTrue(t, g.IsCheckmate())
	testutil.AssertFalse(t, g.IsStalemate())
	testutil.AssertTrue(t, g.InCheck())
	winner, ok := g.Winner()
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, winner, PlayerColorBlack)
	testutil.AssertEqual(t, g.Message(), "Black won!")
	testutil.AssertTrue(t, g.LastMove().Checkmate)
	testutil.AssertEqual(t, len(g.LegalMoves()), 0)

	before := observe(g)
	err := g.MakeMove("a3")
	testutil.AssertErrorIs(t, err, ErrGameOver)
	testutil.AssertEqual(t, observe(g), before)
}

func TestStalemate(t *testing.T) {
	g := newGame(t, WithPosition("k7/3Q4/1K6/8/8/8/8/8", PlayerColorWhite))
	play(t, g, "Qc7")

	testutil.AssertTrue(t, g.IsStalemate())
	testutil.AssertFalse(t, g.IsCheckmate())
	testutil.AssertFalse(t, g.InCheck())
	_, ok := g.Winner()
	testutil.AssertFalse(t, ok)
	testutil.AssertEqual(t, g.Message(), "Stalemate.")
	testutil.AssertEqual(t, g.History(), []string{"Qc7"})

	testutil.AssertErrorIs(t, g.MakeMove("Ka7"), ErrGameOver)
}

func TestStartPositionAlreadyDecided(t *testing.T) {
	g := newGame(t, WithPosition("k7/2Q5/1K6/8/8/8/8/8", PlayerColorBlack))
	testutil.AssertTrue(t, g.IsStalemate())

	g = newGame(t, WithPosition("k7/1Q6/1K6/8/8/8/8/8", PlayerColorBlack))
	testutil.AssertTrue(t, g.IsCheckmate())
	winner, _ := g.Winner()
	testutil.AssertEqual(t, winner, PlayerColorWhite)
}

func TestPromotion(t *testing.T) {
	const placement = "8/4P3/8/8/8/8/k7/4K3"

	t.Run("named in notation", func(t *testing.T) {
		g := newGame(t, WithPosition(placement, PlayerColorWhite))
		play(t, g, "e8=Q")
		testutil.AssertEqual(t, g.History(), []string{"e8=Q"})
		kind, err := g.board.Kind(NewSquare(4, 7))
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, kind, Queen)
		testutil.AssertEqual(t, g.LastMove().Promotion, Queen)
	})

	t.Run("no chooser", func(t *testing.T) {
		g := newGame(t, WithPosition(placement, PlayerColorWhite))
		before := observe(g)
		err := g.MakeMove("e8")
		testutil.AssertErrorIs(t, err, ErrIllegalMove)
		testutil.AssertContains(t, err.Error(), "select the promotion piece")
		testutil.AssertEqual(t, observe(g), before)
	})

	t.Run("chooser asked again", func(t *testing.T) {
		answers := []string{"", "king", "N"}
		var asked []Square
		chooser := PromotionFunc(func(color PlayerColor, sq Square) (string, error) {
			testutil.AssertEqual(t, color, PlayerColorWhite)
			asked = append(asked, sq)
			a := answers[0]
			answers = answers[1:]
			return a, nil
		})
		g := newGame(t, WithPosition(placement, PlayerColorWhite), WithPromotionChooser(chooser))
		play(t, g, "e8")
		testutil.AssertEqual(t, len(asked), 3)
		testutil.AssertEqual(t, asked[0], NewSquare(4, 7))
		testutil.AssertEqual(t, g.History(), []string{"e8=N"})

		// Replays use the recorded piece without asking.
		testutil.AssertNoError(t, g.LoadHistory(g.History()))
		testutil.AssertEqual(t, len(asked), 3)
	})

	t.Run("chooser gives up", func(t *testing.T) {
		chooser := PromotionFunc(func(PlayerColor, Square) (string, error) {
			return "", errors.New("player left")
		})
		g := newGame(t, WithPosition(placement, PlayerColorWhite), WithPromotionChooser(chooser))
		before := observe(g)
		err := g.MakeMove("e8")
		testutil.AssertErrorIs(t, err, ErrIllegalMove)
		testutil.AssertContains(t, err.Error(), "player left")
		testutil.AssertEqual(t, observe(g), before)
		testutil.AssertNoError(t, g.board.checkSync(g.white, g.black))
	})

	t.Run("double step onto the last rank", func(t *testing.T) {
		const short = "k7/8/3P4/K7"
		g := newGame(t, WithPosition(short, PlayerColorWhite))
		before := observe(g)
		err := g.MakeMove("d4")
		testutil.AssertErrorIs(t, err, ErrIllegalMove)
		testutil.AssertContains(t, err.Error(), "select the promotion piece")
		testutil.AssertEqual(t, observe(g), before)

		play(t, g, "d4=Q")
		kind, err := g.board.Kind(NewSquare(3, 3))
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, kind, Queen)
		testutil.AssertEqual(t, g.LastMove().Promotion, Queen)
		testutil.AssertTrue(t, g.InCheck())

		g = newGame(t, WithPosition(short, PlayerColorWhite))
		promotions := 0
		for _, m := range g.LegalMoves() {
			if m.To == NewSquare(3, 3) {
				testutil.AssertTrue(t, m.Promotion.CanPromoteTo(), "move to d4 promotes")
				promotions++
			}
		}
		testutil.AssertEqual(t, promotions, 4)
	})

	t.Run("not a promoting move", func(t *testing.T) {
		g := newGame(t)
		err := g.MakeMove("e4=Q")
		testutil.AssertErrorIs(t, err, ErrIllegalMove)
		testutil.AssertEqual(t, stageOf(t, err), StageSimulated)
	})
}

func TestCastling(t *testing.T) {
	g := newGame(t, WithPosition("r3k2r/8/8/8/8/8/8/R3K2R", PlayerColorWhite))
	play(t, g, "O-O")
	testutil.AssertEqual(t, g.board.Placement(), "r3k2r/8/8/8/8/8/8/R4RK1")
	testutil.AssertEqual(t, g.LastMove().CastleRookMove, &CastleRookMove{From: NewSquare(7, 0), To: NewSquare(5, 0)})

	play(t, g, "O-O-O")
	testutil.AssertEqual(t, g.board.Placement(), "2kr3r/8/8/8/8/8/8/R4RK1")
	testutil.AssertEqual(t, g.History(), []string{"O-O", "O-O-O"})

	king := g.black.King()
	testutil.AssertTrue(t, king.HasMoved())
	testutil.AssertTrue(t, g.board.at(NewSquare(3, 7)).HasMoved())
}

func TestCastlingRefused(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		moves     []string
		castle    string
		reason    string
	}{
		{"king moved", "r3k2r/8/8/8/8/8/8/R3K2R", []string{"Ke2", "Ke7", "Ke1", "Ke8"}, "O-O", "king has already moved"},
		{"rook moved", "r3k2r/8/8/8/8/8/8/R3K2R", []string{"Rh2", "Ra7", "Rh1", "Ra8"}, "O-O", "rook has already moved"},
		{"attacked square", "r3kr2/8/8/8/8/8/8/R3K2R", nil, "O-O", "problematic square at f1"},
		{"occupied square", "r3k2r/8/8/8/8/8/8/RN2K2R", nil, "O-O-O", "problematic square at b1"},
		{"in check", "4k3/8/8/8/1r6/8/8/R3K2R", []string{"Ra2", "Re4+"}, "O-O", "king is in check"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, WithPosition(tt.placement, PlayerColorWhite))
			play(t, g, tt.moves...)
			before := observe(g)
			err := g.MakeMove(tt.castle)
			testutil.AssertErrorIs(t, err, ErrIllegalMove)
			testutil.AssertContains(t, err.Error(), tt.reason)
			testutil.AssertEqual(t, observe(g), before)
		})
	}
}

func TestLegalMoves(t *testing.T) {
	g := newGame(t)
	testutil.AssertEqual(t, len(g.LegalMoves()), 20)
	play(t, g, "e4")
	testutil.AssertEqual(t, len(g.LegalMoves()), 20)

	g = newGame(t, WithPosition("r3k2r/8/8/8/8/8/8/R3K2R", PlayerColorWhite))
	var castles []SimpleMove
	for _, m := range g.LegalMoves() {
		if m.Castle != NoCastle {
			castles = append(castles, m)
		}
	}
	testutil.AssertEqual(t, castles, []SimpleMove{
		{From: NewSquare(4, 0), To: NewSquare(6, 0), Castle: ShortCastle},
		{From: NewSquare(4, 0), To: NewSquare(2, 0), Castle: LongCastle},
	})

	g = newGame(t, WithPosition("8/4P3/8/8/8/8/k7/4K3", PlayerColorWhite))
	promotions := 0
	for _, m := range g.LegalMoves() {
		if m.Promotion != NoPiece {
			promotions++
		}
	}
	testutil.AssertEqual(t, promotions, 4)
}

func TestSimulateRestoresState(t *testing.T) {
	g := newGame(t)
	play(t, g, "e4", "d5", "exd5", "Qxd5", "Nc3")

	player := g.inTurn
	for _, p := range player.Pieces() {
		for _, out := range g.candidates(player, p) {
			white, black := g.white.Pieces(), g.black.Pieces()
			placement := g.board.Placement()

			if _, err := g.simulate(player, out); err != nil {
				t.Fatalf("simulate %s to %s: %v", p, out.To, err)
			}
			testutil.AssertEqual(t, g.board.Placement(), placement)
			testutil.AssertNoError(t, g.board.checkSync(g.white, g.black))
			samePieces(t, g.white.pieces, white)
			samePieces(t, g.black.pieces, black)
		}
	}
}

func samePieces(t *testing.T, got, want []*Piece) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d pieces, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("piece %d is %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLoadHistory(t *testing.T) {
	moves := []string{"e4", "d5", "e5", "f5", "exf6", "Nc6", "fxg7", "Bd7", "gxh8=Q"}
	g := newGame(t)
	play(t, g, moves...)
	testutil.AssertEqual(t, g.History()[4], "exf6e.p.")
	testutil.AssertEqual(t, g.History()[8], "gxh8=Q")

	replayed := newGame(t)
	testutil.AssertNoError(t, replayed.LoadHistory(g.History()))
	testutil.AssertEqual(t, observe(replayed), observe(g))
	testutil.AssertEqual(t, replayed.LastMove(), g.LastMove())
}

func TestLoadHistoryStopsAtFirstBadMove(t *testing.T) {
	g := newGame(t)
	play(t, g, "d4")

	err := g.LoadHistory([]string{"e4", "e5", "Ke3", "Nf3"})
	var ie *ImportError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *ImportError, got %v", err)
	}
	testutil.AssertEqual(t, ie.Index, 2)
	testutil.AssertEqual(t, ie.Notation, "Ke3")
	testutil.AssertErrorIs(t, err, ErrIllegalMove)
	testutil.AssertEqual(t, g.History(), []string{"e4", "e5"})
	testutil.AssertContains(t, g.Message(), "move 3 [Ke3] could not be made")
}

func TestRestart(t *testing.T) {
	g := newGame(t, WithPosition("r3k2r/8/8/8/8/8/8/R3K2R", PlayerColorBlack))
	play(t, g, "O-O", "Kd1")
	testutil.AssertNoError(t, g.Restart())
	testutil.AssertEqual(t, observe(g), observed{
		Placement: "r3k2r/8/8/8/8/8/8/R3K2R",
		ToMove:    PlayerColorBlack,
		Turn:      1,
		Status:    StatusPlaying,
		History:   []string{},
	})
}

func TestWithDimensions(t *testing.T) {
	g := newGame(t, WithDimensions(Dimensions{Files: 10, Ranks: 6}))
	testutil.AssertEqual(t, g.board.Placement(), "rnbqkbnr2/pppppppppp/10/10/PPPPPPPPPP/RNBQKBNR2")
	testutil.AssertEqual(t, len(g.LegalMoves()), 26)
	play(t, g, "j4", "Ri6")

	_, err := NewGame(WithDimensions(Dimensions{Files: 6, Ranks: 8}))
	testutil.AssertErrorIs(t, err, ErrPosition)
	_, err = NewGame(WithDimensions(Dimensions{Files: 30, Ranks: 8}))
	testutil.AssertErrorIs(t, err, ErrBoardAccess)
}

func TestWithPosition(t *testing.T) {
	g := newGame(t, WithPosition("rnbqkbnr2/pppppppppp/10/10/PPPPPPPPPP/RNBQKBNR2", PlayerColorWhite))
	testutil.AssertEqual(t, g.Dimensions(), Dimensions{Files: 10, Ranks: 6})

	g = newGame(t, WithPosition("4k3/8/8/8/8/8/8/4RK2", PlayerColorBlack))
	testutil.AssertTrue(t, g.InCheck())

	bad := []struct {
		name      string
		placement string
		toMove    PlayerColor
	}{
		{"no kings", "8/8/8/8/8/8/8/8", PlayerColorWhite},
		{"two white kings", "4k3/8/8/8/8/8/8/3KK3", PlayerColorWhite},
		{"uneven ranks", "4k3/8/8/8/8/8/7/4K3", PlayerColorWhite},
		{"unknown letter", "4k3/8/8/8/8/8/8/4K2X", PlayerColorWhite},
		{"side not to move in check", "4k3/8/8/8/8/8/8/4RK2", PlayerColorWhite},
		{"unknown side", "4k3/8/8/8/8/8/8/4K3", PlayerColor("red")},
		{"too many ranks", "k7/8/8/8/8/8/8/8/8/K7", PlayerColorWhite},
		{"white pawn on its back rank", "4k3/8/8/8/8/8/8/3PK3", PlayerColorWhite},
		{"white pawn on the last rank", "3Pk3/8/8/8/8/8/8/4K3", PlayerColorWhite},
		{"black pawn on its back rank", "3pk3/8/8/8/8/8/8/4K3", PlayerColorWhite},
		{"black pawn on the last rank", "4k3/8/8/8/8/8/8/3pK3", PlayerColorWhite},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGame(WithPosition(tt.placement, tt.toMove))
			testutil.AssertErrorIs(t, err, ErrPosition)
		})
	}
}

func TestSnapshot(t *testing.T) {
	g := newGame(t)
	play(t, g, "e4")
	s := g.Snapshot()

	testutil.AssertEqual(t, s.Dimensions, StandardDimensions)
	testutil.AssertEqual(t, s.Squares[0][4], SquareState{Occupied: true, Color: PlayerColorWhite, Piece: King})
	testutil.AssertEqual(t, s.Squares[7][3], SquareState{Occupied: true, Color: PlayerColorBlack, Piece: Queen})
	testutil.AssertEqual(t, s.Squares[3][4], SquareState{Occupied: true, Color: PlayerColorWhite, Piece: Pawn})
	testutil.AssertEqual(t, s.Squares[1][4], SquareState{})
	testutil.AssertEqual(t, s.Placement, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR")
	testutil.AssertEqual(t, s.ToMove, PlayerColorBlack)
	testutil.AssertEqual(t, s.Turn, 1)
	testutil.AssertEqual(t, s.History, []string{"e4"})
	testutil.AssertEqual(t, s.LastMove.Notation, "e4")
	testutil.AssertFalse(t, s.Check || s.Checkmate || s.Stalemate)
}
