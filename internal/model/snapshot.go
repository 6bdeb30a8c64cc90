package model

// SquareState is one cell of a snapshot grid.
type SquareState struct {
	Occupied bool        `json:"occupied"`
	Color    PlayerColor `json:"color,omitempty"`
	Piece    PieceType   `json:"piece"`
}

// Snapshot is a read-only copy of the observable game state, shaped for
// rendering and for the wire.
type Snapshot struct {
	Dimensions Dimensions      `json:"dimensions"`
	Squares    [][]SquareState `json:"squares"` // indexed [rank][file]
	Placement  string          `json:"placement"`
	ToMove     PlayerColor     `json:"toMove"`
	Turn       int             `json:"turn"`
	Check      bool            `json:"check"`
	Checkmate  bool            `json:"checkmate"`
	Stalemate  bool            `json:"stalemate"`
	Winner     PlayerColor     `json:"winner,omitempty"`
	History    []string        `json:"history"`
	LastMove   *Ply            `json:"lastMove"`
	Message    string          `json:"message"`
}

func (g *Game) Snapshot() Snapshot {
	squares := make([][]SquareState, g.dims.Ranks)
	for rank := range squares {
		squares[rank] = make([]SquareState, g.dims.Files)
		for file := range squares[rank] {
			if p := g.board.at(NewSquare(file, rank)); p != nil {
				squares[rank][file] = SquareState{Occupied: true, Color: p.owner.color, Piece: p.kind}
			}
		}
	}
	winner, _ := g.Winner()
	return Snapshot{
		Dimensions: g.dims,
		Squares:    squares,
		Placement:  g.board.Placement(),
		ToMove:     g.inTurn.color,
		Turn:       g.turn,
		Check:      g.check,
		Checkmate:  g.IsCheckmate(),
		Stalemate:  g.IsStalemate(),
		Winner:     winner,
		History:    g.History(),
		LastMove:   g.LastMove(),
		Message:    g.lastMsg,
	}
}

// Board exposes the board for read access. Mutating it directly bypasses
// every rule check.
func (g *Game) Board() *Board {
	return g.board
}
