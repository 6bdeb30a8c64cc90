package model

import "fmt"

// Unknown marks a file or rank that the notation did not pin down.
const Unknown = -1

const (
	maxFiles = 26
	maxRanks = 9
)

type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func NewSquare(file, rank int) Square {
	return Square{File: file, Rank: rank}
}

func (s Square) SameFile(o Square) bool {
	return s.File == o.File
}

func (s Square) SameRank(o Square) bool {
	return s.Rank == o.Rank
}

func (s Square) offset(df, dr int) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

// matches reports whether s agrees with a partially known hint.
func (s Square) matches(hint Square) bool {
	if hint.File != Unknown && hint.File != s.File {
		return false
	}
	if hint.Rank != Unknown && hint.Rank != s.Rank {
		return false
	}
	return true
}

func (s Square) String() string {
	if s.File >= 0 && s.File < maxFiles && s.Rank >= 0 && s.Rank < maxRanks {
		return fmt.Sprintf("%c%d", 'a'+s.File, s.Rank+1)
	}
	return fmt.Sprintf("(%d, %d)", s.File, s.Rank)
}

type Dimensions struct {
	Files int `json:"files"`
	Ranks int `json:"ranks"`
}

var StandardDimensions = Dimensions{Files: 8, Ranks: 8}

func NewDimensions(files, ranks int) (Dimensions, error) {
	d := Dimensions{Files: files, Ranks: ranks}
	if err := d.validate(); err != nil {
		return Dimensions{}, err
	}
	return d, nil
}

func (d Dimensions) validate() error {
	if d.Files < 1 || d.Files > maxFiles || d.Ranks < 1 || d.Ranks > maxRanks {
		return fmt.Errorf("%w: unsupported board size %dx%d", ErrBoardAccess, d.Files, d.Ranks)
	}
	return nil
}

func (d Dimensions) Contains(s Square) bool {
	return s.File >= 0 && s.File < d.Files && s.Rank >= 0 && s.Rank < d.Ranks
}

func (d Dimensions) lastRank() int {
	return d.Ranks - 1
}

func (d Dimensions) lastFile() int {
	return d.Files - 1
}
