//
// Stockade - a parallel UCI chess engine in Go
//
// MIT License
//
// Copyright (c) 2020-2022 The Stockade authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package board

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/stockade-engine/stockade/internal/types"
)

// NewPositionFen creates a position from a FEN string. Returns an
// error when the FEN is not valid. Half move clock and move number
// are optional and default to 0 and 1.
func NewPositionFen(fen string) (*Position, error) {
	p := &Position{
		epSquare: SqNone,
		history:  make([]undoRecord, 0, MaxPlies),
	}

	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen must have at least 4 fields: %q", fen)
	}

	// piece placement
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen board must have 8 ranks: %q", fields[0])
	}
	for i, rankStr := range ranks {
		r := Rank7 + 1 - Rank(i)
		f := FileA
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				f += File(c - '0')
				continue
			}
			pc := PieceFromChar(c)
			if pc == PieceNone || f > FileH {
				return nil, fmt.Errorf("invalid fen board rank: %q", rankStr)
			}
			p.putPiece(pc, SquareOf(f, r))
			f++
		}
		if f != FileH+1 {
			return nil, fmt.Errorf("invalid fen board rank: %q", rankStr)
		}
	}
	if p.piecesBb[White][King].PopCount() != 1 || p.piecesBb[Black][King].PopCount() != 1 {
		return nil, fmt.Errorf("fen must have exactly one king per side: %q", fen)
	}

	// side to move
	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
		p.key ^= zobristSide
	default:
		return nil, fmt.Errorf("invalid fen side to move: %q", fields[1])
	}

	// castling rights
	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.castling |= CastlingWhiteKing
			case 'Q':
				p.castling |= CastlingWhiteQueen
			case 'k':
				p.castling |= CastlingBlackKing
			case 'q':
				p.castling |= CastlingBlackQueen
			default:
				return nil, fmt.Errorf("invalid fen castling rights: %q", fields[2])
			}
		}
	}
	p.key ^= zobristCastling[p.castling]

	// en passant square
	if fields[3] != "-" {
		sq := SquareFromString(fields[3])
		if sq == SqNone {
			return nil, fmt.Errorf("invalid fen en passant square: %q", fields[3])
		}
		p.epSquare = sq
		p.key ^= zobristEpFile[sq.FileOf()]
	}

	// half move clock and move number
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid fen half move clock: %q", fields[4])
		}
		p.halfMoveClock = n
	}
	p.moveNumber = 1
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid fen move number: %q", fields[5])
		}
		p.moveNumber = n
	}

	p.checkers = p.computeCheckers()
	return p, nil
}

// StringFen returns the FEN representation of the position.
func (p *Position) StringFen() string {
	var sb strings.Builder
	for r := Rank8; r >= Rank1; r-- {
		empty := 0
		for f := FileA; f <= FileH; f++ {
			pc := p.board[SquareOf(f, r)]
			if pc == PieceNone {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(pc.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > Rank1 {
			sb.WriteString("/")
		}
	}
	sb.WriteString(" ")
	sb.WriteString(p.sideToMove.String())
	sb.WriteString(" ")
	sb.WriteString(p.castling.String())
	sb.WriteString(" ")
	sb.WriteString(p.epSquare.String())
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.halfMoveClock))
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.moveNumber))
	return sb.String()
}
