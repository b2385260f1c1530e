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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquare(t *testing.T) {
	assert.Equal(t, SqA1, SquareOf(FileA, Rank1))
	assert.Equal(t, SqH8, SquareOf(FileH, Rank8))
	assert.Equal(t, SqE4, SquareOf(FileE, Rank4))
	assert.Equal(t, "e4", SqE4.String())
	assert.Equal(t, FileE, SqE4.FileOf())
	assert.Equal(t, Rank4, SqE4.RankOf())
	assert.Equal(t, SqE4, SquareFromString("e4"))
	assert.Equal(t, SqNone, SquareFromString("i9"))
	assert.Equal(t, SqNone, SquareFromString("e"))
	assert.Equal(t, SqA8, SqA1.Flip())
	assert.Equal(t, Rank1, SqA8.RelativeRank(Black))
	assert.Equal(t, Rank8, SqA8.RelativeRank(White))
}

func TestPiece(t *testing.T) {
	assert.Equal(t, WhiteKnight, MakePiece(White, Knight))
	assert.Equal(t, BlackQueen, MakePiece(Black, Queen))
	assert.Equal(t, Knight, WhiteKnight.TypeOf())
	assert.Equal(t, Black, BlackQueen.ColorOf())
	assert.Equal(t, "N", WhiteKnight.Char())
	assert.Equal(t, "q", BlackQueen.Char())
	assert.Equal(t, BlackQueen, PieceFromChar('q'))
	assert.Equal(t, WhitePawn, PieceFromChar('P'))
	assert.Equal(t, PieceNone, PieceFromChar('x'))
}

func TestMoveEncoding(t *testing.T) {
	m := CreateMove(SqE2, SqE4, Normal, PtNone)
	assert.Equal(t, SqE2, m.From())
	assert.Equal(t, SqE4, m.To())
	assert.Equal(t, Normal, m.MoveType())
	assert.Equal(t, "e2e4", m.StringUci())

	prom := CreateMove(SqE7, SqE8, Promotion, Queen)
	assert.Equal(t, Queen, prom.PromotionType())
	assert.Equal(t, "e7e8q", prom.StringUci())

	castle := CreateMove(SqE1, SqG1, Castling, PtNone)
	assert.Equal(t, Castling, castle.MoveType())

	assert.Equal(t, "0000", MoveNone.StringUci())
	assert.False(t, MoveNone.IsValid())
	assert.True(t, m.IsValid())
}

func TestMoveValue(t *testing.T) {
	m := CreateMove(SqE2, SqE4, Normal, PtNone)
	assert.Equal(t, ValueNA, m.ValueOf())

	m.SetValue(Value(999))
	assert.Equal(t, Value(999), m.ValueOf())
	assert.Equal(t, SqE2, m.From())
	assert.Equal(t, SqE4, m.To())

	m.SetValue(Value(-500))
	assert.Equal(t, Value(-500), m.ValueOf())

	// the bare move is unchanged by the sort value
	m2 := CreateMove(SqE2, SqE4, Normal, PtNone)
	assert.Equal(t, m2, m.MoveOf())
}

func TestValueMate(t *testing.T) {
	assert.Equal(t, Value(-ValueCheckMate+3), MatedIn(3))
	assert.Equal(t, Value(ValueCheckMate-4), MateIn(4))
	assert.True(t, MateIn(5).IsCheckMateValue())
	assert.True(t, MatedIn(5).IsCheckMateValue())
	assert.False(t, Value(500).IsCheckMateValue())

	// mate in 1 ply = mate in 1 move for the attacker
	assert.Equal(t, 1, MateIn(1).MateDistance())
	assert.Equal(t, "mate 1", MateIn(1).String())
	// mate in 5 plies = mate in 3 moves
	assert.Equal(t, 3, MateIn(5).MateDistance())
	// being mated in 2 plies = negative distance
	assert.Equal(t, -1, MatedIn(2).MateDistance())
	assert.Equal(t, "cp 150", Value(150).String())
}

func TestBitboard(t *testing.T) {
	b := SqA1.Bb() | SqH8.Bb() | SqE4.Bb()
	assert.Equal(t, 3, b.PopCount())
	assert.Equal(t, SqA1, b.Lsb())
	assert.Equal(t, SqH8, b.Msb())
	assert.True(t, b.Has(SqE4))
	assert.False(t, b.Has(SqE5))

	first := b.PopLsb()
	assert.Equal(t, SqA1, first)
	assert.Equal(t, 2, b.PopCount())
}

func TestLeaperAttacks(t *testing.T) {
	// knight on b1 attacks a3, c3, d2
	assert.Equal(t, SqA3.Bb()|SqC3.Bb()|SqD2.Bb(), KnightAttacks(SqB1))
	// king in the corner
	assert.Equal(t, SqA2.Bb()|SqB2.Bb()|SqB1.Bb(), KingAttacks(SqA1))
	// white pawn attacks diagonally forward
	assert.Equal(t, SqD5.Bb()|SqF5.Bb(), PawnAttacks(White, SqE4))
	assert.Equal(t, SqD3.Bb()|SqF3.Bb(), PawnAttacks(Black, SqE4))
	// edge pawns attack a single square
	assert.Equal(t, SqB3.Bb(), PawnAttacks(White, SqA2))
}

func TestSlidingAttacks(t *testing.T) {
	// rook on an empty board
	assert.Equal(t, 14, RookAttacks(SqE4, BbEmpty).PopCount())

	// rook blocked by a piece on e6 - e7/e8 are not reachable,
	// e6 itself is
	occ := SqE6.Bb()
	attacks := RookAttacks(SqE4, occ)
	assert.True(t, attacks.Has(SqE6))
	assert.False(t, attacks.Has(SqE7))
	assert.False(t, attacks.Has(SqE8))
	assert.True(t, attacks.Has(SqE1))
	assert.True(t, attacks.Has(SqA4))

	// bishop in the corner
	assert.Equal(t, 7, BishopAttacks(SqA1, BbEmpty).PopCount())
	occ = SqD4.Bb()
	attacks = BishopAttacks(SqA1, occ)
	assert.True(t, attacks.Has(SqD4))
	assert.False(t, attacks.Has(SqE5))

	// queen = rook + bishop
	assert.Equal(t,
		RookAttacks(SqD4, BbEmpty)|BishopAttacks(SqD4, BbEmpty),
		QueenAttacks(SqD4, BbEmpty))
}

func TestBetween(t *testing.T) {
	assert.Equal(t, SqB2.Bb()|SqC3.Bb(), Between(SqA1, SqD4))
	assert.Equal(t, SqE2.Bb()|SqE3.Bb(), Between(SqE1, SqE4))
	assert.Equal(t, BbEmpty, Between(SqA1, SqB3))
	assert.Equal(t, BbEmpty, Between(SqA1, SqA2))
}
