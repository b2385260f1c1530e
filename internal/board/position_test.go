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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/stockade-engine/stockade/internal/types"
)

func TestStartPosition(t *testing.T) {
	p := NewPosition()
	assert.Equal(t, StartFen, p.StringFen())
	assert.Equal(t, White, p.NextPlayer())
	assert.Equal(t, CastlingAny, p.CastlingRights())
	assert.Equal(t, SqNone, p.EpSquare())
	assert.Equal(t, WhiteRook, p.GetPiece(SqA1))
	assert.Equal(t, BlackKing, p.GetPiece(SqE8))
	assert.Equal(t, SqE1, p.KingSquare(White))
	assert.False(t, p.HasCheck())
}

func TestFenRoundTrip(t *testing.T) {
	fens := []string{
		StartFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/4K3/8/8/8/8/R7 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
	}
	for _, fen := range fens {
		p, err := NewPositionFen(fen)
		require.NoError(t, err)
		assert.Equal(t, fen, p.StringFen())
	}
}

func TestFenErrors(t *testing.T) {
	invalid := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",         // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", // bad side
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XYZ - 0 1",  // bad castling
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1", // bad ep
		"9/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",        // bad rank
		"8/8/8/8/8/8/8/8 w - - 0 1",                                // no kings
	}
	for _, fen := range invalid {
		_, err := NewPositionFen(fen)
		assert.Error(t, err, "fen should be rejected: %q", fen)
	}
}

// every make must be matched by an unmake which restores the exact
// previous Zobrist key and board state
func TestDoUndoRestoresKey(t *testing.T) {
	p := NewPosition()

	type step struct {
		from, to Square
		mt       MoveType
		prom     PieceType
	}
	// a sequence covering quiet moves, double pushes, a capture,
	// castling preparation and castling
	steps := []step{
		{SqE2, SqE4, Normal, PtNone},
		{SqE7, SqE5, Normal, PtNone},
		{SqG1, SqF3, Normal, PtNone},
		{SqB8, SqC6, Normal, PtNone},
		{SqF1, SqC4, Normal, PtNone},
		{SqG8, SqF6, Normal, PtNone},
		{SqE1, SqG1, Castling, PtNone},
		{SqF6, SqE4, Normal, PtNone}, // knight takes pawn
	}

	var keys []Key
	var fens []string
	for _, s := range steps {
		keys = append(keys, p.ZobristKey())
		fens = append(fens, p.StringFen())
		p.DoMove(CreateMove(s.from, s.to, s.mt, s.prom))
		require.True(t, p.WasLegalMove())
	}
	for i := len(steps) - 1; i >= 0; i-- {
		p.UndoMove()
		assert.Equal(t, keys[i], p.ZobristKey())
		assert.Equal(t, fens[i], p.StringFen())
	}
	assert.Equal(t, StartFen, p.StringFen())
}

func TestDoUndoEnPassant(t *testing.T) {
	p, err := NewPositionFen("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	require.NoError(t, err)
	keyBefore := p.ZobristKey()

	m := CreateMove(SqD4, SqE3, EnPassant, PtNone)
	p.DoMove(m)
	require.True(t, p.WasLegalMove())
	assert.Equal(t, PieceNone, p.GetPiece(SqE4), "captured pawn must be removed")
	assert.Equal(t, BlackPawn, p.GetPiece(SqE3))

	p.UndoMove()
	assert.Equal(t, keyBefore, p.ZobristKey())
	assert.Equal(t, WhitePawn, p.GetPiece(SqE4))
}

func TestDoUndoPromotion(t *testing.T) {
	p, err := NewPositionFen("8/P5k1/8/8/8/8/6K1/8 w - - 0 1")
	require.NoError(t, err)
	keyBefore := p.ZobristKey()

	m := CreateMove(SqA7, SqA8, Promotion, Queen)
	p.DoMove(m)
	require.True(t, p.WasLegalMove())
	assert.Equal(t, WhiteQueen, p.GetPiece(SqA8))
	assert.Equal(t, PieceNone, p.GetPiece(SqA7))

	p.UndoMove()
	assert.Equal(t, keyBefore, p.ZobristKey())
	assert.Equal(t, WhitePawn, p.GetPiece(SqA7))
}

func TestNullMove(t *testing.T) {
	p := NewPosition()
	key := p.ZobristKey()
	p.DoNullMove()
	assert.Equal(t, Black, p.NextPlayer())
	assert.NotEqual(t, key, p.ZobristKey())
	p.UndoNullMove()
	assert.Equal(t, White, p.NextPlayer())
	assert.Equal(t, key, p.ZobristKey())
}

// positions reached by different move orders must share one key
func TestTranspositionKeys(t *testing.T) {
	p1 := NewPosition()
	p1.DoMove(CreateMove(SqG1, SqF3, Normal, PtNone))
	p1.DoMove(CreateMove(SqG8, SqF6, Normal, PtNone))
	p1.DoMove(CreateMove(SqB1, SqC3, Normal, PtNone))
	p1.DoMove(CreateMove(SqB8, SqC6, Normal, PtNone))

	p2 := NewPosition()
	p2.DoMove(CreateMove(SqB1, SqC3, Normal, PtNone))
	p2.DoMove(CreateMove(SqB8, SqC6, Normal, PtNone))
	p2.DoMove(CreateMove(SqG1, SqF3, Normal, PtNone))
	p2.DoMove(CreateMove(SqG8, SqF6, Normal, PtNone))

	assert.Equal(t, p1.ZobristKey(), p2.ZobristKey())
}

func TestIllegalMoveDetection(t *testing.T) {
	// the white rook on e2 is pinned against the king by the rook
	// on e8 - leaving the file exposes the king
	p, err := NewPositionFen("4r1k1/8/8/8/8/8/4R3/4K3 w - - 0 1")
	require.NoError(t, err)
	p.DoMove(CreateMove(SqE2, SqD2, Normal, PtNone))
	assert.False(t, p.WasLegalMove())
	p.UndoMove()
	// moving along the pin is fine
	p.DoMove(CreateMove(SqE2, SqE4, Normal, PtNone))
	assert.True(t, p.WasLegalMove())
}

func TestCheckDetection(t *testing.T) {
	p, err := NewPositionFen("4k3/8/4K3/8/8/8/8/R7 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, p.HasCheck())
	p.DoMove(CreateMove(SqA1, SqA8, Normal, PtNone))
	assert.True(t, p.HasCheck(), "black must be in check after Ra8")
}

func TestRepetition(t *testing.T) {
	p := NewPosition()
	// shuffle the knights back and forth
	moves := []Move{
		CreateMove(SqG1, SqF3, Normal, PtNone),
		CreateMove(SqG8, SqF6, Normal, PtNone),
		CreateMove(SqF3, SqG1, Normal, PtNone),
		CreateMove(SqF6, SqG8, Normal, PtNone),
	}
	assert.False(t, p.CheckRepetitions(1))
	for _, m := range moves {
		p.DoMove(m)
	}
	// start position reached a second time
	assert.True(t, p.CheckRepetitions(1))
	assert.False(t, p.CheckRepetitions(2))
	for _, m := range moves {
		p.DoMove(m)
	}
	// and a third time
	assert.True(t, p.CheckRepetitions(2))
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/4K3/8/8/8/8/8 w - - 0 1", true},           // K vs K
		{"4k3/8/4K3/8/8/8/8/6N1 w - - 0 1", true},         // K+N vs K
		{"4k3/8/4K3/8/8/8/8/6B1 w - - 0 1", true},         // K+B vs K
		{"4k3/8/4K3/8/8/8/8/R7 w - - 0 1", false},         // rook
		{"4k3/7p/4K3/8/8/8/8/8 w - - 0 1", false},         // pawn
		{"4k1b1/8/4K3/8/8/8/8/6B1 w - - 0 1", false},      // opposite colored bishops
		{"4k3/6b1/4K3/8/8/8/8/6B1 w - - 0 1", true},       // same colored bishops
	}
	for _, c := range cases {
		p, err := NewPositionFen(c.fen)
		require.NoError(t, err)
		assert.Equal(t, c.want, p.HasInsufficientMaterial(), c.fen)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	p := NewPosition()
	c := p.Copy()
	c.DoMove(CreateMove(SqE2, SqE4, Normal, PtNone))
	assert.NotEqual(t, p.ZobristKey(), c.ZobristKey())
	assert.Equal(t, StartFen, p.StringFen())
	assert.Equal(t, MoveNone, p.LastMove())
	assert.NotEqual(t, MoveNone, c.LastMove())
}

func TestMaterial(t *testing.T) {
	p := NewPosition()
	// 8 pawns, 2 knights, 2 bishops, 2 rooks, 1 queen
	want := Value(8*100 + 2*320 + 2*330 + 2*500 + 900)
	assert.Equal(t, want, p.Material(White))
	assert.Equal(t, want, p.Material(Black))
	assert.Equal(t, want-800, p.MaterialNonPawn(White))
}
