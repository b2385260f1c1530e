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

// Package types defines the basic data types of the chess domain used
// throughout the engine: squares, colors, pieces, moves, values and
// bitboards. All types are small value types designed to be cheap to
// copy and to pack into the search's fixed-size data structures.
package types

// MaxPlies is the maximum search depth in plies the engine supports.
// All per-ply arrays (search stack frames, pv buffers, killer slots)
// are bounded by this.
const MaxPlies = 128

// MaxMoves is the maximum number of moves in a chess position which
// is well below the theoretical limit of ~280.
const MaxMoves = 256

// KB and MB are memory size helpers used by the transposition table.
const (
	KB uint64 = 1024
	MB        = KB * KB
)

// Key is a 64-bit Zobrist key of a chess position. Two positions which
// are identical in piece placement, side to move, castling rights and
// en passant square share the same key independent of move order.
type Key uint64

// Color represents the two sides in chess.
type Color int8

// Color constants.
const (
	White Color = iota
	Black
	ColorLength int = iota
)

// Flip returns the opposite color.
func (c Color) Flip() Color {
	return c ^ 1
}

// IsValid checks whether the color is White or Black.
func (c Color) IsValid() bool {
	return c == White || c == Black
}

// MoveDirection returns the pawn move direction of the color as a
// square delta (up for White, down for Black).
func (c Color) MoveDirection() int {
	if c == White {
		return 8
	}
	return -8
}

// String returns "w" or "b".
func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// CastlingRights is a bit field of the four castling rights of a
// position.
type CastlingRights uint8

// Castling rights constants.
const (
	CastlingNone        CastlingRights = 0
	CastlingWhiteKing   CastlingRights = 1
	CastlingWhiteQueen  CastlingRights = 2
	CastlingBlackKing   CastlingRights = 4
	CastlingBlackQueen  CastlingRights = 8
	CastlingAny         CastlingRights = 15
	CastlingRightsCount                = 16
)

// Has checks if the given right is contained in the bit field.
func (cr CastlingRights) Has(r CastlingRights) bool {
	return cr&r != 0
}

// Remove clears the given rights and returns the result.
func (cr CastlingRights) Remove(r CastlingRights) CastlingRights {
	return cr &^ r
}

// String returns the FEN representation of the castling rights.
func (cr CastlingRights) String() string {
	if cr == CastlingNone {
		return "-"
	}
	s := ""
	if cr.Has(CastlingWhiteKing) {
		s += "K"
	}
	if cr.Has(CastlingWhiteQueen) {
		s += "Q"
	}
	if cr.Has(CastlingBlackKing) {
		s += "k"
	}
	if cr.Has(CastlingBlackQueen) {
		s += "q"
	}
	return s
}
