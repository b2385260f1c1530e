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

import "strings"

// PieceType is a chess piece type without its color.
type PieceType int8

// PieceType constants.
const (
	PtNone PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	PtLength int = iota
)

// pieceTypeValues is the classical material value per piece type used
// for move ordering and exchange evaluation.
var pieceTypeValues = [PtLength]Value{0, 100, 320, 330, 500, 900, 10000}

// ValueOf returns the material value of the piece type.
func (pt PieceType) ValueOf() Value {
	return pieceTypeValues[pt]
}

// IsValid checks the piece type for validity. PtNone is not valid.
func (pt PieceType) IsValid() bool {
	return pt >= Pawn && pt <= King
}

// Char returns the upper case letter of the piece type as used in FEN.
func (pt PieceType) Char() string {
	const chars = " PNBRQK"
	if !pt.IsValid() {
		return " "
	}
	return string(chars[pt])
}

// PieceTypeFromChar maps a FEN letter (case insensitive) to a piece
// type. Returns PtNone for unknown letters.
func PieceTypeFromChar(c byte) PieceType {
	switch c {
	case 'p', 'P':
		return Pawn
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	case 'k', 'K':
		return King
	}
	return PtNone
}

// Piece is a colored chess piece. Encoding: piece type in the low
// 3 bits, color in bit 3. PieceNone = 0.
type Piece int8

// Piece constants.
const (
	PieceNone   Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = Piece(Pawn) | 8
	BlackKnight Piece = Piece(Knight) | 8
	BlackBishop Piece = Piece(Bishop) | 8
	BlackRook   Piece = Piece(Rook) | 8
	BlackQueen  Piece = Piece(Queen) | 8
	BlackKing   Piece = Piece(King) | 8
	PieceLength int   = 16
)

// MakePiece creates a piece from a color and a piece type.
func MakePiece(c Color, pt PieceType) Piece {
	return Piece(int8(pt) | int8(c)<<3)
}

// TypeOf returns the piece type of the piece.
func (p Piece) TypeOf() PieceType {
	return PieceType(p & 7)
}

// ColorOf returns the color of the piece. Only valid for real pieces.
func (p Piece) ColorOf() Color {
	return Color(p >> 3)
}

// ValueOf returns the material value of the piece's type.
func (p Piece) ValueOf() Value {
	return p.TypeOf().ValueOf()
}

// IsValid checks if this is a real piece.
func (p Piece) IsValid() bool {
	return p.TypeOf().IsValid()
}

// Char returns the FEN letter of the piece - upper case for White,
// lower case for Black, a space for no piece.
func (p Piece) Char() string {
	if p == PieceNone {
		return " "
	}
	c := p.TypeOf().Char()
	if p.ColorOf() == Black {
		return strings.ToLower(c)
	}
	return c
}

// PieceFromChar maps a FEN letter to a piece. Returns PieceNone for
// unknown letters.
func PieceFromChar(c byte) Piece {
	pt := PieceTypeFromChar(c)
	if pt == PtNone {
		return PieceNone
	}
	if c >= 'a' {
		return MakePiece(Black, pt)
	}
	return MakePiece(White, pt)
}
