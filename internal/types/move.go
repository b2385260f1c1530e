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
	"fmt"
	"strings"
)

// MoveType classifies a move as normal, promotion, en passant capture
// or castling. Encoded in 2 bits of a Move.
type MoveType int8

// MoveType constants.
const (
	Normal MoveType = iota
	Promotion
	EnPassant
	Castling
)

// IsValid checks the move type for validity.
func (mt MoveType) IsValid() bool {
	return mt >= Normal && mt <= Castling
}

// String returns a one letter representation of the move type.
func (mt MoveType) String() string {
	const chars = "npec"
	if !mt.IsValid() {
		return "-"
	}
	return string(chars[mt])
}

// Move is the engine's move encoding. The low 16 bits identify the
// move, the high 16 bits carry a sort value used by the move ordering.
//
//  BITMAP 32-bit
//  |-value ------------------------|-move -------------------------|
//                                  |                     1 1 1 1 1 1  to
//                                  |         1 1 1 1 1 1              from
//                                  |     1 1                          promotion piece type - Knight
//                                  | 1 1                              move type
//  1 1 1 1 1 1 1 1 1 1 1 1 1 1 1 1 |                                  sort value
//
// MoveNone = 0 is the distinguished "no move" value.
type Move uint32

// MoveNone is the empty non valid move.
const MoveNone Move = 0

const (
	fromShift     uint = 6
	promTypeShift uint = 12
	typeShift     uint = 14
	valueShift    uint = 16

	squareMask   Move = 0x3F
	toMask            = squareMask
	fromMask          = squareMask << fromShift
	promTypeMask Move = 3 << promTypeShift
	moveTypeMask Move = 3 << typeShift
	moveMask     Move = 0xFFFF
	valueMask    Move = 0xFFFF << valueShift
)

// CreateMove returns an encoded Move. The promotion type is only
// relevant when the move type is Promotion and is stored relative to
// Knight so it fits into 2 bits.
func CreateMove(from Square, to Square, mt MoveType, promType PieceType) Move {
	if promType < Knight {
		promType = Knight
	}
	return Move(to) |
		Move(from)<<fromShift |
		Move(promType-Knight)<<promTypeShift |
		Move(mt)<<typeShift
}

// From returns the origin square of the move.
func (m Move) From() Square {
	return Square((m & fromMask) >> fromShift)
}

// To returns the target square of the move.
func (m Move) To() Square {
	return Square(m & toMask)
}

// MoveType returns the type of the move.
func (m Move) MoveType() MoveType {
	return MoveType((m & moveTypeMask) >> typeShift)
}

// PromotionType returns the piece type a pawn promotes to. Only
// meaningful when MoveType is Promotion.
func (m Move) PromotionType() PieceType {
	return PieceType((m&promTypeMask)>>promTypeShift) + Knight
}

// MoveOf strips the sort value and returns the bare 16-bit move.
func (m Move) MoveOf() Move {
	return m & moveMask
}

// ValueOf returns the sort value stored in the move.
func (m Move) ValueOf() Value {
	return Value((m&valueMask)>>valueShift) + ValueNA
}

// SetValue stores the given sort value in the high 16 bits of the
// move and returns the updated move. The value is shifted by ValueNA
// so the full value range maps onto an unsigned 16-bit field.
func (m *Move) SetValue(v Value) Move {
	if *m == MoveNone {
		return *m
	}
	*m = *m&moveMask | Move(v-ValueNA)<<valueShift
	return *m
}

// IsValid checks if the move has valid squares, promotion type and
// move type. MoveNone is not valid.
func (m Move) IsValid() bool {
	return m != MoveNone &&
		m.From().IsValid() &&
		m.To().IsValid() &&
		m.PromotionType().IsValid() &&
		m.MoveType().IsValid()
}

// StringUci returns the move in UCI notation, e.g. "e2e4" or "e7e8q".
func (m Move) StringUci() string {
	if m == MoveNone {
		return "0000"
	}
	var os strings.Builder
	os.WriteString(m.From().String())
	os.WriteString(m.To().String())
	if m.MoveType() == Promotion {
		os.WriteString(strings.ToLower(m.PromotionType().Char()))
	}
	return os.String()
}

// String returns a verbose representation of the move for logs.
func (m Move) String() string {
	if m == MoveNone {
		return "Move: { MoveNone }"
	}
	return fmt.Sprintf("Move: { %-5s type:%s prom:%s value:%d }",
		m.StringUci(), m.MoveType().String(), m.PromotionType().Char(), m.ValueOf())
}
