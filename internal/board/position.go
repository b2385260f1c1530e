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

// Package board implements the chess position: piece placement as
// bitboards plus mailbox, incremental Zobrist hashing, move
// make/unmake with an owned undo chain, legality and attack checks,
// draw detection and static exchange evaluation.
package board

import (
	"strings"

	. "github.com/stockade-engine/stockade/internal/types"
)

// StartFen is the FEN of the standard chess starting position.
const StartFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// undoRecord stores everything needed to take back one move. The
// Position owns a slice of these - one per made move - which also
// serves as the game/search history for repetition detection.
type undoRecord struct {
	move          Move
	captured      Piece
	castling      CastlingRights
	epSquare      Square
	halfMoveClock int
	key           Key
	checkers      Bitboard
}

// Position is a chess position with its move history. It is not safe
// for concurrent use - each search worker owns its own replica.
type Position struct {
	board      [SqLength - 1]Piece
	piecesBb   [ColorLength][PtLength]Bitboard
	occupiedBb [ColorLength]Bitboard

	sideToMove    Color
	castling      CastlingRights
	epSquare      Square
	halfMoveClock int
	moveNumber    int

	key      Key
	checkers Bitboard

	history []undoRecord
}

// castlingRightsMask[sq] holds the rights which are lost when a move
// touches sq (king or rook moved or rook captured).
var castlingRightsMask [SqLength - 1]CastlingRights

func init() {
	castlingRightsMask[SqE1] = CastlingWhiteKing | CastlingWhiteQueen
	castlingRightsMask[SqA1] = CastlingWhiteQueen
	castlingRightsMask[SqH1] = CastlingWhiteKing
	castlingRightsMask[SqE8] = CastlingBlackKing | CastlingBlackQueen
	castlingRightsMask[SqA8] = CastlingBlackQueen
	castlingRightsMask[SqH8] = CastlingBlackKing
}

// NewPosition creates a position with the standard starting setup.
func NewPosition() *Position {
	p, _ := NewPositionFen(StartFen)
	return p
}

// Copy returns a deep copy of the position with its own history.
func (p *Position) Copy() *Position {
	c := *p
	c.history = make([]undoRecord, len(p.history), cap(p.history))
	copy(c.history, p.history)
	return &c
}

// ///////////////////////////////////////////////////////////
// Accessors
// ///////////////////////////////////////////////////////////

// NextPlayer returns the side to move.
func (p *Position) NextPlayer() Color {
	return p.sideToMove
}

// ZobristKey returns the full position key.
func (p *Position) ZobristKey() Key {
	return p.key
}

// GetPiece returns the piece on the given square or PieceNone.
func (p *Position) GetPiece(sq Square) Piece {
	return p.board[sq]
}

// PiecesBb returns the bitboard of the given piece type of the color.
func (p *Position) PiecesBb(c Color, pt PieceType) Bitboard {
	return p.piecesBb[c][pt]
}

// OccupiedBb returns the occupancy of the given color.
func (p *Position) OccupiedBb(c Color) Bitboard {
	return p.occupiedBb[c]
}

// OccupiedAll returns the occupancy of both colors.
func (p *Position) OccupiedAll() Bitboard {
	return p.occupiedBb[White] | p.occupiedBb[Black]
}

// KingSquare returns the king square of the color.
func (p *Position) KingSquare(c Color) Square {
	return p.piecesBb[c][King].Lsb()
}

// CastlingRights returns the current castling rights.
func (p *Position) CastlingRights() CastlingRights {
	return p.castling
}

// EpSquare returns the en passant square or SqNone.
func (p *Position) EpSquare() Square {
	return p.epSquare
}

// HalfMoveClock returns the number of half moves since the last pawn
// move or capture.
func (p *Position) HalfMoveClock() int {
	return p.halfMoveClock
}

// Checkers returns the bitboard of opponent pieces giving check to
// the side to move.
func (p *Position) Checkers() Bitboard {
	return p.checkers
}

// HasCheck reports whether the side to move is in check.
func (p *Position) HasCheck() bool {
	return p.checkers != 0
}

// LastMove returns the previously made move or MoveNone.
func (p *Position) LastMove() Move {
	if len(p.history) == 0 {
		return MoveNone
	}
	return p.history[len(p.history)-1].move
}

// LastCapturedPiece returns the piece captured by the last move or
// PieceNone.
func (p *Position) LastCapturedPiece() Piece {
	if len(p.history) == 0 {
		return PieceNone
	}
	return p.history[len(p.history)-1].captured
}

// Material returns the summed material value of the color's pieces
// without the king.
func (p *Position) Material(c Color) Value {
	v := ValueZero
	for pt := Pawn; pt <= Queen; pt++ {
		v += Value(p.piecesBb[c][pt].PopCount()) * pt.ValueOf()
	}
	return v
}

// MaterialNonPawn returns the material value of the color's pieces
// without pawns and king. Used e.g. as a zugzwang guard for null
// move pruning.
func (p *Position) MaterialNonPawn(c Color) Value {
	return p.Material(c) - Value(p.piecesBb[c][Pawn].PopCount())*Pawn.ValueOf()
}

// IsCapturingMove reports whether the move captures a piece.
func (p *Position) IsCapturingMove(m Move) bool {
	return p.board[m.To()] != PieceNone || m.MoveType() == EnPassant
}

// ///////////////////////////////////////////////////////////
// Attacks
// ///////////////////////////////////////////////////////////

// AttackersTo returns all pieces of both colors attacking the given
// square under the given occupancy.
func (p *Position) AttackersTo(sq Square, occupied Bitboard) Bitboard {
	return (PawnAttacks(White, sq) & p.piecesBb[Black][Pawn]) |
		(PawnAttacks(Black, sq) & p.piecesBb[White][Pawn]) |
		(KnightAttacks(sq) & (p.piecesBb[White][Knight] | p.piecesBb[Black][Knight])) |
		(KingAttacks(sq) & (p.piecesBb[White][King] | p.piecesBb[Black][King])) |
		(RookAttacks(sq, occupied) & (p.piecesBb[White][Rook] | p.piecesBb[Black][Rook] |
			p.piecesBb[White][Queen] | p.piecesBb[Black][Queen])) |
		(BishopAttacks(sq, occupied) & (p.piecesBb[White][Bishop] | p.piecesBb[Black][Bishop] |
			p.piecesBb[White][Queen] | p.piecesBb[Black][Queen]))
}

// IsAttacked reports whether the square is attacked by any piece of
// the given color.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	return p.AttackersTo(sq, p.OccupiedAll())&p.occupiedBb[by] != 0
}

func (p *Position) computeCheckers() Bitboard {
	us := p.sideToMove
	return p.AttackersTo(p.KingSquare(us), p.OccupiedAll()) & p.occupiedBb[us.Flip()]
}

// ///////////////////////////////////////////////////////////
// Make / Unmake
// ///////////////////////////////////////////////////////////

func (p *Position) putPiece(pc Piece, sq Square) {
	p.board[sq] = pc
	p.piecesBb[pc.ColorOf()][pc.TypeOf()] |= sq.Bb()
	p.occupiedBb[pc.ColorOf()] |= sq.Bb()
	p.key ^= zobristPiece[pc][sq]
}

func (p *Position) removePiece(sq Square) Piece {
	pc := p.board[sq]
	p.board[sq] = PieceNone
	p.piecesBb[pc.ColorOf()][pc.TypeOf()] &^= sq.Bb()
	p.occupiedBb[pc.ColorOf()] &^= sq.Bb()
	p.key ^= zobristPiece[pc][sq]
	return pc
}

func (p *Position) movePiece(from, to Square) {
	pc := p.removePiece(from)
	p.putPiece(pc, to)
}

func (p *Position) setEpSquare(sq Square) {
	if p.epSquare != SqNone {
		p.key ^= zobristEpFile[p.epSquare.FileOf()]
	}
	p.epSquare = sq
	if p.epSquare != SqNone {
		p.key ^= zobristEpFile[p.epSquare.FileOf()]
	}
}

func (p *Position) setCastlingRights(cr CastlingRights) {
	p.key ^= zobristCastling[p.castling]
	p.castling = cr
	p.key ^= zobristCastling[p.castling]
}

// DoMove makes the given pseudo-legal move on the position. The move
// is not checked for legality - use WasLegalMove afterwards and
// UndoMove to take it back if it left the own king in check.
func (p *Position) DoMove(m Move) {
	us := p.sideToMove
	them := us.Flip()
	from := m.From()
	to := m.To()

	p.history = append(p.history, undoRecord{
		move:          m.MoveOf(),
		captured:      PieceNone,
		castling:      p.castling,
		epSquare:      p.epSquare,
		halfMoveClock: p.halfMoveClock,
		key:           p.key,
		checkers:      p.checkers,
	})
	undo := &p.history[len(p.history)-1]

	p.halfMoveClock++

	switch m.MoveType() {
	case Normal, Promotion:
		if p.board[to] != PieceNone {
			undo.captured = p.removePiece(to)
			p.halfMoveClock = 0
		}
		p.movePiece(from, to)
		if p.board[to].TypeOf() == Pawn {
			p.halfMoveClock = 0
		}
		if m.MoveType() == Promotion {
			p.removePiece(to)
			p.putPiece(MakePiece(us, m.PromotionType()), to)
		}
	case EnPassant:
		capSq := to - Square(us.MoveDirection())
		undo.captured = p.removePiece(capSq)
		p.movePiece(from, to)
		p.halfMoveClock = 0
	case Castling:
		p.movePiece(from, to)
		rookFrom, rookTo := rookCastlingSquares(to)
		p.movePiece(rookFrom, rookTo)
	}

	// new en passant square only after a double pawn push
	if p.board[to].TypeOf() == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
		p.setEpSquare(from + Square(us.MoveDirection()))
	} else {
		p.setEpSquare(SqNone)
	}

	p.setCastlingRights(p.castling.Remove(castlingRightsMask[from] | castlingRightsMask[to]))

	if us == Black {
		p.moveNumber++
	}
	p.sideToMove = them
	p.key ^= zobristSide

	p.checkers = p.computeCheckers()
}

// rookCastlingSquares maps the king target square of a castling move
// to the rook's from and to squares.
func rookCastlingSquares(kingTo Square) (Square, Square) {
	switch kingTo {
	case SqG1:
		return SqH1, SqF1
	case SqC1:
		return SqA1, SqD1
	case SqG8:
		return SqH8, SqF8
	default: // SqC8
		return SqA8, SqD8
	}
}

// UndoMove takes back the last made move. Calling UndoMove without a
// prior DoMove is a programming error and panics.
func (p *Position) UndoMove() {
	if len(p.history) == 0 {
		panic("UndoMove called on position without move history")
	}
	undo := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]

	m := undo.move
	them := p.sideToMove
	us := them.Flip()
	from := m.From()
	to := m.To()

	switch m.MoveType() {
	case Normal:
		p.movePiece(to, from)
		if undo.captured != PieceNone {
			p.putPiece(undo.captured, to)
		}
	case Promotion:
		p.removePiece(to)
		p.putPiece(MakePiece(us, Pawn), from)
		if undo.captured != PieceNone {
			p.putPiece(undo.captured, to)
		}
	case EnPassant:
		p.movePiece(to, from)
		capSq := to - Square(us.MoveDirection())
		p.putPiece(undo.captured, capSq)
	case Castling:
		rookFrom, rookTo := rookCastlingSquares(to)
		p.movePiece(rookTo, rookFrom)
		p.movePiece(to, from)
	}

	if us == Black {
		p.moveNumber--
	}
	p.sideToMove = us
	p.castling = undo.castling
	p.epSquare = undo.epSquare
	p.halfMoveClock = undo.halfMoveClock
	p.key = undo.key
	p.checkers = undo.checkers
}

// WasLegalMove reports whether the previously made move did not
// leave the moving side's king in check.
func (p *Position) WasLegalMove() bool {
	mover := p.sideToMove.Flip()
	return !p.IsAttacked(p.KingSquare(mover), p.sideToMove)
}

// DoNullMove makes a null move: only the side to move changes. Must
// not be called when in check.
func (p *Position) DoNullMove() {
	p.history = append(p.history, undoRecord{
		move:          MoveNone,
		castling:      p.castling,
		epSquare:      p.epSquare,
		halfMoveClock: p.halfMoveClock,
		key:           p.key,
		checkers:      p.checkers,
	})
	p.setEpSquare(SqNone)
	p.sideToMove = p.sideToMove.Flip()
	p.key ^= zobristSide
	p.checkers = p.computeCheckers()
}

// UndoNullMove takes back a null move.
func (p *Position) UndoNullMove() {
	undo := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	p.sideToMove = p.sideToMove.Flip()
	p.epSquare = undo.epSquare
	p.key = undo.key
	p.checkers = undo.checkers
}

// ///////////////////////////////////////////////////////////
// Draw detection
// ///////////////////////////////////////////////////////////

// CheckRepetitions reports whether the current position occurred at
// least n times before in the move history. Only positions within
// the half move clock window can repeat.
func (p *Position) CheckRepetitions(n int) bool {
	count := 0
	end := len(p.history) - p.halfMoveClock
	if end < 0 {
		end = 0
	}
	// the same position can only recur with the same side to move,
	// two plies apart
	for i := len(p.history) - 2; i >= end; i -= 2 {
		if p.history[i].key == p.key {
			count++
			if count >= n {
				return true
			}
		}
	}
	return false
}

// HasInsufficientMaterial reports whether neither side can possibly
// deliver checkmate (bare kings, king and minor piece, or kings with
// same colored bishops only).
func (p *Position) HasInsufficientMaterial() bool {
	if p.piecesBb[White][Pawn]|p.piecesBb[Black][Pawn] != 0 ||
		p.piecesBb[White][Rook]|p.piecesBb[Black][Rook] != 0 ||
		p.piecesBb[White][Queen]|p.piecesBb[Black][Queen] != 0 {
		return false
	}
	knights := p.piecesBb[White][Knight] | p.piecesBb[Black][Knight]
	bishops := p.piecesBb[White][Bishop] | p.piecesBb[Black][Bishop]
	minors := knights.PopCount() + bishops.PopCount()
	if minors <= 1 {
		return true
	}
	// only bishops and all on the same square color
	if knights == 0 {
		const darkSquares = Bitboard(0xAA55AA55AA55AA55)
		if bishops&darkSquares == bishops || bishops&^darkSquares == bishops {
			return true
		}
	}
	return false
}

// ///////////////////////////////////////////////////////////
// String
// ///////////////////////////////////////////////////////////

// StringBoard returns a pretty printed board for the "d" command.
func (p *Position) StringBoard() string {
	const grid = "+---+---+---+---+---+---+---+---+"
	var sb strings.Builder
	sb.WriteString(grid)
	sb.WriteString("\n")
	for r := Rank8; r >= Rank1; r-- {
		for f := FileA; f <= FileH; f++ {
			sb.WriteString("| ")
			sb.WriteString(p.board[SquareOf(f, r)].Char())
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
		sb.WriteString(grid)
		sb.WriteString("\n")
	}
	return sb.String()
}

// String returns the FEN of the position.
func (p *Position) String() string {
	return p.StringFen()
}
