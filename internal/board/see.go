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
	. "github.com/stockade-engine/stockade/internal/types"
)

// See computes a static exchange evaluation of the given capturing
// move: the net material outcome of the capture sequence on the
// target square assuming both sides capture with their least
// valuable attacker first. A positive value means the capture wins
// material.
func (p *Position) See(m Move) Value {
	to := m.To()
	from := m.From()

	var gain [32]Value
	d := 0

	occupied := p.OccupiedAll()
	captured := p.board[to]
	if m.MoveType() == EnPassant {
		capSq := to - Square(p.sideToMove.MoveDirection())
		captured = p.board[capSq]
		occupied &^= capSq.Bb()
	}
	gain[0] = captured.ValueOf()

	mover := p.board[from].TypeOf()
	occupied &^= from.Bb()
	side := p.sideToMove.Flip()

	attackers := p.AttackersTo(to, occupied) & occupied

	for {
		d++
		gain[d] = mover.ValueOf() - gain[d-1]

		// prune branches which cannot change the sign anymore
		if gain[d] < 0 && -gain[d-1] < 0 {
			break
		}

		next := p.leastValuableAttacker(attackers, side)
		if next == SqNone {
			break
		}
		mover = p.board[next].TypeOf()
		occupied &^= next.Bb()

		// captures may uncover x-ray attackers behind the piece
		// which just captured
		attackers |= (RookAttacks(to, occupied) &
			(p.piecesBb[White][Rook] | p.piecesBb[Black][Rook] |
				p.piecesBb[White][Queen] | p.piecesBb[Black][Queen])) |
			(BishopAttacks(to, occupied) &
				(p.piecesBb[White][Bishop] | p.piecesBb[Black][Bishop] |
					p.piecesBb[White][Queen] | p.piecesBb[Black][Queen]))
		attackers &= occupied

		side = side.Flip()
		if d >= 31 {
			break
		}
	}

	for d--; d > 0; d-- {
		if -gain[d] < gain[d-1] {
			gain[d-1] = -gain[d]
		}
	}
	return gain[0]
}

// leastValuableAttacker returns the square of the least valuable
// attacker of the given side within the attackers set or SqNone.
func (p *Position) leastValuableAttacker(attackers Bitboard, side Color) Square {
	for pt := Pawn; pt <= King; pt++ {
		set := attackers & p.piecesBb[side][pt]
		if set != 0 {
			return set.Lsb()
		}
	}
	return SqNone
}
