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

// Package movegen generates pseudo-legal chess moves and orders them
// for the search. Ordering does not sort the whole list up front -
// a cursor advances through the list and each advance swaps the
// highest scored remaining move to the cursor position, so early
// beta cutoffs never pay for a full sort.
package movegen

import (
	"github.com/stockade-engine/stockade/internal/board"
	"github.com/stockade-engine/stockade/internal/history"
	"github.com/stockade-engine/stockade/internal/moveslice"
	. "github.com/stockade-engine/stockade/internal/types"
)

// GenMode selects which subset of moves to generate.
type GenMode int

// Generation modes.
const (
	// GenAll generates all pseudo-legal moves.
	GenAll GenMode = iota
	// GenNonQuiet generates captures and promotions only.
	GenNonQuiet
)

// move ordering score bands. These are sort values, not evaluation
// scores - they only need a stable relative order.
const (
	scoreTTMove     Value = 14000
	scoreGoodCap    Value = 10000
	scorePromotion  Value = 9000
	scoreKiller1    Value = 8000
	scoreKiller2    Value = 7990
	scoreCounter    Value = 7900
	scoreBadCapture Value = -9000
)

// Movegen generates and hands out moves for one ply of the search.
// Each worker owns one Movegen per ply.
type Movegen struct {
	list   moveslice.MoveSlice
	cursor int
}

// NewMovegen creates a new move generator with pre-allocated move
// list storage.
func NewMovegen() *Movegen {
	return &Movegen{list: make(moveslice.MoveSlice, 0, MaxMoves)}
}

// Prepare generates the pseudo-legal moves of the position in the
// given mode and scores them for ordering: TT move first, then good
// captures by MVV-LVA (SEE-confirmed), promotions, killers, counter
// move, quiets by butterfly history, losing captures last.
// killers and counter may be MoveNone, hist may be nil.
func (mg *Movegen) Prepare(p *board.Position, mode GenMode, ttMove Move, killers [2]Move, counter Move, hist *history.History) {
	mg.cursor = 0
	mg.list.Clear()
	mg.generate(p, mode)
	mg.score(p, ttMove, killers, counter, hist)
}

// NextMove returns the highest scored remaining move by swapping it
// to the cursor position and advancing the cursor. Returns MoveNone
// when all moves have been handed out.
func (mg *Movegen) NextMove() Move {
	if mg.cursor >= mg.list.Len() {
		return MoveNone
	}
	best := mg.cursor
	for i := mg.cursor + 1; i < mg.list.Len(); i++ {
		if mg.list.At(i).ValueOf() > mg.list.At(best).ValueOf() {
			best = i
		}
	}
	if best != mg.cursor {
		tmp := mg.list.At(mg.cursor)
		mg.list.Set(mg.cursor, mg.list.At(best))
		mg.list.Set(best, tmp)
	}
	m := mg.list.At(mg.cursor)
	mg.cursor++
	return m
}

// GeneratePseudoLegalMoves returns all pseudo-legal moves of the
// position in the given mode, unordered.
func (mg *Movegen) GeneratePseudoLegalMoves(p *board.Position, mode GenMode) moveslice.MoveSlice {
	mg.cursor = 0
	mg.list.Clear()
	mg.generate(p, mode)
	return mg.list.Clone()
}

// GenerateLegalMoves returns all legal moves of the position in the
// given mode.
func (mg *Movegen) GenerateLegalMoves(p *board.Position, mode GenMode) moveslice.MoveSlice {
	pseudo := mg.GeneratePseudoLegalMoves(p, mode)
	legal := make(moveslice.MoveSlice, 0, len(pseudo))
	for _, m := range pseudo {
		p.DoMove(m)
		if p.WasLegalMove() {
			legal.PushBack(m)
		}
		p.UndoMove()
	}
	return legal
}

// HasLegalMove reports whether the side to move has at least one
// legal move.
func (mg *Movegen) HasLegalMove(p *board.Position) bool {
	pseudo := mg.GeneratePseudoLegalMoves(p, GenAll)
	for _, m := range pseudo {
		p.DoMove(m)
		ok := p.WasLegalMove()
		p.UndoMove()
		if ok {
			return true
		}
	}
	return false
}

// MoveFromUci parses a move in UCI notation and validates it against
// the legal moves of the position. Returns MoveNone when the string
// is not a legal move.
func (mg *Movegen) MoveFromUci(p *board.Position, s string) Move {
	if len(s) < 4 || len(s) > 5 {
		return MoveNone
	}
	from := SquareFromString(s[0:2])
	to := SquareFromString(s[2:4])
	if from == SqNone || to == SqNone {
		return MoveNone
	}
	promType := PtNone
	if len(s) == 5 {
		promType = PieceTypeFromChar(s[4])
		if promType < Knight || promType > Queen {
			return MoveNone
		}
	}
	for _, m := range mg.GenerateLegalMoves(p, GenAll) {
		if m.From() == from && m.To() == to {
			if m.MoveType() == Promotion {
				if m.PromotionType() == promType {
					return m.MoveOf()
				}
				continue
			}
			if promType == PtNone {
				return m.MoveOf()
			}
		}
	}
	return MoveNone
}

// ///////////////////////////////////////////////////////////
// Generation
// ///////////////////////////////////////////////////////////

func (mg *Movegen) generate(p *board.Position, mode GenMode) {
	us := p.NextPlayer()
	occupied := p.OccupiedAll()
	own := p.OccupiedBb(us)
	opp := p.OccupiedBb(us.Flip())

	mg.generatePawnMoves(p, mode, us, occupied, opp)

	var targets Bitboard
	if mode == GenNonQuiet {
		targets = opp
	} else {
		targets = ^own
	}

	for pieces := p.PiecesBb(us, Knight); pieces != 0; {
		from := pieces.PopLsb()
		mg.pushAll(from, KnightAttacks(from)&targets)
	}
	for pieces := p.PiecesBb(us, Bishop); pieces != 0; {
		from := pieces.PopLsb()
		mg.pushAll(from, BishopAttacks(from, occupied)&targets)
	}
	for pieces := p.PiecesBb(us, Rook); pieces != 0; {
		from := pieces.PopLsb()
		mg.pushAll(from, RookAttacks(from, occupied)&targets)
	}
	for pieces := p.PiecesBb(us, Queen); pieces != 0; {
		from := pieces.PopLsb()
		mg.pushAll(from, QueenAttacks(from, occupied)&targets)
	}

	kingSq := p.KingSquare(us)
	mg.pushAll(kingSq, KingAttacks(kingSq)&targets)

	if mode == GenAll && !p.HasCheck() {
		mg.generateCastling(p, us, occupied)
	}
}

func (mg *Movegen) pushAll(from Square, targets Bitboard) {
	for targets != 0 {
		to := targets.PopLsb()
		mg.list.PushBack(CreateMove(from, to, Normal, PtNone))
	}
}

func (mg *Movegen) pushPromotions(from, to Square) {
	for pt := Queen; pt >= Knight; pt-- {
		mg.list.PushBack(CreateMove(from, to, Promotion, pt))
	}
}

func (mg *Movegen) generatePawnMoves(p *board.Position, mode GenMode, us Color, occupied, opp Bitboard) {
	promoRank := Rank8
	startRank := Rank2
	if us == Black {
		promoRank = Rank1
		startRank = Rank7
	}
	dir := Square(us.MoveDirection())

	for pawns := p.PiecesBb(us, Pawn); pawns != 0; {
		from := pawns.PopLsb()

		// captures
		for atts := PawnAttacks(us, from) & opp; atts != 0; {
			to := atts.PopLsb()
			if to.RankOf() == promoRank {
				mg.pushPromotions(from, to)
			} else {
				mg.list.PushBack(CreateMove(from, to, Normal, PtNone))
			}
		}

		// en passant
		if p.EpSquare() != SqNone && PawnAttacks(us, from).Has(p.EpSquare()) {
			mg.list.PushBack(CreateMove(from, p.EpSquare(), EnPassant, PtNone))
		}

		// pushes - promotions count as non-quiet
		to := from + dir
		if occupied.Has(to) {
			continue
		}
		if to.RankOf() == promoRank {
			mg.pushPromotions(from, to)
			continue
		}
		if mode == GenNonQuiet {
			continue
		}
		mg.list.PushBack(CreateMove(from, to, Normal, PtNone))
		if from.RankOf() == startRank && !occupied.Has(to+dir) {
			mg.list.PushBack(CreateMove(from, to+dir, Normal, PtNone))
		}
	}
}

func (mg *Movegen) generateCastling(p *board.Position, us Color, occupied Bitboard) {
	them := us.Flip()
	if us == White {
		if p.CastlingRights().Has(CastlingWhiteKing) &&
			occupied&(SqF1.Bb()|SqG1.Bb()) == 0 &&
			!p.IsAttacked(SqF1, them) {
			mg.list.PushBack(CreateMove(SqE1, SqG1, Castling, PtNone))
		}
		if p.CastlingRights().Has(CastlingWhiteQueen) &&
			occupied&(SqD1.Bb()|SqC1.Bb()|SqB1.Bb()) == 0 &&
			!p.IsAttacked(SqD1, them) {
			mg.list.PushBack(CreateMove(SqE1, SqC1, Castling, PtNone))
		}
	} else {
		if p.CastlingRights().Has(CastlingBlackKing) &&
			occupied&(SqF8.Bb()|SqG8.Bb()) == 0 &&
			!p.IsAttacked(SqF8, them) {
			mg.list.PushBack(CreateMove(SqE8, SqG8, Castling, PtNone))
		}
		if p.CastlingRights().Has(CastlingBlackQueen) &&
			occupied&(SqD8.Bb()|SqC8.Bb()|SqB8.Bb()) == 0 &&
			!p.IsAttacked(SqD8, them) {
			mg.list.PushBack(CreateMove(SqE8, SqC8, Castling, PtNone))
		}
	}
}

// ///////////////////////////////////////////////////////////
// Scoring
// ///////////////////////////////////////////////////////////

func (mg *Movegen) score(p *board.Position, ttMove Move, killers [2]Move, counter Move, hist *history.History) {
	us := p.NextPlayer()
	for i := 0; i < mg.list.Len(); i++ {
		m := mg.list.At(i)
		var v Value
		switch {
		case m.MoveOf() == ttMove.MoveOf() && ttMove != MoveNone:
			v = scoreTTMove
		case p.IsCapturingMove(m):
			v = mvvLva(p, m)
			if p.See(m) >= 0 {
				v += scoreGoodCap
			} else {
				v += scoreBadCapture
			}
		case m.MoveType() == Promotion:
			v = scorePromotion + m.PromotionType().ValueOf()/100
		case m.MoveOf() == killers[0].MoveOf() && killers[0] != MoveNone:
			v = scoreKiller1
		case m.MoveOf() == killers[1].MoveOf() && killers[1] != MoveNone:
			v = scoreKiller2
		case m.MoveOf() == counter.MoveOf() && counter != MoveNone:
			v = scoreCounter
		default:
			if hist != nil {
				v = Value(hist.Butterfly[us][m.From()][m.To()] / 4)
			}
		}
		m.SetValue(v)
		mg.list.Set(i, m)
	}
}

// mvvLva orders captures by most valuable victim first and least
// valuable attacker second.
func mvvLva(p *board.Position, m Move) Value {
	victim := p.GetPiece(m.To()).ValueOf()
	if m.MoveType() == EnPassant {
		victim = Pawn.ValueOf()
	}
	return victim - p.GetPiece(m.From()).ValueOf()/10
}
