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

package search

import (
	"sync/atomic"

	"github.com/stockade-engine/stockade/internal/config"
	"github.com/stockade-engine/stockade/internal/hash"
	"github.com/stockade-engine/stockade/internal/history"
	"github.com/stockade-engine/stockade/internal/movegen"
	"github.com/stockade-engine/stockade/internal/moveslice"
	. "github.com/stockade-engine/stockade/internal/types"
)

// search tuning constants.
const (
	// lmrMinDepth and lmrMinMoves gate late move reductions.
	lmrMinDepth = 3
	lmrMinMoves = 4

	// nmpMinDepth gates null move pruning.
	nmpMinDepth = 3

	// maxQuietsTracked bounds the list of quiet moves remembered
	// for history malus updates.
	maxQuietsTracked = 64
)

// search is the recursive principal variation search below the root.
// It returns a fail-soft value: <= alpha is an upper bound, >= beta
// a lower bound, anything in between exact. As a side effect the pv
// buffer of the ply is filled in PV nodes.
func (w *worker) search(depth, ply int, alpha, beta Value, isPV, doNull bool) Value {
	// cooperative cancellation: unwind with a neutral score and no
	// further TT writes
	if w.stopped() {
		return ValueZero
	}
	if w.isMain() {
		w.checkTime()
	}

	// drop into quiescence at the horizon
	if depth <= 0 {
		return w.qsearch(ply, alpha, beta, isPV)
	}

	p := w.pos

	if int32(ply) > atomic.LoadInt32(&w.seldepth) {
		atomic.StoreInt32(&w.seldepth, int32(ply))
	}
	if isPV {
		w.pv[ply].Clear()
	}

	// draw by repetition, 50-move rule or insufficient material
	if p.CheckRepetitions(1) || p.HalfMoveClock() >= 100 || p.HasInsufficientMaterial() {
		return ValueDraw
	}

	inCheck := p.HasCheck()

	if ply >= MaxPlies {
		if inCheck {
			return ValueZero
		}
		return w.ev.Evaluate(p)
	}

	// mate distance pruning: a shorter mate was already found
	alpha = maxValue(alpha, MatedIn(ply))
	beta = minValue(beta, MateIn(ply+1))
	if alpha >= beta {
		return alpha
	}

	us := p.NextPlayer()

	// TT lookup. The stored move is searched first, the stored
	// value can cut the node in non-PV nodes when its depth and
	// bound fit the current window.
	ttMove := MoveNone
	var ttEntry hash.Entry
	ttHit := false
	if w.s.tt != nil {
		ttEntry, ttHit = w.s.tt.Probe(p.ZobristKey())
		if ttHit {
			ttMove = ttEntry.Move
			if !isPV && int(ttEntry.Depth) >= depth {
				ttValue := hash.ValueFromTT(ttEntry.Value, ply)
				switch {
				case !ttValue.IsValid():
					// no usable value
				case ttEntry.Bound == hash.BoundExact:
					return ttValue
				case ttEntry.Bound == hash.BoundLower && ttValue >= beta:
					return ttValue
				case ttEntry.Bound == hash.BoundUpper && ttValue <= alpha:
					return ttValue
				}
			}
		}
	}

	// static evaluation - from the TT entry when available
	staticEval := ValueNA
	if !inCheck {
		if ttHit && ttEntry.Eval != ValueNA {
			staticEval = ttEntry.Eval
		} else {
			staticEval = w.ev.Evaluate(p)
		}
	}

	// null move pruning: when doing nothing already fails high the
	// node will almost certainly fail high with a move as well.
	// Guarded against zugzwang (no non-pawn material) and check.
	if config.Settings.Search.UseNullMove &&
		doNull && !isPV && !inCheck &&
		depth >= nmpMinDepth &&
		staticEval >= beta &&
		p.MaterialNonPawn(us) > 0 {

		r := 3 + depth/6
		newDepth := depth - 1 - r
		if newDepth < 0 {
			newDepth = 0
		}
		p.DoNullMove()
		atomic.AddUint64(&w.nodes, 1)
		v := -w.search(newDepth, ply+1, -beta, -beta+1, false, false)
		p.UndoNullMove()
		if w.stopped() {
			return ValueZero
		}
		if v >= beta {
			if v.IsCheckMateValue() {
				// do not return unproven mates from a null search
				v = beta
			}
			if w.s.tt != nil {
				w.s.tt.Put(p.ZobristKey(), MoveNone, int8(depth),
					hash.ValueToTT(v, ply), staticEval, hash.BoundLower)
			}
			return v
		}
	}

	// the grandchildren's killer slots belong to a subtree we have
	// not entered yet
	w.hist.ClearKillers(ply + 2)

	killers := [2]Move{}
	if config.Settings.Search.UseKiller {
		killers = w.hist.KillersAt(ply)
	}
	counter := MoveNone
	if config.Settings.Search.UseCounterMoves {
		counter = w.hist.CounterFor(p.LastMove())
	}
	var histTable *history.History
	if config.Settings.Search.UseHistory {
		histTable = w.hist
	}

	mg := w.mg[ply]
	mg.Prepare(p, movegen.GenAll, ttMove, killers, counter, histTable)

	bestValue := ValueNA
	bestMove := MoveNone
	var quiets [maxQuietsTracked]Move
	qcount := 0
	moveCount := 0

	for m := mg.NextMove(); m != MoveNone; m = mg.NextMove() {
		quiet := !p.IsCapturingMove(m) && m.MoveType() != Promotion

		// legality is checked lazily by making the move
		p.DoMove(m)
		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}
		moveCount++
		atomic.AddUint64(&w.nodes, 1)

		newDepth := depth - 1
		reduction := 0
		if config.Settings.Search.UseLmr &&
			depth >= lmrMinDepth && moveCount > lmrMinMoves && !p.HasCheck() {
			reduction = (depth+moveCount)/10 + 1
			if reduction > newDepth {
				reduction = newDepth
			}
		}

		var v Value
		if moveCount == 1 {
			// the first move is the assumed PV - full window
			v = -w.search(newDepth, ply+1, -beta, -alpha, isPV, true)
		} else {
			// zero window (and possibly reduced) search to prove
			// the move is worse than alpha
			if reduction > 0 {
				v = -w.search(newDepth-reduction, ply+1, -alpha-1, -alpha, false, true)
			}
			if reduction == 0 || v > alpha {
				v = -w.search(newDepth, ply+1, -alpha-1, -alpha, false, true)
			}
			// the proof failed - repeat with the full window for an
			// exact score
			if isPV && v > alpha && v < beta {
				v = -w.search(newDepth, ply+1, -beta, -alpha, true, true)
			}
		}

		p.UndoMove()

		if w.stopped() {
			return ValueZero
		}

		if v > bestValue {
			bestValue = v
			if v > alpha {
				bestMove = m
				if v >= beta {
					// the child was not searched with a full
					// window - a cutoff node's pv is just the move
					if isPV {
						w.pv[ply].Clear()
						w.pv[ply].PushBack(m.MoveOf())
					}
					if quiet {
						if config.Settings.Search.UseKiller {
							w.hist.StoreKiller(ply, m)
						}
						if config.Settings.Search.UseHistory {
							w.hist.UpdateQuiet(us, m, depth, quiets[:qcount])
						}
						if config.Settings.Search.UseCounterMoves {
							w.hist.StoreCounter(p.LastMove(), m)
						}
					}
					break
				}
				alpha = v
				if isPV {
					savePV(m, w.pv[ply+1], w.pv[ply])
				}
			}
		}

		if quiet && qcount < maxQuietsTracked {
			quiets[qcount] = m
			qcount++
		}
		// shallow move count pruning: near the horizon stop looking
		// at quiet moves after a handful of them
		if depth < 4 && qcount > depth*8 {
			break
		}
	}

	// no legal move - mate or stalemate
	if moveCount == 0 {
		if inCheck {
			bestValue = MatedIn(ply)
		} else {
			bestValue = ValueDraw
		}
	}

	if w.s.tt != nil && !w.stopped() {
		bound := hash.BoundUpper
		if bestMove != MoveNone {
			if bestValue >= beta {
				bound = hash.BoundLower
			} else {
				bound = hash.BoundExact
			}
		}
		w.s.tt.Put(p.ZobristKey(), bestMove, int8(depth),
			hash.ValueToTT(bestValue, ply), staticEval, bound)
	}

	return bestValue
}

// qsearch resolves captures, promotions and check evasions at the
// horizon so the returned value reflects a quiet position. Depth is
// not tracked beyond the selective depth watermark.
func (w *worker) qsearch(ply int, alpha, beta Value, isPV bool) Value {
	if w.stopped() {
		return ValueZero
	}
	if w.isMain() {
		w.checkTime()
	}

	p := w.pos

	if int32(ply) > atomic.LoadInt32(&w.seldepth) {
		atomic.StoreInt32(&w.seldepth, int32(ply))
	}
	if isPV {
		w.pv[ply].Clear()
	}

	if p.CheckRepetitions(1) || p.HalfMoveClock() >= 100 || p.HasInsufficientMaterial() {
		return ValueDraw
	}

	inCheck := p.HasCheck()

	if ply >= MaxPlies {
		if inCheck {
			return ValueZero
		}
		return w.ev.Evaluate(p)
	}

	// TT lookup - quiescence entries are stored with depth 0
	ttMove := MoveNone
	var ttEntry hash.Entry
	ttHit := false
	if w.s.tt != nil {
		ttEntry, ttHit = w.s.tt.Probe(p.ZobristKey())
		if ttHit {
			ttMove = ttEntry.Move
			if !isPV {
				ttValue := hash.ValueFromTT(ttEntry.Value, ply)
				switch {
				case !ttValue.IsValid():
				case ttEntry.Bound == hash.BoundExact:
					return ttValue
				case ttEntry.Bound == hash.BoundLower && ttValue >= beta:
					return ttValue
				case ttEntry.Bound == hash.BoundUpper && ttValue <= alpha:
					return ttValue
				}
			}
		}
	}

	bestValue := ValueNA
	staticEval := ValueNA

	// stand pat: the side to move can usually do at least as well
	// as the static evaluation
	if !inCheck {
		if ttHit && ttEntry.Eval != ValueNA {
			staticEval = ttEntry.Eval
		} else {
			staticEval = w.ev.Evaluate(p)
		}
		if staticEval >= beta {
			return staticEval
		}
		if staticEval > alpha {
			alpha = staticEval
		}
		bestValue = staticEval
	}

	// in check all evasions are searched, otherwise only captures
	// and promotions
	mode := movegen.GenNonQuiet
	if inCheck {
		mode = movegen.GenAll
	}
	mg := w.mg[ply]
	mg.Prepare(p, mode, ttMove, [2]Move{}, MoveNone, w.hist)

	bestMove := MoveNone
	moveCount := 0

	for m := mg.NextMove(); m != MoveNone; m = mg.NextMove() {
		// skip losing captures
		if !inCheck && config.Settings.Search.UseSEE &&
			p.IsCapturingMove(m) && p.See(m) < 0 {
			continue
		}

		p.DoMove(m)
		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}
		moveCount++
		atomic.AddUint64(&w.nodes, 1)

		v := -w.qsearch(ply+1, -beta, -alpha, isPV)

		p.UndoMove()

		if w.stopped() {
			return ValueZero
		}

		if v > bestValue {
			bestValue = v
			if v > alpha {
				bestMove = m
				if v >= beta {
					if isPV {
						w.pv[ply].Clear()
						w.pv[ply].PushBack(m.MoveOf())
					}
					break
				}
				alpha = v
				if isPV {
					savePV(m, w.pv[ply+1], w.pv[ply])
				}
			}
		}
	}

	// all evasions searched and none legal - checkmate
	if inCheck && moveCount == 0 {
		return MatedIn(ply)
	}

	if w.s.tt != nil && !w.stopped() {
		bound := hash.BoundUpper
		if bestMove != MoveNone {
			if bestValue >= beta {
				bound = hash.BoundLower
			} else {
				bound = hash.BoundExact
			}
		}
		w.s.tt.Put(p.ZobristKey(), bestMove, 0,
			hash.ValueToTT(bestValue, ply), staticEval, bound)
	}

	return bestValue
}

// savePV sets the move as the head of dest and appends the child's
// pv.
func savePV(move Move, src *moveslice.MoveSlice, dest *moveslice.MoveSlice) {
	dest.Clear()
	dest.PushBack(move.MoveOf())
	*dest = append(*dest, *src...)
}
