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
	"time"

	"github.com/stockade-engine/stockade/internal/board"
	"github.com/stockade-engine/stockade/internal/config"
	"github.com/stockade-engine/stockade/internal/eval"
	"github.com/stockade-engine/stockade/internal/history"
	"github.com/stockade-engine/stockade/internal/movegen"
	"github.com/stockade-engine/stockade/internal/moveslice"
	. "github.com/stockade-engine/stockade/internal/types"
)

// checkInterval is the number of nodes the main worker searches
// between two time checks. Only worker 0 performs time checks, so
// cancellation latency scales with the main worker's node rate -
// helpers observe the published stop signal at every node instead.
const checkInterval = 1000

// currmoveReportDelay is how long a search must have been running
// before the main worker starts reporting the current root move.
const currmoveReportDelay = 3 * time.Second

// lazy SMP skip pattern: helpers leave out some iteration depths so
// the pool explores different depths of the tree concurrently while
// sharing the transposition table.
var (
	skipSize  = [16]int{1, 1, 1, 2, 2, 2, 1, 3, 2, 2, 1, 3, 3, 2, 2, 1}
	skipPhase = [16]int{0, 1, 0, 1, 2, 3, 0, 1, 2, 3, 4, 5, 0, 1, 2, 3}
)

// worker is one search thread. Worker 0 is the main worker: it alone
// performs time checks and reports to the UCI interface, and its
// root move list is authoritative for the final best move.
type worker struct {
	id int
	s  *Search

	pos  *board.Position
	mg   []*movegen.Movegen
	pv   []*moveslice.MoveSlice
	hist *history.History
	ev   *eval.Evaluator

	rootMoves RootMoves

	nodes    uint64 // atomic - read by the coordinator
	seldepth int32  // atomic - read by the coordinator
	checks   int

	depthReached int
}

func newWorker(s *Search, id int, p *board.Position, rootMoves RootMoves) *worker {
	w := &worker{
		id:        id,
		s:         s,
		pos:       p.Copy(),
		hist:      history.NewHistory(),
		ev:        eval.NewEvaluator(),
		rootMoves: rootMoves.Clone(),
		checks:    checkInterval,
	}
	w.mg = make([]*movegen.Movegen, MaxPlies+2)
	w.pv = make([]*moveslice.MoveSlice, MaxPlies+2)
	for i := 0; i < MaxPlies+2; i++ {
		w.mg[i] = movegen.NewMovegen()
		w.pv[i] = moveslice.NewMoveSlice(MaxPlies)
	}
	return w
}

func (w *worker) isMain() bool {
	return w.id == 0
}

// stopped reports whether the coordinator has published a stop or
// abort signal. Tested at every node entry and after every child
// return.
func (w *worker) stopped() bool {
	return w.s.signalled()
}

// checkTime is the main worker's periodic consultation of the time
// manager and node cap. It runs every checkInterval nodes.
func (w *worker) checkTime() {
	w.checks--
	if w.checks > 0 {
		return
	}
	w.checks = checkInterval

	sl := w.s.limits
	if sl.Infinite || w.s.signalled() {
		return
	}
	if sl.Nodes > 0 && w.s.totalNodes() >= sl.Nodes {
		atomic.StoreInt32(&w.s.send, sendExit)
		return
	}
	if w.s.limits.Ponder && atomic.LoadInt32(&w.s.ponderHit) == 0 {
		return
	}
	if w.s.timeman.HardLimitReached() {
		atomic.StoreInt32(&w.s.send, sendExit)
	}
}

// iterativeDeepening runs depth 1, 2, ... until a stop condition
// fires. Each depth runs one aspiration window search per MultiPV
// line over the root move list.
func (w *worker) iterativeDeepening() {
	sl := w.s.limits

	maxDepth := MaxPlies - 1
	if sl.Depth > 0 && sl.Depth < maxDepth {
		maxDepth = sl.Depth
	}
	multiPV := config.Settings.Search.MultiPV
	if multiPV < 1 {
		multiPV = 1
	}
	if multiPV > len(w.rootMoves) {
		multiPV = len(w.rootMoves)
	}

	for depth := 1; depth <= maxDepth && !w.stopped(); depth++ {
		if !w.isMain() {
			cycle := (w.id - 1) % len(skipSize)
			if ((depth+skipPhase[cycle])/skipSize[cycle])%2 != 0 {
				continue
			}
		}

		w.rootMoves.NewIteration()

		for pvLine := 0; pvLine < multiPV; pvLine++ {
			w.aspirationSearch(depth, pvLine, multiPV)
			if w.stopped() {
				break
			}
			w.rootMoves.Sort(pvLine)
			if w.isMain() {
				w.sendPvInfo(depth, pvLine, multiPV, "")
			}
		}
		if w.stopped() {
			break
		}
		w.depthReached = depth

		if w.isMain() {
			w.s.timeman.RegisterBestMove(w.rootMoves[0].Move)

			// between iterations: soft time limit scaled by the
			// stability of the best move
			if w.s.timeman.ShouldStopSoft() {
				atomic.StoreInt32(&w.s.send, sendExit)
				break
			}
			// a mate limit is reached as soon as we found a mate
			// within the requested distance
			if sl.Mate > 0 && w.rootMoves[0].Value.IsCheckMateValue() &&
				w.rootMoves[0].Value > 0 && w.rootMoves[0].Value.MateDistance() <= sl.Mate {
				atomic.StoreInt32(&w.s.send, sendExit)
				break
			}
			// with a single legal reply there is nothing to decide
			if len(w.rootMoves) == 1 && w.s.timeman.Active() {
				atomic.StoreInt32(&w.s.send, sendExit)
				break
			}
		}
	}
}

// aspirationSearch searches the root with a window centered on the
// previous iteration's score. The window starts narrow and widens
// geometrically on the failing side until the score fits.
func (w *worker) aspirationSearch(depth, pvLine, multiPV int) {
	prev := w.rootMoves[pvLine].PrevValue
	if !config.Settings.Search.UseAspiration || depth < 5 ||
		prev == ValueNA || prev.IsCheckMateValue() {
		w.rootSearch(depth, ValueMin, ValueMax, pvLine)
		return
	}

	delta := Value(10)
	alpha := maxValue(prev-delta, ValueMin)
	beta := minValue(prev+delta, ValueMax)

	for {
		v := w.rootSearch(depth, alpha, beta, pvLine)
		if w.stopped() {
			return
		}
		switch {
		case v <= alpha: // fail low - widen downwards
			if w.isMain() {
				w.sendPvInfo(depth, pvLine, multiPV, "upperbound")
			}
			alpha = maxValue(v-delta, ValueMin)
		case v >= beta: // fail high - widen upwards
			if w.isMain() {
				w.sendPvInfo(depth, pvLine, multiPV, "lowerbound")
			}
			beta = minValue(v+delta, ValueMax)
		default:
			return
		}
		delta += delta / 2
		if delta > 1000 {
			alpha = ValueMin
			beta = ValueMax
		}
	}
}

// rootSearch drives one iteration at the given depth over the root
// move list starting at index pvLine. Root moves not found in the
// list (searchmoves restriction, resolved MultiPV lines) are
// skipped. Scores and principal variations are written back into
// the RootMove entries.
func (w *worker) rootSearch(depth int, alpha, beta Value, pvLine int) Value {
	p := w.pos

	// killers are a per-search-tree heuristic - start every
	// iteration with a clean set
	for ply := range w.hist.Killers {
		w.hist.Killers[ply][0] = MoveNone
		w.hist.Killers[ply][1] = MoveNone
	}

	// previous iteration's best move of this line first
	mg := w.mg[0]
	mg.Prepare(p, movegen.GenAll, w.rootMoves[pvLine].Move, [2]Move{}, MoveNone, w.hist)

	bestValue := ValueNA
	moveCount := 0

	for m := mg.NextMove(); m != MoveNone; m = mg.NextMove() {
		rm := w.rootMoves.Find(pvLine, m)
		if rm == nil {
			continue
		}
		moveCount++

		if w.isMain() && time.Since(w.s.startTime) > currmoveReportDelay && w.s.reporter != nil {
			w.s.reporter.SendCurrentRootMove(depth, m, moveCount+pvLine)
		}

		p.DoMove(m)
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
		if reduction > 0 {
			v = -w.search(newDepth-reduction, 1, -alpha-1, -alpha, false, true)
		}
		// no reduction possible, or the reduced search failed high:
		// null window search at full depth
		if (reduction > 0 && v > alpha) || (reduction == 0 && moveCount != 1) {
			v = -w.search(newDepth, 1, -alpha-1, -alpha, false, true)
		}
		// first move, or the null window search failed high: full
		// window search for an exact score
		if moveCount == 1 || v > alpha {
			w.pv[1].Clear()
			v = -w.search(newDepth, 1, -beta, -alpha, true, true)
		}

		p.UndoMove()

		if w.stopped() {
			return ValueZero
		}

		if moveCount == 1 || v > alpha {
			rm.Value = v
			rm.SelDepth = int(atomic.LoadInt32(&w.seldepth))
			rm.Pv.Clear()
			rm.Pv.PushBack(m.MoveOf())
			rm.Pv = append(rm.Pv, *w.pv[1]...)
			if v > bestValue {
				bestValue = v
			}
			if v > alpha {
				alpha = v
			}
			if v >= beta {
				return v
			}
		} else {
			// searched with a null window and failed low - sort
			// to the back until the next full search
			rm.Value = ValueMin
			if v > bestValue {
				bestValue = v
			}
		}
	}
	return bestValue
}

// sendPvInfo emits the "info depth ... pv ..." line for a resolved
// MultiPV line, or an aspiration re-search notice when bound is
// "lowerbound" or "upperbound".
func (w *worker) sendPvInfo(depth, pvLine, multiPV int, bound string) {
	if w.s.reporter == nil {
		return
	}
	rm := &w.rootMoves[pvLine]
	value := rm.Value
	if value == ValueNA {
		value = rm.PrevValue
	}
	hashfull := 0
	if w.s.tt != nil {
		hashfull = w.s.tt.Hashfull()
	}
	elapsed := time.Since(w.s.startTime)
	nodes := w.s.totalNodes()
	w.s.reporter.SendIterationEndInfo(depth, w.s.maxSelDepth(), pvLine+1, value, bound,
		nodes, nps(nodes, elapsed), elapsed, hashfull, rm.Pv)
}

func maxValue(a, b Value) Value {
	if a > b {
		return a
	}
	return b
}

func minValue(a, b Value) Value {
	if a < b {
		return a
	}
	return b
}
