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

// Package search implements the parallel alpha-beta search of the
// engine: the worker pool running "lazy SMP" over a shared
// transposition table, principal variation search with quiescence
// extension, iterative deepening with aspiration windows, MultiPV,
// and the time management deciding when to stop.
package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stockade-engine/stockade/internal/board"
	"github.com/stockade-engine/stockade/internal/config"
	"github.com/stockade-engine/stockade/internal/hash"
	myLogging "github.com/stockade-engine/stockade/internal/logging"
	"github.com/stockade-engine/stockade/internal/movegen"
	"github.com/stockade-engine/stockade/internal/moveslice"
	. "github.com/stockade-engine/stockade/internal/types"
)

var out = message.NewPrinter(language.English)

// EngineMode is the coarse state of the search engine. The UCI
// listener waits on mode transitions before mutating shared state.
type EngineMode int32

// Engine modes.
const (
	// ModeWaiting - no search is running, shared state may be
	// mutated.
	ModeWaiting EngineMode = iota
	// ModeThinking - workers are searching.
	ModeThinking
	// ModeStopping - workers are unwinding, the result is being
	// collected and published.
	ModeStopping
)

// signal values published by the coordinator to all workers.
const (
	// sendNothing - keep searching.
	sendNothing int32 = iota
	// sendExit - stop searching and emit a bestmove.
	sendExit
	// sendAbort - stop searching and discard the result (quit or
	// new position).
	sendAbort
)

// Reporter is implemented by the UCI handler. All engine output runs
// through this interface so the search has no dependency on the uci
// package and tests can capture the output.
type Reporter interface {
	SendReadyOk()
	SendInfoString(info string)
	SendIterationEndInfo(depth int, seldepth int, multipv int, value Value, bound string,
		nodes uint64, nps uint64, time time.Duration, hashfull int, pv moveslice.MoveSlice)
	SendCurrentRootMove(depth int, move Move, moveNumber int)
	SendResult(bestMove Move, ponderMove Move)
}

// Result is the outcome of one search.
type Result struct {
	BestMove    Move
	PonderMove  Move
	BestValue   Value
	Pv          moveslice.MoveSlice
	SearchTime  time.Duration
	SearchDepth int
	ExtraDepth  int
	Nodes       uint64
}

// Search owns the worker pool, the shared transposition table and
// the coordination state between the UCI listener and the workers.
// Create with NewSearch.
type Search struct {
	log      *logging.Logger
	reporter Reporter

	tt *hash.Table

	initSemaphore *semaphore.Weighted
	isRunning     *semaphore.Weighted

	modeMu   sync.Mutex
	modeCond *sync.Cond
	mode     EngineMode

	send int32 // atomic: sendNothing / sendExit / sendAbort

	ponderHit int32 // atomic bool

	currentPosition *board.Position
	limits          *Limits
	timeman         *TimeManager
	startTime       time.Time

	workers []*worker

	lastSearchResult *Result
	hasResult        bool
}

// NewSearch creates a new Search instance. Set a Reporter with
// SetReporter before starting searches.
func NewSearch() *Search {
	s := &Search{
		log:           myLogging.GetLog(),
		initSemaphore: semaphore.NewWeighted(1),
		isRunning:     semaphore.NewWeighted(1),
		mode:          ModeWaiting,
	}
	s.modeCond = sync.NewCond(&s.modeMu)
	return s
}

// SetReporter sets the output sink for all engine output.
func (s *Search) SetReporter(r Reporter) {
	s.reporter = r
}

// Mode returns the current engine mode.
func (s *Search) Mode() EngineMode {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	return s.mode
}

func (s *Search) setMode(m EngineMode) {
	s.modeMu.Lock()
	s.mode = m
	s.modeCond.Broadcast()
	s.modeMu.Unlock()
}

// WaitForModeWaiting blocks until the engine mode is WAITING.
func (s *Search) WaitForModeWaiting() {
	s.modeMu.Lock()
	for s.mode != ModeWaiting {
		s.modeCond.Wait()
	}
	s.modeMu.Unlock()
}

// IsReady initializes the engine (allocates the transposition
// table) and acknowledges with "readyok" when done.
func (s *Search) IsReady() {
	s.initialize()
	s.WaitForModeWaiting()
	if s.reporter != nil {
		s.reporter.SendReadyOk()
	}
}

// initialize allocates the shared transposition table. Safe to call
// repeatedly.
func (s *Search) initialize() {
	if config.Settings.Search.UseTT && s.tt == nil {
		s.tt = hash.NewTable(config.Settings.Search.TTSizeMB)
	}
}

// NewGame stops a running search and clears all state carried
// between games: transposition table and generation counter.
func (s *Search) NewGame() {
	s.StopSearch()
	if s.tt != nil {
		s.tt.Clear()
	}
}

// ClearHash clears the transposition table. Ignored with a warning
// while a search is running.
func (s *Search) ClearHash() {
	if s.IsSearching() {
		msg := "Can't clear hash while searching."
		s.sendInfoString(msg)
		s.log.Warning(msg)
		return
	}
	if s.tt != nil {
		s.tt.Clear()
		s.sendInfoString("Hash cleared")
	}
}

// ResizeCache resizes and clears the transposition table. Ignored
// with a warning while a search is running.
func (s *Search) ResizeCache() {
	if s.IsSearching() {
		msg := "Can't resize hash while searching."
		s.sendInfoString(msg)
		s.log.Warning(msg)
		return
	}
	s.tt = nil
	s.initialize()
	if s.tt != nil {
		s.sendInfoString(out.Sprintf("Hash resized: %s", s.tt.String()))
	}
}

// StartSearch starts a search on the given position with the given
// limits. It takes copies of both and returns once the search is
// fully initialized and running.
func (s *Search) StartSearch(p board.Position, sl Limits) {
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
	go s.run(&p, &sl)
	// wait until the search is running and initialization is done
	// before returning to the caller
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
	s.initSemaphore.Release(1)
}

// StopSearch stops a running search. The search stops gracefully
// and the best move found so far is sent to the UCI interface. This
// blocks until the search has stopped.
func (s *Search) StopSearch() {
	atomic.StoreInt32(&s.send, sendExit)
	s.WaitWhileSearching()
}

// AbortSearch stops a running search and discards its result - no
// bestmove is emitted. Used on "quit" and before replacing the
// position.
func (s *Search) AbortSearch() {
	atomic.StoreInt32(&s.send, sendAbort)
	s.WaitWhileSearching()
}

// PonderHit activates time control on a search started with
// "go ponder". Without a running ponder search this has no effect.
func (s *Search) PonderHit() {
	if s.IsSearching() && s.limits != nil && s.limits.Ponder {
		s.log.Debug("Ponderhit during search - activating time control")
		atomic.StoreInt32(&s.ponderHit, 1)
		s.timeman = NewTimeManager(s.currentPosition, s.limits, s.moveOverhead())
		return
	}
	s.log.Warning("Ponderhit received while not pondering")
}

// IsSearching checks if a search is currently running.
func (s *Search) IsSearching() bool {
	if !s.isRunning.TryAcquire(1) {
		return true
	}
	s.isRunning.Release(1)
	return false
}

// WaitWhileSearching blocks until a running search has stopped.
func (s *Search) WaitWhileSearching() {
	_ = s.isRunning.Acquire(context.TODO(), 1)
	s.isRunning.Release(1)
}

// LastSearchResult returns a copy of the last search result.
func (s *Search) LastSearchResult() Result {
	if s.lastSearchResult == nil {
		return Result{}
	}
	return *s.lastSearchResult
}

// HasResult reports whether a search result is available.
func (s *Search) HasResult() bool {
	return s.hasResult
}

// NodesVisited returns the aggregated node count of the current or
// last search over all workers.
func (s *Search) NodesVisited() uint64 {
	return s.totalNodes()
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

func (s *Search) moveOverhead() time.Duration {
	return time.Duration(config.Settings.Search.MoveOverheadMs) * time.Millisecond
}

func (s *Search) signalled() bool {
	return atomic.LoadInt32(&s.send) != sendNothing
}

func (s *Search) signal() int32 {
	return atomic.LoadInt32(&s.send)
}

func (s *Search) totalNodes() uint64 {
	var n uint64
	for _, w := range s.workers {
		n += atomic.LoadUint64(&w.nodes)
	}
	return n
}

func (s *Search) maxSelDepth() int {
	max := 0
	for _, w := range s.workers {
		if d := int(atomic.LoadInt32(&w.seldepth)); d > max {
			max = d
		}
	}
	return max
}

// run is started by StartSearch in a separate goroutine. It sets up
// the worker pool, runs the search until a stop condition fires and
// publishes the result.
func (s *Search) run(p *board.Position, sl *Limits) {
	if !s.isRunning.TryAcquire(1) {
		s.log.Error("Search already running")
		s.initSemaphore.Release(1)
		return
	}
	defer s.isRunning.Release(1)

	s.startTime = time.Now()
	s.log.Infof("Searching: %s", p.StringFen())

	atomic.StoreInt32(&s.send, sendNothing)
	atomic.StoreInt32(&s.ponderHit, 0)
	s.currentPosition = p
	s.limits = sl
	s.hasResult = false
	s.initialize()
	s.setMode(ModeThinking)

	if s.tt != nil {
		s.tt.NewSearch()
	}

	// generate the root moves and apply a searchmoves restriction
	mg := movegen.NewMovegen()
	legal := mg.GenerateLegalMoves(p, movegen.GenAll)
	if sl.Moves.Len() > 0 {
		restricted := make(moveslice.MoveSlice, 0, legal.Len())
		for _, m := range legal {
			if sl.Moves.Contains(m) {
				restricted.PushBack(m)
			}
		}
		legal = restricted
	}

	if legal.Len() == 0 {
		msg := "Search called on a position without legal moves (mate or stalemate)"
		s.sendInfoString(msg)
		s.log.Warning(msg)
		s.workers = nil
		s.initSemaphore.Release(1)
		s.setMode(ModeStopping)
		if s.signal() != sendAbort && s.reporter != nil {
			s.reporter.SendResult(MoveNone, MoveNone)
		}
		s.setMode(ModeWaiting)
		return
	}

	// time control is postponed while pondering
	if sl.Ponder {
		s.timeman = &TimeManager{start: time.Now()}
	} else {
		s.timeman = NewTimeManager(p, sl, s.moveOverhead())
	}
	if s.timeman.Active() {
		s.log.Info(out.Sprintf("Time control: optimum %s maximum %s",
			s.timeman.Optimum(), s.timeman.Maximum()))
	}

	threads := config.Settings.Search.Threads
	if threads < 1 {
		threads = 1
	}
	rootMoves := NewRootMoves(legal)
	s.workers = make([]*worker, threads)
	for i := 0; i < threads; i++ {
		s.workers[i] = newWorker(s, i, p, rootMoves)
	}

	// initialization done - let StartSearch return
	s.initSemaphore.Release(1)

	// helpers first, the main worker runs in this goroutine
	var wg sync.WaitGroup
	for _, w := range s.workers[1:] {
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()
			w.iterativeDeepening()
		}(w)
	}
	s.workers[0].iterativeDeepening()

	// main worker done - bring down the helpers and collect
	if !s.signalled() {
		atomic.StoreInt32(&s.send, sendExit)
	}
	wg.Wait()
	s.setMode(ModeStopping)

	result := s.collectResult()

	// In ponder or infinite mode the engine must not move before
	// being told to, even when the search finished early.
	if (sl.Ponder && atomic.LoadInt32(&s.ponderHit) == 0) || sl.Infinite {
		for !s.signalled() {
			time.Sleep(2 * time.Millisecond)
		}
	}

	s.lastSearchResult = result
	s.hasResult = true

	s.log.Info(out.Sprintf("Search finished after %s, depth %d(%d), %d nodes",
		result.SearchTime, result.SearchDepth, result.ExtraDepth, result.Nodes))

	if s.signal() != sendAbort && s.reporter != nil {
		s.reporter.SendResult(result.BestMove, result.PonderMove)
	}

	s.setMode(ModeWaiting)
}

// collectResult builds the search result from the main worker. The
// main worker's root move list is authoritative for the published
// best move.
func (s *Search) collectResult() *Result {
	main := s.workers[0]
	best := &main.rootMoves[0]

	result := &Result{
		BestMove:    best.Move,
		BestValue:   best.Value,
		Pv:          best.Pv.Clone(),
		PonderMove:  MoveNone,
		SearchTime:  time.Since(s.startTime),
		SearchDepth: main.depthReached,
		ExtraDepth:  s.maxSelDepth(),
		Nodes:       s.totalNodes(),
	}
	if best.Value == ValueNA {
		result.BestValue = best.PrevValue
	}

	// ponder move from the pv if available, otherwise from the TT
	if best.Pv.Len() > 1 {
		result.PonderMove = best.Pv.At(1)
	} else if s.tt != nil {
		main.pos.DoMove(result.BestMove)
		if entry, found := s.tt.Probe(main.pos.ZobristKey()); found && entry.Move != MoveNone {
			result.PonderMove = entry.Move
			s.log.Debugf("Using ponder move from hash: %s", result.PonderMove.StringUci())
		}
		main.pos.UndoMove()
	}
	return result
}

func (s *Search) sendInfoString(msg string) {
	if s.reporter != nil {
		s.reporter.SendInfoString(msg)
	}
}

// nps computes nodes per second guarded against very small times.
func nps(nodes uint64, d time.Duration) uint64 {
	if d.Milliseconds() == 0 {
		return 0
	}
	return nodes * 1000 / uint64(d.Milliseconds())
}
