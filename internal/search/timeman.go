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
	"time"

	"github.com/stockade-engine/stockade/internal/board"
	. "github.com/stockade-engine/stockade/internal/types"
)

// TimeManager computes and tracks the two time limits of a search:
//
//   - optimum: the soft limit. Checked between iterations - when it
//     is exceeded (scaled by a stability factor) no new iteration is
//     started.
//   - maximum: the hard limit. The in-progress search aborts as soon
//     as it is exceeded (checked by the main worker's time check).
//
// "movetime" fixes both limits, "infinite" disables time management
// entirely.
type TimeManager struct {
	active  bool
	start   time.Time
	optimum time.Duration
	maximum time.Duration

	// stability tracking across iterations
	lastBestMove Move
	stableIters  int
}

// movesToGoBuffer is added to movestogo so the engine never burns
// its full remaining time on the nominal last move of a time
// control.
const movesToGoBuffer = 2

// defaultMovesToGo is assumed when the time control has no movestogo.
const defaultMovesToGo = 40

// NewTimeManager computes the time allocation for the given position
// and limits. overhead is the "Move Overhead" option - an allowance
// for GUI and transport latency subtracted from every allocation.
func NewTimeManager(p *board.Position, l *Limits, overhead time.Duration) *TimeManager {
	tm := &TimeManager{start: time.Now()}

	if l.Infinite || !l.TimeControl {
		return tm
	}
	tm.active = true

	if l.MoveTime > 0 {
		tm.optimum = l.MoveTime - overhead
		if tm.optimum < time.Millisecond {
			tm.optimum = time.Millisecond
		}
		tm.maximum = tm.optimum
		return tm
	}

	var remaining, inc time.Duration
	if p.NextPlayer() == White {
		remaining, inc = l.WhiteTime, l.WhiteInc
	} else {
		remaining, inc = l.BlackTime, l.BlackInc
	}

	mtg := l.MovesToGo
	if mtg == 0 {
		mtg = defaultMovesToGo
	}

	tm.optimum = (remaining+time.Duration(mtg)*inc)/time.Duration(mtg+movesToGoBuffer) - overhead
	if tm.optimum < time.Millisecond {
		tm.optimum = time.Millisecond
	}

	tm.maximum = tm.optimum * 5
	if cap := remaining*8/10 - overhead; tm.maximum > cap {
		tm.maximum = cap
	}
	if tm.maximum < tm.optimum {
		tm.maximum = tm.optimum
	}
	return tm
}

// Active reports whether time management is in effect.
func (tm *TimeManager) Active() bool {
	return tm.active
}

// Elapsed returns the wall time since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.start)
}

// Optimum returns the soft limit.
func (tm *TimeManager) Optimum() time.Duration {
	return tm.optimum
}

// Maximum returns the hard limit.
func (tm *TimeManager) Maximum() time.Duration {
	return tm.maximum
}

// HardLimitReached reports whether the in-progress search must abort
// now. Called from the main worker's periodic time check.
func (tm *TimeManager) HardLimitReached() bool {
	return tm.active && tm.Elapsed() >= tm.maximum
}

// RegisterBestMove updates the stability tracking with the best move
// of a completed iteration.
func (tm *TimeManager) RegisterBestMove(m Move) {
	if m.MoveOf() == tm.lastBestMove {
		tm.stableIters++
	} else {
		tm.stableIters = 0
	}
	tm.lastBestMove = m.MoveOf()
}

// stabilityFactor scales the soft limit: a best move which keeps
// changing buys extra time, a stable one gives some back.
func (tm *TimeManager) stabilityFactor() float64 {
	switch {
	case tm.stableIters == 0:
		return 1.6
	case tm.stableIters == 1:
		return 1.2
	case tm.stableIters < 4:
		return 1.0
	default:
		return 0.8
	}
}

// ShouldStopSoft reports whether a new iteration should not be
// started anymore. Called between iterations only.
func (tm *TimeManager) ShouldStopSoft() bool {
	if !tm.active {
		return false
	}
	return float64(tm.Elapsed()) > float64(tm.optimum)*tm.stabilityFactor()
}
