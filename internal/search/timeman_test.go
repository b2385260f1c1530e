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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stockade-engine/stockade/internal/board"
	. "github.com/stockade-engine/stockade/internal/types"
)

const overhead = 30 * time.Millisecond

func TestTimeManInfinite(t *testing.T) {
	p := board.NewPosition()
	tm := NewTimeManager(p, &Limits{Infinite: true}, overhead)
	assert.False(t, tm.Active())
	assert.False(t, tm.HardLimitReached())
	assert.False(t, tm.ShouldStopSoft())
}

func TestTimeManMoveTime(t *testing.T) {
	p := board.NewPosition()
	tm := NewTimeManager(p, &Limits{TimeControl: true, MoveTime: 500 * time.Millisecond}, overhead)
	assert.True(t, tm.Active())
	assert.Equal(t, 470*time.Millisecond, tm.Optimum())
	assert.Equal(t, tm.Optimum(), tm.Maximum(), "movetime fixes both limits")
}

func TestTimeManAllocation(t *testing.T) {
	p := board.NewPosition()
	limits := &Limits{
		TimeControl: true,
		WhiteTime:   60 * time.Second,
		BlackTime:   60 * time.Second,
		MovesToGo:   20,
	}
	tm := NewTimeManager(p, limits, overhead)
	assert.True(t, tm.Active())
	// 60s / (20 + 2) - overhead
	expected := 60*time.Second/22 - overhead
	assert.Equal(t, expected, tm.Optimum())
	assert.Equal(t, expected*5, tm.Maximum())
	assert.Less(t, tm.Maximum(), 60*time.Second*8/10)
}

func TestTimeManMaximumCapped(t *testing.T) {
	p := board.NewPosition()
	// very little time left: maximum must be capped below the
	// remaining time
	limits := &Limits{
		TimeControl: true,
		WhiteTime:   1 * time.Second,
		MovesToGo:   2,
	}
	tm := NewTimeManager(p, limits, overhead)
	assert.True(t, tm.Maximum() <= 1*time.Second*8/10)
	assert.True(t, tm.Maximum() >= tm.Optimum())
}

func TestTimeManIncrementIncluded(t *testing.T) {
	p := board.NewPosition()
	without := NewTimeManager(p, &Limits{
		TimeControl: true, WhiteTime: 10 * time.Second, MovesToGo: 10}, overhead)
	with := NewTimeManager(p, &Limits{
		TimeControl: true, WhiteTime: 10 * time.Second, WhiteInc: 1 * time.Second, MovesToGo: 10}, overhead)
	assert.Greater(t, with.Optimum(), without.Optimum())
}

func TestTimeManBlackUsesOwnClock(t *testing.T) {
	p, _ := board.NewPositionFen("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	tm := NewTimeManager(p, &Limits{
		TimeControl: true,
		WhiteTime:   1 * time.Second,
		BlackTime:   60 * time.Second,
		MovesToGo:   20,
	}, overhead)
	assert.Equal(t, 60*time.Second/22-overhead, tm.Optimum())
}

func TestStabilityFactorShrinksWhenStable(t *testing.T) {
	tm := &TimeManager{active: true, start: time.Now(), optimum: time.Hour, maximum: time.Hour}
	m := CreateMove(SqE2, SqE4, Normal, PtNone)

	tm.RegisterBestMove(m)
	changing := tm.stabilityFactor()
	for i := 0; i < 5; i++ {
		tm.RegisterBestMove(m)
	}
	stable := tm.stabilityFactor()
	assert.Less(t, stable, changing, "stable best move must shrink the soft limit factor")

	// a new best move resets stability
	tm.RegisterBestMove(CreateMove(SqD2, SqD4, Normal, PtNone))
	assert.Equal(t, changing, tm.stabilityFactor())
}
