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

package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/stockade-engine/stockade/internal/types"
)

func TestUpdateQuietBonusAndMalus(t *testing.T) {
	h := NewHistory()
	best := CreateMove(SqE2, SqE4, Normal, PtNone)
	tried := CreateMove(SqD2, SqD4, Normal, PtNone)

	h.UpdateQuiet(White, best, 5, []Move{tried, best})

	assert.Greater(t, h.Butterfly[White][SqE2][SqE4], int32(0))
	assert.Less(t, h.Butterfly[White][SqD2][SqD4], int32(0))
	// the best move must not be penalized even when it appears in
	// the tried list
	assert.Equal(t, int32(25), h.Butterfly[White][SqE2][SqE4])
}

func TestGravityNeverSaturates(t *testing.T) {
	h := NewHistory()
	m := CreateMove(SqE2, SqE4, Normal, PtNone)
	for i := 0; i < 10000; i++ {
		h.UpdateQuiet(White, m, 20, nil)
	}
	v := h.Butterfly[White][SqE2][SqE4]
	assert.True(t, v > 0 && v <= Max, "history value out of bounds: %d", v)

	// and the value can be pulled back down again
	other := CreateMove(SqD2, SqD4, Normal, PtNone)
	for i := 0; i < 10000; i++ {
		h.UpdateQuiet(White, other, 20, []Move{m})
	}
	v = h.Butterfly[White][SqE2][SqE4]
	assert.True(t, v < 0 && v >= -Max, "history value out of bounds: %d", v)
}

func TestKillerInsertShiftsAndDeduplicates(t *testing.T) {
	h := NewHistory()
	m1 := CreateMove(SqE2, SqE4, Normal, PtNone)
	m2 := CreateMove(SqD2, SqD4, Normal, PtNone)
	m3 := CreateMove(SqG1, SqF3, Normal, PtNone)

	h.StoreKiller(3, m1)
	assert.Equal(t, [2]Move{m1, MoveNone}, h.KillersAt(3))

	// storing the same move again changes nothing
	h.StoreKiller(3, m1)
	assert.Equal(t, [2]Move{m1, MoveNone}, h.KillersAt(3))

	// a new killer shifts the old one to the second slot
	h.StoreKiller(3, m2)
	assert.Equal(t, [2]Move{m2, m1}, h.KillersAt(3))

	h.StoreKiller(3, m3)
	assert.Equal(t, [2]Move{m3, m2}, h.KillersAt(3))

	// other plies are untouched
	assert.Equal(t, [2]Move{MoveNone, MoveNone}, h.KillersAt(4))

	h.ClearKillers(3)
	assert.Equal(t, [2]Move{MoveNone, MoveNone}, h.KillersAt(3))
}

func TestCounterMoves(t *testing.T) {
	h := NewHistory()
	lastMove := CreateMove(SqE7, SqE5, Normal, PtNone)
	reply := CreateMove(SqG1, SqF3, Normal, PtNone)

	assert.Equal(t, MoveNone, h.CounterFor(lastMove))
	h.StoreCounter(lastMove, reply)
	assert.Equal(t, reply.MoveOf(), h.CounterFor(lastMove))

	// MoveNone as last move is ignored
	h.StoreCounter(MoveNone, reply)
	assert.Equal(t, MoveNone, h.CounterFor(MoveNone))
}

func TestClear(t *testing.T) {
	h := NewHistory()
	m := CreateMove(SqE2, SqE4, Normal, PtNone)
	h.UpdateQuiet(White, m, 8, nil)
	h.StoreKiller(0, m)
	h.StoreCounter(m, m)
	h.Clear()
	assert.Equal(t, int32(0), h.Butterfly[White][SqE2][SqE4])
	assert.Equal(t, [2]Move{MoveNone, MoveNone}, h.KillersAt(0))
}
