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
	"sort"

	"github.com/stockade-engine/stockade/internal/moveslice"
	. "github.com/stockade-engine/stockade/internal/types"
)

// RootMove is one entry of the root move list. Each root move keeps
// its score of the current and the previous iteration, the selective
// depth reached below it and its own principal variation buffer.
type RootMove struct {
	Move      Move
	Value     Value
	PrevValue Value
	SelDepth  int
	Pv        moveslice.MoveSlice
}

// RootMoves is the list of legal moves of the root position. It is
// iterated once per iteration depth (and once per MultiPV line) and
// re-sorted between iterations so the best line is searched first.
type RootMoves []RootMove

// NewRootMoves builds a root move list from the given legal moves.
func NewRootMoves(legal moveslice.MoveSlice) RootMoves {
	rm := make(RootMoves, 0, len(legal))
	for _, m := range legal {
		rm = append(rm, RootMove{
			Move:      m.MoveOf(),
			Value:     ValueNA,
			PrevValue: ValueNA,
			Pv:        make(moveslice.MoveSlice, 0, MaxPlies),
		})
	}
	return rm
}

// Clone returns a deep copy so each worker can own its list.
func (rm RootMoves) Clone() RootMoves {
	c := make(RootMoves, len(rm))
	copy(c, rm)
	for i := range c {
		c[i].Pv = rm[i].Pv.Clone()
	}
	return c
}

// Find returns a pointer to the root move entry for the given move
// within rm[from:], or nil when the move is not part of the list.
// Moves generated during root search but not present in the list
// (searchmoves restriction, already resolved MultiPV lines) are
// skipped by the caller.
func (rm RootMoves) Find(from int, m Move) *RootMove {
	bare := m.MoveOf()
	for i := from; i < len(rm); i++ {
		if rm[i].Move == bare {
			return &rm[i]
		}
	}
	return nil
}

// Sort sorts rm[from:] by current value, breaking ties with the
// previous iteration's value. The sort is stable so the previous
// order is kept for unsearched moves.
func (rm RootMoves) Sort(from int) {
	s := rm[from:]
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Value != s[j].Value {
			return s[i].Value > s[j].Value
		}
		return s[i].PrevValue > s[j].PrevValue
	})
}

// NewIteration saves the current values as previous values and
// invalidates the current ones.
func (rm RootMoves) NewIteration() {
	for i := range rm {
		rm[i].PrevValue = rm[i].Value
		rm[i].Value = ValueNA
	}
}
