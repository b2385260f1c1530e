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

// Package moveslice provides a helper around a slice of moves used
// for move lists, principal variation buffers and restricted move
// sets in search limits.
package moveslice

import (
	"sort"
	"strings"

	. "github.com/stockade-engine/stockade/internal/types"
)

// MoveSlice is a slice of moves with convenience functions.
type MoveSlice []Move

// NewMoveSlice creates a new MoveSlice with the given capacity and
// returns a pointer to it.
func NewMoveSlice(cap int) *MoveSlice {
	ms := make(MoveSlice, 0, cap)
	return &ms
}

// Len returns the number of moves in the slice.
func (ms *MoveSlice) Len() int {
	return len(*ms)
}

// At returns the move at index i.
func (ms *MoveSlice) At(i int) Move {
	return (*ms)[i]
}

// Set replaces the move at index i.
func (ms *MoveSlice) Set(i int, m Move) {
	(*ms)[i] = m
}

// PushBack appends a move.
func (ms *MoveSlice) PushBack(m Move) {
	*ms = append(*ms, m)
}

// PopBack removes and returns the last move. Undefined on an empty
// slice.
func (ms *MoveSlice) PopBack() Move {
	m := (*ms)[len(*ms)-1]
	*ms = (*ms)[:len(*ms)-1]
	return m
}

// Clear removes all moves but keeps the allocated capacity.
func (ms *MoveSlice) Clear() {
	*ms = (*ms)[:0]
}

// Contains checks if the given move (ignoring sort values) is in the
// slice.
func (ms *MoveSlice) Contains(m Move) bool {
	for _, cur := range *ms {
		if cur.MoveOf() == m.MoveOf() {
			return true
		}
	}
	return false
}

// Sort sorts the moves by their encoded sort value in descending
// order. The sort is stable so equal moves keep their relative order
// from generation.
func (ms *MoveSlice) Sort() {
	sort.SliceStable(*ms, func(i, j int) bool {
		return (*ms)[i].ValueOf() > (*ms)[j].ValueOf()
	})
}

// Clone returns a copy of the slice with its own backing array.
func (ms *MoveSlice) Clone() MoveSlice {
	c := make(MoveSlice, len(*ms))
	copy(c, *ms)
	return c
}

// StringUci returns all moves in UCI notation separated by a space.
func (ms *MoveSlice) StringUci() string {
	var sb strings.Builder
	for i, m := range *ms {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(m.StringUci())
	}
	return sb.String()
}
