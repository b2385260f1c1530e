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

// Package history holds the per-worker move ordering state: the
// butterfly history of quiet moves, two killer moves per ply and the
// counter move table. These tables are single-writer - every search
// worker owns its own instance and they are never shared.
package history

import (
	. "github.com/stockade-engine/stockade/internal/types"
)

// Max bounds the absolute value of a butterfly history entry.
const Max int32 = 16384

// History is the per-worker move ordering state.
type History struct {
	// Butterfly maps (side to move, from, to) of a quiet move to a
	// bounded goodness counter.
	Butterfly [ColorLength][SqLength - 1][SqLength - 1]int32

	// Killers holds two killer moves per ply. Two extra plies of
	// headroom so the search can clear the grandchildren slots.
	Killers [MaxPlies + 2][2]Move

	// Counter maps the opponent's last move (from, to) to the best
	// known reply.
	Counter [SqLength - 1][SqLength - 1]Move
}

// NewHistory creates an empty History instance.
func NewHistory() *History {
	return &History{}
}

// Clear resets all tables.
func (h *History) Clear() {
	*h = History{}
}

// UpdateQuiet rewards the quiet move which caused a beta cutoff and
// penalizes all quiet moves which were tried before it. The bonus
// grows with the remaining depth of the cutoff node.
func (h *History) UpdateQuiet(us Color, best Move, depth int, quiets []Move) {
	bonus := int32(depth * depth)
	if bonus > Max {
		bonus = Max
	}
	h.update(us, best.From(), best.To(), bonus)
	for _, q := range quiets {
		if q.MoveOf() == best.MoveOf() {
			continue
		}
		h.update(us, q.From(), q.To(), -bonus)
	}
}

// update applies a gravity update: the delta is added and a fraction
// |value| * |delta| / Max is subtracted so that entries approach the
// bound asymptotically and never saturate.
func (h *History) update(us Color, from, to Square, delta int32) {
	v := h.Butterfly[us][from][to]
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	v += delta - v*abs/Max
	if v > Max {
		v = Max
	} else if v < -Max {
		v = -Max
	}
	h.Butterfly[us][from][to] = v
}

// StoreKiller stores a quiet cutoff move in the killer slots of the
// ply. If the move is already the first killer nothing changes,
// otherwise the first killer is shifted to the second slot.
func (h *History) StoreKiller(ply int, m Move) {
	m = m.MoveOf()
	if h.Killers[ply][0] == m {
		return
	}
	h.Killers[ply][1] = h.Killers[ply][0]
	h.Killers[ply][0] = m
}

// KillersAt returns the killer moves of the ply.
func (h *History) KillersAt(ply int) [2]Move {
	return h.Killers[ply]
}

// ClearKillers resets the killer slots of the ply. The search clears
// the grandchildren's slots before entering a node.
func (h *History) ClearKillers(ply int) {
	h.Killers[ply][0] = MoveNone
	h.Killers[ply][1] = MoveNone
}

// StoreCounter stores the move as the best known reply to the
// opponent's last move.
func (h *History) StoreCounter(lastMove, m Move) {
	if lastMove == MoveNone {
		return
	}
	h.Counter[lastMove.From()][lastMove.To()] = m.MoveOf()
}

// CounterFor returns the stored reply to the given opponent move or
// MoveNone.
func (h *History) CounterFor(lastMove Move) Move {
	if lastMove == MoveNone {
		return MoveNone
	}
	return h.Counter[lastMove.From()][lastMove.To()]
}
