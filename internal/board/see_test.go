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

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/stockade-engine/stockade/internal/types"
)

// See prunes exchange branches which cannot change the sign of the
// result, so for clearly losing or clearly winning captures only
// the sign is guaranteed - the search uses it exactly like that
// (See >= 0 means a good capture).

func seeOf(t *testing.T, fen string, from, to Square) Value {
	p, err := NewPositionFen(fen)
	require.NoError(t, err)
	return p.See(CreateMove(from, to, Normal, PtNone))
}

func TestSeeUndefendedPawn(t *testing.T) {
	// rook takes an undefended pawn: exactly +100
	v := seeOf(t, "4k3/8/8/3p4/8/8/8/3R2K1 w - - 0 1", SqD1, SqD5)
	assert.Equal(t, Value(100), v)
}

func TestSeeDefendedPawn(t *testing.T) {
	// rook takes a pawn defended by a pawn - losing
	v := seeOf(t, "4k3/4p3/3p4/8/8/8/8/3R2K1 w - - 0 1", SqD1, SqD6)
	assert.True(t, v < 0, "RxP with pawn recapture must lose material, got %d", v)
}

func TestSeePawnTakesDefendedKnight(t *testing.T) {
	// pawn takes a defended knight - winning regardless of the
	// recapture
	v := seeOf(t, "4k3/4p3/3n4/2P5/8/8/8/6K1 w - - 0 1", SqC5, SqD6)
	assert.True(t, v > 0, "PxN must win material, got %d", v)
}

func TestSeeEqualExchange(t *testing.T) {
	// rook takes a rook which is defended by a rook: 500 - 500 = 0
	v := seeOf(t, "3r2k1/3r4/8/8/8/8/3R4/6K1 w - - 0 1", SqD2, SqD7)
	assert.Equal(t, Value(0), v)
}

func TestSeeXrayRecapture(t *testing.T) {
	// doubled white rooks win the exchange on d7: RxR, RxR, RxR
	// leaves white a rook up - the x-ray attacker behind the first
	// rook must be found
	v := seeOf(t, "3r2k1/3r4/8/8/8/8/3R4/3R2K1 w - - 0 1", SqD2, SqD7)
	assert.Equal(t, Value(500), v)
}
