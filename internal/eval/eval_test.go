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

package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockade-engine/stockade/internal/board"
)

func TestStartPositionSymmetry(t *testing.T) {
	e := NewEvaluator()
	p := board.NewPosition()
	// a symmetric position evaluates to the tempo bonus for the
	// side to move
	assert.Equal(t, Tempo, e.Evaluate(p))

	p.DoNullMove()
	assert.Equal(t, Tempo, e.Evaluate(p))
}

func TestMaterialAdvantage(t *testing.T) {
	e := NewEvaluator()
	// white is a queen up
	p, err := board.NewPositionFen("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	v := e.Evaluate(p)
	assert.Greater(t, int(v), 700, "queen advantage must dominate, got %d", v)

	// the same position from black's point of view is negative
	p.DoNullMove()
	v = e.Evaluate(p)
	assert.Less(t, int(v), -700)
}

func TestSideToMoveRelative(t *testing.T) {
	e := NewEvaluator()
	pw, err := board.NewPositionFen("4k3/8/8/8/8/8/8/2BQK3 w - - 0 1")
	require.NoError(t, err)
	pb, err := board.NewPositionFen("4k3/8/8/8/8/8/8/2BQK3 b - - 0 1")
	require.NoError(t, err)

	vw := e.Evaluate(pw)
	vb := e.Evaluate(pb)
	// white's advantage from white's view mirrors black's view up
	// to the tempo bonus
	assert.Equal(t, vw-Tempo, -(vb - Tempo))
}

func TestCentralizationPreferred(t *testing.T) {
	e := NewEvaluator()
	center, err := board.NewPositionFen("4k3/8/8/8/4N3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	corner, err := board.NewPositionFen("4k3/8/8/8/8/8/8/N3K3 w - - 0 1")
	require.NoError(t, err)
	assert.Greater(t, int(e.Evaluate(center)), int(e.Evaluate(corner)),
		"a centralized knight must evaluate better than a cornered one")
}

func TestDeterministic(t *testing.T) {
	e := NewEvaluator()
	p, err := board.NewPositionFen(
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	v1 := e.Evaluate(p)
	v2 := e.Evaluate(p)
	assert.Equal(t, v1, v2)
}
