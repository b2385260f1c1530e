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

package moveslice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/stockade-engine/stockade/internal/types"
)

func TestPushPop(t *testing.T) {
	ms := NewMoveSlice(8)
	assert.Equal(t, 0, ms.Len())

	m1 := CreateMove(SqE2, SqE4, Normal, PtNone)
	m2 := CreateMove(SqD2, SqD4, Normal, PtNone)
	ms.PushBack(m1)
	ms.PushBack(m2)
	assert.Equal(t, 2, ms.Len())
	assert.Equal(t, m1, ms.At(0))

	popped := ms.PopBack()
	assert.Equal(t, m2, popped)
	assert.Equal(t, 1, ms.Len())

	ms.Clear()
	assert.Equal(t, 0, ms.Len())
}

func TestContains(t *testing.T) {
	ms := NewMoveSlice(8)
	m := CreateMove(SqE2, SqE4, Normal, PtNone)
	ms.PushBack(m)

	// sort values are ignored for containment
	valued := m
	valued.SetValue(Value(100))
	assert.True(t, ms.Contains(valued))
	assert.False(t, ms.Contains(CreateMove(SqD2, SqD4, Normal, PtNone)))
}

func TestSortByValue(t *testing.T) {
	ms := NewMoveSlice(8)
	low := CreateMove(SqA2, SqA3, Normal, PtNone)
	low.SetValue(Value(10))
	high := CreateMove(SqE2, SqE4, Normal, PtNone)
	high.SetValue(Value(500))
	mid := CreateMove(SqD2, SqD4, Normal, PtNone)
	mid.SetValue(Value(100))

	ms.PushBack(low)
	ms.PushBack(high)
	ms.PushBack(mid)
	ms.Sort()

	assert.Equal(t, high, ms.At(0))
	assert.Equal(t, mid, ms.At(1))
	assert.Equal(t, low, ms.At(2))
}

func TestCloneIsIndependent(t *testing.T) {
	ms := NewMoveSlice(8)
	ms.PushBack(CreateMove(SqE2, SqE4, Normal, PtNone))
	c := ms.Clone()
	c.PushBack(CreateMove(SqD2, SqD4, Normal, PtNone))
	assert.Equal(t, 1, ms.Len())
	assert.Equal(t, 2, c.Len())
}

func TestStringUci(t *testing.T) {
	ms := NewMoveSlice(8)
	assert.Equal(t, "", ms.StringUci())
	ms.PushBack(CreateMove(SqE2, SqE4, Normal, PtNone))
	ms.PushBack(CreateMove(SqE7, SqE5, Normal, PtNone))
	assert.Equal(t, "e2e4 e7e5", ms.StringUci())
}
