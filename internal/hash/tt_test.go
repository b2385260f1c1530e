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

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/stockade-engine/stockade/internal/types"
)

func TestPutAndProbe(t *testing.T) {
	tt := NewTable(2)
	key := Key(0x123456789ABCDEF0)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	_, found := tt.Probe(key)
	assert.False(t, found)

	tt.Put(key, move, 8, Value(55), Value(23), BoundExact)

	entry, found := tt.Probe(key)
	require.True(t, found)
	assert.Equal(t, move.MoveOf(), entry.Move)
	assert.Equal(t, Value(55), entry.Value)
	assert.Equal(t, Value(23), entry.Eval)
	assert.Equal(t, int8(8), entry.Depth)
	assert.Equal(t, BoundExact, entry.Bound)

	// a different key in the same cluster reads as a miss
	_, found = tt.Probe(key ^ 1)
	assert.False(t, found)
}

func TestDeeperEntryIsKept(t *testing.T) {
	tt := NewTable(2)
	key := Key(0xCAFEBABE12345678)
	deepMove := CreateMove(SqD2, SqD4, Normal, PtNone)
	shallowMove := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.Put(key, deepMove, 12, Value(100), Value(0), BoundLower)
	// a shallower non-exact result for the same key must not erase
	// the deeper entry
	tt.Put(key, shallowMove, 4, Value(-50), Value(0), BoundUpper)

	entry, found := tt.Probe(key)
	require.True(t, found)
	assert.Equal(t, int8(12), entry.Depth)
	assert.Equal(t, deepMove.MoveOf(), entry.Move)

	// an equal or deeper search replaces
	tt.Put(key, shallowMove, 12, Value(70), Value(0), BoundExact)
	entry, found = tt.Probe(key)
	require.True(t, found)
	assert.Equal(t, Value(70), entry.Value)
	assert.Equal(t, shallowMove.MoveOf(), entry.Move)
}

func TestTornEntryReadsAsMiss(t *testing.T) {
	tt := NewTable(2)
	key := Key(0xDEADBEEF00112233)
	tt.Put(key, MoveNone, 5, Value(10), Value(10), BoundExact)

	_, found := tt.Probe(key)
	require.True(t, found)

	// simulate a torn write: flip a bit in the data word without
	// updating the key - the XOR verification must reject it
	idx := tt.clusterIndex(key)
	for i := uint64(0); i < ClusterSize; i++ {
		if tt.data[idx+i].data != 0 {
			tt.data[idx+i].data ^= 0x10000
		}
	}
	_, found = tt.Probe(key)
	assert.False(t, found)
}

func TestClearAndHashfull(t *testing.T) {
	tt := NewTable(1)
	assert.Equal(t, 0, tt.Hashfull())

	for i := 0; i < 1000; i++ {
		tt.Put(Key(uint64(i)*0x9E3779B97F4A7C15+1), MoveNone, 1, Value(i%100), ValueNA, BoundUpper)
	}
	assert.Greater(t, tt.Hashfull(), 0)
	assert.Greater(t, tt.Len(), uint64(0))

	tt.Clear()
	assert.Equal(t, 0, tt.Hashfull())
	assert.Equal(t, uint64(0), tt.Len())
}

func TestResize(t *testing.T) {
	tt := NewTable(1)
	size1 := tt.SizeInByte()
	tt.Resize(4)
	assert.Greater(t, tt.SizeInByte(), size1)
	// resized table is empty
	assert.Equal(t, 0, tt.Hashfull())
}

func TestGenerationBiasesReplacement(t *testing.T) {
	tt := NewTable(1)
	key := Key(0x1122334455667788)

	tt.Put(key, MoveNone, 6, Value(1), ValueNA, BoundExact)
	tt.NewSearch()

	entry, found := tt.Probe(key)
	require.True(t, found)
	assert.Equal(t, int8(6), entry.Depth)

	// fill the same cluster with shallower entries of the new
	// generation so the stale entry becomes the replacement victim
	// (the keys differ only in low bits and share the cluster)
	tt.Put(key+1, MoveNone, 4, Value(2), ValueNA, BoundExact)
	tt.Put(key+2, MoveNone, 4, Value(3), ValueNA, BoundExact)
	tt.Put(key+3, MoveNone, 4, Value(4), ValueNA, BoundExact)

	_, found = tt.Probe(key)
	assert.False(t, found, "the stale entry must be replaced although it is deeper")
	_, found = tt.Probe(key + 1)
	assert.True(t, found)
	_, found = tt.Probe(key + 3)
	assert.True(t, found)
}

func TestMateValueEncoding(t *testing.T) {
	// a mate found 5 plies into the search, stored at ply 3
	mate := MateIn(5)
	stored := ValueToTT(mate, 3)
	restored := ValueFromTT(stored, 3)
	assert.Equal(t, mate, restored)

	// loading the same entry at a different ply shifts the mate
	// distance so "mate in N from here" stays correct
	atPly7 := ValueFromTT(stored, 7)
	assert.Equal(t, mate-4, atPly7)

	// negative mates mirror
	mated := MatedIn(4)
	assert.Equal(t, mated, ValueFromTT(ValueToTT(mated, 2), 2))

	// normal scores pass through unchanged
	assert.Equal(t, Value(123), ValueToTT(Value(123), 10))
	assert.Equal(t, Value(-123), ValueFromTT(Value(-123), 10))
}

func TestZeroSizeTable(t *testing.T) {
	tt := NewTable(0)
	key := Key(42)
	tt.Put(key, MoveNone, 1, Value(1), Value(1), BoundExact)
	_, found := tt.Probe(key)
	assert.False(t, found)
	assert.Equal(t, 0, tt.Hashfull())
}
