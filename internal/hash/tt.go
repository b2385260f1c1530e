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

// Package hash implements the transposition table shared by all
// search workers. The table is organized in clusters of three
// 16-byte entries and is accessed without locks: each entry stores
// its key XOR-ed with its data so a torn write produces a key
// mismatch on verification and is treated as a miss. All consumers
// re-check key and bound before using a stored score.
package hash

import (
	"math"
	"math/bits"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/stockade-engine/stockade/internal/logging"
	. "github.com/stockade-engine/stockade/internal/types"
)

var out = message.NewPrinter(language.English)

// Bound classifies a stored score relative to the search window it
// was obtained with.
type Bound uint8

// Bound constants.
const (
	BoundNone  Bound = 0
	BoundUpper Bound = 1 // score was <= alpha, an upper bound
	BoundLower Bound = 2 // score was >= beta, a lower bound
	BoundExact Bound = 3 // score was inside the window
)

const (
	// MaxSizeInMB is the maximum memory usage of the table.
	MaxSizeInMB = 65536

	// ClusterSize is the number of entries a probe scans linearly.
	ClusterSize = 3

	// EntrySize is the size in bytes of one table entry.
	EntrySize = 16
)

// entry is one slot of the table. key holds the Zobrist key XOR-ed
// with data. data packs move (16 bit), value (16 bit), eval
// (16 bit), depth (8 bit), generation (6 bit) and bound (2 bit).
type entry struct {
	key  uint64
	data uint64
}

const (
	dataValueShift = 16
	dataEvalShift  = 32
	dataDepthShift = 48
	dataMetaShift  = 56

	boundMask uint64 = 0x3
)

func encodeData(move Move, value Value, eval Value, depth int8, bound Bound, generation uint8) uint64 {
	return uint64(uint16(move.MoveOf())) |
		uint64(uint16(value))<<dataValueShift |
		uint64(uint16(eval))<<dataEvalShift |
		uint64(uint8(depth))<<dataDepthShift |
		uint64(generation<<2|uint8(bound))<<dataMetaShift
}

// Entry is the decoded content of a table slot returned by Probe.
type Entry struct {
	Move  Move
	Value Value
	Eval  Value
	Depth int8
	Bound Bound

	generation uint8
}

func decodeData(data uint64) Entry {
	return Entry{
		Move:       Move(uint16(data)),
		Value:      Value(int16(uint16(data >> dataValueShift))),
		Eval:       Value(int16(uint16(data >> dataEvalShift))),
		Depth:      int8(uint8(data >> dataDepthShift)),
		Bound:      Bound(data >> dataMetaShift & boundMask),
		generation: uint8(data>>dataMetaShift) >> 2,
	}
}

// Table is the transposition table. Create with NewTable. Probe and
// Put may be called concurrently from all workers; Resize and Clear
// must only be called while no search is running.
type Table struct {
	log *logging.Logger

	data        []entry
	numClusters uint64
	sizeInByte  uint64
	generation  uint8

	numberOfEntries uint64 // approximate, updated with atomics
}

// NewTable creates a transposition table with the given maximum
// memory usage in megabytes.
func NewTable(sizeInMByte int) *Table {
	tt := &Table{log: myLogging.GetLog()}
	tt.Resize(sizeInMByte)
	return tt
}

// Resize resizes and clears the table. The number of clusters is
// rounded down to a power of two so the cluster index is a simple
// multiply-shift of the key.
func (tt *Table) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		tt.log.Error(out.Sprintf("Requested TT size of %d MB reduced to maximum of %d MB", sizeInMByte, MaxSizeInMB))
		sizeInMByte = MaxSizeInMB
	}
	sizeInByte := uint64(sizeInMByte) * MB
	tt.numClusters = 0
	if sizeInByte >= ClusterSize*EntrySize {
		tt.numClusters = uint64(1) << uint64(math.Floor(math.Log2(float64(sizeInByte/(ClusterSize*EntrySize)))))
	}
	tt.sizeInByte = tt.numClusters * ClusterSize * EntrySize
	tt.data = make([]entry, tt.numClusters*ClusterSize)
	tt.numberOfEntries = 0
	tt.log.Info(out.Sprintf("TT size %d MByte, %d clusters with %d entries of %d byte (requested %d MByte)",
		tt.sizeInByte/MB, tt.numClusters, ClusterSize, unsafe.Sizeof(entry{}), sizeInMByte))
}

// Clear empties the table. Work is split over several goroutines as
// tables can be several GB.
func (tt *Table) Clear() {
	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)
	slice := len(tt.data) / goroutines
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			start := i * slice
			end := start + slice
			if i == goroutines-1 {
				end = len(tt.data)
			}
			for n := start; n < end; n++ {
				tt.data[n] = entry{}
			}
		}(i)
	}
	wg.Wait()
	tt.generation = 0
	atomic.StoreUint64(&tt.numberOfEntries, 0)
}

// NewSearch advances the generation counter. Called once per root
// search so replacement can prefer entries of earlier searches.
func (tt *Table) NewSearch() {
	tt.generation = (tt.generation + 1) & 0x3F
}

// clusterIndex maps a key to the first entry index of its cluster.
func (tt *Table) clusterIndex(key Key) uint64 {
	hi, _ := bits.Mul64(uint64(key), tt.numClusters)
	return hi * ClusterSize
}

// Probe looks the key up and returns the decoded entry and whether
// a matching entry was found. A torn or overwritten slot fails the
// key verification and reads as a miss.
func (tt *Table) Probe(key Key) (Entry, bool) {
	if tt.numClusters == 0 {
		return Entry{}, false
	}
	idx := tt.clusterIndex(key)
	for i := uint64(0); i < ClusterSize; i++ {
		e := tt.data[idx+i]
		if e.key^e.data == uint64(key) && e.data != 0 {
			return decodeData(e.data), true
		}
	}
	return Entry{}, false
}

// Put stores a search result for the key. Replacement policy within
// the cluster: an entry for the same position is overwritten unless
// it is deeper than the new entry; otherwise an empty slot is
// preferred; otherwise the entry with the lowest depth is replaced,
// where entries of earlier generations count as shallower.
func (tt *Table) Put(key Key, move Move, depth int8, value Value, eval Value, bound Bound) {
	if tt.numClusters == 0 {
		return
	}
	idx := tt.clusterIndex(key)

	var replace *entry
	replaceScore := int(^uint(0) >> 1)

	for i := uint64(0); i < ClusterSize; i++ {
		e := &tt.data[idx+i]
		if e.data == 0 && e.key == 0 {
			// empty slot
			atomic.AddUint64(&tt.numberOfEntries, 1)
			replace = e
			break
		}
		if e.key^e.data == uint64(key) {
			// same position - do not erase a deeper entry
			stored := decodeData(e.data)
			if stored.Depth > depth {
				// refresh the generation so the entry survives
				// replacement a while longer
				data := encodeData(stored.Move, stored.Value, stored.Eval, stored.Depth, stored.Bound, tt.generation)
				e.key = uint64(key) ^ data
				e.data = data
				return
			}
			replace = e
			break
		}
		stored := decodeData(e.data)
		score := int(stored.Depth) - 8*tt.relativeAge(stored.generation)
		if score < replaceScore {
			replaceScore = score
			replace = e
		}
	}

	data := encodeData(move, value, eval, depth, bound, tt.generation)
	replace.key = uint64(key) ^ data
	replace.data = data
}

// relativeAge returns how many generations ago the entry was
// written, accounting for the 6-bit wrap around.
func (tt *Table) relativeAge(generation uint8) int {
	return int((64 + tt.generation - generation) & 0x3F)
}

// Hashfull returns the fill state of the table in permill as
// required by the UCI protocol.
func (tt *Table) Hashfull() int {
	if tt.numClusters == 0 {
		return 0
	}
	n := atomic.LoadUint64(&tt.numberOfEntries)
	max := tt.numClusters * ClusterSize
	if n > max {
		n = max
	}
	return int((1000 * n) / max)
}

// Len returns the approximate number of used entries.
func (tt *Table) Len() uint64 {
	return atomic.LoadUint64(&tt.numberOfEntries)
}

// SizeInByte returns the actual allocated size of the table.
func (tt *Table) SizeInByte() uint64 {
	return tt.sizeInByte
}

// String returns a description of the table for logs.
func (tt *Table) String() string {
	return out.Sprintf("TT: size %d MB, %d entries, %d used (%d permill)",
		tt.sizeInByte/MB, tt.numClusters*ClusterSize, tt.Len(), tt.Hashfull())
}

// ValueToTT makes a mate score relative to the current ply before it
// is stored so that "mate in N" stays correct when the position is
// reached over a different path.
func ValueToTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			return value + Value(ply)
		}
		return value - Value(ply)
	}
	return value
}

// ValueFromTT converts a stored mate score back to an absolute score
// for the current ply.
func ValueFromTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			return value - Value(ply)
		}
		return value + Value(ply)
	}
	return value
}
