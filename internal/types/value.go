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

package types

import "fmt"

// Value is a search score in centipawns from the point of view of the
// side to move. The range fits into 16 bits so values can be stored
// in transposition table entries and in the sort-value half of a Move.
type Value int16

// Value constants. Mate scores are encoded close to ValueCheckMate;
// a score v with |v| > ValueCheckMateThreshold is a mate score and
// ValueCheckMate - |v| is the distance to mate in plies.
const (
	ValueZero               Value = 0
	ValueDraw               Value = 0
	ValueInf                Value = 15000
	ValueNA                 Value = -ValueInf - 1
	ValueMin                Value = -ValueInf
	ValueMax                Value = ValueInf
	ValueCheckMate          Value = 10000
	ValueCheckMateThreshold Value = ValueCheckMate - Value(2*MaxPlies)
)

// MatedIn returns the value for being checkmated in ply plies.
func MatedIn(ply int) Value {
	return -ValueCheckMate + Value(ply)
}

// MateIn returns the value for giving checkmate in ply plies.
func MateIn(ply int) Value {
	return ValueCheckMate - Value(ply)
}

// IsValid checks if the value is within the engine's value range.
func (v Value) IsValid() bool {
	return v >= ValueMin && v <= ValueMax
}

// IsCheckMateValue checks if the value encodes a forced mate (for
// either side).
func (v Value) IsCheckMateValue() bool {
	return v > ValueCheckMateThreshold || v < -ValueCheckMateThreshold
}

// Abs returns the absolute value.
func (v Value) Abs() Value {
	if v < 0 {
		return -v
	}
	return v
}

// MateDistance returns the distance to mate in moves (not plies) as
// reported by UCI "score mate". Positive means the side to move mates.
// Only meaningful if IsCheckMateValue is true.
func (v Value) MateDistance() int {
	if v > 0 {
		return int(ValueCheckMate-v+1) / 2
	}
	return -int(ValueCheckMate+v+1) / 2
}

// String returns the UCI representation of the value, either
// "cp <centipawns>" or "mate <moves>".
func (v Value) String() string {
	if v.IsCheckMateValue() {
		return fmt.Sprintf("mate %d", v.MateDistance())
	}
	return fmt.Sprintf("cp %d", int(v))
}
