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
	. "github.com/stockade-engine/stockade/internal/types"
)

// Zobrist tables. Keys must be identical for every run so that
// transposition table contents and test results are reproducible.
// Therefore a simple xorshift generator with a fixed seed is used
// instead of math/rand.
var (
	zobristPiece    [PieceLength][SqLength - 1]Key
	zobristCastling [CastlingRightsCount]Key
	zobristEpFile   [8]Key
	zobristSide     Key
)

// prng is a xorshift64* pseudo random generator. Good enough
// distribution for hashing and fully deterministic.
type prng struct {
	state uint64
}

func (r *prng) next() uint64 {
	r.state ^= r.state >> 12
	r.state ^= r.state << 25
	r.state ^= r.state >> 27
	return r.state * 2685821657736338717
}

func init() {
	r := prng{state: 1070372}
	for p := 0; p < PieceLength; p++ {
		for sq := SqA1; sq <= SqH8; sq++ {
			zobristPiece[p][sq] = Key(r.next())
		}
	}
	for i := 0; i < CastlingRightsCount; i++ {
		zobristCastling[i] = Key(r.next())
	}
	for i := 0; i < 8; i++ {
		zobristEpFile[i] = Key(r.next())
	}
	zobristSide = Key(r.next())
}
