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

// Attack generation. Pawn, knight and king attacks are fully
// precomputed. Sliding piece attacks use precomputed rays which are
// cut at the first blocker of the given occupancy (classical
// approach - magic bitboards would only be a speed optimization).

// ray directions, grouped so the first four are the rook directions
// and the last four the bishop directions.
const (
	dirNorth = iota
	dirSouth
	dirEast
	dirWest
	dirNorthEast
	dirNorthWest
	dirSouthEast
	dirSouthWest
	dirLength
)

var (
	pawnAttacksBb   [ColorLength][SqLength - 1]Bitboard
	knightAttacksBb [SqLength - 1]Bitboard
	kingAttacksBb   [SqLength - 1]Bitboard
	raysBb          [dirLength][SqLength - 1]Bitboard

	// squaresBetween[a][b] has the squares strictly between a and b
	// set when both are on a common line, otherwise it is empty.
	squaresBetween [SqLength - 1][SqLength - 1]Bitboard
)

var dirDeltas = [dirLength][2]int{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// positive directions scan the ray with the lowest blocker first,
// negative directions with the highest.
var dirPositive = [dirLength]bool{
	true, false, true, false, true, true, false, false,
}

func init() {
	initLeaperAttacks()
	initRays()
	initBetween()
}

func initLeaperAttacks() {
	knightDeltas := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	for sq := SqA1; sq <= SqH8; sq++ {
		f, r := int(sq.FileOf()), int(sq.RankOf())
		for _, d := range knightDeltas {
			knightAttacksBb[sq] |= safeSquareBb(f+d[0], r+d[1])
		}
		for _, d := range kingDeltas {
			kingAttacksBb[sq] |= safeSquareBb(f+d[0], r+d[1])
		}
		pawnAttacksBb[White][sq] = safeSquareBb(f-1, r+1) | safeSquareBb(f+1, r+1)
		pawnAttacksBb[Black][sq] = safeSquareBb(f-1, r-1) | safeSquareBb(f+1, r-1)
	}
}

func initRays() {
	for sq := SqA1; sq <= SqH8; sq++ {
		for d := 0; d < dirLength; d++ {
			f := int(sq.FileOf()) + dirDeltas[d][0]
			r := int(sq.RankOf()) + dirDeltas[d][1]
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				raysBb[d][sq] |= SquareOf(File(f), Rank(r)).Bb()
				f += dirDeltas[d][0]
				r += dirDeltas[d][1]
			}
		}
	}
}

func initBetween() {
	for a := SqA1; a <= SqH8; a++ {
		for d := 0; d < dirLength; d++ {
			ray := raysBb[d][a]
			for tmp := ray; tmp != 0; {
				b := tmp.PopLsb()
				squaresBetween[a][b] = ray &^ raysBb[d][b] &^ b.Bb()
			}
		}
	}
}

func safeSquareBb(f, r int) Bitboard {
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return BbEmpty
	}
	return SquareOf(File(f), Rank(r)).Bb()
}

func rayAttacks(d int, sq Square, occupied Bitboard) Bitboard {
	attacks := raysBb[d][sq]
	blockers := attacks & occupied
	if blockers != 0 {
		var first Square
		if dirPositive[d] {
			first = blockers.Lsb()
		} else {
			first = blockers.Msb()
		}
		attacks &^= raysBb[d][first]
	}
	return attacks
}

// PawnAttacks returns the squares attacked by a pawn of the given
// color on the given square.
func PawnAttacks(c Color, sq Square) Bitboard {
	return pawnAttacksBb[c][sq]
}

// KnightAttacks returns the knight attack set of the square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacksBb[sq]
}

// KingAttacks returns the king attack set of the square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacksBb[sq]
}

// RookAttacks returns the rook attack set of the square with the
// given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(dirNorth, sq, occupied) |
		rayAttacks(dirSouth, sq, occupied) |
		rayAttacks(dirEast, sq, occupied) |
		rayAttacks(dirWest, sq, occupied)
}

// BishopAttacks returns the bishop attack set of the square with the
// given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(dirNorthEast, sq, occupied) |
		rayAttacks(dirNorthWest, sq, occupied) |
		rayAttacks(dirSouthEast, sq, occupied) |
		rayAttacks(dirSouthWest, sq, occupied)
}

// QueenAttacks returns the queen attack set of the square with the
// given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}

// Between returns the squares strictly between the two squares when
// they share a rank, file or diagonal, otherwise an empty bitboard.
func Between(a, b Square) Bitboard {
	return squaresBetween[a][b]
}
