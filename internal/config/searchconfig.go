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

package config

// searchConfiguration holds the tunable search settings. UCI options
// write through to these values.
type searchConfiguration struct {
	// resources
	TTSizeMB       int
	Threads        int
	MultiPV        int
	MoveOverheadMs int

	// feature toggles
	UseTT           bool
	UseNullMove     bool
	UseAspiration   bool
	UseLmr          bool
	UseSEE          bool
	UseKiller       bool
	UseHistory      bool
	UseCounterMoves bool

	// support for chess variants
	Chess960 bool
}

// sets defaults which might be overwritten by the config file.
func init() {
	Settings.Search.TTSizeMB = 64
	Settings.Search.Threads = 1
	Settings.Search.MultiPV = 1
	Settings.Search.MoveOverheadMs = 30

	Settings.Search.UseTT = true
	Settings.Search.UseNullMove = true
	Settings.Search.UseAspiration = true
	Settings.Search.UseLmr = true
	Settings.Search.UseSEE = true
	Settings.Search.UseKiller = true
	Settings.Search.UseHistory = true
	Settings.Search.UseCounterMoves = true

	Settings.Search.Chess960 = false
}
