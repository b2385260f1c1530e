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

// Package uci implements the UCI protocol listener: it reads
// commands from the input stream, translates them into engine calls
// and serializes all engine output onto the output stream. Malformed
// input is logged and ignored, as the protocol demands - the
// listener never crashes on bad input.
package uci

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stockade-engine/stockade/internal/board"
	"github.com/stockade-engine/stockade/internal/config"
	"github.com/stockade-engine/stockade/internal/eval"
	myLogging "github.com/stockade-engine/stockade/internal/logging"
	"github.com/stockade-engine/stockade/internal/movegen"
	"github.com/stockade-engine/stockade/internal/moveslice"
	"github.com/stockade-engine/stockade/internal/search"
	. "github.com/stockade-engine/stockade/internal/types"
)

var out = message.NewPrinter(language.English)

// Name and Author identify the engine in the "uci" response.
const (
	Name   = "Stockade"
	Author = "The Stockade authors"
)

// Handler reads UCI commands and drives the search engine. Create
// an instance with NewHandler. Input/output streams can be replaced
// through InIo and OutIo (used by tests).
type Handler struct {
	InIo  *bufio.Scanner
	OutIo *bufio.Writer

	log      *logging.Logger
	mg       *movegen.Movegen
	search   *search.Search
	position *board.Position
	options  *OptionList
	ev       *eval.Evaluator

	outMu sync.Mutex
}

// NewHandler creates a new Handler reading from stdin and writing
// to stdout.
func NewHandler() *Handler {
	h := &Handler{
		InIo:     bufio.NewScanner(os.Stdin),
		OutIo:    bufio.NewWriter(os.Stdout),
		log:      myLogging.GetLog(),
		mg:       movegen.NewMovegen(),
		search:   search.NewSearch(),
		position: board.NewPosition(),
		ev:       eval.NewEvaluator(),
	}
	h.search.SetReporter(h)
	h.registerOptions()
	return h
}

// Loop reads and handles commands until "quit" is received or the
// input stream closes.
func (h *Handler) Loop() {
	for h.InIo.Scan() {
		if h.handleReceivedCommand(h.InIo.Text()) {
			return
		}
	}
}

// Command handles a single command line and returns the produced
// output. Used by unit tests.
func (h *Handler) Command(cmd string) string {
	tmp := h.OutIo
	buffer := new(bytes.Buffer)
	h.OutIo = bufio.NewWriter(buffer)
	h.handleReceivedCommand(cmd)
	_ = h.OutIo.Flush()
	h.OutIo = tmp
	return buffer.String()
}

var regexWhiteSpace = regexp.MustCompile(`\s+`)

// handleReceivedCommand dispatches one command line. Returns true
// when the process should terminate.
func (h *Handler) handleReceivedCommand(cmd string) bool {
	cmd = strings.TrimSpace(cmd)
	if len(cmd) == 0 {
		return false
	}
	h.log.Debugf("uci << %s", cmd)
	tokens := regexWhiteSpace.Split(cmd, -1)
	switch tokens[0] {
	case "quit":
		h.search.AbortSearch()
		return true
	case "uci":
		h.uciCommand()
	case "setoption":
		h.setOptionCommand(tokens)
	case "isready":
		h.search.IsReady()
	case "ucinewgame":
		h.uciNewGameCommand()
	case "position":
		h.positionCommand(tokens)
	case "go":
		h.goCommand(tokens)
	case "stop":
		h.search.StopSearch()
	case "ponderhit":
		h.search.PonderHit()
	case "d":
		h.dCommand()
	case "noop":
	default:
		h.log.Warningf("Unknown command: %s", cmd)
	}
	return false
}

// ///////////////////////////////////////////////////////////
// Command handlers
// ///////////////////////////////////////////////////////////

func (h *Handler) uciCommand() {
	h.send("id name " + Name)
	h.send("id author " + Author)
	for _, o := range h.options.All() {
		h.send(o.String())
	}
	h.send("uciok")
}

// setOptionCommand reads the option name and value, looks the
// option up and applies its handler. Changing options while the
// engine is thinking is rejected unless the option explicitly
// allows it.
func (h *Handler) setOptionCommand(tokens []string) {
	name := ""
	value := ""
	if len(tokens) < 3 || tokens[1] != "name" {
		h.sendMalformed("setoption", tokens)
		return
	}
	i := 2
	for i < len(tokens) && tokens[i] != "value" {
		if name != "" {
			name += " "
		}
		name += tokens[i]
		i++
	}
	if i < len(tokens) && tokens[i] == "value" {
		value = strings.Join(tokens[i+1:], " ")
	}

	o, found := h.options.Get(name)
	if !found {
		msg := out.Sprintf("setoption: no such option '%s'", name)
		h.SendInfoString(msg)
		h.log.Warning(msg)
		return
	}
	if h.search.IsSearching() && !o.AllowDuringSearch {
		msg := out.Sprintf("setoption: option '%s' can't be set while searching", name)
		h.SendInfoString(msg)
		h.log.Warning(msg)
		return
	}
	if !o.setValue(value) {
		msg := out.Sprintf("setoption: invalid value '%s' for option '%s'", value, name)
		h.SendInfoString(msg)
		h.log.Warning(msg)
		return
	}
	if o.onChange != nil {
		o.onChange(h, o)
	}
}

// uciNewGameCommand resets all state carried between games.
func (h *Handler) uciNewGameCommand() {
	h.search.NewGame()
	h.position = board.NewPosition()
}

// positionCommand replaces the current board. A running search is
// aborted and its result discarded first. Moves are applied until
// the first illegal one - the board then reflects the moves applied
// up to that point.
func (h *Handler) positionCommand(tokens []string) {
	if len(tokens) < 2 {
		h.sendMalformed("position", tokens)
		return
	}
	h.search.AbortSearch()

	fen := board.StartFen
	i := 1
	switch tokens[i] {
	case "startpos":
		i++
	case "fen":
		i++
		var fenb strings.Builder
		for i < len(tokens) && tokens[i] != "moves" {
			fenb.WriteString(tokens[i])
			fenb.WriteString(" ")
			i++
		}
		fen = strings.TrimSpace(fenb.String())
		if len(fen) == 0 {
			h.sendMalformed("position", tokens)
			return
		}
	default:
		h.sendMalformed("position", tokens)
		return
	}

	newPosition, err := board.NewPositionFen(fen)
	if err != nil {
		msg := out.Sprintf("position: invalid fen '%s' (%s)", fen, err)
		h.SendInfoString(msg)
		h.log.Warning(msg)
		return
	}
	h.position = newPosition

	if i < len(tokens) {
		if tokens[i] != "moves" {
			h.sendMalformed("position", tokens)
			return
		}
		i++
		for ; i < len(tokens); i++ {
			move := h.mg.MoveFromUci(h.position, tokens[i])
			if move == MoveNone {
				msg := out.Sprintf("position: illegal move '%s' - ignoring the rest", tokens[i])
				h.SendInfoString(msg)
				h.log.Warning(msg)
				return
			}
			h.position.DoMove(move)
		}
	}
	h.log.Debugf("New position: %s", h.position.StringFen())
}

// goCommand parses the search limits and starts the search.
func (h *Handler) goCommand(tokens []string) {
	limits, ok := h.readSearchLimits(tokens)
	if !ok {
		return
	}
	h.search.StartSearch(*h.position, *limits)
}

// dCommand pretty prints the current board with its key and static
// evaluation - a debugging convenience outside of the UCI standard.
func (h *Handler) dCommand() {
	h.send(h.position.StringBoard())
	h.send(fmt.Sprintf("Fen: %s", h.position.StringFen()))
	h.send(fmt.Sprintf("Key: %016X", uint64(h.position.ZobristKey())))
	side := "White"
	if h.position.NextPlayer() == Black {
		side = "Black"
	}
	h.send(fmt.Sprintf("Eval (from %s's POV): %+.2f",
		side, float64(h.ev.Evaluate(h.position))/100.0))
}

// ///////////////////////////////////////////////////////////
// Reporter interface (search output)
// ///////////////////////////////////////////////////////////

// SendReadyOk signals that the engine is initialized and ready.
func (h *Handler) SendReadyOk() {
	h.send("readyok")
}

// SendInfoString sends an arbitrary info string to the GUI.
func (h *Handler) SendInfoString(info string) {
	h.send(out.Sprintf("info string %s", info))
}

// SendIterationEndInfo sends the result of a completed iteration or
// an aspiration re-search (bound = "lowerbound"/"upperbound").
func (h *Handler) SendIterationEndInfo(depth int, seldepth int, multipv int, value Value,
	bound string, nodes uint64, nps uint64, time time.Duration, hashfull int, pv moveslice.MoveSlice) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d multipv %d score %s",
		depth, seldepth, multipv, value.String())
	if bound != "" {
		sb.WriteString(" ")
		sb.WriteString(bound)
	}
	fmt.Fprintf(&sb, " nodes %d nps %d time %d hashfull %d pv %s",
		nodes, nps, time.Milliseconds(), hashfull, pv.StringUci())
	h.send(sb.String())
}

// SendCurrentRootMove reports the root move currently being
// searched.
func (h *Handler) SendCurrentRootMove(depth int, move Move, moveNumber int) {
	h.send(fmt.Sprintf("info depth %d currmove %s currmovenumber %d",
		depth, move.StringUci(), moveNumber))
}

// SendResult sends the best move (and ponder move if available) at
// the end of a search.
func (h *Handler) SendResult(bestMove Move, ponderMove Move) {
	var sb strings.Builder
	sb.WriteString("bestmove ")
	sb.WriteString(bestMove.StringUci())
	if ponderMove != MoveNone {
		sb.WriteString(" ponder ")
		sb.WriteString(ponderMove.StringUci())
	}
	h.send(sb.String())
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

// send writes a line to the output stream. Output is serialized -
// only the main worker and the listener produce output, but they
// can overlap.
func (h *Handler) send(s string) {
	h.outMu.Lock()
	defer h.outMu.Unlock()
	h.log.Debugf("uci >> %s", s)
	_, _ = h.OutIo.WriteString(s + "\n")
	_ = h.OutIo.Flush()
}

func (h *Handler) sendMalformed(command string, tokens []string) {
	msg := out.Sprintf("Command '%s' is malformed: %s", command, strings.Join(tokens, " "))
	h.SendInfoString(msg)
	h.log.Warning(msg)
}

// readSearchLimits parses the arguments of "go" into Limits.
// Returns ok=false and reports when the command is malformed.
func (h *Handler) readSearchLimits(tokens []string) (*search.Limits, bool) {
	limits := search.NewSearchLimits()
	i := 1
	for i < len(tokens) {
		switch tokens[i] {
		case "searchmoves":
			i++
			for i < len(tokens) {
				move := h.mg.MoveFromUci(h.position, tokens[i])
				if move == MoveNone {
					break
				}
				limits.Moves.PushBack(move)
				i++
			}
		case "infinite":
			i++
			limits.Infinite = true
		case "ponder":
			i++
			limits.Ponder = true
		case "depth":
			n, ok := h.parseIntParam(tokens, i, "depth")
			if !ok {
				return nil, false
			}
			limits.Depth = int(n)
			i += 2
		case "nodes":
			n, ok := h.parseIntParam(tokens, i, "nodes")
			if !ok {
				return nil, false
			}
			limits.Nodes = uint64(n)
			i += 2
		case "mate":
			n, ok := h.parseIntParam(tokens, i, "mate")
			if !ok {
				return nil, false
			}
			limits.Mate = int(n)
			i += 2
		case "movetime":
			n, ok := h.parseIntParam(tokens, i, "movetime")
			if !ok {
				return nil, false
			}
			limits.MoveTime = time.Duration(n) * time.Millisecond
			limits.TimeControl = true
			i += 2
		case "wtime":
			n, ok := h.parseIntParam(tokens, i, "wtime")
			if !ok {
				return nil, false
			}
			limits.WhiteTime = time.Duration(n) * time.Millisecond
			limits.TimeControl = true
			i += 2
		case "btime":
			n, ok := h.parseIntParam(tokens, i, "btime")
			if !ok {
				return nil, false
			}
			limits.BlackTime = time.Duration(n) * time.Millisecond
			limits.TimeControl = true
			i += 2
		case "winc":
			n, ok := h.parseIntParam(tokens, i, "winc")
			if !ok {
				return nil, false
			}
			limits.WhiteInc = time.Duration(n) * time.Millisecond
			i += 2
		case "binc":
			n, ok := h.parseIntParam(tokens, i, "binc")
			if !ok {
				return nil, false
			}
			limits.BlackInc = time.Duration(n) * time.Millisecond
			i += 2
		case "movestogo":
			n, ok := h.parseIntParam(tokens, i, "movestogo")
			if !ok {
				return nil, false
			}
			limits.MovesToGo = int(n)
			i += 2
		default:
			h.sendMalformed("go", tokens)
			return nil, false
		}
	}

	// sanity check: there must be at least one effective limit
	if !(limits.Infinite || limits.Ponder || limits.Depth > 0 || limits.Nodes > 0 ||
		limits.Mate > 0 || limits.TimeControl) {
		h.sendMalformed("go", tokens)
		return nil, false
	}
	// sanity check: time control needs time on the clock
	if limits.TimeControl && limits.MoveTime == 0 {
		if h.position.NextPlayer() == White && limits.WhiteTime == 0 {
			h.sendMalformed("go", tokens)
			return nil, false
		}
		if h.position.NextPlayer() == Black && limits.BlackTime == 0 {
			h.sendMalformed("go", tokens)
			return nil, false
		}
	}
	return limits, true
}

func (h *Handler) parseIntParam(tokens []string, i int, name string) (int64, bool) {
	if i+1 >= len(tokens) {
		h.sendMalformed("go", tokens)
		return 0, false
	}
	n, err := strconv.ParseInt(tokens[i+1], 10, 64)
	if err != nil {
		msg := out.Sprintf("go %s: not a number: %s", name, tokens[i+1])
		h.SendInfoString(msg)
		h.log.Warning(msg)
		return 0, false
	}
	return n, true
}

// ///////////////////////////////////////////////////////////
// Options
// ///////////////////////////////////////////////////////////

// registerOptions fills the option registry with the engine's
// supported options. The registry keeps them sorted by name.
func (h *Handler) registerOptions() {
	h.options = NewOptionList()

	h.options.AddButton("Clear Hash", func(h *Handler, o *Option) {
		h.search.ClearHash()
	})
	h.options.AddSpinInt("Hash", int64(config.Settings.Search.TTSizeMB), 1, 65536,
		func(h *Handler, o *Option) {
			config.Settings.Search.TTSizeMB = int(o.IntValue)
			h.search.ResizeCache()
		})
	h.options.AddSpinInt("Threads", int64(config.Settings.Search.Threads), 1, 256,
		func(h *Handler, o *Option) {
			config.Settings.Search.Threads = int(o.IntValue)
		})
	h.options.AddSpinInt("MultiPV", int64(config.Settings.Search.MultiPV), 1, 64,
		func(h *Handler, o *Option) {
			config.Settings.Search.MultiPV = int(o.IntValue)
		})
	h.options.AddSpinInt("Move Overhead", int64(config.Settings.Search.MoveOverheadMs), 0, 10000,
		func(h *Handler, o *Option) {
			config.Settings.Search.MoveOverheadMs = int(o.IntValue)
		})
	ponder := h.options.AddCheck("Ponder", false, nil)
	ponder.AllowDuringSearch = true
	h.options.AddCheck("UCI_Chess960", config.Settings.Search.Chess960,
		func(h *Handler, o *Option) {
			config.Settings.Search.Chess960 = o.CheckValue
		})
}
