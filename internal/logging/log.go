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

// Package logging provides the engine wide logger. All diagnostic
// output goes to stderr - stdout is reserved for the UCI protocol
// and written only by the uci package.
package logging

import (
	golog "log"
	"os"

	"github.com/op/go-logging"

	"github.com/stockade-engine/stockade/internal/config"
)

var engineLog *logging.Logger

// GetLog returns the shared engine logger. The logger is created on
// first use with the log level from the configuration.
func GetLog() *logging.Logger {
	if engineLog == nil {
		engineLog = createLog("stockade", config.LogLevel)
	}
	return engineLog
}

// GetTestLog returns a logger for unit tests using the test log
// level from the configuration.
func GetTestLog() *logging.Logger {
	return createLog("test", config.TestLogLevel)
}

func createLog(name string, level int) *logging.Logger {
	log := logging.MustGetLogger(name)
	format := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:-7.7s}:  %{message}`)
	backend := logging.NewLogBackend(os.Stderr, "", golog.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.Level(level), "")
	log.SetBackend(leveled)
	return log
}
