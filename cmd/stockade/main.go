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

// Stockade is a parallel UCI chess engine. This entry point parses
// command line options, reads the configuration and runs the UCI
// protocol loop on stdin/stdout until "quit" is received.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/profile"

	"github.com/stockade-engine/stockade/internal/config"
	"github.com/stockade-engine/stockade/internal/logging"
	"github.com/stockade-engine/stockade/internal/uci"
)

const version = "1.0.0"

func main() {
	versionInfo := flag.Bool("version", false, "prints version and exits")
	configFile := flag.String("config", "./stockade.toml", "path to configuration settings file")
	logLvl := flag.String("loglvl", "", "log level (critical|error|warning|notice|info|debug)")
	threads := flag.Int("threads", 0, "number of search threads (overrides config)")
	hashSize := flag.Int("hash", 0, "transposition table size in MB (overrides config)")
	cpuProfile := flag.Bool("cpuprofile", false, "write a cpu profile to the working directory")
	memProfile := flag.Bool("memprofile", false, "write a memory profile to the working directory")
	flag.Parse()

	if *versionInfo {
		fmt.Printf("%s %s (%s %s/%s)\n", uci.Name, version,
			runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return
	}

	switch {
	case *cpuProfile:
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case *memProfile:
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	// the config file must be set before Setup reads it
	config.ConfFile = *configFile
	config.Setup()

	// command line options overwrite config file settings
	if lvl, found := config.LogLevels[*logLvl]; found {
		config.LogLevel = lvl
	}
	if *threads > 0 {
		config.Settings.Search.Threads = *threads
	}
	if *hashSize > 0 {
		config.Settings.Search.TTSizeMB = *hashSize
	}

	log := logging.GetLog()
	log.Infof("%s %s started", uci.Name, version)

	uci.NewHandler().Loop()

	log.Info("Engine terminated")
	os.Exit(0)
}
