// Copyright (c) 2019 The bchvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/bchsuite/bchvm/logger"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const defaultLogFilename = "bchdbg.log"

var (
	// Default configuration options
	defaultHomeDir = func() string {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		return filepath.Join(home, ".bchdbg")
	}()
	defaultLogFile = filepath.Join(defaultHomeDir, defaultLogFilename)
)

type config struct {
	Unlocking  string `long:"unlocking" description:"Hex-encoded unlocking script"`
	Locking    string `long:"locking" description:"Hex-encoded locking script"`
	Disasm     string `long:"disasm" description:"Hex-encoded script to disassemble (skips evaluation)"`
	Version    uint32 `long:"txversion" description:"Transaction version" default:"2"`
	Value      uint64 `long:"value" description:"Outpoint value in satoshis"`
	Index      uint32 `long:"index" description:"Outpoint index"`
	Sequence   uint32 `long:"sequence" description:"Input sequence number" default:"4294967294"`
	Locktime   uint32 `long:"locktime" description:"Transaction locktime"`
	Quiet      bool   `short:"q" long:"quiet" description:"Only print the final verdict"`
	DebugLevel string `long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}" default:"info"`
	NoLogFile  bool   `long:"nologfile" description:"Do not write a log file"`
}

func parseConfig() (*config, error) {
	cfg := &config{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	if cfg.Disasm == "" && (cfg.Unlocking == "" && cfg.Locking == "") {
		return nil, errors.New("either --disasm or --unlocking/--locking is required")
	}
	if cfg.Disasm != "" && (cfg.Unlocking != "" || cfg.Locking != "") {
		return nil, errors.New("--disasm cannot be combined with --unlocking or --locking")
	}

	if !cfg.NoLogFile {
		if err := logger.InitLogRotator(defaultLogFile); err != nil {
			return nil, errors.Wrap(err, "failed to initialize log rotator")
		}
	}
	if err := logger.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}
