package main

import (
	"os"
	"runtime"

	"github.com/retroenv/retrogolib/log"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	config := parseArgs()
	logger := createLogger(config.Debug, config.Quiet)

	var err error
	if config.Terminal {
		err = runTerminal(config, logger)
	} else {
		err = NewApp(config, logger).Run()
	}

	if err != nil {
		logger.Error("Emulator failed", log.Err(err))
		os.Exit(1)
	}
}
