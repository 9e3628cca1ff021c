package besi

import (
	"os"

	"github.com/ryanbekhen/besi/log"
)

// logger is the server's logger instance
var logger = log.New(os.Stdout, log.InfoLevel)

// initLogger initializes the server logger with the given log level
func initLogger(level log.Level) {
	logger.SetLevel(level)
	log.SetLevel(level)
}

// displayStartupMessage displays a startup message with server information
func displayStartupMessage(addr string) {
	logger.Info().Msg(` _               _ `)
	logger.Info().Msg(`| |__   ___  ___(_)`)
	logger.Info().Msg(`| '_ \ / _ \/ __| |`)
	logger.Info().Msg(`| |_) |  __/\__ \ |`)
	logger.Info().Msg(`|_.__/ \___||___/_|`)
	logger.Info().Msg(" ")
	logger.Info().Msgf("Server is running on %s", addr)
	logger.Info().Msg("Press Ctrl+C to stop the server")
}
