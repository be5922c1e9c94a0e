package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	zero "github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/commands"
)

func main() {
	zero.Logger = zero.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := commands.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		zero.Error().Err(err).Msg("blogfront")
		os.Exit(1)
	}
}
