package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Invicton-Labs/go-linkedqueue/config"
	"github.com/Invicton-Labs/go-linkedqueue/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error(err)
		os.Exit(2)
	}

	root := newRootCommand(ctx, &cfg, os.Stdin, os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
