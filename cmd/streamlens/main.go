package main

import (
	"os"

	"github.com/streamlens/streamlens/internal/adapters/driving/cli"
	"github.com/streamlens/streamlens/internal/logger"
)

func main() {
	if err := cli.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
