package main

import (
	"context"
	"os"

	"github.com/calvinmclean/feedswap/monitor"
	"github.com/calvinmclean/feedswap/ui"
)

func main() {
	if os.Getenv("ENABLE_UI") == "true" {
		runUI()
		return
	}

	runCLI()
}

func runUI() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feederUI := ui.NewFeederUI()
	feederUI.Run(ctx)
}

func runCLI() {
	m, err := monitor.NewFromEnv()
	if err != nil {
		panic(err)
	}
	defer m.Close()

	err = m.Run(context.Background(), os.Stdin, os.Stdout)
	if err != nil {
		panic(err)
	}
}
