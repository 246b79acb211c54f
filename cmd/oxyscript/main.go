package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/urfave/cli/v3"
)

// Version is set during build using ldflags
var Version = "dev"

const usage = "Usage: oxyscript <script.ts>"

func init() {
	// GLFW and the script runtime must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	app := &cli.Command{
		Name:      "oxyscript",
		Version:   Version,
		Usage:     "Run a JavaScript or TypeScript program that draws with WebGPU",
		ArgsUsage: "<script>",
		Flags:     runFlags,
		Action:    runAction,
		Commands: []*cli.Command{
			checkCmd,
			{
				Name:  "version",
				Usage: "Print the version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("oxyscript version %s\n", cmd.Root().Version)
					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
