package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-script/engine/bridge"
	"github.com/Carmen-Shannon/oxy-script/engine/logging"
	"github.com/Carmen-Shannon/oxy-script/engine/script"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/urfave/cli/v3"
)

var (
	colorBlue     = lipgloss.Color("39")
	colorGreen    = lipgloss.Color("82")
	colorRed      = lipgloss.Color("196")
	colorGray     = lipgloss.Color("250")
	colorDarkGray = lipgloss.Color("240")

	rootStyle   = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	validStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	infoStyle   = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	branchStyle = lipgloss.NewStyle().Foreground(colorDarkGray)
)

var checkCmd = &cli.Command{
	Name:      "check",
	Usage:     "Evaluate a script without opening a window and report what it registered",
	ArgsUsage: "<script>",
	Flags:     commonFlags,
	Action:    checkAction,
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return cli.Exit(usage, 1)
	}
	entry := cmd.Args().Get(0)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger, err := logging.SetupLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return cli.Exit(err, 1)
	}

	host, err := newHost(ctx, cfg, logger, entry)
	if err != nil {
		fmt.Println(errorStyle.Render("✗ " + entry))
		return cli.Exit(describeError(err), 1)
	}
	defer host.Close()

	fmt.Println(renderReport(entry, host.Bridge().Session().WindowConfig(), host))
	return nil
}

// callbackSet reports which lifecycle callbacks a script registered.
type callbackSet interface {
	HasCallback(name string) bool
}

// renderReport draws the evaluated script's window configuration and callbacks as a tree.
func renderReport(entry string, cfg bridge.WindowConfig, callbacks callbackSet) string {
	t := tree.New().
		Root(rootStyle.Render("✓ " + entry)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)

	win := tree.New().
		Root("window").
		Child(infoStyle.Render(fmt.Sprintf("title: %q", cfg.Title))).
		Child(infoStyle.Render(fmt.Sprintf("size: %dx%d", cfg.Width, cfg.Height)))

	cbs := tree.New().Root("callbacks")
	for _, name := range script.CallbackNames {
		if callbacks.HasCallback(name) {
			cbs.Child(validStyle.Render(name))
		} else {
			cbs.Child(infoStyle.Render(name + " (not registered)"))
		}
	}

	return t.Child(win, cbs).String()
}
