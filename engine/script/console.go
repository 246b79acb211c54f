package script

import "log/slog"

// consolePrinter routes console output from scripts to the structured logger.
type consolePrinter struct {
	logger *slog.Logger
}

func (p consolePrinter) Log(s string)   { p.logger.Info(s) }
func (p consolePrinter) Info(s string)  { p.logger.Info(s) }
func (p consolePrinter) Debug(s string) { p.logger.Debug(s) }
func (p consolePrinter) Warn(s string)  { p.logger.Warn(s) }
func (p consolePrinter) Error(s string) { p.logger.Error(s) }
