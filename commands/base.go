package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/josephlewis42/ash/core/config"
)

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

// ColorPrinter colors text depending on a user setting and whether the
// output is a terminal.
type ColorPrinter struct {
	mode       string
	isTerminal func() bool
}

// NewColorPrinter creates a printer for one of the config.Color* modes,
// isTerminal is consulted for config.ColorAuto and may be nil.
func NewColorPrinter(mode string, isTerminal func() bool) *ColorPrinter {
	return &ColorPrinter{mode: mode, isTerminal: isTerminal}
}

// ShouldColor reports whether output gets colored.
func (c *ColorPrinter) ShouldColor() bool {
	if c == nil {
		return false
	}

	switch c.mode {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		return c.isTerminal != nil && c.isTerminal()
	}
}

// Sprintf formats according to format, colored if ShouldColor.
func (c *ColorPrinter) Sprintf(clr *color.Color, format string, a ...interface{}) string {
	if !c.ShouldColor() {
		return fmt.Sprintf(format, a...)
	}

	// Copy so the decision made here overrides the package wide detection
	// without changing the shared color.
	forced := *clr
	forced.EnableColor()
	return forced.Sprintf(format, a...)
}
