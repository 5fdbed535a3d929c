package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer   io.Writer
	jsonMode bool

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	bold   *color.Color
}

// NewOutput creates an Output bound to the command's stdout.
func NewOutput(cmd *cobra.Command, colorEnabled bool) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	if jsonMode || !colorEnabled {
		color.NoColor = true
	}
	return &Output{
		writer:   cmd.OutOrStdout(),
		jsonMode: jsonMode,
		green:    color.New(color.FgGreen),
		red:      color.New(color.FgRed),
		yellow:   color.New(color.FgYellow, color.Bold),
		cyan:     color.New(color.FgCyan),
		bold:     color.New(color.Bold),
	}
}

// IsJSON reports whether JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as indented JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.green.Fprintf(o.writer, format+"\n", args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.red.Fprintf(o.writer, format+"\n", args...)
}

// Warning prints a warning message in bold yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.yellow.Fprintf(o.writer, format+"\n", args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.cyan.Fprintf(o.writer, format+"\n", args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.bold.Fprintf(o.writer, format+"\n", args...)
}

// Trend colors a direction word green/red/plain.
func (o *Output) Trend(direction string) string {
	switch direction {
	case "bullish":
		return o.green.Sprint(direction)
	case "bearish":
		return o.red.Sprint(direction)
	default:
		return direction
	}
}

// SimulatedBanner renders the prominent synthetic-data warning. Rendered
// before any values so simulated numbers are never read as live.
func (o *Output) SimulatedBanner(reason string) {
	o.Warning("⚠ SIMULATED DATA — not live market prices")
	if reason != "" {
		o.Warning("  reason: %s", reason)
	}
}
