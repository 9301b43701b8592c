package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/spritepack/pkg/pipeline"
)

// stdout receives command results. Logs and spinner frames go to stderr.
var stdout io.Writer = os.Stdout

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders file names and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFail    = lipgloss.NewStyle().Foreground(colorRed)
	styleNote    = lipgloss.NewStyle().Foreground(colorGray)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const iconSuccess = "✓"

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleOK.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleFail.Render("✗")+" "+fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleNote.Render("›")+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written artifact.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// printStats prints a one-line summary of a sheet, e.g.
//
//	12 images · 256x192 · 87.5% used · layout 40ms · cached
func printStats(stats pipeline.Stats, cached bool) {
	fmt.Fprintln(stdout, "  "+statsLine(stats, cached))
}

func statsLine(stats pipeline.Stats, cached bool) string {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d images", stats.Modules)),
		StyleDim.Render(fmt.Sprintf("%dx%d", stats.Width, stats.Height)),
		StyleDim.Render(fmt.Sprintf("%.1f%% used", stats.Utilization*100)),
	}
	if stats.LayoutTime > 0 {
		parts = append(parts, StyleDim.Render("layout "+roundDuration(stats.LayoutTime).String()))
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleNote.Render("fresh"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// roundDuration trims durations to a readable precision.
func roundDuration(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(time.Millisecond)
	default:
		return d.Round(time.Microsecond)
	}
}
