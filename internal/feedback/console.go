package feedback

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"bodywise/internal/poses"
)

// Console renders guidance to a terminal. Announcements print as prominent
// lines, overlays as a compact landmark table, toasts as bracketed one-liners.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewConsole builds a presenter writing to out. Color is enabled only when
// out is a terminal.
func NewConsole(out io.Writer) *Console {
	color := false
	if file, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	}
	return &Console{out: out, color: color}
}

func (c *Console) Announce(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := ">> " + message
	if c.color {
		line = text.Colors{text.Bold, text.FgCyan}.Sprint(line)
	}
	fmt.Fprintln(c.out, line)
}

func (c *Console) ShowOverlay(landmarks []poses.Landmark, hint ColorHint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(landmarks) == 0 {
		return
	}

	label := overlayLabel(hint)
	if c.color {
		label = overlayColor(hint).Sprint(label)
	}
	names := make([]string, 0, len(landmarks))
	for _, landmark := range landmarks {
		names = append(names, landmark.Name)
	}
	fmt.Fprintf(c.out, "   %s  %d landmarks: %s\n", label, len(landmarks), strings.Join(names, ", "))
}

func (c *Console) Toast(title, message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tag := "[" + strings.ToUpper(string(severity)) + "]"
	if c.color {
		tag = severityColor(severity).Sprint(tag)
	}
	fmt.Fprintf(c.out, "%s %s: %s\n", tag, title, message)
}

func overlayLabel(hint ColorHint) string {
	switch hint {
	case ColorCorrect:
		return "pose ok"
	case ColorAdjustment:
		return "adjust"
	default:
		return "tracking"
	}
}

func overlayColor(hint ColorHint) text.Colors {
	switch hint {
	case ColorCorrect:
		return text.Colors{text.FgGreen}
	case ColorAdjustment:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgHiBlack}
	}
}

func severityColor(severity Severity) text.Colors {
	switch severity {
	case SeverityError:
		return text.Colors{text.FgRed}
	case SeverityWarning:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgCyan}
	}
}
