package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// TextWriter renders results for a terminal.
type TextWriter struct {
	w io.Writer
}

func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Heading prints a bold, underlined title line.
func (t *TextWriter) Heading(title string) {
	fmt.Fprintln(t.w, headerStyle.Render(title))
}

// Field prints an aligned "label: value" line.
func (t *TextWriter) Field(label string, value interface{}) {
	fmt.Fprintf(t.w, "  %s %v\n", labelStyle.Render(fmt.Sprintf("%-12s", label+":")), value)
}

// Verdict prints a check mark or cross followed by msg.
func (t *TextWriter) Verdict(ok bool, msg string) {
	if ok {
		fmt.Fprintf(t.w, "%s %s\n", okStyle.Render("✓"), msg)
		return
	}
	fmt.Fprintf(t.w, "%s %s\n", failStyle.Render("✗"), msg)
}

func (t *TextWriter) WriteOutcome(o OutcomeOutput) {
	if o.Success {
		t.Verdict(true, "Opened "+o.LaunchPath)
	} else {
		t.Verdict(false, o.Message)
	}
	if len(o.Argv) > 0 {
		t.Field("argv", strings.Join(o.Argv, " "))
	}
}

func (t *TextWriter) WriteCheck(c CheckOutput) {
	t.Heading("Check " + c.LaunchPath)
	if !c.Valid {
		t.Verdict(false, "Invalid or inaccessible file path ("+c.Reason+")")
		return
	}
	t.Field("canonical", c.Canonical)
	switch {
	case c.Handler != nil:
		t.Field("handler", fmt.Sprintf("rule #%d (%s): %s", c.Handler.Index+1, c.Handler.Reason, c.Handler.Command))
		t.Field("terminal", c.Handler.Wait)
	default:
		t.Field("handler", "default opener: "+strings.Join(c.DefaultOpener, " "))
	}
	t.Field("strict", c.Strict)
	if len(c.Argv) > 0 {
		t.Field("argv", strings.Join(c.Argv, " "))
	}
	if c.Allowed {
		t.Verdict(true, "would launch")
	} else {
		t.Verdict(false, "rejected by whitelist")
	}
}

// WriteHandlers renders rules as a table.
func (t *TextWriter) WriteHandlers(rows []HandlerOutput) error {
	if len(rows) == 0 {
		fmt.Fprintln(t.w, "No file handlers configured; every file uses the default opener.")
		return nil
	}
	table := tablewriter.NewWriter(t.w)
	table.Header("#", "Match", "Command", "Terminal", "Allowed")
	for _, r := range rows {
		if err := table.Append([]string{
			fmt.Sprint(r.Index + 1),
			matchLabel(r),
			r.Command,
			yesNo(r.Terminal),
			yesNo(r.Allowed),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteList renders a one-column table, used for the whitelist.
func (t *TextWriter) WriteList(header string, items []string) error {
	table := tablewriter.NewWriter(t.w)
	table.Header(header)
	for _, it := range items {
		if err := table.Append([]string{it}); err != nil {
			return err
		}
	}
	return table.Render()
}

func matchLabel(r HandlerOutput) string {
	var parts []string
	if len(r.Extensions) > 0 {
		parts = append(parts, "ext: "+strings.Join(r.Extensions, ","))
	}
	if r.Pattern != "" {
		parts = append(parts, "pattern: "+r.Pattern)
	}
	if r.MimeType != "" {
		parts = append(parts, "mime: "+r.MimeType)
	}
	return strings.Join(parts, "; ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
