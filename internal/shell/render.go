package shell

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
	"github.com/vinzlac/mcp-server-brave-test/internal/orchestrator"
)

const defaultWidth = 80

// Styles holds the lipgloss styles of the shell output.
type Styles struct {
	Banner lipgloss.Style
	Prompt lipgloss.Style
	// Error kind label
	ErrorKind lipgloss.Style
	// Error message body
	Error lipgloss.Style
	// Footer under an answer (path, rounds)
	Footer lipgloss.Style
}

// DefaultStyles returns styles with colors enabled.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // cyan
		ErrorKind: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // red
		Footer:    lipgloss.NewStyle().Faint(true),
	}
}

// NoColorStyles returns styles with no colors (plain text).
func NoColorStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle(),
		Prompt:    lipgloss.NewStyle(),
		ErrorKind: lipgloss.NewStyle(),
		Error:     lipgloss.NewStyle(),
		Footer:    lipgloss.NewStyle(),
	}
}

// RendererOptions configures a Renderer.
type RendererOptions struct {
	// Markdown renders answers through glamour.
	Markdown bool
	// Color enables lipgloss styles.
	Color bool
	// Width is the wrap width. 0 detects the terminal width.
	Width int
	// MarkdownStyle is a glamour standard style name. Empty means "dark".
	MarkdownStyle string
	// Footer prints the path and round count under each answer.
	Footer bool
}

// Renderer formats answers and errors for the terminal.
type Renderer struct {
	styles     Styles
	footer     bool
	mdRenderer *glamour.TermRenderer
}

// NewRenderer creates a renderer. A glamour setup failure degrades to plain
// text.
func NewRenderer(opts RendererOptions) *Renderer {
	r := &Renderer{styles: NoColorStyles(), footer: opts.Footer}
	if opts.Color {
		r.styles = DefaultStyles()
	}
	if !opts.Markdown {
		return r
	}
	w := opts.Width
	if w <= 0 {
		w = terminalWidth()
	}
	style := opts.MarkdownStyle
	if style == "" {
		style = "dark"
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(w),
	)
	if err == nil {
		r.mdRenderer = md
	}
	return r
}

// PlainRenderer renders text unchanged.
func PlainRenderer() *Renderer {
	return NewRenderer(RendererOptions{})
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func terminalWidth() int {
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		return tw
	}
	return defaultWidth
}

// Banner renders the greeting printed once at startup.
func (r *Renderer) Banner() string {
	return "\n" + r.styles.Banner.Render("MCP Client Started!") + "\n" +
		"Type your queries or 'quit' to exit.\n"
}

// Prompt renders the query prompt.
func (r *Renderer) Prompt() string {
	return "\n" + r.styles.Prompt.Render("Query:") + " "
}

// Answer renders a successful outcome.
func (r *Renderer) Answer(out orchestrator.Outcome) string {
	var b strings.Builder
	b.WriteString(r.text(out.Answer))
	if r.footer {
		line := fmt.Sprintf("%s path · %d round(s) · %d tool call(s)", out.Path, out.Rounds, out.ToolCalls)
		b.WriteString(r.styles.Footer.Render(line) + "\n")
	}
	return b.String()
}

// Error renders a failed query. Text captured before the failure is shown
// first.
func (r *Renderer) Error(out orchestrator.Outcome, err error) string {
	var b strings.Builder
	if strings.TrimSpace(out.Answer) != "" {
		b.WriteString(r.text(out.Answer))
	}
	label, msg := "Error", err.Error()
	var agentErr *models.AgentError
	if errors.As(err, &agentErr) {
		label, msg = agentErr.Kind.String(), agentErr.Message
		if agentErr.Cause != nil {
			msg += ": " + agentErr.Cause.Error()
		}
	}
	b.WriteString("\n" + r.styles.ErrorKind.Render(label+":") + " " + r.styles.Error.Render(msg) + "\n")
	return b.String()
}

func (r *Renderer) text(s string) string {
	if s == "" {
		return ""
	}
	if r.mdRenderer != nil {
		rendered, err := r.mdRenderer.Render(s)
		if err == nil {
			return rendered
		}
	}
	return "\n" + s + "\n"
}
