// Package ui prints gitboot's progress and results.
//
// Rich output (badges, colors, a boxed public key and rendered markdown)
// is used on color terminals; everything degrades to plain text when the
// output is piped, NO_COLOR is set, or the terminal has no color support.
package ui

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/gitboot/pkg/bootstrap"
	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/ui/styles"
	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
)

//go:embed next_steps.md
var nextStepsTemplate string

var nextSteps = template.Must(template.New("next_steps").Parse(nextStepsTemplate))

// stepLabels are the user-facing step names.
var stepLabels = map[bootstrap.Step]string{
	bootstrap.StepDetect:   "Detect platform",
	bootstrap.StepInstall:  "Install git",
	bootstrap.StepIdentity: "Configure identity",
	bootstrap.StepKey:      "SSH key",
}

// Reporter prints pipeline progress. It implements bootstrap.Observer.
type Reporter struct {
	out    io.Writer
	format Format
	width  int
}

// NewReporter creates a Reporter writing to out. FormatAuto is resolved
// against out when it is a file and falls back to plain text otherwise.
func NewReporter(out io.Writer, format Format) *Reporter {
	if format == FormatAuto {
		format = FormatText
		if f, ok := out.(*os.File); ok {
			format = DetectFormat(f)
		}
	}
	return &Reporter{out: out, format: format, width: 80}
}

// Format returns the resolved output format.
func (r *Reporter) Format() Format {
	return r.format
}

func (r *Reporter) rich() bool {
	return r.format == FormatTerminal
}

func label(step bootstrap.Step) string {
	if l, ok := stepLabels[step]; ok {
		return l
	}
	return string(step)
}

// StepStarted implements bootstrap.Observer.
func (r *Reporter) StepStarted(step bootstrap.Step) {
	if !r.rich() {
		return
	}
	_, _ = fmt.Fprintf(r.out, "%s %s...\n", pterm.Info.Prefix.Text, styles.GetStyle("Step").Render(label(step)))
}

// StepFinished implements bootstrap.Observer.
func (r *Reporter) StepFinished(step bootstrap.Step, status bootstrap.Status, detail string) {
	var badge, style string
	switch status {
	case bootstrap.StatusDone:
		badge, style = "done", "SuccessBadge"
	case bootstrap.StatusSkipped:
		badge, style = "skip", "SkippedBadge"
	case bootstrap.StatusWarning:
		badge, style = "warn", "WarningBadge"
	default:
		badge, style = string(status), "SkippedBadge"
	}
	r.line(badge, style, label(step), detail)
}

// StepFailed implements bootstrap.Observer.
func (r *Reporter) StepFailed(step bootstrap.Step, err error) {
	r.line("fail", "ErrorBadge", label(step), errors.UserMessage(err))
}

func (r *Reporter) line(badge, style, name, detail string) {
	if !r.rich() {
		text := fmt.Sprintf("[%s] %s", badge, name)
		if detail != "" {
			text += ": " + detail
		}
		_, _ = fmt.Fprintln(r.out, text)
		return
	}

	text := fmt.Sprintf("%s %s", styles.GetStyle(style).Render(strings.ToUpper(badge)), name)
	if detail != "" {
		text += " " + styles.GetStyle("Detail").Render(detail)
	}
	_, _ = fmt.Fprintln(r.out, text)
}

// Summary prints the public key and what to do with it.
func (r *Reporter) Summary(res *bootstrap.Result) {
	if res == nil || res.Key == nil || res.Key.PublicKey == "" {
		return
	}

	key := strings.TrimSpace(string(res.Key.PublicKey))
	_, _ = fmt.Fprintln(r.out)
	if r.rich() {
		_, _ = fmt.Fprintln(r.out, styles.GetStyle("Header").Render("Your public SSH key"))
		_, _ = fmt.Fprintln(r.out, styles.GetStyle("KeyBox").Width(r.width).Render(key))
	} else {
		_, _ = fmt.Fprintln(r.out, "Your public SSH key:")
		_, _ = fmt.Fprintln(r.out, key)
	}

	if res.Key.AgentErr != nil {
		r.warn("The key was not added to ssh-agent: " + errors.UserMessage(res.Key.AgentErr))
	}

	_, _ = fmt.Fprintln(r.out)
	_, _ = fmt.Fprint(r.out, r.renderMarkdown(r.nextSteps(res.Key.Path)))
}

func (r *Reporter) warn(msg string) {
	if r.rich() {
		_, _ = fmt.Fprintln(r.out, pterm.Warning.Prefix.Text+" "+styles.GetStyle("Warning").Render(msg))
		return
	}
	_, _ = fmt.Fprintln(r.out, "Warning: "+msg)
}

func (r *Reporter) nextSteps(keyPath string) string {
	var buf bytes.Buffer
	if err := nextSteps.Execute(&buf, struct{ KeyPath string }{keyPath}); err != nil {
		return nextStepsTemplate
	}
	return buf.String()
}

// renderMarkdown renders with glamour on rich terminals and falls back to
// the markdown source.
func (r *Reporter) renderMarkdown(content string) string {
	if !r.rich() {
		return content
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// Error prints a fatal error with its remediation.
func (r *Reporter) Error(err error) {
	msg := errors.UserMessage(err)
	remedy := errors.Remediation(err)

	if r.rich() {
		_, _ = fmt.Fprintln(r.out, pterm.Error.Prefix.Text+" "+styles.GetStyle("Error").Render(msg))
		if remedy != "" {
			_, _ = fmt.Fprintln(r.out, "  "+styles.GetStyle("Remediation").Render("→ "+remedy))
		}
		return
	}

	_, _ = fmt.Fprintln(r.out, "Error: "+msg)
	if remedy != "" {
		_, _ = fmt.Fprintln(r.out, "  -> "+remedy)
	}
}
