// Package prompt collects missing identity values from the user.
package prompt

import (
	"os"
	"strings"

	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// Labels used when asking for identity fields.
const (
	LabelName  = "Git user name"
	LabelEmail = "Git user email"
)

// Prompter asks the user for a value. current is shown as an editable
// default. ok is false when the user gave no answer.
type Prompter interface {
	Ask(label, current string) (answer string, ok bool)
}

// LinePrompter prompts on the terminal with line editing.
type LinePrompter struct{}

// Ask implements Prompter.
func (LinePrompter) Ask(label, current string) (string, bool) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	text, err := line.PromptWithSuggestion(label+": ", current, -1)
	if err != nil {
		logPromptError(label, err)
		return "", false
	}
	return normalize(text)
}

// logPromptError records a failed prompt. Ctrl-C is a normal way to skip a
// field and is not logged.
func logPromptError(label string, err error) {
	if err == liner.ErrPromptAborted {
		return
	}
	logger := logging.GetLogger("prompt")
	logger.Debug().Err(err).Str("label", label).Msg("Prompt failed")
}

// None never answers; used for non-interactive runs.
type None struct{}

// Ask implements Prompter.
func (None) Ask(string, string) (string, bool) {
	return "", false
}

// Static answers from a fixed table keyed by label.
type Static struct {
	Answers map[string]string
	// Asked records every label requested, in order.
	Asked []string
}

// NewStatic creates a Static prompter.
func NewStatic(answers map[string]string) *Static {
	return &Static{Answers: answers}
}

// Ask implements Prompter.
func (s *Static) Ask(label, _ string) (string, bool) {
	s.Asked = append(s.Asked, label)
	return normalize(s.Answers[label])
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ForTerminal returns a LinePrompter when stdin is a terminal and None otherwise.
func ForTerminal() Prompter {
	if IsInteractive() {
		return LinePrompter{}
	}
	return None{}
}

func normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
