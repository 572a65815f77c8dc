package types

import "strings"

// Command describes one external process invocation.
type Command struct {
	Argv []string
	// Env entries (KEY=value) appended to the current environment.
	Env []string
	// Interactive attaches the terminal so the child can prompt (sudo) and
	// show progress; output is still captured.
	Interactive bool
}

// NewCommand builds a non-interactive command from argv.
func NewCommand(argv ...string) Command {
	return Command{Argv: argv}
}

// Name returns the executable name.
func (c Command) Name() string {
	if len(c.Argv) == 0 {
		return ""
	}
	return c.Argv[0]
}

// Args returns the arguments after the executable.
func (c Command) Args() []string {
	if len(c.Argv) < 2 {
		return nil
	}
	return c.Argv[1:]
}

func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// CommandResult is the uniform result of an external process.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports a zero exit code.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// StdoutString returns stdout with surrounding whitespace removed.
func (r CommandResult) StdoutString() string {
	return strings.TrimSpace(string(r.Stdout))
}

// StderrString returns stderr with surrounding whitespace removed.
func (r CommandResult) StderrString() string {
	return strings.TrimSpace(string(r.Stderr))
}
