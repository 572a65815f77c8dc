package ui_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/arthur-debert/gitboot/pkg/bootstrap"
	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/keys"
	"github.com/arthur-debert/gitboot/pkg/ui"
	"github.com/stretchr/testify/assert"
)

const key = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIJane jane@example.com\n"

func TestReporterAutoOnBufferIsText(t *testing.T) {
	r := ui.NewReporter(&bytes.Buffer{}, ui.FormatAuto)
	assert.Equal(t, ui.FormatText, r.Format())
}

func TestReporterTextSteps(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewReporter(&buf, ui.FormatText)

	r.StepStarted(bootstrap.StepInstall)
	r.StepFinished(bootstrap.StepInstall, bootstrap.StatusDone, "git version 2.43.0")
	r.StepFinished(bootstrap.StepKey, bootstrap.StatusSkipped, "")
	r.StepFailed(bootstrap.StepIdentity, errors.New(errors.ErrConfigWriteFailed, "cannot write user.name"))

	assert.Equal(t,
		"[done] Install git: git version 2.43.0\n"+
			"[skip] SSH key\n"+
			"[fail] Configure identity: cannot write user.name\n",
		buf.String())
}

func TestReporterTextSummary(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewReporter(&buf, ui.FormatText)

	r.Summary(&bootstrap.Result{Key: &keys.Outcome{
		PublicKey: key,
		Path:      "/home/jane/.ssh/id_ed25519",
		Generated: true,
		AgentErr:  errors.New(errors.ErrAgentRegistrationFailed, "ssh-add is not available"),
	}})

	out := buf.String()
	assert.Contains(t, out, "Your public SSH key:\nssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIJane jane@example.com\n")
	assert.Contains(t, out, "Warning: The key was not added to ssh-agent: ssh-add is not available")
	assert.Contains(t, out, "## Next steps")
	assert.Contains(t, out, "/home/jane/.ssh/id_ed25519")
	assert.NotContains(t, out, "{{")
}

func TestReporterSummaryWithoutKey(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewReporter(&buf, ui.FormatText)

	r.Summary(nil)
	r.Summary(&bootstrap.Result{})
	assert.Empty(t, buf.String())
}

func TestReporterTerminalSummary(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewReporter(&buf, ui.FormatTerminal)

	r.StepStarted(bootstrap.StepKey)
	r.StepFinished(bootstrap.StepKey, bootstrap.StatusDone, "/home/jane/.ssh/id_ed25519")
	r.Summary(&bootstrap.Result{Key: &keys.Outcome{PublicKey: key, Path: "/home/jane/.ssh/id_ed25519"}})

	out := buf.String()
	assert.Contains(t, out, "SSH key")
	assert.Contains(t, out, "DONE")
	assert.Contains(t, out, "AAAAC3NzaC1lZDI1NTE5AAAAIJane")
	assert.Contains(t, out, "Next steps")
}

func TestReporterError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect []string
	}{
		{
			name:   "with_remediation",
			err:    errors.New(errors.ErrNoPackageManager, "no supported package manager found for windows"),
			expect: []string{"Error: no supported package manager found for windows", "-> install a package manager"},
		},
		{
			name:   "plain_error",
			err:    fmt.Errorf("boom"),
			expect: []string{"Error: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ui.NewReporter(&buf, ui.FormatText).Error(tt.err)
			for _, e := range tt.expect {
				assert.Contains(t, buf.String(), e)
			}
		})
	}
}
