package bootstrap

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/gitboot/pkg/identity"
)

// Step names a pipeline stage.
type Step string

const (
	StepDetect   Step = "detect"
	StepInstall  Step = "install"
	StepIdentity Step = "identity"
	StepKey      Step = "ssh-key"
)

// Status is how a step ended.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusWarning Status = "warning"
)

// Observer is told about step progress, e.g. to print it.
type Observer interface {
	StepStarted(step Step)
	StepFinished(step Step, status Status, detail string)
	StepFailed(step Step, err error)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) StepStarted(Step)                  {}
func (NopObserver) StepFinished(Step, Status, string) {}
func (NopObserver) StepFailed(Step, error)            {}

// summarize describes which keys were written.
func summarize(changes []identity.Change) string {
	var applied []string
	for _, c := range changes {
		if c.Applied {
			applied = append(applied, c.Key)
		}
	}
	if len(applied) == 0 {
		return "already up to date"
	}
	return fmt.Sprintf("set %s", strings.Join(applied, ", "))
}
