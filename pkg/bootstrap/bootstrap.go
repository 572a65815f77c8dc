// Package bootstrap runs the setup pipeline: detect the platform, install git,
// apply the identity and optionally provision an ssh key. Steps run in order
// and the first fatal error stops the run.
package bootstrap

import (
	"context"

	"github.com/arthur-debert/gitboot/pkg/identity"
	"github.com/arthur-debert/gitboot/pkg/keys"
	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/arthur-debert/gitboot/pkg/prompt"
	"github.com/arthur-debert/gitboot/pkg/types"
	"github.com/rs/zerolog"
)

// Detector reports the platform.
type Detector interface {
	Detect() types.PlatformInfo
}

// Installer installs and verifies the tool.
type Installer interface {
	Tool() string
	Install(ctx context.Context, p types.PlatformInfo) error
	Verify(ctx context.Context) (string, bool)
}

// Configurator applies identity settings.
type Configurator interface {
	Current(ctx context.Context, key string) string
	Configure(ctx context.Context, id types.Identity) ([]identity.Change, error)
}

// KeyProvisioner ensures the ssh key pair exists.
type KeyProvisioner interface {
	Provision(ctx context.Context, email string) (keys.Outcome, error)
}

// Options selects what a run does.
type Options struct {
	Identity types.Identity
	// ProvisionKey enables the ssh key step.
	ProvisionKey bool
	// PromptMissing asks for identity fields not supplied.
	PromptMissing bool
	// SkipIfPresent skips the package manager when the tool already works.
	SkipIfPresent bool
}

// Result collects what each step did. Fields for steps that did not run
// keep their zero values.
type Result struct {
	Platform    types.PlatformInfo
	Installed   bool
	ToolVersion string
	Identity    types.Identity
	Changes     []identity.Change
	Key         *keys.Outcome
}

// Bootstrapper wires the pipeline steps together.
type Bootstrapper struct {
	detector     Detector
	installer    Installer
	configurator Configurator
	keys         KeyProvisioner
	prompter     prompt.Prompter
	observer     Observer
	logger       zerolog.Logger
}

// New creates a Bootstrapper. keyProvisioner may be nil when keys are never
// requested; prompter and observer default to no-ops.
func New(p Detector, i Installer, c Configurator, keyProvisioner KeyProvisioner, prompter prompt.Prompter, observer Observer) *Bootstrapper {
	if prompter == nil {
		prompter = prompt.None{}
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Bootstrapper{
		detector:     p,
		installer:    i,
		configurator: c,
		keys:         keyProvisioner,
		prompter:     prompter,
		observer:     observer,
		logger:       logging.GetLogger("bootstrap"),
	}
}

// Run executes the pipeline. On error the partial result is returned with it.
func (b *Bootstrapper) Run(ctx context.Context, opts Options) (*Result, error) {
	done := logging.LogOperationStart(b.logger, "bootstrap")
	defer done()

	res := &Result{}

	b.observer.StepStarted(StepDetect)
	res.Platform = b.detector.Detect()
	b.logger.Info().Str("platform", res.Platform.String()).Msg("Detected platform")
	b.observer.StepFinished(StepDetect, StatusDone, res.Platform.String())

	if err := b.install(ctx, opts, res); err != nil {
		return res, err
	}

	if err := b.configure(ctx, opts, res); err != nil {
		return res, err
	}

	if !opts.ProvisionKey {
		b.observer.StepFinished(StepKey, StatusSkipped, "not requested")
		return res, nil
	}
	if err := b.provisionKey(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}

func (b *Bootstrapper) install(ctx context.Context, opts Options, res *Result) error {
	b.observer.StepStarted(StepInstall)

	if opts.SkipIfPresent {
		if version, ok := b.installer.Verify(ctx); ok {
			res.ToolVersion = version
			b.logger.Info().Str("tool", b.installer.Tool()).Str("version", version).Msg("Already installed")
			b.observer.StepFinished(StepInstall, StatusSkipped, version)
			return nil
		}
	}

	if err := b.installer.Install(ctx, res.Platform); err != nil {
		b.observer.StepFailed(StepInstall, err)
		return err
	}
	res.Installed = true
	res.ToolVersion, _ = b.installer.Verify(ctx)
	b.observer.StepFinished(StepInstall, StatusDone, res.ToolVersion)
	return nil
}

func (b *Bootstrapper) configure(ctx context.Context, opts Options, res *Result) error {
	id := opts.Identity.Normalized()
	if opts.PromptMissing {
		id = b.promptMissing(ctx, id)
	}
	res.Identity = id

	b.observer.StepStarted(StepIdentity)
	changes, err := b.configurator.Configure(ctx, id)
	res.Changes = changes
	if err != nil {
		b.observer.StepFailed(StepIdentity, err)
		return err
	}
	b.observer.StepFinished(StepIdentity, StatusDone, summarize(changes))
	return nil
}

// promptMissing asks for blank fields, offering the stored value. A blank
// answer keeps the field blank so the stored value is left alone.
func (b *Bootstrapper) promptMissing(ctx context.Context, id types.Identity) types.Identity {
	if id.Name == "" {
		current := b.configurator.Current(ctx, identity.KeyUserName)
		if answer, ok := b.prompter.Ask(prompt.LabelName, current); ok && answer != current {
			id.Name = answer
		}
	}
	if id.Email == "" {
		current := b.configurator.Current(ctx, identity.KeyUserEmail)
		if answer, ok := b.prompter.Ask(prompt.LabelEmail, current); ok && answer != current {
			id.Email = answer
		}
	}
	return id
}

func (b *Bootstrapper) provisionKey(ctx context.Context, res *Result) error {
	b.observer.StepStarted(StepKey)
	if b.keys == nil {
		b.observer.StepFinished(StepKey, StatusSkipped, "no key provisioner")
		return nil
	}

	email := res.Identity.Email
	if email == "" {
		email = b.configurator.Current(ctx, identity.KeyUserEmail)
	}

	outcome, err := b.keys.Provision(ctx, email)
	if err != nil {
		b.observer.StepFailed(StepKey, err)
		return err
	}
	res.Key = &outcome

	if outcome.AgentErr != nil {
		b.observer.StepFinished(StepKey, StatusWarning, outcome.AgentErr.Error())
		return nil
	}
	if outcome.Generated {
		b.observer.StepFinished(StepKey, StatusDone, outcome.Path)
	} else {
		b.observer.StepFinished(StepKey, StatusSkipped, outcome.Path)
	}
	return nil
}
