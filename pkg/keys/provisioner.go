// Package keys ensures the user's ed25519 SSH key pair exists and returns
// its public half. An existing key is never overwritten.
package keys

import (
	"context"
	"strings"

	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/filesystem"
	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/arthur-debert/gitboot/pkg/runner"
	"github.com/arthur-debert/gitboot/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultCommentFallback is used as the key comment when no email is known.
const DefaultCommentFallback = "your_email@example.com"

const keygenBinary = "ssh-keygen"

// State is a step of the provisioning state machine.
type State string

const (
	StateStart            State = "start"
	StateDirectoryEnsured State = "directory_ensured"
	StateKeyExists        State = "key_exists"
	StateKeyGenerated     State = "key_generated"
	StateAgentAttempted   State = "agent_attempted"
	StatePublicKeyRead    State = "public_key_read"
	StateDone             State = "done"
)

// AgentRegistrar adds a private key to the SSH agent.
type AgentRegistrar interface {
	Register(ctx context.Context, keyPath string) error
}

// Outcome reports what Provision did.
type Outcome struct {
	PublicKey types.PublicKeyText
	Path      string
	Generated bool
	// AgentErr is the non-fatal agent registration failure, if any.
	AgentErr error
	States   []State
}

// Provisioner creates the key pair described by its request.
type Provisioner struct {
	fs              types.FS
	runner          runner.Runner
	lookup          runner.Lookup
	agent           AgentRegistrar
	request         types.KeypairRequest
	commentFallback string
	logger          zerolog.Logger
}

// NewProvisioner creates a Provisioner. agent may be nil to skip agent
// registration.
func NewProvisioner(fsys types.FS, r runner.Runner, l runner.Lookup, agent AgentRegistrar, req types.KeypairRequest) *Provisioner {
	return &Provisioner{
		fs:              fsys,
		runner:          r,
		lookup:          l,
		agent:           agent,
		request:         req,
		commentFallback: DefaultCommentFallback,
		logger:          logging.GetLogger("keys"),
	}
}

// WithCommentFallback sets the comment used when no email is supplied.
func (p *Provisioner) WithCommentFallback(comment string) *Provisioner {
	if comment != "" {
		p.commentFallback = comment
	}
	return p
}

// Provision ensures the key pair exists and returns the public key text.
func (p *Provisioner) Provision(ctx context.Context, email string) (Outcome, error) {
	done := logging.LogOperationStart(p.logger, "provision_key")
	defer done()

	out := Outcome{Path: p.request.Path, States: []State{StateStart}}

	if err := p.fs.MkdirAll(p.request.Dir(), 0700); err != nil {
		return out, errors.Wrapf(err, errors.ErrDirectory, "cannot create %s", p.request.Dir()).
			WithDetail("path", p.request.Dir())
	}
	out.States = append(out.States, StateDirectoryEnsured)

	exists, err := p.keyExists()
	if err != nil {
		return out, err
	}

	if exists {
		p.logger.Info().Str("path", p.request.Path).Msg("SSH key already exists, skipping generation")
		out.States = append(out.States, StateKeyExists)
	} else {
		if err := p.generate(ctx, email); err != nil {
			return out, err
		}
		out.Generated = true
		out.States = append(out.States, StateKeyGenerated)

		if p.agent != nil {
			if err := p.agent.Register(ctx, p.request.Path); err != nil {
				p.logger.Warn().Err(err).Str("path", p.request.Path).Msg("Could not add key to ssh-agent")
				out.AgentErr = err
			}
			out.States = append(out.States, StateAgentAttempted)
		}
	}

	data, err := p.fs.ReadFile(p.request.PublicPath())
	if err != nil {
		return out, errors.Wrapf(err, errors.ErrPublicKeyUnreadable, "cannot read %s", p.request.PublicPath()).
			WithDetail("path", p.request.PublicPath())
	}
	if strings.TrimSpace(string(data)) == "" {
		return out, errors.Newf(errors.ErrPublicKeyUnreadable, "%s is empty", p.request.PublicPath()).
			WithDetail("path", p.request.PublicPath())
	}
	out.PublicKey = types.PublicKeyText(data)
	out.States = append(out.States, StatePublicKeyRead, StateDone)
	return out, nil
}

// keyExists reports whether either half of the pair is already on disk.
func (p *Provisioner) keyExists() (bool, error) {
	for _, path := range []string{p.request.Path, p.request.PublicPath()} {
		ok, err := filesystem.Exists(p.fs, path)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrDirectory, "cannot inspect %s", path).
				WithDetail("path", path)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (p *Provisioner) generate(ctx context.Context, email string) error {
	if !runner.Available(p.lookup, keygenBinary) {
		return errors.New(errors.ErrKeygenUnavailable, "ssh-keygen was not found on PATH")
	}

	comment := strings.TrimSpace(email)
	if comment == "" {
		comment = p.commentFallback
	}

	cmd := types.NewCommand(keygenBinary,
		"-t", p.request.Algorithm,
		"-C", comment,
		"-f", p.request.Path,
		"-N", p.request.Passphrase,
	)
	res, err := p.runner.Run(ctx, cmd)
	if err != nil {
		return errors.Wrap(err, errors.ErrKeygenFailed, "failed to run ssh-keygen")
	}
	if !res.Success() {
		return errors.Newf(errors.ErrKeygenFailed, "ssh-keygen exited with status %d: %s", res.ExitCode, res.StderrString()).
			WithDetail("exitCode", res.ExitCode).
			WithDetail("path", p.request.Path)
	}

	p.logger.Info().Str("path", p.request.Path).Str("algorithm", p.request.Algorithm).Msg("Generated SSH key")
	return nil
}
