package gitboot

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Install git, set your identity and create an SSH key"

	// Status messages
	MsgConfigFileUsed = "Using config file %s"

	// Error messages
	MsgErrNoAction      = "nothing to do: pass --name, --email, --ssh or --print-config"
	MsgErrUnexpectedArg = "unexpected argument %q"
	MsgErrInvalidOption = "invalid option"
	MsgErrWriteOutput   = "failed to write output"

	// Flag descriptions
	MsgFlagName        = "Git user.name to configure"
	MsgFlagEmail       = "Git user.email to configure (also used as the SSH key comment)"
	MsgFlagSSH         = "Create ~/.ssh/id_ed25519 if missing and print the public key"
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Read configuration from this file instead of the default location"
	MsgFlagPrintConfig = "Print the effective configuration as TOML and exit"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
