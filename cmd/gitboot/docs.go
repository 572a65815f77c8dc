package gitboot

import (
	"fmt"
	"io"

	"github.com/arthur-debert/gitboot/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// GenCompletion writes the completion script for shell to w.
func GenCompletion(rootCmd *cobra.Command, shell string, w io.Writer) error {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(w)
	case "fish":
		err = rootCmd.GenFishCompletion(w, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unknown shell %q (supported: bash, zsh, fish, powershell)", shell)
	}
	if err != nil {
		return fmt.Errorf("failed to generate %s completion: %w", shell, err)
	}
	return nil
}

// GenManPage writes the gitboot(1) man page to w.
func GenManPage(rootCmd *cobra.Command, w io.Writer) error {
	header := &doc.GenManHeader{
		Title:   "GITBOOT",
		Section: "1",
		Source:  "gitboot " + version.Version,
		Manual:  "gitboot manual",
	}
	return doc.GenMan(rootCmd, header, w)
}
