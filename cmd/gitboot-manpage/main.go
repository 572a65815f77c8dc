package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/gitboot/cmd/gitboot"
)

func main() {
	if err := gitboot.GenManPage(gitboot.NewRootCmd(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
