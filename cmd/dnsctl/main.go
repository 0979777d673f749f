package main

import (
	"fmt"
	"os"

	"github.com/bibicadotnet/dns.bibica.net.v4/internal/installer"
	"github.com/bibicadotnet/dns.bibica.net.v4/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		if err := tui.StartWizard(); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	if err := installer.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
