package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// atExit prints err and exits with a non-zero status. With -verbose it
// prints the full wrapped error chain (stack-trace-style), matching retro's
// -debug behavior.
func atExit(err error) {
	if log.GetLevel() >= log.DebugLevel {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(1)
}
