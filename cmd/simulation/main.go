// Command simulation runs the kinematics demo or a scenario file on a
// desktop window, a terminal or a PNG snapshot.
package main

import (
	"github.com/tebeka/atexit"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
