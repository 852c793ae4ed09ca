// Command catalogctl administers the transceiver catalog from the shell,
// against the same storage the server uses.
package main

import (
	"fmt"
	"os"
)

func main() {
	c := &cli{}
	if err := c.execute(c.rootCommand()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
