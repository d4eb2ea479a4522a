// Command tlcp-demo exercises a tlcp.Conn end to end: serve runs a TCP
// listener handshaking as the server role, dial connects as the client role,
// and suites lists the registered cipher suites.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tlcp-demo",
	Short: "Exercise a TLCP engine over TCP",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
