package main

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/opengm-libs/opengm/tlcp"
)

var dialAddr string

var dialCmd = &cobra.Command{
	Use:   "dial",
	Short: "Connect to a tlcp-demo serve instance and echo stdin lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		carrier, err := net.Dial("tcp", dialAddr)
		if err != nil {
			return err
		}
		conn := tlcp.Client(carrier, tlcp.Config{})
		if err := conn.Handshake(); err != nil {
			return fmt.Errorf("handshake: %w", err)
		}
		log.Printf("handshake complete, suite=0x%04X", uint16(conn.State().CipherSuite))

		go func() {
			scanner := bufio.NewScanner(conn)
			for scanner.Scan() {
				fmt.Println("< " + scanner.Text())
			}
		}()

		stdin := bufio.NewScanner(os.Stdin)
		for stdin.Scan() {
			if _, err := conn.Write([]byte(stdin.Text() + "\n")); err != nil {
				return err
			}
		}
		return conn.Close()
	},
}

func init() {
	dialCmd.Flags().StringVar(&dialAddr, "addr", "127.0.0.1:8443", "address to dial")
	rootCmd.AddCommand(dialCmd)
}
