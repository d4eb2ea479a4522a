package main

import (
	"bufio"
	"fmt"
	"log"
	"net"

	"github.com/spf13/cobra"

	"github.com/opengm-libs/opengm/testutil"
	"github.com/opengm-libs/opengm/tlcp"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept one TLCP connection, echo lines back to the client",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := testutil.NewEngine("tlcp-demo-server")
		if err != nil {
			return fmt.Errorf("generating demo certificates: %w", err)
		}

		ln, err := net.Listen("tcp", serveAddr)
		if err != nil {
			return err
		}
		defer ln.Close()
		log.Printf("listening on %s", ln.Addr())

		carrier, err := ln.Accept()
		if err != nil {
			return err
		}
		conn := tlcp.Server(carrier, tlcp.Config{}, engine)
		if err := conn.Handshake(); err != nil {
			return fmt.Errorf("handshake: %w", err)
		}
		log.Printf("handshake complete, suite=0x%04X", uint16(conn.State().CipherSuite))

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := scanner.Text()
			log.Printf("received: %s", line)
			if _, err := conn.Write([]byte(line + "\n")); err != nil {
				return err
			}
		}
		return conn.Close()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8443", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}
