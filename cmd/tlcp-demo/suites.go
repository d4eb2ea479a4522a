package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/opengm-libs/opengm/tlcp"
)

var suitesCmd = &cobra.Command{
	Use:   "suites",
	Short: "List the registered TLCP cipher suites",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"ID", "Key Len", "MAC Len", "IV Len", "Mode"})
		for _, s := range tlcp.AllCipherSuites() {
			mode := "CBC+MAC"
			if s.IsAEAD {
				mode = "AEAD-GCM"
			}
			t.AppendRow(table.Row{
				fmt.Sprintf("0x%04X", uint16(s.ID)),
				s.KeyLen, s.MACLen, s.IVLen, mode,
			})
		}
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(suitesCmd)
}
