// Command genmasterkey writes the master key that seals the stored session.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edupath/internal/config"
	"edupath/internal/crypto"
)

func main() {
	var dir string
	cmd := &cobra.Command{
		Use:   "genmasterkey",
		Short: "Create master.key in the session directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := crypto.WriteMasterKey(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Master key written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", config.Load().SessionDir, "directory to write "+crypto.MasterKeyFile+" into")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
