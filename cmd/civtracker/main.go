package main

import (
	"os"

	"github.com/spf13/cobra"

	"civtracker/internal/config"
)

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:          "civtracker",
		Short:        "Hotseat tracker for strategy game sessions",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", config.FileName, "Project config file")
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")

	paths := func() string { return cfgFile }
	root.AddCommand(initCmd(paths))
	root.AddCommand(schemaCmd(paths))
	root.AddCommand(listCmd(paths))
	root.AddCommand(getCmd(paths))
	root.AddCommand(saveCmd(paths))
	root.AddCommand(deleteCmd(paths))
	root.AddCommand(exportCmd(paths))
	root.AddCommand(importCmd(paths))
	root.AddCommand(karmaCmd(paths))
	root.AddCommand(serveCmd(paths))
	root.AddCommand(versionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
