package main

import (
	"github.com/spf13/cobra"
	"github.com/weisyn/txlinker/client/core/output"
	"github.com/weisyn/txlinker/internal/app/version"
)

func (c *cliContext) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.formatter.Format() == output.FormatText {
				_, err := cmd.OutOrStdout().Write([]byte(version.GetFullVersion() + "\n"))
				return err
			}
			return c.formatter.Print(version.GetBuildInfo())
		},
	}
}
