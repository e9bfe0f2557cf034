package main

import (
	"strings"

	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
	"github.com/spf13/cobra"
)

func newDetailCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "detail <id>",
		Short: "Show a single job posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := c.client.GetJobDetail(cmd.Context(), jobservice.JobID(strings.TrimSpace(args[0])))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), job)
		},
	}
}
