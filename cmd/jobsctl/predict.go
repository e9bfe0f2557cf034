package main

import (
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
	"github.com/spf13/cobra"
)

func newPredictCmd(c *cli) *cobra.Command {
	var (
		file    string
		fromJob string
		sets    []string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the salary for a job description",
		Long: "predict sends a job description to the salary model. The description is built from\n" +
			"--from-job, then --file, then --set, later sources overriding earlier ones.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" && fromJob == "" && len(sets) == 0 {
				return errors.New("one of --file, --from-job or --set is required")
			}

			req := map[string]any{}
			if fromJob != "" {
				job, err := c.client.GetJobDetail(cmd.Context(), jobservice.JobID(fromJob))
				if err != nil {
					return fmt.Errorf("load job %s: %w", fromJob, err)
				}
				mergeInto(req, jobservice.PredictionRequestFromPosting(job))
			}
			if file != "" {
				loaded, err := jobservice.LoadPredictionRequest(file)
				if err != nil {
					return err
				}
				mergeInto(req, loaded)
			}
			overrides, err := parsePairs("set", sets)
			if err != nil {
				return err
			}
			mergeInto(req, overrides)

			result, err := c.client.PredictSalary(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&file, "file", "f", "", "YAML or JSON file describing the job")
	fs.StringVar(&fromJob, "from-job", "", "use the model features of an existing posting")
	fs.StringArrayVar(&sets, "set", nil, "job field as key=value (repeatable)")
	return cmd
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}
