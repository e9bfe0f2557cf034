package main

import (
	"fmt"

	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
	"github.com/spf13/cobra"
)

// listFlags are the filters shared by list and all.
type listFlags struct {
	filter jobservice.Filter
	params []string
}

func (f *listFlags) bind(cmd *cobra.Command, paged bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.filter.JobTitle, "job-title", "", "filter by job title substring")
	fs.StringVar(&f.filter.CompanyName, "company", "", "filter by company name substring")
	fs.StringVar(&f.filter.Location, "location", "", "filter by location substring")
	fs.StringVar(&f.filter.Skills, "skills", "", "filter by skills substring")
	fs.StringVar(&f.filter.Education, "education", "", "filter by education substring")
	fs.StringVar(&f.filter.Industry, "industry", "", "filter by industry substring")
	fs.Float64Var(&f.filter.MinSalary, "min-salary", 0, "minimum salary")
	if paged {
		fs.IntVar(&f.filter.Page, "page", 0, "page number")
		fs.IntVar(&f.filter.PageSize, "page-size", 0, "page size")
	}
	fs.StringArrayVar(&f.params, "param", nil, "extra query parameter as key=value (repeatable)")
}

func (f *listFlags) queryParams() (jobservice.QueryParams, error) {
	extra, err := parsePairs("param", f.params)
	if err != nil {
		return nil, err
	}
	return f.filter.Params().Merge(extra), nil
}

func newListCmd(c *cli) *cobra.Command {
	var (
		flags       listFlags
		resultsOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job postings (paginated)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := flags.queryParams()
			if err != nil {
				return err
			}
			body, err := c.client.ListJobs(cmd.Context(), params)
			if err != nil {
				return err
			}
			if resultsOnly {
				page, ok := jobservice.DecodePage(body)
				if !ok {
					return fmt.Errorf("unexpected listing shape")
				}
				return printJSON(cmd.OutOrStdout(), page.Results)
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().BoolVar(&resultsOnly, "results-only", false, "print only the postings from the page envelope")
	return cmd
}

func newAllCmd(c *cli) *cobra.Command {
	var (
		flags     listFlags
		countOnly bool
	)
	cmd := &cobra.Command{
		Use:   "all",
		Short: "List every job posting matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := flags.queryParams()
			if err != nil {
				return err
			}
			jobs, err := c.client.ListAllJobs(cmd.Context(), params)
			if err != nil {
				return err
			}
			if countOnly {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), len(jobs))
				return err
			}
			return printJSON(cmd.OutOrStdout(), jobs)
		},
	}
	flags.bind(cmd, false)
	cmd.Flags().BoolVar(&countOnly, "count", false, "print only the number of postings")
	return cmd
}
