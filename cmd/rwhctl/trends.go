package main

import (
	"github.com/spf13/cobra"
)

func newTrendsCmd(opts *options) *cobra.Command {
	var district string
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Print yearly pre- and post-monsoon groundwater depths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			trends, err := svc.Trends(district)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), trends)
		},
	}
	cmd.Flags().StringVar(&district, "district", "", "limit output to one district")
	return cmd
}
