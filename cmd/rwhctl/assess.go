package main

import (
	"errors"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/service"
	"github.com/spf13/cobra"
)

func newAssessCmd(opts *options) *cobra.Command {
	var (
		req    domain.AssessmentRequest
		render bool
	)
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score rainwater harvesting feasibility for one household",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			res, err := svc.Assess(cmd.Context(), service.Request{AssessmentRequest: req, RenderMaps: render})
			if err != nil {
				// Print what was resolved before the unknown aquifer stopped scoring.
				if errors.Is(err, domain.ErrUnknownAquiferScore) {
					_ = opts.print(cmd.OutOrStdout(), res)
				}
				return err
			}
			return opts.print(cmd.OutOrStdout(), res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.District, "district", "", "district name")
	f.StringVar(&req.State, "state", "", "state name")
	f.Float64Var(&req.RoofAreaM2, "roof-area", 0, "roof area in square metres")
	f.StringVar(&req.RoofType, "roof-type", "concrete", "roof type: concrete, gi_sheet, metal_sheet, tile, thatched")
	f.IntVar(&req.Dwellers, "dwellers", 1, "number of people in the household")
	f.BoolVar(&render, "maps", false, "also render the four location maps")
	_ = cmd.MarkFlagRequired("roof-area")
	return cmd
}
