package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tayodev/snapback/internal/app"
	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/core/service"
)

var (
	baselineName string
	currentName  string
	typeFilter   []string
	regionFilter []string
	planOutPath  string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Plan the restore and show what would be deleted, without deleting anything.",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			printUserFacing(err)
			return err
		}

		_, err = application.Preview(cmd.Context(), planRequest(), planOutPath)
		if err != nil {
			printUserFacing(err)
			return err
		}
		return nil
	},
}

func planRequest() service.PlanRequest {
	types := make([]domain.ResourceType, 0, len(typeFilter))
	for _, t := range typeFilter {
		types = append(types, domain.ResourceType(t))
	}
	return service.PlanRequest{
		Baseline: baselineName,
		Current:  currentName,
		Types:    types,
		Regions:  regionFilter,
	}
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&baselineName, "baseline", "", "Baseline snapshot name (required)")
	cmd.Flags().StringVar(&currentName, "current", "", "Current snapshot name (required)")
	cmd.Flags().StringSliceVar(&typeFilter, "types", nil, "Only consider these resource types (e.g. AWS::EC2::Instance)")
	cmd.Flags().StringSliceVar(&regionFilter, "regions", nil, "Only consider these regions")
	cmd.MarkFlagRequired("baseline")
	cmd.MarkFlagRequired("current")
}

func init() {
	addPlanFlags(previewCmd)
	previewCmd.Flags().StringVar(&planOutPath, "plan-out", "", "Write the plan artifact to this file for a later execute --plan-in")
	rootCmd.AddCommand(previewCmd)
}
