package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tayodev/snapback/internal/app"
	"github.com/tayodev/snapback/internal/core/domain"
)

var (
	confirm    bool
	planInPath string
)

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Delete every resource created since the baseline snapshot.",
	Long: `Execute rebuilds the plan from fresh snapshots and runs it. The run is
refused without --confirm. Failures cascade: a resource whose prerequisite
failed is never attempted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			printUserFacing(err)
			return err
		}

		report, err := application.Execute(cmd.Context(), planRequest(), planInPath, confirm)
		if err != nil {
			printUserFacing(err)
			return err
		}
		if report.Operation.Status == domain.OpStatusFailed {
			return fmt.Errorf("restore %s failed: %d of %d deletions failed",
				report.Operation.OperationID, report.Failed, report.Planned)
		}
		return nil
	},
}

func init() {
	addPlanFlags(executeCmd)
	executeCmd.Flags().BoolVar(&confirm, "confirm", false, "Actually delete; without this flag the command refuses to run")
	executeCmd.Flags().StringVar(&planInPath, "plan-in", "", "Re-validate against a plan file written by preview --plan-out before running")
	rootCmd.AddCommand(executeCmd)
}
