package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tayodev/snapback/internal/app"
)

var (
	auditSince string
	auditUntil string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect persisted operation logs.",
}

var auditShowCmd = &cobra.Command{
	Use:   "show <operation-id>",
	Short: "Print one operation log with every attempt record.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			printUserFacing(err)
			return err
		}

		log, err := application.ShowOperation(cmd.Context(), args[0])
		if err != nil {
			printUserFacing(err)
			return err
		}
		return yaml.NewEncoder(os.Stdout).Encode(log)
	},
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List operations in a time window.",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, until, err := parseWindow()
		if err != nil {
			return err
		}

		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			printUserFacing(err)
			return err
		}

		logs, err := application.ListOperations(cmd.Context(), since, until)
		if err != nil {
			printUserFacing(err)
			return err
		}
		if len(logs) == 0 {
			fmt.Println("No operations in window.")
			return nil
		}
		for _, l := range logs {
			op := l.Operation
			fmt.Printf("%s  %s  %-9s  %-9s  deleted=%d skipped=%d failed=%d protected=%d\n",
				op.StartedAt.Format(time.RFC3339), op.OperationID, op.Mode, op.Status,
				op.SucceededCount, op.SkippedCount, op.FailedCount, op.ProtectedCount)
		}
		return nil
	},
}

func parseWindow() (time.Time, time.Time, error) {
	since := time.Now().UTC().AddDate(0, -1, 0)
	until := time.Now().UTC()

	if auditSince != "" {
		t, err := time.Parse(time.RFC3339, auditSince)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since %q: %w", auditSince, err)
		}
		since = t
	}
	if auditUntil != "" {
		t, err := time.Parse(time.RFC3339, auditUntil)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until %q: %w", auditUntil, err)
		}
		until = t
	}
	return since, until, nil
}

func init() {
	auditListCmd.Flags().StringVar(&auditSince, "since", "", "Window start, RFC3339 (default one month ago)")
	auditListCmd.Flags().StringVar(&auditUntil, "until", "", "Window end, RFC3339 (default now)")
	auditCmd.AddCommand(auditShowCmd, auditListCmd)
	rootCmd.AddCommand(auditCmd)
}
