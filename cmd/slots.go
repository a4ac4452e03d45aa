package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hbenali/pfeplan/config"
	"github.com/hbenali/pfeplan/core/schedule"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Print the candidate slots for the configured window",
	RunE:  printSlots,
}

func init() {
	rootCmd.AddCommand(slotsCmd)
}

func printSlots(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slots, err := schedule.GenerateSlots(cfg.Window.Start(), cfg.Window.NumDays, cfg.Window.SlotsPerDay)
	if err != nil {
		return err
	}
	for _, s := range slots {
		fmt.Fprintln(cmd.OutOrStdout(), s.Format("2006-01-02 15:04"))
	}
	return nil
}
