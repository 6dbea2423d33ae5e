package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vvakame/foodexpress/internal/config"
	"github.com/vvakame/foodexpress/internal/log"
	"github.com/vvakame/foodexpress/internal/snapshot"
)

func newSnapshotCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect the persisted state",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the current snapshot as JSON, or the fixtures when nothing is saved yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := log.WithLogger(cmd.Context(), log.New(cfg.Logging, os.Stderr))

			backend, err := snapshot.Open(ctx, cfg.Snapshot)
			if err != nil {
				return err
			}
			defer backend.Close()

			snap, err := loadState(ctx, backend, cfg.Fixtures)
			if err != nil {
				return err
			}

			b, err := snapshot.Encode(snap)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	snapshotCmd.AddCommand(exportCmd)

	return snapshotCmd
}
