package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paddocknews/f1news/internal/storage"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stories in the current archive",
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, format, err := setup()
	if err != nil {
		return err
	}

	archive, err := storage.New(cfg.Archive.DataDir, cfg.Archive.File)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	stories, err := archive.Load()
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}

	return WriteArchive(cmd.OutOrStdout(), archive.Path(), stories, format)
}
