package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cleanResults bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the stub directory, and the result directory with --results",
	RunE:  executeClean,
}

func executeClean(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	dirs := []string{s.StubPath}
	if cleanResults {
		dirs = append(dirs, s.ResultPath)
	}
	project, err := filepath.Abs(s.ProjectPath)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		if rel, err := filepath.Rel(abs, project); err == nil && !strings.HasPrefix(rel, "..") {
			return fmt.Errorf("refusing to remove %s, it contains the project", dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		log.Info().Str("dir", dir).Msg("Removed")
	}
	return nil
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanResults, "results", false, "also remove every run in the result directory")
	RootCmd.AddCommand(cleanCmd)
}
