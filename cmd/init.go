package cmd

import (
	"fmt"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/GitUser-3-2-3/Semi-Git/internal/repository"
	"github.com/GitUser-3-2-3/Semi-Git/utils"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   constants.InitCmdName + " [directory]",
	Short: "Initialize a new Semi-Git repository",
	Long: `The 'init' command sets up a new Semi-Git repository in the current directory.
It creates a .semigit directory holding the object store, refs, HEAD and a default config file.
If a repository already exists, the command will not overwrite existing data.`,
	SilenceUsage: true,
	Args:         maximumArgs(1),
	RunE:         runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// runInit executes repository initialization at specified or current directory.
func runInit(cmd *cobra.Command, args []string) error {
	dirPath := "."
	if len(args) > 0 {
		dirPath = args[0]
	}

	if err := repository.InitRepository(dirPath); err != nil {
		return fmt.Errorf("failed to initialize repository - %w", err)
	}

	cmd.Printf("Initialized empty Semi-Git repository in %s\n", utils.BuildDirPath(dirPath, constants.SemiGit))
	return nil
}
