package cmd

import (
	"fmt"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/GitUser-3-2-3/Semi-Git/internal/objects"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var lsTreeCmd = &cobra.Command{
	Use:   constants.LsTreeCmdName + " <tree>",
	Short: "List the contents of a tree object",
	Long: `List the entries of a stored tree object, one per line:

  <mode> <kind> <hash>	<name>

Use --name-only to print just the entry names.`,
	SilenceUsage: true,
	Args:         exactArgs(1, "tree"),
	RunE:         runLsTree,
}

var nameOnlyFlag bool

func init() {
	rootCmd.AddCommand(lsTreeCmd)

	lsTreeCmd.Flags().BoolVar(&nameOnlyFlag, "name-only", false, "List only entry names")
}

func runLsTree(cmd *cobra.Command, args []string) (retErr error) {
	store, err := openRepository()
	if err != nil {
		return err
	}

	object, err := store.Read(args[0])
	if err != nil {
		return err
	}
	defer func() {
		retErr = multierr.Append(retErr, object.Close())
	}()

	if object.Kind != objects.KindTree {
		return fmt.Errorf("object %s is a %s, not a %s", object.Hash, object.Kind, objects.KindTree)
	}

	return printTree(cmd.OutOrStdout(), object, nameOnlyFlag)
}
