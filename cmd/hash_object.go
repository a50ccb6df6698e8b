package cmd

import (
	"fmt"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/spf13/cobra"
)

var hashObjectCmd = &cobra.Command{
	Use:   constants.HashObjectCmdName + " <filepath>",
	Short: "Compute object hash and optionally store a blob from a file",
	Long: `Compute the object hash (SHA-1 hash) for a file's content.
Optionally write the resulting blob into the objects folder.

Examples:
  # Compute hash without storing
  semigit hash-object myfile.txt

  # Compute hash and store in .semigit/objects
  semigit hash-object -w myfile.txt`,
	SilenceUsage: true,
	Args:         exactArgs(1, "filepath"),
	RunE:         runHashObject,
}

var writeFlag bool

func init() {
	rootCmd.AddCommand(hashObjectCmd)

	hashObjectCmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "Write the object into the objects folder")
}

// runHashObject streams the file through the encoder and prints its hash.
// Without -w no repository is needed.
func runHashObject(cmd *cobra.Command, args []string) error {
	store := newObjectStore("")
	if writeFlag {
		repoStore, err := openRepository()
		if err != nil {
			return err
		}
		store = repoStore
	}

	hash, err := store.WriteBlobFile(args[0], writeFlag)
	if err != nil {
		if writeFlag {
			return fmt.Errorf("failed to store object: %w", err)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
