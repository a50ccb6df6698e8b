package cmd

import (
	"bytes"
	"testing"

	"github.com/GitUser-3-2-3/Semi-Git/internal/config"
	"github.com/GitUser-3-2-3/Semi-Git/internal/objects"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// createTestRootCmd creates fresh root command with the given subcommand.
// Flag values left over from earlier executions are reset, since the
// subcommands and their flag variables are package level.
func createTestRootCmd(cmd *cobra.Command) *cobra.Command {
	cmd.SilenceUsage = true
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
	settings = config.Defaults()

	testRootCmd := &cobra.Command{Use: "semigit", PersistentPreRunE: loadSettings}
	registerGlobalFlags(testRootCmd)
	testRootCmd.AddCommand(cmd)
	return testRootCmd
}

// captureStdout returns command stdout output as string.
func captureStdout(cmd *cobra.Command) *bytes.Buffer {
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	return &stdout
}

// captureStderr returns command stderr output as string.
func captureStderr(cmd *cobra.Command) *bytes.Buffer {
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	return &stderr
}

// executeCommand runs args against a fresh root holding cmd and returns stdout.
func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	testRootCmd := createTestRootCmd(cmd)
	stdout := captureStdout(testRootCmd)
	captureStderr(testRootCmd)
	testRootCmd.SetArgs(args)

	err := testRootCmd.Execute()
	return stdout.String(), err
}

// storeObject persists object in the repository at repoPath.
func storeObject(t *testing.T, repoPath string, object objects.Storable) string {
	t.Helper()

	require.NoError(t, objects.NewObjectStore(repoPath).Store(object))
	return object.Hash()
}

// storeSampleTree stores a blob and a tree holding it under two names.
func storeSampleTree(t *testing.T, repoPath string) (treeHash, blobHash string) {
	t.Helper()

	blobHash = storeObject(t, repoPath, objects.NewBlob([]byte("hello world")))

	readme, err := objects.NewTreeEntry(objects.ModeRegularFile, "README.md", blobHash)
	require.NoError(t, err)
	script, err := objects.NewTreeEntry(objects.ModeExecutable, "run.sh", blobHash)
	require.NoError(t, err)

	tree, err := objects.NewTree([]objects.TreeEntry{*script, *readme})
	require.NoError(t, err)

	return storeObject(t, repoPath, tree), blobHash
}
