package cmd

import (
	"log/slog"
	"os"

	"github.com/GitUser-3-2-3/Semi-Git/internal/config"
	"github.com/GitUser-3-2-3/Semi-Git/internal/objects"
	"github.com/GitUser-3-2-3/Semi-Git/internal/repository"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFlag   = "config"
	logLevelFlag = "log-level"
)

var (
	cfgFile string

	// settings are resolved before every command runs.
	settings = config.Defaults()
)

// rootCmd defines the base command for the semigit CLI.
// All subcommands (init, hash-object, cat-file, ls-tree) register under this root.
var rootCmd = &cobra.Command{
	Use:   "semigit",
	Short: "A content-addressable object store compatible with Git loose objects",
	Long: `Semi-Git stores file contents, directory listings and commits as
zlib-compressed, SHA-1 addressed objects laid out the way Git lays out loose objects.`,
	PersistentPreRunE: loadSettings,
}

func init() {
	registerGlobalFlags(rootCmd)
}

func registerGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, configFlag, "", "config file (default is .semigit/config.yaml)")
	cmd.PersistentFlags().String(logLevelFlag, "", "log level: debug, info, warn or error")
}

// loadSettings reads configuration for the repository enclosing the working
// directory, if any, and installs the logger on stderr.
func loadSettings(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	if err := v.BindPFlag(config.KeyLogLevel, cmd.Flags().Lookup(logLevelFlag)); err != nil {
		return err
	}

	// Outside a repository only defaults, environment and flags apply
	repoPath, _ := repository.FindRepoRoot(".")

	loaded, err := config.Load(v, cfgFile, repoPath)
	if err != nil {
		return err
	}
	settings = loaded

	slog.SetDefault(config.NewLogger(cmd.ErrOrStderr(), settings))
	return nil
}

// newObjectStore opens the store at repoPath with the configured compression.
func newObjectStore(repoPath string) *objects.ObjectStore {
	return objects.NewObjectStore(repoPath, objects.WithCompressionLevel(settings.CompressionLevel))
}

// openRepository locates the repository enclosing the working directory.
func openRepository() (*objects.ObjectStore, error) {
	repoPath, err := repository.FindRepoRoot(".")
	if err != nil {
		return nil, err
	}
	return newObjectStore(repoPath), nil
}

// Execute runs the root command and handles exit codes.
// Called from main.go to start CLI execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
