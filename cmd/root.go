// File: cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Kyle6012/plagiarism-detection/internal/config"
	"github.com/Kyle6012/plagiarism-detection/internal/observability"
)

// Version is stamped by the build; "dev" for local builds.
var Version = "dev"

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "plagctl",
	Short:   "plagctl is the command-line client for the plagiarism-detection platform.",
	Long: `plagctl submits batches of documents for plagiarism and AI-authorship
analysis and retrieves the per-document results once the server has
processed them. Sessions persist between runs; log in once, then upload
and inspect batches as needed.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1. Initialize configuration loading (Viper).
		if err := initializeConfig(); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}

		// 2. Unmarshal the configuration.
		var cfg config.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}

		// 3. Validate the configuration.
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		// 4. Store the configuration globally.
		config.Set(&cfg)

		// 5. Initialize the logger.
		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("Starting plagctl", zap.String("version", Version))

		return nil
	},
}

// Execute runs the root command with the provided context so commands
// stop cleanly on interrupt.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil && ctx.Err() == nil {
			logger.Debug("Command execution failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml, then $HOME/.plagctl/config.yaml)")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initializeConfig reads in the config file and ENV variables if set.
func initializeConfig() error {
	// Set default values so the client can run with no config file at all.
	config.SetDefaults(viper.GetViper())

	// 1. Set up config file search paths.
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.plagctl")
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// 2. Environment variable configuration.
	viper.SetEnvPrefix("PLAGCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind the variables users most commonly override.
	_ = viper.BindEnv("server.base_url", "PLAGCTL_SERVER_BASE_URL")
	_ = viper.BindEnv("session.token_file", "PLAGCTL_SESSION_TOKEN_FILE")

	// 3. Read the configuration file.
	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover it.
		// Anything else, like a parse error, is reported.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
