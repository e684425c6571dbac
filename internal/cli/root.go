// Package cli wires the command line interface for the visit pipeline.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"go-visit-pipeline/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "visitpipe",
	Short: "Visit pipeline - appointment batch processing and reporting",
	Long: `Visitpipe processes appointment record batches: it classifies
completed visits against a persistent caller history, flags records
that need human review, aggregates completion statistics, and builds
fixed-layout export files for downstream reporting.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("visitpipe v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./visitpipe.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("visitpipe")
	}

	// Read in environment variables that match VISITPIPE_*
	viper.SetEnvPrefix("VISITPIPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the runtime configuration from viper.
func loadConfig() (config.Config, error) {
	return config.Load(viper.GetViper())
}

// newLogger builds the process logger. Verbose mode, whether from the
// --verbose flag or the config file, switches to the development
// config with debug level.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	if verbose || cfg.Verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
