package cli

import (
	"errors"
	"fmt"
	"os"

	"cicd-demo/backend/internal/buildinfo"
	"cicd-demo/backend/internal/config"
	"cicd-demo/backend/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cicd-demo",
	Short: fmt.Sprintf("CI/CD pipeline demo service (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `cicd-demo is a small web service used to validate a deployment pipeline.
It serves a homepage, a health check and a couple of JSON status endpoints.

Running it without a subcommand starts the HTTP server.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, configErr := initConfig(viper.GetViper())
		if err := logging.Init(
			viper.GetString(config.LogLevelKey),
			viper.GetString(config.LogFormatKey),
			viper.GetBool(config.LogNoColorKey),
		); err != nil {
			return err
		}
		if configErr != nil {
			return configErr
		}
		if configPath != "" {
			log.Debug().Msgf("using config file: %s", configPath)
		}
		return nil
	},
	RunE: runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("execution failed")
		os.Exit(1)
	}
}

func init() {
	logging.InitDefault()

	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default is ./cicd-demo.yaml if present)")

	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(config.LogLevelKey, flags.Lookup("log-level"))

	flags.String("log-format", "console", "Log format (console, json)")
	_ = viper.BindPFlag(config.LogFormatKey, flags.Lookup("log-format"))

	flags.Bool("no-color", false, "Disable color output")
	_ = viper.BindPFlag(config.LogNoColorKey, flags.Lookup("no-color"))

	addServeFlags(rootCmd)

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func initConfig(v *viper.Viper) (string, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("cicd-demo")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundError) {
			return "", fmt.Errorf("reading config: %w", err)
		}
		return "", nil
	}
	return v.ConfigFileUsed(), nil
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
}
