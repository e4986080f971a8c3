package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/driftguard/internal/config"
	"github.com/felixgeelhaar/driftguard/internal/notify"
	"github.com/felixgeelhaar/driftguard/internal/ux"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect driftguard configuration",
	Long: `Inspect the configuration 'driftguard check' would run with.

Configuration is layered, highest precedence first:
  • command-line flags
  • environment variables (after the env file is loaded)
  • the YAML config file (--config, or .driftguard.yaml discovered from the
    working directory up to the repository root, then the user config dir)
  • defaults

Examples:
  # Show the effective configuration
  driftguard config view

  # Show which config file is used
  driftguard config path
`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Long: `Display the merged configuration with secrets redacted, followed by the
notification channels that would be skipped.`,
	Args: cobra.NoArgs,
	RunE: runConfigView,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configOpts struct {
	configFile string
	envFile    string
	format     string
}

func init() {
	pf := configCmd.PersistentFlags()
	pf.StringVar(&configOpts.configFile, "config", "", "YAML config file (default: discovered .driftguard.yaml)")
	pf.StringVar(&configOpts.envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before reading the environment")
	configViewCmd.Flags().StringVarP(&configOpts.format, "output", "o", "yaml", "output format: yaml or json")

	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		ConfigFile:      configOpts.configFile,
		EnvFile:         configOpts.envFile,
		EnvFileExplicit: cmd.Flags().Changed("env-file"),
	})
}

func runConfigView(cmd *cobra.Command, args []string) error {
	if configOpts.format != ux.FormatYAML && configOpts.format != ux.FormatJSON {
		return ux.NewErrorWithSuggestion(
			fmt.Errorf("unsupported config output %q", configOpts.format),
			"Use --output yaml or --output json")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	formatter, err := ux.NewFormatter(configOpts.format, &ux.FormatterOptions{
		Writer:  cmd.OutOrStdout(),
		NoColor: true,
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(redacted(cfg)); err != nil {
		return err
	}

	_, skipped := notify.Build(cfg.Notify, nil)
	for _, err := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %v\n", err)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Source == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "no config file found, using defaults")
		fmt.Fprintf(cmd.OutOrStdout(), "create %s or %s\n", ".driftguard.yaml", ux.UserConfigFile())
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), cfg.Source)
	return nil
}

// redacted returns a copy of cfg safe to print
func redacted(cfg *config.Config) *config.Config {
	out := *cfg
	if cfg.Notify.Email != nil && cfg.Notify.Email.Password != "" {
		email := *cfg.Notify.Email
		email.Password = "********"
		out.Notify.Email = &email
	}
	return &out
}
