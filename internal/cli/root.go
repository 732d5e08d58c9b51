package cli

import (
	"strings"

	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigPath = "config/config.yaml"

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "trivia-quiz",
		Short:        "Timed trivia quizzes backed by the Open Trivia Database",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("port", "", "port to listen on (overrides server.port)")
	cmd.PersistentFlags().String("config", defaultConfigPath, "path to YAML config")
	cmd.AddCommand(NewStartCmd())
	cmd.AddCommand(NewCategoriesCmd())
	cmd.AddCommand(NewPlayCmd())
	return cmd
}

// viperForCmd binds a command's flags and TRIVIA_* environment variables.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())
	v.SetEnvPrefix("TRIVIA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the config file named by --config / TRIVIA_CONFIG, applies
// --port / TRIVIA_PORT and installs the process logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := viperForCmd(cmd)
	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return cfg, err
	}
	if port := v.GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	logger.Initialize(cfg)
	return cfg, nil
}
