package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/idraxiom/contact-relay/internal/config"
	"github.com/idraxiom/contact-relay/internal/observability/logger"
)

func main() {
	var (
		cfgPath = envOr("CONFIG_PATH", "configs/config.yaml")
		envFile = envOr("ENV_FILE", ".env")
		cfg     *config.Config
	)

	root := &cobra.Command{
		Use:           "relay",
		Short:         "Relay del formulario de contacto (HTTP -> SMTP)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env es opcional
			if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			c, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			cfg = c
			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				ServiceName: "contact-relay",
				Version:     os.Getenv("SERVICE_VERSION"),
			})
			logger.S().Debugf("config loaded from %s (env=%s)", cfgPath, cfg.App.Env)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", cfgPath, "ruta del YAML de config (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "archivo .env opcional (env ENV_FILE)")

	root.AddCommand(
		newServeCmd(func() *config.Config { return cfg }),
		newVerifyCmd(func() *config.Config { return cfg }),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
