package cmd

import (
	"fmt"

	"modelexplorer/config"
	"modelexplorer/logger"

	"github.com/spf13/cobra"
)

var (
	logLevel     string
	logFormat    string
	logFile      string
	cacheBackend string
	cacheDir     string
	catalogueURL string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "modelexplorer",
	Short:         "OpenRouter model catalogue explorer",
	Long:          "Fetch, cache, filter and sort the OpenRouter model catalogue from the command line or over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := initLogger(); err != nil {
			return err
		}

		cfg = config.Load()
		if cmd.Flags().Changed("cache-backend") {
			cfg.CacheBackend = cacheBackend
		}
		if cmd.Flags().Changed("cache-dir") {
			cfg.CacheDir = cacheDir
		}
		if cmd.Flags().Changed("endpoint") {
			cfg.CatalogueURL = catalogueURL
		}
		return cfg.Validate()
	},
}

// closeLogger 命令结束后关闭日志文件，失败的命令也要执行
var closeLogger = logger.Close

// Execute runs the root command.
func Execute() error {
	defer func() { _ = closeLogger() }()
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	flags.StringVar(&logFile, "log-file", "", "Also write logs to this file (rotated)")
	flags.StringVar(&cacheBackend, "cache-backend", "", "Snapshot backend (file, redis, memory)")
	flags.StringVar(&cacheDir, "cache-dir", "", "Snapshot directory for the file backend")
	flags.StringVar(&catalogueURL, "endpoint", "", "Catalogue endpoint URL")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(modalitiesCmd)
}

// initLogger 环境变量为基础，命令行参数覆盖
func initLogger() error {
	lc := logger.ParseConfig()
	if logLevel != "" {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		lc.Level = level
	}
	if logFormat != "" {
		format, ok := logger.ParseFormat(logFormat)
		if !ok {
			return fmt.Errorf("invalid --log-format: %q", logFormat)
		}
		lc.Format = format
	}
	if logFile != "" {
		lc.File = logFile
	}
	return logger.InitLogger(lc)
}
