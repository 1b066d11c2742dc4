// Command querydsl generates query types for model structs and manages the
// example database.
//
//	querydsl gen -f member.go -o qmodel
//	querydsl migrate up
//	querydsl seed -f fixtures.yaml
//	querydsl demo
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dongjun6343/query/internal/config"
	"github.com/dongjun6343/query/internal/log"
	"github.com/dongjun6343/query/internal/logger"
)

type rootOptions struct {
	EnvFile string `flag:"env-file" short:"e" usage:"Load the configuration from this file before the environment"`
	Verbose bool   `flag:"verbose" short:"v" usage:"Print debug output"`
}

var rootCmd = &cobra.Command{
	Use:           "querydsl",
	Short:         "querydsl generates typed query paths and runs the example database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	bindPersistent(rootCmd, &rootOptions{})
	rootCmd.AddCommand(genCmd, migrateCmd, seedCmd, demoCmd)
}

// bindPersistent declares flags shared by every sub command.
func bindPersistent(cmd *cobra.Command, opts any) {
	flags := &cobra.Command{}
	mustBind(flags, opts)
	cmd.PersistentFlags().AddFlagSet(flags.Flags())
}

func rootOptionsOf(cmd *cobra.Command) *rootOptions {
	opts := &rootOptions{}
	opts.EnvFile, _ = cmd.Flags().GetString("env-file")
	opts.Verbose, _ = cmd.Flags().GetBool("verbose")
	log.SetDebug(opts.Verbose)
	return opts
}

// loadConfig reads the configuration and builds the structured logger.
func loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	opts := rootOptionsOf(cmd)

	var files []string
	if opts.EnvFile != "" {
		files = append(files, opts.EnvFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
		cfg.Log.SQL = true
	}

	return cfg, logger.New(cfg.Log.Level, os.Stderr), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
