// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the beansplit CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the beansplit CLI.
var rootCmd = &cobra.Command{
	Use:   "beansplit",
	Short: "Split green coffee quotation PDFs into delimited section files",
	Long: `beansplit extracts the text of green coffee quotation PDFs, cuts it into
the common (常用生豆报价单) and premium (精品生豆报价单) sections, and writes
each section to its own text file with a line of ten '=' before every bean
entry.

Use split for a batch of files, watch for an inbox directory, and inspect to
see how a single file would be split without writing anything.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./beansplit.yaml or ~/.config/beansplit/beansplit.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("beansplit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "beansplit"))
		}
	}

	viper.SetEnvPrefix("BEANSPLIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
