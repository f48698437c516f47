package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gait-ai/gait/pkg/errors"
)

var version = "dev"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "gait",
		Short:         "Compile natural-language prompts into GraphQL queries and run them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (built-in defaults when empty)")

	root.AddCommand(
		newTranslateCmd(&configPath),
		newCompileCmd(&configPath),
		newCacheCmd(&configPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, h := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "hint:", h)
		}
		os.Exit(1)
	}
}
