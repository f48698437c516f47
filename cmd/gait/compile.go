package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gait-ai/gait/pkg/compiler"
	"github.com/gait-ai/gait/pkg/models"
	"github.com/gait-ai/gait/pkg/resolver"
)

func newCompileCmd(configPath *string) *cobra.Command {
	var (
		intentPath  string
		mappingPath string
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile an intent into GraphQL without calling the API",
		Long: `Compile an intent into GraphQL without calling the API.

With --mapping the mapping record is read from a JSON file and nothing is
contacted. Without it the mapping is resolved from the triple store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			in, err := readIntent(intentPath)
			if err != nil {
				return err
			}
			target, err := a.router.Resolve(in.API)
			if err != nil {
				return err
			}

			var m models.Mapping
			if mappingPath != "" {
				if err := readJSON(mappingPath, &m); err != nil {
					return fmt.Errorf("read mapping: %w", err)
				}
			} else {
				m, err = resolver.New(a.store, a.router, a.log).Resolve(context.Background(), in)
				if err != nil {
					return err
				}
			}

			shape, err := compiler.SelectShape(target.Family, m)
			if err != nil {
				return err
			}
			q, err := compiler.Compile(target.Schema(), in, m)
			if err != nil {
				return err
			}
			fmt.Printf("# %s, %s\n%s\n", target.Name, shape, q)
			return nil
		},
	}

	cmd.Flags().StringVar(&intentPath, "intent", "", "JSON file holding the intent")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "JSON file holding the mapping record")
	_ = cmd.MarkFlagRequired("intent")
	return cmd
}
