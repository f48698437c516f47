package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gait-ai/gait/pkg/gateway"
	"github.com/gait-ai/gait/pkg/metrics"
	"github.com/gait-ai/gait/pkg/models"
	"github.com/gait-ai/gait/pkg/nlp"
	"github.com/gait-ai/gait/pkg/resolver"
	"github.com/gait-ai/gait/pkg/translator"
)

func newTranslateCmd(configPath *string) *cobra.Command {
	var (
		intentPath string
		showQuery  bool
	)

	cmd := &cobra.Command{
		Use:   "translate [prompt]",
		Short: "Translate a prompt into a GraphQL query, run it and print the result",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			req := translator.Request{Prompt: strings.Join(args, " ")}
			if intentPath != "" {
				in, err := readIntent(intentPath)
				if err != nil {
					return err
				}
				req.Intent = &in
			}
			if strings.TrimSpace(req.Prompt) == "" && req.Intent == nil {
				return fmt.Errorf("a prompt or --intent is required")
			}

			c, closer, err := a.openCache()
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			m, err := metrics.New(prometheus.DefaultRegisterer)
			if err != nil {
				return err
			}

			tr := translator.New(translator.Deps{
				Cache:    c,
				Parser:   nlp.New(a.cfg.NLP, a.log),
				Resolver: resolver.New(a.store, a.router, a.log),
				Gateway:  gateway.New(a.router, a.cfg.HTTP, a.log),
				Registry: a.router,
				Metrics:  m,
				Logger:   a.log,
			})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := tr.Translate(ctx, req)
			if err != nil {
				return err
			}
			if showQuery {
				if res.Cached {
					fmt.Fprintln(os.Stderr, "# served from cache")
				} else {
					fmt.Fprintln(os.Stderr, res.Query)
				}
			}
			fmt.Println(res.Payload)
			return nil
		},
	}

	cmd.Flags().StringVar(&intentPath, "intent", "", "JSON file holding a parsed intent (skips the parser)")
	cmd.Flags().BoolVar(&showQuery, "show-query", false, "print the compiled query to stderr")
	return cmd
}

func readIntent(path string) (models.Intent, error) {
	var in models.Intent
	if err := readJSON(path, &in); err != nil {
		return in, fmt.Errorf("read intent: %w", err)
	}
	return in, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
