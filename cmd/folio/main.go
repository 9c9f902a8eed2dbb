package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/folio/internal/app"
	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
	"github.com/MrSnakeDoc/folio/internal/version"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ folio: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "folio",
		Short:         "Personal site server",
		Long:          "Folio serves a personal site whose blog, comments and recommendations live in a remote spreadsheet endpoint.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		probeCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)

	return cmd
}

func serve() error {
	a, err := app.New()
	if err != nil {
		return err
	}
	return a.Run()
}

func probeCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "probe [operation...]",
		Short: "Run operations against the remote endpoint and print the raw outcome",
		Long: `Probe sends each operation once and prints status, timing and the response body.
Write operations submit a fixed test payload. Without arguments every operation is probed.`,
		ValidArgs: []string{
			domain.OpGetBlogPosts.String(),
			domain.OpGetComments.String(),
			domain.OpAddComment.String(),
			domain.OpAddRecommendation.String(),
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := domain.Operations
			if len(args) > 0 {
				ops = make([]domain.Operation, 0, len(args))
				for _, a := range args {
					op, err := domain.ParseOperation(a)
					if err != nil {
						return err
					}
					ops = append(ops, op)
				}
			}

			client, err := sheetapi.NewClient(sheetapi.Options{
				URL:     url,
				Timeout: timeout,
				Logger:  logger.New("error", false),
			})
			if err != nil {
				return err
			}

			return runProbe(cmd.Context(), cmd.OutOrStdout(), client, ops)
		},
	}

	cmd.Flags().StringVar(&url, "url", os.Getenv("FOLIO_REMOTE_URL"), "remote endpoint URL (default $FOLIO_REMOTE_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", sheetapi.DefaultTimeout, "per request timeout")

	return cmd
}

// runProbe prints one report per operation and fails when any of them failed.
func runProbe(ctx context.Context, out io.Writer, client sheetapi.Client, ops []domain.Operation) error {
	if ctx == nil {
		ctx = context.Background()
	}

	failed := 0
	for _, op := range ops {
		report := client.Probe(ctx, op)
		mark := "✅"
		if !report.OK() {
			mark = "❌"
			failed++
		}
		fmt.Fprintf(out, "%s %s %s (status %d, %s)\n", mark, op.Method(), op, report.Status, report.Duration.Round(time.Millisecond))
		if report.Message != "" {
			fmt.Fprintf(out, "   %s: %s\n", report.Outcome, report.Message)
		}

		body := report.Pretty
		if body == "" {
			body = report.Raw
		}
		if body != "" {
			fmt.Fprintln(out, body)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d operations failed", failed, len(ops))
	}
	return nil
}
