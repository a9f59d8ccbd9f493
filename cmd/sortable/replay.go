package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-go/sortable/internal/errors"
	"github.com/vango-go/sortable/internal/replay"
)

func replayCmd() *cobra.Command {
	var (
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "replay <scenario>...",
		Short: "Replay drag scenarios and check their expectations",
		Long: `Replay runs each scenario against a fresh list and checks the
order, reorders and state it expects.

Scenarios are YAML or JSON files, or s3://bucket/key objects. S3 access
uses AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_ENDPOINT_URL_S3.

Examples:
  sortable replay testdata/reorder.yaml
  sortable replay -v scenarios/*.yaml
  sortable replay s3://qa-scenarios/drag/touch.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.CodeMissingArgument).
					WithDetail("replay needs at least one scenario file or s3:// URI").
					WithExample("sortable replay testdata/reorder.yaml")
			}
			if noColor {
				errors.DisableColors()
			}

			loader := &replay.Loader{}
			if needsS3(args) {
				loader.S3 = replay.NewS3Client(replay.S3ConfigFromEnv())
			}
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			return runReplay(cmd.Context(), cmd.OutOrStdout(), loader, args, verbose, logger)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every step")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored error output")

	return cmd
}

func needsS3(refs []string) bool {
	for _, ref := range refs {
		if strings.HasPrefix(ref, "s3://") {
			return true
		}
	}
	return false
}

// runReplay runs every scenario, printing a line per scenario, and fails
// if any scenario failed to load, run or meet its expectations.
func runReplay(ctx context.Context, w io.Writer, loader *replay.Loader, refs []string, verbose bool, logger *slog.Logger) error {
	failed := 0
	for _, ref := range refs {
		sc, err := loader.Load(ctx, ref)
		if err != nil {
			failed++
			failure(w, "%s", ref)
			errors.Fprint(w, err)
			continue
		}

		tr, err := replay.Run(sc, logger)
		if verbose && tr != nil {
			for _, step := range tr.Steps {
				info(w, "%s", step)
			}
		}
		if err != nil {
			failed++
			failure(w, "%s (%s)", sc.Name, ref)
			errors.Fprint(w, err)
			continue
		}
		success(w, "%s", tr.Summary())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(refs))
	}
	return nil
}
