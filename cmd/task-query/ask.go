// cmd/task-query/ask.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"task-query-workers/internal/common/logger"
)

func newAskCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and print the JSON response",
		Example: `  task-query ask "show Bob's overdue tasks"
  task-query ask how busy is Alice`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: "stderr"})
			defer log.Sync()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			resp := a.processor.Process(ctx, strings.Join(args, " "))

			var out []byte
			if compact {
				out, err = json.Marshal(resp)
			} else {
				out, err = json.MarshalIndent(resp, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "print the response on one line")
	return cmd
}
