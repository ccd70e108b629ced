package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/tabmon/internal/connector"
	"github.com/aryankumar/tabmon/internal/executor"
	"github.com/aryankumar/tabmon/internal/metrics"
	"github.com/aryankumar/tabmon/internal/output"
)

// newStatusCmd creates the status command
func newStatusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Run the checks once and print the results",
		Long: `Run every configured check once, without waiting for a trigger, and
print the results for an operator. Exits non-zero when a check failed.`,
		Example: `  # colored table of every process
  tabmon status --passwordless

  # exactly what Telegraf would receive
  tabmon status -o line`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd)
		},
	}

	cmd.Flags().StringP("output", "o", string(output.FormatTable), "output format (table, json, yaml, line)")
	cmd.Flags().Bool("wide", false, "show every field and full error messages")
	cmd.Flags().Bool("no-color", false, "disable colored output")
	cmd.Flags().Bool("no-headers", false, "omit table headers")

	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{"table", "json", "yaml", "line"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (a *app) runStatus(cmd *cobra.Command) error {
	outputFlag, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(outputFlag)
	if err != nil {
		return err
	}
	wide, _ := cmd.Flags().GetBool("wide")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noHeaders, _ := cmd.Flags().GetBool("no-headers")

	cfg, err := a.load(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	conn, err := connector.New(cfg, a.logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	runner := executor.NewRunner(a.logger)
	for _, check := range conn.Checks() {
		if err := runner.Submit(executor.Task{Name: check.Name(), Execute: check.Collect}); err != nil {
			return err
		}
	}

	results, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	// report records the collector would reject the same way the loop does
	for i, r := range results {
		if r.Error != nil {
			continue
		}
		if _, err := metrics.EncodeAll(r.Records); err != nil {
			results[i].Error = err
			results[i].Records = nil
		}
	}

	formatter := output.NewFormatter(format,
		output.WithWide(wide),
		output.WithNoColor(noColor),
		output.WithNoHeaders(noHeaders),
		output.WithFallback(conn.Fallback))

	if err := formatter.FormatChecks(cmd.OutOrStdout(), results); err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if executor.HasErrors(results) {
		failed := executor.FilterFailed(results)
		for _, r := range failed {
			a.logger.Error("check failed", "check", r.CheckName, "error", r.Error)
		}
		return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
	}

	return nil
}
