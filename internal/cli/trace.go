package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/gluepot/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Run string // run id to dump; empty lists runs
}

// RunInfo is the JSON shape of a listed run.
type RunInfo struct {
	ID        string `json:"id"`
	Scenario  string `json:"scenario"`
	CreatedAt string `json:"created_at"`
}

// EventInfo is the JSON shape of a dumped event.
type EventInfo struct {
	Seq     int64  `json:"seq"`
	Type    string `json:"type"`
	Phase   string `json:"phase,omitempty"`
	Hook    string `json:"hook,omitempty"`
	Step    string `json:"step,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <trace-db>",
		Short: "Inspect a recorded trace database",
		Long: `List the runs recorded in a trace database, or with --run dump one
run's ordered event log.

Examples:
  gluepot trace ./trace.db
  gluepot trace ./trace.db --run step-0001
  gluepot trace ./trace.db --run step-0001 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Run, "run", "", "dump the events of one run id")

	return cmd
}

func runTrace(opts *TraceOptions, dbPath string, cmd *cobra.Command) error {
	store, err := trace.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer store.Close()

	ctx := context.Background()
	if opts.Run == "" {
		return listTraceRuns(ctx, opts, store, cmd)
	}
	return dumpTraceRun(ctx, opts, store, cmd)
}

// listTraceRuns prints every recorded run.
func listTraceRuns(ctx context.Context, opts *TraceOptions, store *trace.Store, cmd *cobra.Command) error {
	runs, err := store.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		infos := make([]RunInfo, len(runs))
		for i, r := range runs {
			infos[i] = RunInfo{ID: r.ID, Scenario: r.Scenario, CreatedAt: r.CreatedAt}
		}
		return writeJSON(cmd.OutOrStdout(), infos)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Scenario, r.CreatedAt)
	}
	return w.Flush()
}

// dumpTraceRun prints one run's event log in sequence order.
func dumpTraceRun(ctx context.Context, opts *TraceOptions, store *trace.Store, cmd *cobra.Command) error {
	events, err := store.ReadRun(ctx, opts.Run)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read run %s", opts.Run), err)
	}
	if len(events) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no events recorded for run %s", opts.Run))
	}

	if opts.Format == "json" {
		infos := make([]EventInfo, len(events))
		for i, e := range events {
			infos[i] = EventInfo{
				Seq:     e.Seq,
				Type:    string(e.Type),
				Phase:   e.Phase,
				Hook:    e.Hook,
				Step:    e.StepText,
				Outcome: e.Outcome,
				Detail:  e.Detail,
			}
		}
		return writeJSON(cmd.OutOrStdout(), infos)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tTYPE\tPHASE\tHOOK\tSTEP\tOUTCOME\tDETAIL")
	for _, e := range events {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Seq, e.Type, e.Phase, e.Hook, e.StepText, e.Outcome, e.Detail)
	}
	return w.Flush()
}
