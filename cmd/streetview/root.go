package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/streetview-node/internal/domain"
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

// runner is the part of app.Node the commands drive.
type runner interface {
	Run(ctx context.Context, p streetview.Params) domain.Result
	Invoke(ctx context.Context, raw []byte) domain.Result
	Close() error
}

type runnerFactory func(ctx context.Context) (runner, error)

// newRootCmd builds the command tree. The node is only constructed by
// commands that fetch.
func newRootCmd(newNode runnerFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "streetview",
		Short: "Fetch Google Street View images",
		Long: `streetview runs the Street View node: it fetches a static Street View
image for a location and prints the node result as JSON.

The API key is read from GOOGLE_MAPS_API_KEY on every invocation.`,
		SilenceUsage: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newFetchCmd(newNode),
		newInvokeCmd(newNode),
		newSchemaCmd(),
	)
	return root
}

// withNode builds a node, runs fn and prints its result. A failure status is
// still a successful command.
func withNode(cmd *cobra.Command, newNode runnerFactory, fn func(context.Context, runner) domain.Result) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	node, err := newNode(ctx)
	if err != nil {
		return fmt.Errorf("init node: %w", err)
	}
	defer node.Close()

	return writeJSON(cmd.OutOrStdout(), fn(ctx, node))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
