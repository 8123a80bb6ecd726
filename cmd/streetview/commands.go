package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/streetview-node/internal/domain"
	"github.com/samvad-hq/streetview-node/pkg/schema"
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

func newFetchCmd(newNode runnerFactory) *cobra.Command {
	var (
		p       = streetview.DefaultParams("")
		heading int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the Street View image for a location",
		Example: `  # Address
  streetview fetch --location "Eiffel Tower, Paris"

  # Coordinates, facing east, wider view
  streetview fetch --location "40.758,-73.9855" --heading 90 --fov 110`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("heading") {
				p.Heading = &heading
			}
			return withNode(cmd, newNode, func(ctx context.Context, n runner) domain.Result {
				return n.Run(ctx, p)
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&p.Location, "location", "l", "", "Address or \"lat,lng\" to photograph")
	f.StringVar(&p.Size, "size", streetview.DefaultSize, fmt.Sprintf("Image size (%v)", streetview.Sizes()))
	f.IntVar(&heading, "heading", 0, "Compass heading of the camera, 0-360 (unset lets the API choose)")
	f.IntVar(&p.FOV, "fov", streetview.DefaultFOV, "Horizontal field of view, 10-120")
	f.IntVar(&p.Pitch, "pitch", streetview.DefaultPitch, "Camera pitch, -90 to 90")
	f.IntVar(&p.Radius, "radius", streetview.DefaultRadius, "Search radius in meters, 1-1000")
	f.StringVar(&p.Source, "source", streetview.DefaultSource, fmt.Sprintf("Imagery source (%v)", streetview.Sources()))
	f.BoolVar(&p.ReturnErrorCode, "return-error-code", streetview.DefaultReturnErrorCode, "Ask the API for an error status instead of a placeholder image")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func newInvokeCmd(newNode runnerFactory) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run the node with a host JSON payload",
		Long: `Run the node with a JSON payload keyed by the node's parameter names
(address, size, heading, fov, pitch, radius, source, return_error_code).
The payload is read from --file, or from stdin when no file is given.`,
		Example: `  echo '{"address":"Colosseum, Rome","heading":120}' | streetview invoke`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readPayload(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return withNode(cmd, newNode, func(ctx context.Context, n runner) domain.Result {
				return n.Invoke(ctx, raw)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Payload file (defaults to stdin)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the node declaration and its JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"node":        schema.Node(),
				"json_schema": schema.JSONSchema(),
			})
		},
	}
}

func readPayload(stdin io.Reader, file string) ([]byte, error) {
	if file == "" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read payload from stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read payload file: %w", err)
	}
	return raw, nil
}
