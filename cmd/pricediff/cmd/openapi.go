package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/pricediff/internal/api"
	"github.com/donaldgifford/pricediff/internal/engine"
)

func openAPICommand() *cobra.Command {
	var asYAML bool

	c := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of the schedule ops API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := api.NewServer(idleScheduler{}, Version, slog.New(slog.DiscardHandler))
			doc := srv.API().OpenAPI()

			if !asYAML {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}

			// Round-trip through JSON so the YAML follows the JSON field names.
			raw, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("encoding OpenAPI document: %w", err)
			}
			var tree any
			if err := yaml.Unmarshal(raw, &tree); err != nil {
				return fmt.Errorf("converting OpenAPI document: %w", err)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(tree); err != nil {
				return fmt.Errorf("writing OpenAPI document: %w", err)
			}
			return enc.Close()
		},
	}
	c.Flags().BoolVar(&asYAML, "yaml", false, "emit YAML instead of JSON")
	return c
}

// idleScheduler backs the server when only its route table is needed.
type idleScheduler struct{}

func (idleScheduler) Ready() bool { return false }

func (idleScheduler) RunNow(context.Context) (*engine.Result, error) {
	return nil, errors.New("no scheduler running")
}

func (idleScheduler) LastRun() (engine.RunRecord, bool) { return engine.RunRecord{}, false }
