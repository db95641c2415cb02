package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/msureshc21/Doculyzer/cmd/doculyzer/app"
	"github.com/msureshc21/Doculyzer/internal/cli/output"
	"github.com/msureshc21/Doculyzer/pkg/errors"
	"github.com/msureshc21/Doculyzer/pkg/facts"
)

func newIngestCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Resolve a batch of extracted candidates",
		Long: `Ingest reads candidate values from a JSON or YAML file, one batch per
source document, and resolves them against the canonical facts. Each
candidate needs a field_name, value, confidence, and source_document_id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates, err := loadCandidates(args[0])
			if err != nil {
				return err
			}

			engine, err := a.Engine()
			if err != nil {
				return err
			}

			result, err := engine.Ingest(cmd.Context(), candidates)
			if err != nil {
				return err
			}

			format := output.ParseFormat(a.Config().Format)
			if format != output.FormatTable {
				return output.Write(cmd.OutOrStdout(), format, result)
			}

			data := output.Data{
				Headers: []string{"KEY", "ACTION", "REASON"},
			}
			for _, out := range result.Outcomes {
				data.Rows = append(data.Rows, []string{
					out.Key.String(), string(out.Action), out.Reason,
				})
			}
			return output.Write(cmd.OutOrStdout(), format, data)
		},
	}
}

// loadCandidates parses a candidate batch from a JSON or YAML file.
func loadCandidates(path string) ([]facts.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var candidates []facts.Candidate
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &candidates); err != nil {
			return nil, errors.NewParseError("yaml", path, "parsing candidates", err)
		}
	default:
		if err := json.Unmarshal(data, &candidates); err != nil {
			return nil, errors.NewParseError("json", path, "parsing candidates", err)
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates in %s", path)
	}
	return candidates, nil
}
