package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cloudtrail-explorer/internal/facet"
)

var facetsCmd = &cobra.Command{
	Use:   "facets [file|glob]",
	Short: "Summarize a document and list distinct field values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFacets,
}

func init() {
	rootCmd.AddCommand(facetsCmd)
	facetsCmd.Flags().Int("suggestion-limit", facet.DefaultSuggestionLimit, "maximum distinct values per field")
	bind("query.suggestion_limit", facetsCmd.Flags().Lookup("suggestion-limit"))
}

func runFacets(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(firstArg(args), true); err != nil {
		return err
	}
	snap := s.explorer.Snapshot()

	if strings.EqualFold(s.cfg.Output.Format, "json") {
		values := make(map[string][]string, len(snap.Suggestions))
		for f, v := range snap.Suggestions {
			values[string(f)] = v
		}
		return json.NewEncoder(os.Stdout).Encode(struct {
			Name        string              `json:"name"`
			Summary     facet.Summary       `json:"summary"`
			Suggestions map[string][]string `json:"suggestions"`
		}{snap.Name, snap.Summary, values})
	}

	s.printMeta()
	for _, f := range facet.SuggestionFields {
		values := snap.Suggestions[f]
		fmt.Printf("%s (%d): %s\n", f, len(values), strings.Join(values, ", "))
	}
	return nil
}
