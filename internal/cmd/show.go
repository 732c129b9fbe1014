package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cloudtrail-explorer/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show <index> [file|glob]",
	Short: "Print the full JSON of one event",
	Long: `Print one event as pretty JSON together with its eventID/requestID.
The index is the event's position in the loaded document, as listed by query.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid event index %q", args[0])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(firstArg(args[1:]), true); err != nil {
		return err
	}

	row, ok := s.explorer.Row(index)
	if !ok {
		return fmt.Errorf("event %d not found (%d events loaded)", index, len(s.explorer.Snapshot().Rows))
	}
	return s.renderer().RenderDetail(output.Describe(row))
}
