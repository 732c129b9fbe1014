package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cloudtrail-explorer/internal/query"
)

var queryParams = map[string]*string{}

var queryCmd = &cobra.Command{
	Use:   "query [file|glob]",
	Short: "Filter, sort and page through events",
	Long: `Load a CloudTrail document and print one page of matching events.

Free text matches anywhere in an event; prefix it with ! to exclude matches.
Without a file argument the configured input.path or the cached document is used.

Examples:
  cloudtrail-explorer query trail.json --status errors
  cloudtrail-explorer query "logs/**/*.json" -q '!Describe' --sort user
  cloudtrail-explorer query --region eu- --limit all --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	flags := queryCmd.Flags()
	param := func(name, short, usage string) {
		queryParams[name] = flags.StringP(flagName(name), short, "", usage)
	}
	param("q", "q", "free-text search, ! prefix negates")
	param("source", "", "event source contains")
	param("name", "", "event name contains")
	param("principal", "", "principal contains")
	param("region", "", "region contains")
	param("status", "", "all, errors, success")
	param("sort", "", "sort field: time, source, name, user, region, status")
	param("dir", "", "sort direction: asc, desc")
	param("limit", "", "page size or all")
	param("page", "", "page number")

	bind("query.page_size", flags.Lookup("limit"))
}

// flagName maps the short request key for free text to a readable flag.
func flagName(param string) string {
	if param == "q" {
		return "query"
	}
	return param
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(firstArg(args), true); err != nil {
		return err
	}

	req, err := query.ParseRequest(func(key string) string {
		// The page size default already reflects --limit through config.
		if key == "limit" {
			return ""
		}
		if p, ok := queryParams[key]; ok {
			return *p
		}
		return ""
	}, s.pageSize())
	if err != nil {
		return err
	}

	res, _ := s.explorer.Query(req)
	s.printMeta()
	if err := s.renderer().RenderPage(res); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if res.Matched == 0 {
		fmt.Fprintln(os.Stderr, "No events match the current filters.")
	}
	return nil
}
