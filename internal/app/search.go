package app

import (
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/headless"
	"github.com/blackwell-systems/bouquinsctl/internal/render"
	"github.com/blackwell-systems/bouquinsctl/internal/search"
)

type searchSection struct {
	Type    catalog.EntityType `json:"type" yaml:"type"`
	Count   int                `json:"count" yaml:"count"`
	Results []catalog.Record   `json:"results" yaml:"results"`
}

type searchOutput struct {
	Query    string          `json:"query" yaml:"query"`
	Scope    search.Scope    `json:"scope" yaml:"scope"`
	Sections []searchSection `json:"sections" yaml:"sections"`
}

func newSearchCmd() *cobra.Command {
	var (
		scope  string
		link   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "search [terms...]",
		Short: "Search authors, books and series",
		Long: `Search the catalog. Every whitespace-separated term is sent to the
server; with --scope all (the default) authors, books and series are
searched at once.

--link takes a search page URL (or just its query, "?q=...") and runs
the search it carries.`,
		Example: `  bouquinsctl search tolkien hobbit
  bouquinsctl search --scope series discworld
  bouquinsctl search --link 'http://localhost:9000/search?q=jules+verne'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			sc, err := parseScopeFlag(scope)
			if err != nil {
				return err
			}

			agg := search.New(client, search.Options{
				PerPage:      cfg.Search.PerPage,
				DiscardStale: cfg.Search.DiscardStale,
				Logger:       log,
			})

			var start tea.Cmd
			if link != "" {
				u, err := url.Parse(link)
				if err != nil {
					return fmt.Errorf("parsing --link: %w", err)
				}
				start = agg.InitFromURL(u.RawQuery)
			} else {
				start = agg.Submit(strings.Join(args, " "), sc)
			}
			if start == nil {
				return fmt.Errorf("nothing to search for")
			}

			tracker := &failureTracker{inner: agg}
			if err := headless.Run(cmd.Context(), tracker, start); err != nil {
				return err
			}

			entities := agg.Scope().Entities()
			if failed := tracker.searchErr(); failed != nil {
				if len(tracker.searches) == len(entities) {
					return failed
				}
				warn("some searches failed: %v", failed)
			}
			return writeSearch(cmd, f, agg)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "all", "Search scope: all, authors, books or series")
	cmd.Flags().StringVar(&link, "link", "", "Run the search of a search page URL")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json or yaml")

	return cmd
}

func parseScopeFlag(s string) (search.Scope, error) {
	sc := search.ParseScope(s)
	if string(sc) != strings.ToLower(strings.TrimSpace(s)) {
		return "", fmt.Errorf("unknown scope %q (want all, authors, books or series)", s)
	}
	return sc, nil
}

func writeSearch(cmd *cobra.Command, f render.Format, agg *search.Aggregator) error {
	w := cmd.OutOrStdout()
	out := searchOutput{Query: agg.Query(), Scope: agg.Scope()}
	for _, t := range agg.Scope().Entities() {
		res := agg.Result(t)
		records := res.Records
		if records == nil {
			records = []catalog.Record{}
		}
		out.Sections = append(out.Sections, searchSection{Type: t, Count: res.Count, Results: records})
	}

	switch f {
	case render.FormatJSON:
		return render.WriteJSON(w, out)
	case render.FormatYAML:
		return render.WriteYAML(w, out)
	}

	for i, s := range out.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header(w, "%d %s", s.Count, catalog.Label(s.Type, s.Count))
		if len(s.Results) == 0 {
			continue
		}
		d, _ := catalog.Describe(s.Type)
		if err := render.WriteTable(w, d.Columns, s.Results, render.Sort{}); err != nil {
			return err
		}
	}
	return nil
}
