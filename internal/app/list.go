package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/events"
	"github.com/blackwell-systems/bouquinsctl/internal/headless"
	"github.com/blackwell-systems/bouquinsctl/internal/listing"
	"github.com/blackwell-systems/bouquinsctl/internal/render"
)

type listOutput struct {
	Type    catalog.EntityType `json:"type" yaml:"type"`
	Page    int                `json:"page" yaml:"page"`
	More    bool               `json:"more" yaml:"more"`
	Sort    string             `json:"sort,omitempty" yaml:"sort,omitempty"`
	Order   string             `json:"order,omitempty" yaml:"order,omitempty"`
	Results []catalog.Record   `json:"results" yaml:"results"`
}

func newListCmd() *cobra.Command {
	var (
		sortBy string
		desc   bool
		page   int
		format string
	)

	cmd := &cobra.Command{
		Use:       "list <books|authors|series>",
		Short:     "List one page of books, authors or series",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"books", "authors", "series"},
		Example: `  # First page of books
  bouquinsctl list books

  # Authors sorted by name, descending, third page
  bouquinsctl list authors --sort name --desc --page 3

  # Series as JSON
  bouquinsctl list series --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := catalog.ParseEntityType(args[0])
			if err != nil {
				return err
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			sortCol, err := resolveSortColumn(entity, sortBy, desc)
			if err != nil {
				return err
			}
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}

			bus := events.NewBus()
			view := listing.New(client, listing.Options{
				PageSize:     cfg.Listing.PerPage,
				DiscardStale: cfg.Listing.DiscardStale,
				Logger:       log,
			})
			view.Subscribe(bus)

			tracker := &failureTracker{inner: view}
			run := func(c tea.Cmd) error {
				if err := headless.Run(cmd.Context(), tracker, c); err != nil {
					return err
				}
				return tracker.take()
			}

			if err := run(view.SelectEntityType(entity)); err != nil {
				return err
			}

			// Replay header clicks: one for ascending, two for descending.
			if sortCol != "" {
				clicks := 1
				if desc {
					clicks = 2
				}
				for i := 0; i < clicks; i++ {
					if err := run(bus.Publish(events.SortOn{Column: sortCol})); err != nil {
						return err
					}
				}
			}

			for view.Page() < page && view.HasMore() {
				if err := run(bus.Publish(events.UpdatePage{Delta: 1})); err != nil {
					return err
				}
			}
			if view.Page() > 0 && view.Page() < page {
				warn("only %d page(s) of %s available", view.Page(), entity)
			}

			return writeListing(cmd, f, view)
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort column (title for books, name for authors and series)")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending (with --sort)")
	cmd.Flags().IntVar(&page, "page", 1, "Page to show")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json or yaml")

	return cmd
}

func resolveSortColumn(entity catalog.EntityType, sortBy string, desc bool) (catalog.ColumnID, error) {
	if sortBy == "" {
		if desc {
			return "", fmt.Errorf("--desc needs --sort")
		}
		return "", nil
	}
	c, ok := catalog.ColumnByID(entity, sortBy)
	if !ok {
		return "", fmt.Errorf("%s have no column %q", entity, sortBy)
	}
	if !c.Sortable() {
		return "", fmt.Errorf("column %q of %s is not sortable", sortBy, entity)
	}
	return c.ID, nil
}

func writeListing(cmd *cobra.Command, f render.Format, view *listing.View) error {
	w := cmd.OutOrStdout()
	col, desc := view.Sort()

	switch f {
	case render.FormatJSON, render.FormatYAML:
		out := listOutput{
			Type:    view.Entity(),
			Page:    view.Page(),
			More:    view.HasMore(),
			Results: view.Results(),
		}
		if out.Results == nil {
			out.Results = []catalog.Record{}
		}
		if col != "" {
			out.Sort = string(col)
			out.Order = "asc"
			if desc {
				out.Order = "desc"
			}
		}
		if f == render.FormatJSON {
			return render.WriteJSON(w, out)
		}
		return render.WriteYAML(w, out)
	}

	if view.State() == listing.StateNoResults {
		fmt.Fprintf(w, "No %s found.\n", catalog.Label(view.Entity(), 0))
		return nil
	}
	records := view.Results()
	header(w, "%s · page %d · %d %s", view.Entity(), view.Page(), len(records), catalog.Label(view.Entity(), len(records)))
	if err := render.WriteTable(w, view.Columns(), records, render.Sort{Column: col, Desc: desc}); err != nil {
		return err
	}
	if view.HasMore() {
		fmt.Fprintf(w, "More results: --page %d\n", view.Page()+1)
	}
	return nil
}
