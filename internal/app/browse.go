package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/listing"
	"github.com/blackwell-systems/bouquinsctl/internal/search"
	"github.com/blackwell-systems/bouquinsctl/internal/tui"
)

func newBrowseCmd() *cobra.Command {
	var (
		typ         string
		link        string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Opens the interactive browser with tabs for books, authors, series
and search. Use --metrics-addr to expose request metrics for Prometheus
while it runs.`,
		Example: `  bouquinsctl browse
  bouquinsctl browse --type authors
  bouquinsctl browse --link '?q=tolkien' --metrics-addr :9101`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.IsTTY() {
				return fmt.Errorf("browse needs a terminal; use list or search instead")
			}
			entity, err := catalog.ParseEntityType(typ)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				stop := serveMetrics(metricsAddr)
				defer stop()
			}

			var query string
			if link != "" {
				u, err := url.Parse(link)
				if err != nil {
					return fmt.Errorf("parsing --link: %w", err)
				}
				query = u.RawQuery
			}
			return runBrowser(entity, query, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&typ, "type", "books", "Entity listed on start: books, authors or series")
	cmd.Flags().StringVar(&link, "link", "", "Search page URL to open in the search tab")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

func runBrowser(entity catalog.EntityType, link, metricsAddr string) error {
	log.WithFields(logrus.Fields{
		"entity":  entity,
		"metrics": metricsAddr,
	}).Info("starting browser")

	return tui.RunBrowser(tui.BrowserOptions{
		Listing: client,
		Search:  client,
		ListingOptions: listing.Options{
			PageSize:     cfg.Listing.PerPage,
			DiscardStale: cfg.Listing.DiscardStale,
			Logger:       log,
		},
		SearchOptions: search.Options{
			PerPage:      cfg.Search.PerPage,
			DiscardStale: cfg.Search.DiscardStale,
			Logger:       log,
		},
		Initial: entity,
		Link:    link,
	})
}

// serveMetrics exposes the client registry on addr until stop is called.
func serveMetrics(addr string) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{ErrorLog: log}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	log.WithField("addr", addr).Info("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
