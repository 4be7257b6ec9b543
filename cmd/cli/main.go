package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/niche-finder/internal/config"
	"github.com/niche-finder/internal/httpapi"
	"github.com/niche-finder/internal/metrics"
	"github.com/niche-finder/internal/mockdata"
	"github.com/niche-finder/internal/models"
	"github.com/niche-finder/internal/session"
	"github.com/niche-finder/internal/storage"
	"github.com/niche-finder/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "niche-finder",
		Short: "Find content niches that aren't crowded",
		Long: `Discovers underserved content niches for Nigerian creators on
TikTok, YouTube and Instagram using a hosted language model.`,
		PersistentPreRunE: initializeApp,
		SilenceUsage:      true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(discoverCmd())
	rootCmd.AddCommand(trendingCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	return nil
}

// ============ SERVE ============

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			repo, err := openRepository()
			if err != nil {
				return err
			}
			if repo != nil {
				defer repo.Close()
			}

			if cfg.Groq.APIKey == "" {
				log.Warn().Msg("GROQ_API_KEY is not set; discovery endpoints will answer 500 until it is")
			}

			reg := metrics.NewRegistry()
			agent := buildAgent(repo, reg)
			server := httpapi.NewServer(cfg, agent, repo, reg, log)

			return server.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Override server.port")
	return cmd
}

// ============ DISCOVER ============

func discoverCmd() *cobra.Command {
	var platform string
	var serverURL string

	cmd := &cobra.Command{
		Use:   "discover <query>",
		Short: "Find niches for a content idea",
		Long: `Runs a niche search. With --server the search goes through a running
API and falls back to sample data when it fails; otherwise the model is
called directly from this process.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			backend, cleanup, err := newBackend(serverURL)
			if err != nil {
				return err
			}
			defer cleanup()

			s := session.New(backend, mockdata.NewSampler(nil), log)
			if platform != "" {
				p := models.Platform(strings.ToLower(platform))
				if !p.Valid() {
					return fmt.Errorf("unknown platform %q (tiktok, youtube, instagram, all)", platform)
				}
				s.SetPlatform(p)
			}

			if !s.Search(ctx, query) {
				return errors.New("query is required")
			}

			v := s.Snapshot()
			if v.Advisory != "" {
				fmt.Printf("\n! %s\n", v.Advisory)
			}
			fmt.Printf("\n=== Results for %q (%s) ===\n", v.Query, v.Platform)
			fmt.Printf("%d niche ideas found, %d open lanes\n\n", len(v.Results), v.OpenLanes())
			printNiches(v.Results)

			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "all", "Platform to focus on (tiktok, youtube, instagram, all)")
	cmd.Flags().StringVar(&serverURL, "server", "", "Use a running API at this URL instead of calling the model directly")
	return cmd
}

// ============ TRENDING ============

func trendingCmd() *cobra.Command {
	var serverURL string
	var all bool

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show trending niches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			backend, cleanup, err := newBackend(serverURL)
			if err != nil {
				return err
			}
			defer cleanup()

			var niches []models.Niche
			if all {
				niches, err = backend.Trending(ctx)
				if err != nil {
					return err
				}
			} else {
				s := session.New(backend, nil, log)
				s.LoadTrending(ctx)
				niches = s.TrendingStrip()
			}

			fmt.Printf("\n=== Trending for You (%d) ===\n\n", len(niches))
			if len(niches) == 0 {
				fmt.Println("No trending niches right now.")
				return nil
			}
			printNiches(niches)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Use a running API at this URL instead of calling the model directly")
	cmd.Flags().BoolVar(&all, "all", false, "Show every trending niche instead of the top three")
	return cmd
}

// ============ HISTORY ============

func historyCmd() *cobra.Command {
	var limit int
	var kind string
	var serverURL string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var records []*models.SearchRecord
			var total int64

			if serverURL != "" {
				client := session.NewAPIClient(serverURL, cfg.Client.Timeout, log)
				var err error
				records, total, err = client.History(ctx, limit)
				if err != nil {
					return err
				}
			} else {
				repo, err := openRepository()
				if err != nil {
					return err
				}
				if repo == nil {
					return errors.New("search history is disabled (database.enabled=false)")
				}
				defer repo.Close()

				filter := storage.DefaultSearchFilter()
				filter.Limit = storage.ClampLimit(limit)
				if kind != "" {
					k := models.SearchKind(kind)
					filter.Kind = &k
				}

				records, err = repo.ListSearches(ctx, filter)
				if err != nil {
					return err
				}
				total, err = repo.CountSearches(ctx, storage.SearchFilter{Kind: filter.Kind})
				if err != nil {
					return err
				}
			}

			fmt.Printf("\n=== Searches (%d of %d) ===\n\n", len(records), total)
			for _, r := range records {
				label := r.Query
				if r.Kind == models.SearchKindTrending {
					label = "(trending)"
				}
				fmt.Printf("[%d] %s | %s | %s\n", r.ID, r.CreatedAt.Format(time.RFC3339), r.Kind, truncateStr(label, 50))
				if r.Failed() {
					fmt.Printf("    Status: failed (%s) | %s\n", r.ErrorKind, formatDuration(time.Duration(r.DurationMs)*time.Millisecond))
				} else {
					fmt.Printf("    Status: ok | %d niches | %s\n", r.NicheCount, formatDuration(time.Duration(r.DurationMs)*time.Millisecond))
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", storage.DefaultHistoryLimit, "Maximum searches to show")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (discover, trending); local only")
	cmd.Flags().StringVar(&serverURL, "server", "", "Read history from a running API")
	return cmd
}

func printNiches(niches []models.Niche) {
	for i, n := range niches {
		fmt.Printf("%d. %s %s [%s]\n", i+1, saturationMarker(n.Saturation), n.Name, n.SaturationLabel)
		if n.Why != "" {
			fmt.Printf("   %s\n", n.Why)
		}
		for _, twist := range n.Twists {
			fmt.Printf("   - %s\n", twist)
		}
		fmt.Println()
	}
}

func saturationMarker(s models.Saturation) string {
	switch s {
	case models.SaturationOpen:
		return "(open)"
	case models.SaturationBusy:
		return "(busy)"
	case models.SaturationCrowded:
		return "(crowded)"
	default:
		return "(?)"
	}
}

// Helper function to truncate strings
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// Helper function to format duration nicely
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1f s", d.Seconds())
	}
	return fmt.Sprintf("%.1f minutes", d.Minutes())
}
