package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/talentflow/talentflow/internal/api"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/db"
	"github.com/talentflow/talentflow/internal/middleware"
	"github.com/talentflow/talentflow/internal/seed"
)

var version = "dev"

var cfgPath string

func main() {
	// Optional .env for local development; ignore a missing file.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "talentflow",
		Short: "Embedded hiring-pipeline backend with simulated latency and failures",
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("TALENTFLOW_CONFIG"), "path to YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (api.Store, func() error, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		st, err := db.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return api.NewMemoryStore(), func() error { return nil }, nil
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Seed on first boot and serve the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			seeded, err := seed.NewGenerator(store, cfg.Seed.Candidates).Run()
			if err != nil {
				return err
			}
			if seeded {
				log.Printf("seeded %s store with initial dataset", cfg.Store.Driver)
			}

			var policy middleware.Policy = middleware.NopPolicy{}
			if cfg.Simulate.Enabled {
				policy = middleware.NewRandomPolicy(
					cfg.Simulate.MinLatency.Std(),
					cfg.Simulate.MaxLatency.Std(),
					cfg.Simulate.ReadErrorRate,
					cfg.Simulate.WriteErrorRate,
					cfg.Simulate.Seed,
				)
			}

			apiMux := http.NewServeMux()
			api.NewRouter(store).Register(apiMux)

			mux := http.NewServeMux()
			// Only the logical request surface runs behind the fault
			// injector; health stays reliable.
			mux.Handle("/api/", middleware.Faults(policy)(apiMux))
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"ok":      true,
					"name":    "TalentFlow API",
					"version": version,
				})
			})

			handler := middleware.CORS(middleware.RequestID(middleware.AccessLog(mux)))
			log.Printf("talentflow server listening on %s (store=%s simulate=%v)",
				cfg.Server.Addr, cfg.Store.Driver, cfg.Simulate.Enabled)
			return http.ListenAndServe(cfg.Server.Addr, handler)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the configured store if it is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			seeded, err := seed.NewGenerator(store, cfg.Seed.Candidates).Run()
			if err != nil {
				return err
			}
			counts, err := store.Counts()
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Println("store already populated, nothing to do")
			}
			fmt.Printf("jobs=%d candidates=%d timeline=%d assessments=%d submissions=%d\n",
				counts.Jobs, counts.Candidates, counts.Timeline, counts.Assessments, counts.Submissions)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
