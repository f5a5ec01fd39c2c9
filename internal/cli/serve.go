package cli

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quizforge/quizforge/internal/api"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/store"
)

func init() {
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to config file")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to listen on (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var (
	serveConfig string
	serveHost   string
	servePort   int
	serveDB     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quiz engine API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return err
	}

	// Override config from flags
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if serveDB != "" {
		cfg.Database.Path = serveDB
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o700); err != nil {
		return err
	}

	db, err := store.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	server := api.NewServer(db)
	log.Printf("server_starting addr=%s db=%s version=%s", cfg.Addr(), cfg.Database.Path, api.EngineVersion)
	return http.ListenAndServe(cfg.Addr(), server.Routes())
}
