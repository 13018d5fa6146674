// Package cli implements the lunamem CLI commands.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lunalabs/lunamem/internal/config"
	"github.com/lunalabs/lunamem/internal/knowledge"
	"github.com/lunalabs/lunamem/internal/store"
)

var (
	dbPath  string
	verbose bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "lunamem",
	Short: "Durable memory core for a voice assistant",
	Long:  "Key-value facts with pinned/non-pinned lifecycle, a conversation ledger, and offline keyword retrieval. SQLite-backed, single binary.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (overrides config)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath, store.Options{
		CacheTTL:     time.Duration(cfg.PinnedCacheTTLSeconds) * time.Second,
		NonPinnedCap: cfg.NonPinnedCap,
	})
}

func openKnowledge(cfg *config.Config) (*knowledge.KnowledgeBase, error) {
	return knowledge.NewKnowledgeBase(cfg.DBPath, cfg.ChunkChars)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
