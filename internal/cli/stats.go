package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunalabs/lunamem/internal/knowledge"
	"github.com/lunalabs/lunamem/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type combinedStats struct {
	Store     *store.Stats     `json:"store"`
	Knowledge *knowledge.Stats `json:"knowledge"`
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	kb, err := openKnowledge(cfg)
	if err != nil {
		exitErr("open knowledge base", err)
	}
	defer kb.Close()

	storeStats, err := s.Stats(cmd.Context(), cfg.DBPath)
	if err != nil {
		exitErr("stats", err)
	}
	kbStats, err := kb.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	b, _ := json.MarshalIndent(combinedStats{Store: storeStats, Knowledge: kbStats}, "", "  ")
	fmt.Println(string(b))
}
