package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Retrieve knowledge chunks for a query",
		Long:  "Rebuild the ranking index over all persisted chunks and return the best-matching ones.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAsk,
	}

	cmd.Flags().IntP("k", "k", 0, "Max results (default from config)")
	cmd.Flags().Float64("min-score", -1, "Minimum score (default from config)")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	k, _ := cmd.Flags().GetInt("k")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	if k <= 0 {
		k = cfg.RetrieveK
	}
	if minScore < 0 {
		minScore = cfg.MinScore
	}

	kb, err := openKnowledge(cfg)
	if err != nil {
		exitErr("open knowledge base", err)
	}
	defer kb.Close()

	if err := kb.RebuildIndex(cmd.Context()); err != nil {
		exitErr("rebuild index", err)
	}

	results := kb.Retrieve(query, k, minScore)
	if len(results) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}
