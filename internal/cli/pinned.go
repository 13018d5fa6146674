package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunalabs/lunamem/internal/prompt"
)

func init() {
	cmd := &cobra.Command{
		Use:   "pinned",
		Short: "List pinned facts",
		Long:  "List all pinned facts in creation order. Read-only; this is the surface behind the 'what do you remember' voice command.",
		Run:   runPinned,
	}

	cmd.Flags().IntP("limit", "l", 0, "Max results (default from config)")
	cmd.Flags().Bool("context", false, "Print as prompt context instead of JSON")

	RootCmd.AddCommand(cmd)
}

func runPinned(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	asContext, _ := cmd.Flags().GetBool("context")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	if limit <= 0 {
		limit = cfg.PinnedLimit
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	memories, err := s.GetPinned(cmd.Context(), limit)
	if err != nil {
		exitErr("pinned", err)
	}

	if asContext {
		fmt.Println(prompt.PinnedContext(memories))
		return
	}

	if len(memories) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(memories, "", "  ")
	fmt.Println(string(b))
}
