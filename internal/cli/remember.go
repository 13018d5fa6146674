package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunalabs/lunamem/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remember <key> <value>",
		Short: "Store a fact",
		Long:  "Store a key-value fact. Non-pinned facts are subject to the capacity cap; pinned facts are kept forever.",
		Args:  cobra.ExactArgs(2),
		Run:   runRemember,
	}

	cmd.Flags().Bool("pin", false, "Pin the fact (exempt from eviction)")
	cmd.Flags().Float64("score", 1.0, "Ranking hint, non-negative")
	cmd.Flags().String("session", "", "Originating session id")

	RootCmd.AddCommand(cmd)
}

func runRemember(cmd *cobra.Command, args []string) {
	pin, _ := cmd.Flags().GetBool("pin")
	score, _ := cmd.Flags().GetFloat64("score")
	session, _ := cmd.Flags().GetString("session")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if pin {
		mem, err := s.Upsert(cmd.Context(), store.UpsertParams{
			Key:       args[0],
			Value:     args[1],
			Score:     score,
			Pinned:    true,
			SessionID: session,
		})
		if err != nil {
			exitErr("remember", err)
		}
		b, _ := json.Marshal(mem)
		fmt.Println(string(b))
		return
	}

	if err := s.AddNonPinned(cmd.Context(), args[0], args[1], score); err != nil {
		exitErr("remember", err)
	}
	fmt.Printf(`{"ok":true,"key":%q}`+"\n", args[0])
}
