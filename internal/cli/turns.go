package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunalabs/lunamem/internal/prompt"
)

func init() {
	cmd := &cobra.Command{
		Use:   "turns <session-id>",
		Short: "List a session's turns",
		Long:  "List a session's turns in insertion order.",
		Args:  cobra.ExactArgs(1),
		Run:   runTurns,
	}

	cmd.Flags().Bool("transcript", false, "Print as a plain transcript instead of JSON")

	RootCmd.AddCommand(cmd)
}

func runTurns(cmd *cobra.Command, args []string) {
	transcript, _ := cmd.Flags().GetBool("transcript")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	turns, err := s.GetSessionTurns(cmd.Context(), args[0])
	if err != nil {
		exitErr("turns", err)
	}

	if transcript {
		fmt.Println(prompt.Transcript(turns))
		return
	}

	if len(turns) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(turns, "", "  ")
	fmt.Println(string(b))
}
