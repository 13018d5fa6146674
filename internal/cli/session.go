package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start a conversation session",
		Long:  "Record a new session and print its id for subsequent turn logging.",
		Run:   runSession,
	}

	cmd.Flags().String("meta", "", "JSON metadata")

	RootCmd.AddCommand(cmd)
}

func runSession(cmd *cobra.Command, args []string) {
	meta, _ := cmd.Flags().GetString("meta")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	id, err := s.StartSession(cmd.Context(), meta)
	if err != nil {
		exitErr("start session", err)
	}
	fmt.Printf(`{"ok":true,"session_id":%q}`+"\n", id)
}
