package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored data",
		Long:  "Irreversibly clear memories, turns, sessions, documents, and chunks, then compact the database.",
		Run:   runReset,
	}

	cmd.Flags().Bool("yes", false, "Confirm the reset")

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		exitErr("reset", fmt.Errorf("refusing to delete everything without --yes"))
	}

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

	if err := s.DeleteAll(cmd.Context()); err != nil {
		exitErr("reset memories", err)
	}
	if err := kb.Reset(cmd.Context()); err != nil {
		exitErr("reset knowledge", err)
	}
	if err := s.Vacuum(cmd.Context()); err != nil {
		exitErr("compact", err)
	}

	log.Info("reset complete", "db", cfg.DBPath)
	fmt.Println(`{"ok":true}`)
}
