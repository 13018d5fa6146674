package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lunalabs/lunamem/internal/seed"
)

func init() {
	cmd := &cobra.Command{
		Use:   "seed <file.csv>",
		Short: "Bulk-load pinned facts from CSV",
		Long:  "Load (key, value) rows from a CSV file and store each as a pinned fact with a fixed trust score.",
		Args:  cobra.ExactArgs(1),
		Run:   runSeed,
	}

	RootCmd.AddCommand(cmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	f, err := os.Open(args[0])
	if err != nil {
		exitErr("open csv", err)
	}
	defer f.Close()

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	loaded, err := seed.Load(cmd.Context(), s, f)
	if err != nil {
		exitErr("seed", err)
	}

	log.Info("seeded pinned facts", "file", args[0], "count", loaded)
	fmt.Printf(`{"ok":true,"loaded":%d}`+"\n", loaded)
}
