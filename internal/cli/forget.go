package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "forget <key>",
		Short: "Remove a fact",
		Long:  "Remove both the pinned and non-pinned fact for a key, or only the pinned one with --unpin.",
		Args:  cobra.ExactArgs(1),
		Run:   runForget,
	}

	cmd.Flags().Bool("unpin", false, "Only remove the pinned fact")

	RootCmd.AddCommand(cmd)
}

func runForget(cmd *cobra.Command, args []string) {
	unpin, _ := cmd.Flags().GetBool("unpin")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if unpin {
		err = s.Unpin(cmd.Context(), args[0])
	} else {
		err = s.Forget(cmd.Context(), args[0])
	}
	if err != nil {
		exitErr("forget", err)
	}
	fmt.Printf(`{"ok":true,"key":%q}`+"\n", args[0])
}
