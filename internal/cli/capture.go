package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lunalabs/lunamem/internal/capture"
)

func init() {
	cmd := &cobra.Command{
		Use:   "capture <utterance>",
		Short: "Extract and store facts from an utterance",
		Long:  "Run the rule-based extractor on an utterance and store the captured facts as non-pinned memories.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCapture,
	}

	RootCmd.AddCommand(cmd)
}

func runCapture(cmd *cobra.Command, args []string) {
	utterance := strings.Join(args, " ")

	facts := capture.RuleExtractor{}.Extract(utterance)
	if len(facts) == 0 {
		fmt.Println("[]")
		return
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

	if err := capture.Apply(cmd.Context(), s, facts); err != nil {
		exitErr("capture", err)
	}
	log.Debug("captured facts", "count", len(facts))

	b, _ := json.MarshalIndent(facts, "", "  ")
	fmt.Println(string(b))
}
