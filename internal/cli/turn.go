package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lunalabs/lunamem/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "turn <session-id> <role> <text>",
		Short: "Append a turn to the ledger",
		Long:  "Append one immutable conversation turn with optional stage latencies.",
		Args:  cobra.MinimumNArgs(3),
		Run:   runTurn,
	}

	cmd.Flags().Int("asr-ms", 0, "Speech recognition latency")
	cmd.Flags().Int("llm-ms", 0, "Language model latency")
	cmd.Flags().Int("tts-ms", 0, "Speech synthesis latency")

	RootCmd.AddCommand(cmd)
}

func runTurn(cmd *cobra.Command, args []string) {
	asrMs, _ := cmd.Flags().GetInt("asr-ms")
	llmMs, _ := cmd.Flags().GetInt("llm-ms")
	ttsMs, _ := cmd.Flags().GetInt("tts-ms")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	t := model.Turn{
		SessionID: args[0],
		Role:      args[1],
		Text:      strings.Join(args[2:], " "),
		ASRMillis: asrMs,
		LLMMillis: llmMs,
		TTSMillis: ttsMs,
	}
	if err := s.AddTurn(cmd.Context(), t); err != nil {
		exitErr("add turn", err)
	}
	fmt.Println(`{"ok":true}`)
}
