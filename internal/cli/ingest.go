package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Ingest a document into the knowledge base",
		Long:  "Split a text document into bounded chunks and persist it. Reads from the file argument or stdin. Run 'ask' to query; the index is rebuilt there.",
		Run:   runIngest,
	}

	cmd.Flags().StringP("source", "s", "", "Source label (required)")
	cmd.MarkFlagRequired("source")

	RootCmd.AddCommand(cmd)
}

func runIngest(cmd *cobra.Command, args []string) {
	source, _ := cmd.Flags().GetString("source")

	var text string
	if len(args) > 0 {
		b, err := os.ReadFile(args[0])
		if err != nil {
			exitErr("read file", err)
		}
		text = string(b)
	} else {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		text = string(b)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	kb, err := openKnowledge(cfg)
	if err != nil {
		exitErr("open knowledge base", err)
	}
	defer kb.Close()

	id, err := kb.IngestText(cmd.Context(), source, text)
	if err != nil {
		exitErr("ingest", err)
	}

	log.Info("ingested document", "source", source, "id", id)
	fmt.Printf(`{"ok":true,"document_id":%q}`+"\n", id)
}
