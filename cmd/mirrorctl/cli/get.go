package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var getRaw bool

var getCmd = &cobra.Command{
	Use:     "get <collection>",
	Short:   "Print the remote document of a collection",
	Example: `  mirrorctl get voos --user 4f1c
  mirrorctl get processos -b redis --raw`,
	Args: collectionArg,
	RunE: runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getRaw, "raw", false, "print the document as stored, without indentation")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	docs, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	path := documentPath(args[0])
	doc, err := docs.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if doc == nil {
		return fmt.Errorf("no document at %s", path)
	}

	out := doc
	if !getRaw {
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc, "", "  "); err == nil {
			out = buf.Bytes()
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
