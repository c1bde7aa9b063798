package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	setFile  string
	setForce bool
)

var setCmd = &cobra.Command{
	Use:   "set <collection>",
	Short: "Overwrite the remote document of a collection",
	Long: `Set replaces the whole collection document. Subscribed service
instances receive the new document and replace their local collection.`,
	Example: `  mirrorctl set ll --file ll.json
  cat voos.json | mirrorctl set voos --user 4f1c`,
	Args: collectionArg,
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVarP(&setFile, "file", "f", "-", "JSON array to write; - reads stdin")
	setCmd.Flags().BoolVar(&setForce, "force", false, "write even when entries would be dropped on decode")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	var (
		doc []byte
		err error
	)
	if setFile == "-" {
		doc, err = io.ReadAll(cmd.InOrStdin())
	} else {
		doc, err = os.ReadFile(setFile)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	collection := args[0]
	valid, err := validateDocument(collection, doc)
	if err != nil {
		return err
	}
	total, err := countEntries(doc)
	if err != nil {
		return err
	}
	if valid < total && !setForce {
		return fmt.Errorf("%d of %d entries would be dropped, use --force to write anyway", total-valid, total)
	}

	ctx := cmd.Context()
	docs, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	path := documentPath(collection)
	if err := docs.Set(ctx, path, doc); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s\n", total, path)
	return nil
}
