package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch <collection>",
	Short:   "Stream every update of a collection document",
	Example: `  mirrorctl watch processos --user 4f1c`,
	Args:    collectionArg,
	RunE:    runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	collection := args[0]
	path := documentPath(collection)
	out := cmd.OutOrStdout()

	unwatch, err := docs.Watch(ctx, path, func(doc []byte) {
		n, err := validateDocument(collection, doc)
		if err != nil {
			fmt.Fprintf(out, "%s  %s  unreadable: %v\n", time.Now().Format(time.RFC3339), path, err)
			return
		}
		fmt.Fprintf(out, "%s  %s  %d entries\n%s\n", time.Now().Format(time.RFC3339), path, n, doc)
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer unwatch()

	log.Info("Watching", "path", path)
	<-ctx.Done()
	return nil
}
