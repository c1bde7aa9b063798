package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"groundops-service/internal/domain/repository"
	"groundops-service/internal/infrastructure/config"
	"groundops-service/internal/infrastructure/identity"
	"groundops-service/internal/infrastructure/mirror"
	"groundops-service/internal/infrastructure/persistence"
	repo "groundops-service/internal/interface/repository"
	"groundops-service/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	backend string
	userID  string
	verbose bool

	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mirrorctl",
	Short: "Inspect the remote collections of the groundops service",
	Long: `mirrorctl reads, writes and watches the per-user collection documents
(users/{uid}/{collection}) kept in the configured mirror backend. It reads
the same environment as the service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if backend != "" {
			cfg.MirrorBackend = backend
		}
		if userID != "" {
			cfg.DefaultUserID = userID
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		log = logger.NewLogger(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "", "mirror backend (mongo, redis); defaults to MIRROR_BACKEND")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "user id owning the documents; empty means the public scope")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

var collections = []string{
	mirror.CollectionFlights,
	mirror.CollectionProcesses,
	mirror.CollectionPayments,
	mirror.CollectionLostItems,
}

func collectionArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	for _, c := range collections {
		if args[0] == c {
			return nil
		}
	}
	return fmt.Errorf("unknown collection %q, expected one of %v", args[0], collections)
}

func documentPath(collection string) string {
	return mirror.UserPath(identity.NewSession(cfg.DefaultUserID), collection)
}

// openStore connects to the configured backend. The returned func releases the client.
func openStore(ctx context.Context) (repository.DocumentStore, func(), error) {
	switch cfg.MirrorBackend {
	case config.MirrorBackendMongo:
		client, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			return nil, nil, err
		}
		db := persistence.GetDatabase(client, cfg.MongoDB)
		return repo.NewMongoDocumentStore(db, cfg.MongoCollection, log), func() {
			_ = client.Disconnect(context.Background())
		}, nil
	case config.MirrorBackendRedis:
		client, err := persistence.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRedisDocumentStore(client, cfg.RedisKeyPrefix, log), func() {
			_ = client.Close()
		}, nil
	default:
		return nil, nil, fmt.Errorf("backend %q cannot be reached from outside the service", cfg.MirrorBackend)
	}
}

// validateDocument decodes doc with the codec of collection and returns how
// many entries survive.
func validateDocument(collection string, doc []byte) (int, error) {
	switch collection {
	case mirror.CollectionFlights:
		recs, err := mirror.FlightCodec().Decode(doc)
		return len(recs), err
	case mirror.CollectionProcesses:
		recs, err := mirror.ProcessCodec().Decode(doc)
		return len(recs), err
	case mirror.CollectionPayments:
		recs, err := mirror.PaymentCodec().Decode(doc)
		return len(recs), err
	case mirror.CollectionLostItems:
		recs, err := mirror.LostItemCodec().Decode(doc)
		return len(recs), err
	}
	return 0, fmt.Errorf("unknown collection %q", collection)
}

func countEntries(doc []byte) (int, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(doc, &entries); err != nil {
		return 0, fmt.Errorf("document must be a JSON array: %w", err)
	}
	return len(entries), nil
}
