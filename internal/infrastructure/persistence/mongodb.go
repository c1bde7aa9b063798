package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoChangeStreams means the deployment is a standalone server. Documents
// can be read and written but remote changes are never delivered.
var ErrNoChangeStreams = errors.New("mongodb deployment does not support change streams")

const mongoConnectTimeout = 10 * time.Second

// NewMongoClient connects to the mirror database and pings the primary
func NewMongoClient(ctx context.Context, uri, username, password string) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetAppName("groundops-service")

	if username != "" && password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: username,
			Password: password,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	return client, nil
}

// helloReply is the part of the hello command reply that tells the topology
type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// CheckChangeStreams returns ErrNoChangeStreams unless the server is a
// replica set member or a mongos router.
func CheckChangeStreams(ctx context.Context, db *mongo.Database) error {
	var reply helloReply
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&reply); err != nil {
		return fmt.Errorf("hello: %w", err)
	}
	if reply.SetName != "" || reply.Msg == "isdbgrid" {
		return nil
	}
	return ErrNoChangeStreams
}

// GetDatabase gets a database from the client
func GetDatabase(client *mongo.Client, name string) *mongo.Database {
	return client.Database(name)
}
