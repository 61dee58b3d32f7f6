package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxnRunner executes a function inside a multi-document transaction.
// Every store operation called with the context passed to fn joins the
// same transaction; when fn returns an error the transaction is aborted
// and none of its writes survive.
type TxnRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTxnRunner runs fn inside a mongo session transaction. The session
// is always ended, success or failure, so no server-side transaction
// resources leak.
type MongoTxnRunner struct {
	client *mongo.Client
}

func NewMongoTxnRunner(client *mongo.Client) *MongoTxnRunner {
	return &MongoTxnRunner{client: client}
}

func (r *MongoTxnRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
