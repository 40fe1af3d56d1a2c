package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/goaltracker/api/internal/config"
	"github.com/goaltracker/api/internal/db"

	"github.com/spf13/cobra"
)

func IndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes the API relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexes(cmd.Context())
		},
	}
}

func runIndexes(ctx context.Context) error {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer database.Close(context.Background())

	err = database.EnsureIndexes(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Indexes ready in %q\n", cfg.MongoDatabase)
	return nil
}
