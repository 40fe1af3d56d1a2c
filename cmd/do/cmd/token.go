package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goaltracker/api/internal/config"
	"github.com/goaltracker/api/internal/db"
	"github.com/goaltracker/api/internal/repository"
	"github.com/goaltracker/api/internal/service"

	"github.com/spf13/cobra"
)

func TokenCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd.Context(), username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username to sign the token for")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func runToken(ctx context.Context, username string) error {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer database.Close(context.Background())

	users := repository.NewUserRepository(database)
	user, err := users.ByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("no user named %q", username)
	}
	if err != nil {
		return err
	}

	auth := service.NewAuthService(users, cfg.JWTSecret, cfg.JWTExpiry)
	token, err := auth.GenerateJWT(user)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
