package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/facecheck/attendance-api/internal/core/service"
	"github.com/facecheck/attendance-api/internal/infrastructure/config"
	mongodb "github.com/facecheck/attendance-api/internal/infrastructure/db/mongo"
	"github.com/facecheck/attendance-api/pkg/logger"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Create an admin account for the back office. The password may be passed
with --password or through the ADMIN_PASSWORD environment variable.`,
	RunE: runAdminCreate,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	adminCreateCmd.Flags().String("email", "", "Admin email (required)")
	adminCreateCmd.Flags().String("password", "", "Admin password, at least 8 characters")
	_ = adminCreateCmd.MarkFlagRequired("email")
}

func runAdminCreate(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if password == "" {
		return errors.New("a password is required: use --password or ADMIN_PASSWORD")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	initLogger(cfg)

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	auth := service.NewAuthService(mongodb.NewAdminRepository(db), cfg.JWTSecret, tokenTTL, logger.Component("auth"))
	admin, err := auth.CreateAdmin(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %s)\n", admin.Email, admin.ID)
	return nil
}
