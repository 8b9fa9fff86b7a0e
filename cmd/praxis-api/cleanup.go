package main

import (
	"context"
	"fmt"

	"praxis-api/internal/config"
	"praxis-api/internal/database"
	"praxis-api/internal/observability/logger"
	"praxis-api/internal/repo"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Cleanup expired access grants",
	Long:  `Remove grants whose expiry timestamp has passed from the database`,
	RunE:  runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.OTELServiceName, "info")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info(ctx, "starting expired grant cleanup")

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	grantRepo := repo.NewGrantRepository(pool)

	rowsDeleted, err := grantRepo.DeleteExpiredGrants(ctx)
	if err != nil {
		log.Error(ctx, "cleanup failed", zap.Error(err))
		return fmt.Errorf("failed to cleanup expired grants: %w", err)
	}

	log.Info(ctx, "cleanup completed", zap.Int64("rows_deleted", rowsDeleted))
	fmt.Printf("✓ Cleanup completed: %d expired grants removed\n", rowsDeleted)

	return nil
}
