package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/coursehub-api/internal/repository"
	"github.com/noah-isme/coursehub-api/pkg/cache"
)

type patternDeleter interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the Redis course cache",
	}

	var pattern string
	flush := &cobra.Command{
		Use:   "flush",
		Short: "Delete cached course entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.LoadConfig()
			if err != nil {
				return err
			}
			client, err := cache.NewRedis(cmd.Context(), cfg.Redis)
			if err != nil {
				return err
			}
			defer client.Close()
			return runCacheFlush(cmd, repository.NewCacheRepository(client), pattern)
		},
	}
	flush.Flags().StringVar(&pattern, "pattern", "courses:*", "key pattern to delete")

	cmd.AddCommand(flush)
	return cmd
}

func runCacheFlush(cmd *cobra.Command, store patternDeleter, pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern must not be empty")
	}
	if err := store.DeleteByPattern(cmd.Context(), pattern); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "flushed %s\n", pattern)
	return nil
}
