package cli

import (
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"own-game-service/internal/config"
	redisstore "own-game-service/internal/infra/redis"
)

// NewSnapshotCmd prints the player view a running server mirrored to Redis.
func NewSnapshotCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <boardId>",
		Short: "Print the latest player view of a running game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Redis.Addr == "" {
				return errors.New("redis.addr is not configured")
			}
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()

			store := redisstore.NewGameStore(client, 0)
			snap, err := store.LatestSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
}
