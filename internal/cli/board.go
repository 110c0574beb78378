package cli

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"own-game-service/internal/config"
	"own-game-service/internal/domain"
	"own-game-service/internal/infra/file"
	pgloader "own-game-service/internal/infra/postgres"
)

// NewBoardCmd groups board file utilities.
func NewBoardCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Inspect and import question boards",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check a YAML board file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boards, err := readBoards(args[0])
			if err != nil {
				return err
			}
			for _, b := range boards {
				cmd.Println(describeBoard(b))
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Store every board of a YAML file in Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boards, err := readBoards(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			loader := pgloader.NewBoardLoader(pool)
			for _, b := range boards {
				if err := loader.SaveBoard(cmd.Context(), b); err != nil {
					return err
				}
				cmd.Printf("imported %s\n", describeBoard(b))
			}
			return nil
		},
	})
	return cmd
}

func readBoards(path string) ([]domain.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return file.ParseBoards(data)
}

func describeBoard(b domain.Board) string {
	questions := 0
	for _, r := range b.Rounds {
		for _, t := range r.Topics {
			questions += len(t.Questions)
		}
	}
	return fmt.Sprintf("%s: %d rounds, %d questions, final round %q", b.ID, len(b.Rounds), questions, b.Rounds[len(b.Rounds)-1].Name)
}
