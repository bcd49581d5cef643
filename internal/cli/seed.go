package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"interest-quiz-service/internal/config"
	"interest-quiz-service/internal/infra/file"
	pgstore "interest-quiz-service/internal/infra/postgres"
)

// NewSeedCmd stores a question file in Postgres under the configured bank ID.
func NewSeedCmd(configPath *string) *cobra.Command {
	var bankID string
	cmd := &cobra.Command{
		Use:   "seed <questions-file>",
		Short: "Load a question file into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			bank, err := file.ReadBank(args[0])
			if err != nil {
				return err
			}
			bank.ID = bankID
			if bank.ID == "" {
				bank.ID = cfg.Quiz.BankID
			}

			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			db, err := openBunDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := pgstore.NewBankWriter(db).SaveBank(cmd.Context(), bank); err != nil {
				return err
			}
			log.Printf("seeded bank %q with %d questions", bank.ID, bank.Len())
			fmt.Fprintln(cmd.OutOrStdout(), bank.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&bankID, "bank", "", "bank ID to store under (defaults to quiz.bank_id)")
	return cmd
}
