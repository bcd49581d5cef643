package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"interest-quiz-service/internal/app"
	"interest-quiz-service/internal/config"
	"interest-quiz-service/internal/domain"
	"interest-quiz-service/internal/infra/file"
)

// NewScoreCmd scores a saved progress file offline.
func NewScoreCmd(configPath *string) *cobra.Command {
	var questionsPath, outPath string
	cmd := &cobra.Command{
		Use:   "score <snapshot-file>",
		Short: "Score a saved progress file against a question file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, pageSize, err := resolveBank(*configPath, questionsPath)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			snap, err := app.DecodeSnapshot(raw)
			if err != nil {
				return err
			}
			progress, err := app.Restore(snap, bank, pageSize)
			if err != nil {
				return err
			}
			report := progress.Score()
			if err := printReport(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if outPath == "" {
				return nil
			}
			data, err := json.MarshalIndent(app.Export(report), "", "  ")
			if err != nil {
				return err
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}
	cmd.Flags().StringVar(&questionsPath, "questions", "", "question file (defaults to quiz.questions_path)")
	cmd.Flags().StringVar(&outPath, "out", "", "write the result document to this path")
	return cmd
}

// NewBankCmd groups question bank maintenance commands.
func NewBankCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Inspect question banks",
	}

	var questionsPath string
	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Validate a question file and print how options spread across domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, pageSize, err := resolveBank(*configPath, questionsPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "questions: %d\npages: %d (%d per page)\n", bank.Len(), app.TotalPages(bank.Len(), pageSize), pageSize)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DOMAIN\tLABEL\tOPTIONS")
			slots := bank.FieldSlots()
			for _, f := range domain.AllFields {
				fmt.Fprintf(w, "%s\t%s\t%d\n", f, f.Label(), slots[f])
			}
			return w.Flush()
		},
	}
	inspect.Flags().StringVar(&questionsPath, "questions", "", "question file (defaults to quiz.questions_path)")
	cmd.AddCommand(inspect)
	return cmd
}

// resolveBank reads the question file named by the flag, falling back to the config.
func resolveBank(configPath, questionsPath string) (domain.Bank, int, error) {
	pageSize := config.DefaultPageSize
	if questionsPath == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return domain.Bank{}, 0, err
		}
		if cfg.Quiz.QuestionsPath == "" {
			return domain.Bank{}, 0, fmt.Errorf("no question file: pass --questions or set quiz.questions_path")
		}
		questionsPath = cfg.Quiz.QuestionsPath
		pageSize = cfg.Quiz.PageSize
	}
	bank, err := file.ReadBank(questionsPath)
	if err != nil {
		return domain.Bank{}, 0, err
	}
	return bank, pageSize, nil
}

func printReport(out io.Writer, report domain.ScoreReport) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tSCORE\tANSWERED\tPERCENT")
	for _, row := range report.Domains {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\n", row.Label, row.AbsoluteScore, row.AnsweredCount, row.Percentage)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	labels := make([]string, 0, len(report.Strongest))
	for _, f := range report.Strongest {
		labels = append(labels, f.Label())
	}
	fmt.Fprintf(out, "strongest: %v\n", labels)
	for _, s := range report.Suggestions {
		fmt.Fprintf(out, "suggestion: %s\n", s)
	}
	if report.Unresolved > 0 {
		fmt.Fprintf(out, "unresolved answers: %d\n", report.Unresolved)
	}
	return nil
}
