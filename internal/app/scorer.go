package app

import "interest-quiz-service/internal/domain"

// Score tallies answers per domain. Each answer resolves to the first option of its
// question with the same text and adds one point to that option's domain; answers that
// resolve to nothing (possible after loading a hand-edited file) are counted as
// unresolved and contribute to no domain.
//
// AnsweredCount is incremented together with AbsoluteScore, so every domain with at
// least one answer reports 100%. This mirrors the reference scoring rule.
func Score(answers map[int]string, bank domain.Bank) domain.ScoreReport {
	var report domain.ScoreReport
	for _, f := range domain.AllFields {
		report.Domains[f] = domain.DomainScore{Field: f, Label: f.Label()}
	}

	for id, text := range answers {
		q, ok := bank.Question(id)
		if !ok {
			report.Unresolved++
			continue
		}
		opt, ok := q.FindOption(text)
		if !ok || !opt.Field.Valid() {
			report.Unresolved++
			continue
		}
		row := &report.Domains[opt.Field]
		row.AbsoluteScore++
		row.AnsweredCount++
	}

	best := 0.0
	for i := range report.Domains {
		row := &report.Domains[i]
		if row.AnsweredCount > 0 {
			row.Percentage = float64(row.AbsoluteScore) / float64(row.AnsweredCount) * 100
		}
		if row.Percentage > best {
			best = row.Percentage
		}
	}
	for _, row := range report.Domains {
		if row.Percentage == best {
			report.Strongest = append(report.Strongest, row.Field)
		}
	}
	report.Suggestions = suggestionsFor(report.Strongest)
	return report
}

// Score evaluates the current answers against the session's bank.
func (p *Progress) Score() domain.ScoreReport {
	return Score(p.answers, p.bank)
}

func suggestionsFor(strongest []domain.Field) []string {
	if len(strongest) == 1 {
		return []string{strongest[0].Suggestion()}
	}
	return append([]string(nil), domain.BlendedSuggestions...)
}

// Export converts a report into the downloadable result document.
func Export(report domain.ScoreReport) domain.ResultExport {
	out := domain.ResultExport{
		Scores:      make(map[string]int, domain.FieldCount),
		Percentages: make(map[string]float64, domain.FieldCount),
		Strongest:   make([]string, 0, len(report.Strongest)),
	}
	for _, row := range report.Domains {
		out.Scores[row.Label] = row.AbsoluteScore
		out.Percentages[row.Label] = row.Percentage
	}
	for _, f := range report.Strongest {
		out.Strongest = append(out.Strongest, f.Label())
	}
	return out
}
