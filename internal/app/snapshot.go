package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"interest-quiz-service/internal/domain"
)

// Serialize projects progress into its save-file form. The completed flag is not part of it.
func Serialize(p *Progress) domain.Snapshot {
	snap := domain.Snapshot{
		Answers: make(map[string]string, len(p.answers)),
		Skipped: p.skippedIDs(),
		Page:    p.page,
	}
	for id, text := range p.answers {
		snap.Answers[strconv.Itoa(id)] = text
	}
	return snap
}

// Restore rebuilds progress from a snapshot. Answer texts are not checked against
// the bank; an answer that matches no option is ignored by the scorer.
func Restore(snap domain.Snapshot, bank domain.Bank, pageSize int) (*Progress, error) {
	p := NewProgress(bank, pageSize)
	for key, text := range snap.Answers {
		id, err := strconv.Atoi(key)
		if err != nil || strconv.Itoa(id) != key {
			return nil, fmt.Errorf("%w: answer key %q is not a question id", domain.ErrMalformedSnapshot, key)
		}
		if _, ok := bank.Question(id); !ok {
			return nil, fmt.Errorf("%w: answer key %d out of range", domain.ErrMalformedSnapshot, id)
		}
		p.answers[id] = text
	}
	for _, id := range snap.Skipped {
		if _, ok := bank.Question(id); !ok {
			return nil, fmt.Errorf("%w: skipped id %d out of range", domain.ErrMalformedSnapshot, id)
		}
		if _, answered := p.answers[id]; answered {
			return nil, fmt.Errorf("%w: question %d is both answered and skipped", domain.ErrMalformedSnapshot, id)
		}
		p.skipped[id] = struct{}{}
	}
	if snap.Page < 0 || snap.Page >= p.TotalPages() {
		return nil, fmt.Errorf("%w: page %d out of range [0,%d)", domain.ErrMalformedSnapshot, snap.Page, p.TotalPages())
	}
	p.page = snap.Page
	return p, nil
}

// EncodeSnapshot renders a snapshot as the JSON save file.
func EncodeSnapshot(snap domain.Snapshot) ([]byte, error) {
	if snap.Answers == nil {
		snap.Answers = map[string]string{}
	}
	if snap.Skipped == nil {
		snap.Skipped = []int{}
	}
	return json.Marshal(snap)
}

// DecodeSnapshot parses a JSON save file. Missing keys fall back to an empty
// progress on page 0; values of the wrong JSON type are rejected.
func DecodeSnapshot(raw []byte) (domain.Snapshot, error) {
	var snap domain.Snapshot
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	if dec.More() {
		return domain.Snapshot{}, fmt.Errorf("%w: trailing data", domain.ErrMalformedSnapshot)
	}
	return snap, nil
}
