package store

import (
	"context"
	"fmt"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
	"github.com/avnishkumar80/DynamicCPQ/internal/project"
)

// ListRules returns a project's rules in declaration order, drafts
// included.
func (s *Store) ListRules(ctx context.Context, projectID string) ([]ir.Rule, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM rules WHERE project_id = ? ORDER BY position", projectID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []ir.Rule
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("list rules: %w", err)
		}
		rule, err := project.UnmarshalRule([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("list rules: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// AddDraftRules appends extracted candidate rules after the existing ones.
// Drafts arrive with approved = false and stay invisible to validation
// until ApproveRule flips them.
func (s *Store) AddDraftRules(ctx context.Context, projectID string, drafts []ir.Rule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add draft rules: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM rules WHERE project_id = ?", projectID).Scan(&next)
	if err != nil {
		return fmt.Errorf("add draft rules: %w", err)
	}

	for i, draft := range drafts {
		draft.Approved = false // drafts are never born approved
		if err := s.insertRule(ctx, tx, projectID, draft, next+i); err != nil {
			return fmt.Errorf("add draft rules: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("add draft rules: %w", err)
	}
	return nil
}

// ApproveRule marks a draft as reviewed and approved, making it visible to
// both validators. The stored JSON document is rewritten so the approved
// flag cannot drift from the indexed column.
func (s *Store) ApproveRule(ctx context.Context, projectID, ruleID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("approve rule: %w", err)
	}
	defer tx.Rollback()

	var doc string
	err = tx.QueryRowContext(ctx,
		"SELECT doc FROM rules WHERE project_id = ? AND id = ?", projectID, ruleID).Scan(&doc)
	if err != nil {
		return fmt.Errorf("approve rule %q: %w", ruleID, err)
	}

	rule, err := project.UnmarshalRule([]byte(doc))
	if err != nil {
		return fmt.Errorf("approve rule %q: %w", ruleID, err)
	}
	rule.Approved = true

	updated, err := project.MarshalRule(rule)
	if err != nil {
		return fmt.Errorf("approve rule %q: %w", ruleID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE rules SET doc = ?, approved = 1 WHERE project_id = ? AND id = ?
	`, string(updated), projectID, ruleID); err != nil {
		return fmt.Errorf("approve rule %q: %w", ruleID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("approve rule %q: %w", ruleID, err)
	}
	return nil
}
