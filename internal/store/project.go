package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
	"github.com/avnishkumar80/DynamicCPQ/internal/project"
)

// SaveProject persists a project wholesale under the given id, replacing
// any previous contents. Attributes, rules, and configuration are written
// in one transaction so a reader never sees a half-imported project.
func (s *Store) SaveProject(ctx context.Context, id string, p *project.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO projects (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, id, p.Name); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	// Replace wholesale: declaration order is re-derived from position.
	for _, table := range []string{"attributes", "rules", "config_values"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE project_id = ?", table), id); err != nil {
			return fmt.Errorf("save project: clearing %s: %w", table, err)
		}
	}

	for i, attr := range p.Attributes {
		doc, err := project.MarshalAttribute(attr)
		if err != nil {
			return fmt.Errorf("save project: attribute %q: %w", attr.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attributes (project_id, id, doc, position) VALUES (?, ?, ?, ?)
		`, id, attr.ID, string(doc), i); err != nil {
			return fmt.Errorf("save project: attribute %q: %w", attr.ID, err)
		}
	}

	for i, rule := range p.Rules {
		if err := s.insertRule(ctx, tx, id, rule, i); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
	}

	for _, attrID := range p.Configuration.SetIDs() {
		raw, err := project.MarshalValue(p.Configuration.Get(attrID))
		if err != nil {
			return fmt.Errorf("save project: configuration %q: %w", attrID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO config_values (project_id, attribute_id, value) VALUES (?, ?, ?)
		`, id, attrID, string(raw)); err != nil {
			return fmt.Errorf("save project: configuration %q: %w", attrID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

func (s *Store) insertRule(ctx context.Context, tx *sql.Tx, projectID string, rule ir.Rule, position int) error {
	doc, err := project.MarshalRule(rule)
	if err != nil {
		return fmt.Errorf("rule %q: %w", rule.ID, err)
	}
	approved := 0
	if rule.Approved {
		approved = 1
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rules (project_id, id, doc, approved, position) VALUES (?, ?, ?, ?, ?)
	`, projectID, rule.ID, string(doc), approved, position); err != nil {
		return fmt.Errorf("rule %q: %w", rule.ID, err)
	}
	return nil
}

// LoadProject reads a project back in declaration order.
func (s *Store) LoadProject(ctx context.Context, id string) (*project.Project, error) {
	p := &project.Project{Configuration: ir.Configuration{}}

	err := s.db.QueryRowContext(ctx, "SELECT name FROM projects WHERE id = ?", id).Scan(&p.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM attributes WHERE project_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("load project: attributes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("load project: attributes: %w", err)
		}
		attr, err := project.UnmarshalAttribute([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("load project: %w", err)
		}
		p.Attributes = append(p.Attributes, attr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load project: attributes: %w", err)
	}

	p.Rules, err = s.ListRules(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	cfgRows, err := s.db.QueryContext(ctx,
		"SELECT attribute_id, value FROM config_values WHERE project_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("load project: configuration: %w", err)
	}
	defer cfgRows.Close()
	for cfgRows.Next() {
		var attrID, raw string
		if err := cfgRows.Scan(&attrID, &raw); err != nil {
			return nil, fmt.Errorf("load project: configuration: %w", err)
		}
		v, err := project.UnmarshalValue([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("load project: configuration %q: %w", attrID, err)
		}
		p.Configuration[attrID] = v
	}
	if err := cfgRows.Err(); err != nil {
		return nil, fmt.Errorf("load project: configuration: %w", err)
	}

	return p, nil
}

// ListProjects returns the (id, name) pairs of all stored projects.
func (s *Store) ListProjects(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM projects ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		projects[id] = name
	}
	return projects, rows.Err()
}
