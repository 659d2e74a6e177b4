// Package store provides durable storage for CPQ projects.
//
// The validation engine itself holds no cross-run state; this store serves
// the CLI and the rule-review workflow: imported projects, their rule sets
// (including unapproved drafts from extraction), and saved configurations
// live here between invocations.
//
// Uses SQLite with WAL mode. Attributes and rules are persisted as JSON
// documents through the same codec the YAML importer uses, with an explicit
// position column preserving declaration order - rule order is significant
// for deterministic violation reporting.
package store
