// Package extract holds the two LLM-backed collaborators at the edge of
// the validation core.
//
// The Extractor turns free-form requirement text (datasheets, engineering
// notes) into candidate rules. Every candidate arrives as a draft:
// approved = false, invisible to validation until a human reviews and
// approves it. Confidence and provenance are carried through unvalidated -
// the engine's only contract with extraction is the rule shape.
//
// The Advisor turns a configuration plus its violations into free-text
// guidance. Violations are passed to the model verbatim and the returned
// text is not parsed or validated.
package extract
