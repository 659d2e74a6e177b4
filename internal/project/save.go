package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Marshal renders a project as a YAML document that Load accepts back
// unchanged (modulo map ordering in the configuration block).
func Marshal(p *Project) ([]byte, error) {
	doc := projectDoc{Name: p.Name}
	for _, attr := range p.Attributes {
		doc.Attributes = append(doc.Attributes, attributeToWire(attr))
	}
	for _, rule := range p.Rules {
		doc.Rules = append(doc.Rules, ruleToWire(rule))
	}
	if len(p.Configuration) > 0 {
		doc.Configuration = make(map[string]any, len(p.Configuration))
		for _, id := range p.Configuration.SetIDs() {
			doc.Configuration[id] = valueToAny(p.Configuration.Get(id))
		}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding project: %w", err)
	}
	return out, nil
}

// Save writes a project document to disk.
func Save(p *Project, path string) error {
	out, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}
	return nil
}
