package project

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

//go:embed schema.cue
var schemaCUE string

// Project is one imported document: a schema of attributes, a rule set,
// and the current (possibly partial) configuration.
type Project struct {
	Name          string
	Attributes    []ir.ProductAttribute
	Rules         []ir.Rule
	Configuration ir.Configuration
}

// LoadMode controls how errors are handled during import.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Error code constants for import failures.
const (
	ErrCodeNotFound     = "E001" // file not found or unreadable
	ErrCodeSchema       = "E002" // document fails the CUE schema
	ErrCodeDecode       = "E003" // YAML decode failure
	ErrCodeBadAttribute = "E004" // attribute conversion failure
	ErrCodeBadRule      = "E005" // rule conversion or shape failure
	ErrCodeBadConfig    = "E006" // configuration entry failure
	ErrCodeDuplicateID  = "E007" // duplicate attribute id
)

// LoadError is an import error with an optional file position from CUE
// schema validation.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads and validates a project document. In fail-fast mode the first
// error returns immediately; in collect-all mode every detectable problem
// is reported. A non-nil Project is returned only when errs is empty.
func Load(path string, mode LoadMode) (*Project, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading project: %v", err)}}
	}
	return Parse(path, data, mode)
}

// Parse validates and decodes a project document held in memory. The
// filename is used for error positions only.
func Parse(filename string, data []byte, mode LoadMode) (*Project, []error) {
	var errs []error

	if schemaErrs := validateSchema(filename, data); len(schemaErrs) > 0 {
		errs = append(errs, schemaErrs...)
		// A document failing the schema cannot be decoded meaningfully.
		return nil, errs
	}

	var doc projectDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding project: %v", err)}}
	}

	proj := &Project{Name: doc.Name, Configuration: ir.Configuration{}}

	seen := make(map[string]bool, len(doc.Attributes))
	for _, attrDoc := range doc.Attributes {
		attr, err := attributeFromWire(attrDoc)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeBadAttribute, Message: err.Error()})
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		if seen[attr.ID] {
			errs = append(errs, &LoadError{Code: ErrCodeDuplicateID, Message: fmt.Sprintf("duplicate attribute id %q", attr.ID)})
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		seen[attr.ID] = true
		proj.Attributes = append(proj.Attributes, attr)
	}

	for _, rDoc := range doc.Rules {
		rule, err := ruleFromWire(rDoc)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeBadRule, Message: err.Error()})
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		proj.Rules = append(proj.Rules, rule)
	}

	for key, raw := range doc.Configuration {
		if !seen[key] {
			errs = append(errs, &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("configuration references unknown attribute %q", key)})
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		v, err := ir.FromAny(raw)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeBadConfig, Message: fmt.Sprintf("configuration %q: %v", key, err)})
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		proj.Configuration[key] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return proj, nil
}

// validateSchema unifies the raw YAML with the embedded CUE schema and
// reports every mismatch with its file position.
func validateSchema(filename string, data []byte) []error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return []error{&LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("compiling schema: %v", err)}}
	}
	projectDef := schema.LookupPath(cue.ParsePath("#Project"))
	if err := projectDef.Err(); err != nil {
		return []error{&LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("schema missing #Project: %v", err)}}
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return []error{&LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("parsing YAML: %v", err)}}
	}
	docVal := ctx.BuildFile(file)
	if err := docVal.Err(); err != nil {
		return []error{&LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("building document: %v", err)}}
	}

	unified := projectDef.Unify(docVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var errs []error
		for _, e := range cueerrors.Errors(err) {
			errs = append(errs, &LoadError{
				Code:    ErrCodeSchema,
				Message: e.Error(),
				Pos:     e.Position(),
			})
		}
		return errs
	}
	return nil
}
