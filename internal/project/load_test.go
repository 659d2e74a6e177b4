package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

func TestLoad_WellFormedProject(t *testing.T) {
	proj, errs := Load(filepath.Join("testdata", "chiller.yaml"), LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, proj)

	assert.Equal(t, "industrial-chiller", proj.Name)
	require.Len(t, proj.Attributes, 4)
	assert.True(t, proj.Attributes[0].Required)
	assert.Equal(t, ir.AttributeNumber, proj.Attributes[0].Type)

	unit := proj.Attributes[2]
	require.Len(t, unit.Options, 2)
	assert.Equal(t, ir.Text("ACM-600"), unit.Options[0].Value)

	assert.Equal(t, ir.Bool(false), proj.Attributes[3].Default)

	require.Len(t, proj.Rules, 2)
	impl := proj.Rules[0]
	assert.Equal(t, ir.KindImplication, impl.Kind)
	require.NotNil(t, impl.Consequence)
	assert.Equal(t, ir.Number(5000), impl.Consequence.Value)
	assert.True(t, impl.Approved)

	draft := proj.Rules[1]
	assert.False(t, draft.Approved)
	assert.InDelta(t, 0.92, draft.Confidence, 1e-9)
	assert.Equal(t, "datasheet-2026.pdf", draft.Provenance)

	assert.Equal(t, ir.Number(12), proj.Configuration.Get("motor_hp"))
	assert.Equal(t, ir.Number(7000), proj.Configuration.Get("cooling_capacity"))
}

func TestLoad_UnknownOperatorRejectedWithPosition(t *testing.T) {
	proj, errs := Load(filepath.Join("testdata", "bad_operator.yaml"), LoadModeFailFast)
	assert.Nil(t, proj)
	require.NotEmpty(t, errs)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeSchema, loadErr.Code)
}

func TestLoad_MissingFile(t *testing.T) {
	proj, errs := Load(filepath.Join("testdata", "does-not-exist.yaml"), LoadModeFailFast)
	assert.Nil(t, proj)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestParse_DuplicateAttributeID(t *testing.T) {
	doc := []byte(`
name: dup
attributes:
  - id: motor_hp
    name: Motor HP
    type: number
  - id: motor_hp
    name: Motor HP again
    type: string
`)
	proj, errs := Parse("dup.yaml", doc, LoadModeCollectAll)
	assert.Nil(t, proj)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeDuplicateID, loadErr.Code)
}

func TestParse_ConfigurationForUnknownAttribute(t *testing.T) {
	doc := []byte(`
name: stray
attributes:
  - id: motor_hp
    name: Motor HP
    type: number
configuration:
  no_such_attribute: 5
`)
	proj, errs := Parse("stray.yaml", doc, LoadModeCollectAll)
	assert.Nil(t, proj)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeBadConfig, loadErr.Code)
}

func TestParse_ImplicationWithoutConsequenceRejected(t *testing.T) {
	doc := []byte(`
name: shapeless
attributes:
  - id: motor_hp
    name: Motor HP
    type: number
rules:
  - id: r1
    kind: implication
    condition:
      attribute: motor_hp
      operator: ">"
      value: 10
    approved: true
`)
	proj, errs := Parse("shapeless.yaml", doc, LoadModeCollectAll)
	assert.Nil(t, proj)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeBadRule, loadErr.Code)
}

func TestParse_CollectAllGathersEveryError(t *testing.T) {
	doc := []byte(`
name: multi
attributes:
  - id: motor_hp
    name: Motor HP
    type: number
  - id: motor_hp
    name: Duplicate
    type: number
configuration:
  stray: 1
`)
	proj, errs := Parse("multi.yaml", doc, LoadModeCollectAll)
	assert.Nil(t, proj)
	assert.Len(t, errs, 2)
}

func TestMarshal_RoundTrip(t *testing.T) {
	original, errs := Load(filepath.Join("testdata", "chiller.yaml"), LoadModeFailFast)
	require.Empty(t, errs)

	out, err := Marshal(original)
	require.NoError(t, err)

	reloaded, errs := Parse("roundtrip.yaml", out, LoadModeFailFast)
	require.Empty(t, errs)

	assert.Equal(t, original.Name, reloaded.Name)
	assert.Equal(t, original.Attributes, reloaded.Attributes)
	assert.Equal(t, original.Rules, reloaded.Rules)
	assert.Equal(t, original.Configuration, reloaded.Configuration)
}
