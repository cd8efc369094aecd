package hivedef_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemap/hivemap-go/hivedef"
)

func simpleDef(name, version string) hivedef.Definition {
	return hivedef.Definition{
		Name:    name,
		Version: version,
		Rules: []hivedef.Rule{
			{Required: []string{name + ".marker"}, Base: 0.9},
		},
	}
}

func TestBuiltinLoads(t *testing.T) {
	reg, err := hivedef.NewRegistry(hivedef.Builtin()...)
	require.NoError(t, err)
	require.NotNil(t, reg.Default())
	assert.Equal(t, "honeyhive", reg.Default().Name)

	genai := reg.DefinitionsFor("gen_ai")
	require.Len(t, genai, 2)
	// Newest version first.
	assert.Equal(t, "1.37.0", genai[0].Version)
	assert.Equal(t, "1.27.0", genai[1].Version)

	assert.Contains(t, reg.MarkerKeys(), "gen_ai.semconv.version")
}

func TestDuplicateDefinitionRejected(t *testing.T) {
	_, err := hivedef.NewRegistry(
		simpleDef("conv", "1.0.0"),
		simpleDef("conv", "1.0.0"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate definition for conv/1.0.0")
}

func TestSameNameDifferentVersionsAllowed(t *testing.T) {
	reg, err := hivedef.NewRegistry(
		simpleDef("conv", "1.0.0"),
		simpleDef("conv", "2.0.0"),
	)
	require.NoError(t, err)
	assert.Len(t, reg.DefinitionsFor("conv"), 2)
}

func TestValidationFailures(t *testing.T) {
	cases := map[string]hivedef.Definition{
		"empty name": {Version: "1.0.0", Rules: []hivedef.Rule{{Required: []string{"k"}, Base: 0.5}}},
		"bad semver": {Name: "c", Version: "not-semver", Rules: []hivedef.Rule{{Required: []string{"k"}, Base: 0.5}}},
		"no rules":   {Name: "c", Version: "1.0.0"},
		"empty required set": {Name: "c", Version: "1.0.0",
			Rules: []hivedef.Rule{{Base: 0.5}}},
		"base out of range": {Name: "c", Version: "1.0.0",
			Rules: []hivedef.Rule{{Required: []string{"k"}, Base: 1.5}}},
		"nan delta": {Name: "c", Version: "1.0.0",
			Rules: []hivedef.Rule{{
				Required:   []string{"k"},
				Base:       0.5,
				Definitive: []hivedef.Indicator{{Key: "d", Delta: math.NaN()}},
			}}},
		"indicator without key": {Name: "c", Version: "1.0.0",
			Rules: []hivedef.Rule{{
				Required:  []string{"k"},
				Base:      0.5,
				Exclusion: []hivedef.Indicator{{Delta: 0.1}},
			}}},
	}
	for label, def := range cases {
		_, err := hivedef.NewRegistry(def)
		assert.Error(t, err, label)
	}
}

func TestValidationAccumulatesErrors(t *testing.T) {
	_, err := hivedef.NewRegistry(
		hivedef.Definition{Name: "a", Version: "nope", Rules: []hivedef.Rule{{Required: []string{"k"}, Base: 0.5}}},
		hivedef.Definition{Name: "b", Version: "1.0.0"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid semver")
	assert.Contains(t, err.Error(), "no recognition rules")
}

func TestMultipleDefaultsRejected(t *testing.T) {
	a := simpleDef("a", "1.0.0")
	a.Default = true
	b := simpleDef("b", "1.0.0")
	b.Default = true
	_, err := hivedef.NewRegistry(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple default conventions")
}

func TestLookup(t *testing.T) {
	reg, err := hivedef.NewRegistry(hivedef.Builtin()...)
	require.NoError(t, err)

	def, ok := reg.Lookup("gen_ai", "1.27.0")
	require.True(t, ok)
	assert.Equal(t, "1.27.0", def.Version)
	require.NotNil(t, def.Semver())
	assert.Equal(t, uint64(27), def.Semver().Minor())

	_, ok = reg.Lookup("gen_ai", "9.9.9")
	assert.False(t, ok)
	_, ok = reg.Lookup("unknown", "1.0.0")
	assert.False(t, ok)
}
