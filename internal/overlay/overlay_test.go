package overlay

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"envoverlay/internal/tree"
)

// mapLookup fakes the environment with a plain map, so tests never touch
// shared process state.
func mapLookup(env map[string]string) LookupFunc {
	return func(name string) (string, bool, error) {
		value, found := env[name]
		return value, found, nil
	}
}

func TestApplyIdentity(t *testing.T) {
	input := tree.Table{
		"foo": tree.String("foo value"),
		"bar": tree.Integer(1234),
		"more": tree.Table{
			"thing1": tree.String("thing1 value"),
			"thing2": tree.String("thing2 value"),
		},
	}

	o := New(mapLookup(nil))
	resolved, err := o.Apply(input)
	require.NoError(t, err)
	assert.True(t, tree.Equal(input, resolved))
}

func TestApplyRequiredSet(t *testing.T) {
	o := New(mapLookup(map[string]string{"FOO": "env foo value"}))

	resolved, err := o.Apply(tree.Table{"foo": tree.String("<<ENV:FOO>>")})
	require.NoError(t, err)
	assert.True(t, tree.Equal(tree.Table{"foo": tree.String("env foo value")}, resolved))
}

func TestApplyRequiredSetToEmptyString(t *testing.T) {
	o := New(mapLookup(map[string]string{"FOO": ""}))

	resolved, err := o.Apply(tree.Table{"foo": tree.String("<<ENV:FOO>>")})
	require.NoError(t, err)
	assert.True(t, tree.Equal(tree.Table{"foo": tree.String("")}, resolved))
}

func TestApplyRequiredUnset(t *testing.T) {
	o := New(mapLookup(nil))

	_, err := o.Apply(tree.Table{
		"foo": tree.String("<<ENV:FOO>>"),
		"ok":  tree.String("fine"),
	})
	require.Error(t, err)

	var missing *MissingVariableError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "FOO", missing.Name)
}

func TestApplyOptionalSet(t *testing.T) {
	o := New(mapLookup(map[string]string{"BAZ": "env baz value"}))

	resolved, err := o.Apply(tree.Table{"baz": tree.String("<<ENV?:BAZ>>")})
	require.NoError(t, err)
	assert.True(t, tree.Equal(tree.Table{"baz": tree.String("env baz value")}, resolved))
}

func TestApplyOptionalUnsetDropsField(t *testing.T) {
	o := New(mapLookup(nil))

	resolved, err := o.Apply(tree.Table{
		"baz":  tree.String("<<ENV?:BAZ>>"),
		"kept": tree.String("literal"),
	})
	require.NoError(t, err)

	table, ok := resolved.(tree.Table)
	require.True(t, ok)
	_, present := table["baz"]
	assert.False(t, present, "optional field should be absent, not empty")
	assert.Equal(t, tree.String("literal"), table["kept"])
}

func TestApplyCollectsAllFailures(t *testing.T) {
	o := New(mapLookup(map[string]string{"PRESENT": "yes"}))

	_, err := o.Apply(tree.Table{
		"foo": tree.String("<<ENV:FOO2>>"),
		"baz": tree.String("<<ENV:BAZ2>>"),
		"ok":  tree.String("<<ENV:PRESENT>>"),
		"more": tree.Table{
			"deep": tree.String("<<ENV:DEEP>>"),
		},
	})
	require.Error(t, err)

	causes := multierr.Errors(err)
	assert.Len(t, causes, 3, "every missing variable must be collected in one walk")
	assert.Contains(t, err.Error(), "FOO2")
	assert.Contains(t, err.Error(), "BAZ2")
	assert.Contains(t, err.Error(), "DEEP")
}

func TestApplyAnchoring(t *testing.T) {
	o := New(mapLookup(map[string]string{"FOO": "env foo value"}))

	input := tree.Table{
		"prefixed": tree.String("prefix<<ENV:FOO>>"),
		"suffixed": tree.String("<<ENV:FOO>>suffix"),
	}
	resolved, err := o.Apply(input)
	require.NoError(t, err)
	assert.True(t, tree.Equal(input, resolved), "partial placeholders stay literal")
}

func TestApplyNonStringScalarsPassThrough(t *testing.T) {
	input := tree.Table{
		"count":   tree.Integer(3),
		"ratio":   tree.Float(1.5),
		"enabled": tree.Bool(true),
	}

	o := New(mapLookup(nil))
	resolved, err := o.Apply(input)
	require.NoError(t, err)
	assert.True(t, tree.Equal(input, resolved))
}

func TestApplyArrayElements(t *testing.T) {
	o := New(mapLookup(map[string]string{"HOST": "db.internal"}))

	resolved, err := o.Apply(tree.Table{
		"hosts": tree.Array{tree.String("<<ENV:HOST>>"), tree.String("literal")},
	})
	require.NoError(t, err)
	assert.True(t, tree.Equal(tree.Table{
		"hosts": tree.Array{tree.String("db.internal"), tree.String("literal")},
	}, resolved))
}

func TestApplyArrayElementFailureAggregates(t *testing.T) {
	o := New(mapLookup(nil))

	_, err := o.Apply(tree.Table{
		"hosts": tree.Array{tree.String("<<ENV:A>>"), tree.String("<<ENV:B>>")},
	})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestApplyOptionalInArrayIsRejected(t *testing.T) {
	o := New(mapLookup(nil))

	_, err := o.Apply(tree.Table{
		"hosts": tree.Array{tree.String("<<ENV?:GONE>>")},
	})
	require.Error(t, err)

	var omitted *OmittedElementError
	require.ErrorAs(t, err, &omitted)
	assert.Equal(t, "GONE", omitted.Name)
	assert.Equal(t, 0, omitted.Index)
}

func TestApplyOptionalInArrayResolvesWhenSet(t *testing.T) {
	o := New(mapLookup(map[string]string{"HERE": "value"}))

	resolved, err := o.Apply(tree.Table{
		"hosts": tree.Array{tree.String("<<ENV?:HERE>>")},
	})
	require.NoError(t, err)
	assert.True(t, tree.Equal(tree.Table{"hosts": tree.Array{tree.String("value")}}, resolved))
}

func TestApplyRootMustBeTable(t *testing.T) {
	o := New(mapLookup(nil))

	_, err := o.Apply(tree.String("not a table"))
	assert.ErrorIs(t, err, ErrRootNotTable)
}

func TestApplyLookupFailure(t *testing.T) {
	cause := fmt.Errorf("malformed variable content")
	o := New(func(name string) (string, bool, error) {
		return "", false, cause
	})

	_, err := o.Apply(tree.Table{"foo": tree.String("<<ENV?:FOO>>")})
	require.Error(t, err)

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "FOO", lookupErr.Name)
	assert.True(t, errors.Is(err, cause))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	input := tree.Table{
		"foo": tree.String("<<ENV:FOO>>"),
		"sub": tree.Table{"baz": tree.String("<<ENV?:BAZ>>")},
	}

	o := New(mapLookup(map[string]string{"FOO": "resolved"}))
	_, err := o.Apply(input)
	require.NoError(t, err)

	assert.Equal(t, tree.String("<<ENV:FOO>>"), input["foo"])
	assert.Equal(t, tree.String("<<ENV?:BAZ>>"), input["sub"].(tree.Table)["baz"])
}

func TestApplyReadsEnvironmentFresh(t *testing.T) {
	env := map[string]string{}
	o := New(mapLookup(env))
	doc := tree.Table{"baz": tree.String("<<ENV?:BAZ>>")}

	resolved, err := o.Apply(doc)
	require.NoError(t, err)
	_, present := resolved.(tree.Table)["baz"]
	assert.False(t, present)

	env["BAZ"] = "env baz value"

	resolved, err = o.Apply(doc)
	require.NoError(t, err)
	assert.Equal(t, tree.String("env baz value"), resolved.(tree.Table)["baz"])
}
