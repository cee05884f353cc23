package buildergen

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thorn-jmh/buildergen/pkg/source"
)

func extract(t *testing.T, file *source.File, name string) (*Metadata, []Field, error) {
	t.Helper()
	decl := file.Lookup(name)
	require.NotNil(t, decl, name)
	return Extract(file, decl)
}

type fieldSummary struct {
	Name     string
	Type     string
	Exported bool
	Embedded bool
}

func summarize(fields []Field) []fieldSummary {
	var ret []fieldSummary
	for _, f := range fields {
		ret = append(ret, fieldSummary{f.Name, f.Type.String(), f.Exported, f.Embedded})
	}
	return ret
}

func TestExtract(t *testing.T) {
	t.Run("Should keep fields in declaration order", func(t *testing.T) {
		md, fields, err := extract(t, loadFixture(t, "person"), "Person")
		require.NoError(t, err)

		assert.Equal(t, "Person", md.Name)
		assert.True(t, md.Exported)
		assert.Empty(t, md.TypeParams)
		assert.Equal(t, 4, md.Pos.Line)

		want := []fieldSummary{
			{"Name", "string", true, false},
			{"Age", "int", true, false},
		}
		if diff := cmp.Diff(want, summarize(fields)); diff != "" {
			t.Errorf("fields mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Should collect type parameters with their constraints", func(t *testing.T) {
		md, fields, err := extract(t, loadFixture(t, "person"), "Num")
		require.NoError(t, err)

		require.Len(t, md.TypeParams, 1)
		assert.Equal(t, "T", md.TypeParams[0].Name)
		assert.Equal(t, "~int | ~float64", md.TypeParams[0].Constraint.String())
		assert.Equal(t, "NumBuilder", md.BuilderName())
		assert.Equal(t, "NewNumBuilder", md.FactoryName())
		assert.Equal(t, []fieldSummary{{"V", "T", true, false}}, summarize(fields))
	})

	t.Run("Should split grouped names, name embedded fields and skip blanks", func(t *testing.T) {
		_, fields, err := extract(t, loadFixture(t, "kitchen"), "Kitchen")
		require.NoError(t, err)

		got := summarize(fields)
		require.Len(t, got, 22)
		assert.Equal(t, fieldSummary{"Base", "Base", true, true}, got[0])
		assert.Equal(t, fieldSummary{"Stringer", "fmt.Stringer", true, true}, got[1])
		assert.Equal(t, fieldSummary{"Buffer", "*bytes.Buffer", true, true}, got[2])
		assert.Equal(t, fieldSummary{"X", "float64", true, false}, got[13])
		assert.Equal(t, fieldSummary{"Y", "float64", true, false}, got[14])
		assert.Equal(t, fieldSummary{"lower", "*Base", false, false}, got[21])
		for _, f := range got {
			assert.NotEqual(t, "_", f.Name)
		}
	})

	t.Run("Should record the imports each field type needs", func(t *testing.T) {
		_, fields, err := extract(t, loadFixture(t, "kitchen"), "Kitchen")
		require.NoError(t, err)

		byName := map[string]Field{}
		for _, f := range fields {
			byName[f.Name] = f
		}
		assert.Equal(t, []source.Import{{Name: "stdjson", Path: "encoding/json", Explicit: true}}, byName["Raw"].Type.Imports)
		assert.Equal(t, []source.Import{{Name: "time", Path: "time"}}, byName["When"].Type.Imports)
		assert.Empty(t, byName["Index"].Type.Imports)
	})

	t.Run("Should name the factory of an unexported type in lower case", func(t *testing.T) {
		md, _, err := extract(t, parseSource(t, "package p\n\ntype point struct{ x, y int }\n"), "point")
		require.NoError(t, err)
		assert.False(t, md.Exported)
		assert.Equal(t, "pointBuilder", md.BuilderName())
		assert.Equal(t, "newPointBuilder", md.FactoryName())
	})
}

func TestExtract_Rejections(t *testing.T) {
	for _, tc := range []struct {
		name   string
		src    string
		target string
		err    error
		detail string
	}{
		{
			name:   "interface",
			src:    "package p\n\ntype S interface{ M() }\n",
			target: "S",
			err:    ErrUnsupportedShape,
		},
		{
			name:   "named basic type",
			src:    "package p\n\ntype ID int\n",
			target: "ID",
			err:    ErrUnsupportedShape,
		},
		{
			name:   "alias of a struct",
			src:    "package p\n\ntype A = struct{ X int }\n",
			target: "A",
			err:    ErrUnsupportedShape,
		},
		{
			name:   "dot import",
			src:    "package p\n\nimport . \"time\"\n\ntype T struct{ D Duration }\n",
			target: "T",
			err:    ErrDotImport,
		},
		{
			name:   "field named Build",
			src:    "package p\n\ntype T struct{ Build int }\n",
			target: "T",
			err:    ErrNameCollision,
			detail: "Build",
		},
		{
			name:   "field named mustBuild",
			src:    "package p\n\ntype T struct{ mustBuild int }\n",
			target: "T",
			err:    ErrNameCollision,
			detail: "MustBuild",
		},
		{
			name:   "fields differing in the case of the first letter",
			src:    "package p\n\ntype T struct {\n\tName string\n\tname string\n}\n",
			target: "T",
			err:    ErrNameCollision,
			detail: "setter Name of field name clashes with field Name",
		},
		{
			name:   "builder already declared",
			src:    "package p\n\ntype T struct{ A int }\n\ntype TBuilder struct{}\n",
			target: "T",
			err:    ErrNameCollision,
			detail: "TBuilder",
		},
		{
			name:   "factory already declared",
			src:    "package p\n\ntype T struct{ A int }\n\nfunc NewTBuilder() {}\n",
			target: "T",
			err:    ErrNameCollision,
			detail: "NewTBuilder",
		},
		{
			name:   "unknown package qualifier",
			src:    "package p\n\ntype T struct{ D time.Duration }\n",
			target: "T",
			err:    ErrUnresolvedQualifier,
			detail: "time",
		},
		{
			name:   "unknown qualifier in a constraint",
			src:    "package p\n\ntype T[N constraints.Integer] struct{ V N }\n",
			target: "T",
			err:    ErrUnresolvedQualifier,
			detail: "constraints",
		},
	} {
		t.Run("Should reject "+tc.name, func(t *testing.T) {
			md, fields, err := extract(t, parseSource(t, tc.src), tc.target)
			require.Error(t, err)
			assert.Nil(t, md)
			assert.Nil(t, fields)
			assert.ErrorIs(t, err, tc.err)

			var d *Diagnostic
			require.True(t, errors.As(err, &d))
			assert.Equal(t, tc.target, d.Type)
			assert.True(t, d.Pos.IsValid())
			assert.Contains(t, d.Error(), "cannot generate builder for "+tc.target)
			if tc.detail != "" {
				assert.Contains(t, d.Detail, tc.detail)
			}
		})
	}

	t.Run("Should report the shape of a rejected declaration", func(t *testing.T) {
		_, _, err := extract(t, parseSource(t, "package p\n\ntype S interface{ M() }\n"), "S")
		var d *Diagnostic
		require.True(t, errors.As(err, &d))
		assert.Equal(t, source.ShapeInterface, d.Shape)
	})

	t.Run("Should point at the offending field", func(t *testing.T) {
		_, _, err := extract(t, parseSource(t, "package p\n\ntype T struct {\n\tA int\n\tD time.Duration\n}\n"), "T")
		var d *Diagnostic
		require.True(t, errors.As(err, &d))
		assert.Equal(t, 5, d.Pos.Line)
		assert.Equal(t, "input.go", d.Pos.Filename)
	})
}

func TestEmbeddedName(t *testing.T) {
	src := `package p

import "bytes"

type G[T any] struct{ V T }

type T struct {
	*bytes.Buffer
	G[int]
	*G[string]
}
`
	_, fields, err := extract(t, parseSource(t, src), "T")
	// G[int] and *G[string] are both named G
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameCollision)
	assert.Nil(t, fields)

	src = `package p

import "bytes"

type G[T any] struct{ V T }

type T struct {
	*bytes.Buffer
	*G[string]
}
`
	_, fields, err = extract(t, parseSource(t, src), "T")
	require.NoError(t, err)
	assert.Equal(t, []fieldSummary{
		{"Buffer", "*bytes.Buffer", true, true},
		{"G", "*G[string]", true, true},
	}, summarize(fields))
}
