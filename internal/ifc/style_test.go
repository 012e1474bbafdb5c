package ifc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSurfaceStyle(t *testing.T) {
	f := NewFile()

	s := f.AddSurfaceStyle("Bolig", 255, 127, 0)
	assert.Equal(t, "IFCSURFACESTYLE", s.Type)
	name, ok := s.StrAttr(0)
	require.True(t, ok)
	assert.Equal(t, "Bolig", name)

	colours := f.ByType("IFCCOLOURRGB")
	require.Len(t, colours, 1)
	r, _ := colours[0].FloatAttr(1)
	g, _ := colours[0].FloatAttr(2)
	b, _ := colours[0].FloatAttr(3)
	assert.Equal(t, 1.0, r)
	assert.InDelta(t, 0.498, g, 0.001)
	assert.Equal(t, 0.0, b)
}

func TestAssignStyle(t *testing.T) {
	m := NewModel(time.Now())
	element := m.AddPointVolume("p", 0, 0, 1)
	style := m.File.AddSurfaceStyle("Bolig", 200, 30, 30)

	require.NoError(t, m.File.AssignStyle(element, style))

	styled := m.File.ByType("IFCSTYLEDITEM")
	require.Len(t, styled, 1)

	// The styled item targets the element's solid.
	solid := m.File.Deref(styled[0].Attr(0))
	require.NotNil(t, solid)
	assert.Equal(t, "IFCEXTRUDEDAREASOLID", solid.Type)

	assignments, ok := styled[0].ListAttr(1)
	require.True(t, ok)
	require.Len(t, assignments, 1)
	assignment := m.File.Deref(assignments[0])
	require.NotNil(t, assignment)
	styles, ok := assignment.ListAttr(0)
	require.True(t, ok)
	assert.Contains(t, styles, Ref(style.ID))
}

func TestAssignStyle_NoRepresentation(t *testing.T) {
	f := NewFile()
	bare := f.Add("IFCBUILDINGELEMENTPROXY",
		Str(NewGUID()), Null{}, Str("bare"), Null{}, Null{}, Null{}, Null{}, Null{}, Null{})
	style := f.AddSurfaceStyle("Bolig", 1, 2, 3)

	err := f.AssignStyle(bare, style)
	assert.ErrorIs(t, err, ErrNoRepresentation)
}
