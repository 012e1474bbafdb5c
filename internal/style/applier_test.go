package style

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimshape/gis2bim/internal/ifc"
)

func TestApplier_CreatesStylesUpFront(t *testing.T) {
	m := ifc.NewModel(time.Now())
	rules := []Rule{
		{Name: "Bolig", Color: [3]uint8{200, 30, 30}, Attribute: "objtype"},
		{Name: "Veg", Color: [3]uint8{80, 80, 80}, Attribute: "objtype"},
	}

	NewApplier(m.File, rules)
	assert.Len(t, m.File.ByType("IFCSURFACESTYLE"), 2)
}

func TestApplier_Apply(t *testing.T) {
	m := ifc.NewModel(time.Now())
	element := m.AddPointVolume("p", 0, 0, 1)
	a := NewApplier(m.File, []Rule{
		{Name: "Bolig", Color: [3]uint8{200, 30, 30}, Attribute: "objtype"},
	})

	applied, err := a.Apply(element, "Bolig")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, m.File.ByType("IFCSTYLEDITEM"), 1)
}

func TestApplier_UnknownStyle(t *testing.T) {
	m := ifc.NewModel(time.Now())
	element := m.AddPointVolume("p", 0, 0, 1)
	a := NewApplier(m.File, nil)

	applied, err := a.Apply(element, "Nope")
	assert.Error(t, err)
	assert.False(t, applied)
}
