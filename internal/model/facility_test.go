package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDepot() *Facility {
	return NewFacility("Depot A", "Westgate", "North Ridge", "Alice", 1, 100)
}

func TestFacilityLifecycle(t *testing.T) {
	f := newDepot()
	assert.False(t, f.Changed())
	assert.False(t, f.Persisted())
	assert.False(t, f.HasAnyService())

	require.NoError(t, f.ItemServices.Set("concrete", true))
	assert.True(t, f.HasAnyService())
	assert.True(t, f.Changed())

	// What the store does on a successful insert.
	f.ID = 7
	now := time.Now()
	f.CreationTime = &now
	f.MarkPersisted()
	assert.False(t, f.Changed())

	f.Description = "Open 24/7"
	assert.True(t, f.Changed())
}

func TestFacilityChangedPerField(t *testing.T) {
	mutations := map[string]func(f *Facility){
		"name":        func(f *Facility) { f.Name = "Depot B" },
		"description": func(f *Facility) { f.Description = "x" },
		"region":      func(f *Facility) { f.Region = "Deadlands" },
		"coordinates": func(f *Facility) { f.Coordinates = "G12k3" },
		"marker":      func(f *Facility) { f.Marker = "Longstone" },
		"maintainer":  func(f *Facility) { f.Maintainer = "Bob" },
		"image":       func(f *Facility) { f.ImageURL = "https://example.com/a.png" },
		"thread":      func(f *Facility) { f.ThreadID = 42 },
		"items":       func(f *Facility) { _ = f.ItemServices.Set("water", true) },
		"vehicles":    func(f *Facility) { _ = f.VehicleServices.Set("garage", true) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			f := newDepot()
			mutate(f)
			assert.True(t, f.Changed())
		})
	}

	t.Run("identity fields are not tracked", func(t *testing.T) {
		f := newDepot()
		f.ID = 99
		f.AuthorID = 5
		f.GuildID = 6
		assert.False(t, f.Changed())
	})

	t.Run("reverting restores unchanged", func(t *testing.T) {
		f := newDepot()
		f.Name = "tmp"
		f.Name = "Depot A"
		assert.False(t, f.Changed())
	})
}

func TestCanModify(t *testing.T) {
	f := newDepot()
	assert.True(t, f.CanModify(1, false))
	assert.False(t, f.CanModify(2, false))
	assert.True(t, f.CanModify(2, true))
}

func TestValidateCanonicalises(t *testing.T) {
	f := NewFacility("Depot A", "westgate", "north ridge", "Alice", 1, 100)
	f.Coordinates = "g12K3"
	require.NoError(t, f.Validate())
	assert.Equal(t, "Westgate", f.Region)
	assert.Equal(t, "North Ridge", f.Marker)
	assert.Equal(t, "G12k3", f.Coordinates)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(f *Facility){
		"unknown region":   func(f *Facility) { f.Region = "Atlantis" },
		"marker elsewhere": func(f *Facility) { f.Marker = "Lochan" },
		"bad coordinates":  func(f *Facility) { f.Coordinates = "Z99" },
		"long name":        func(f *Facility) { f.Name = strings.Repeat("n", MaxNameLen+1) },
		"long maintainer":  func(f *Facility) { f.Maintainer = strings.Repeat("m", MaxMaintainerLen+1) },
		"long description": func(f *Facility) { f.Description = strings.Repeat("d", MaxDescriptionLen+1) },
		"long image":       func(f *Facility) { f.ImageURL = "https://" + strings.Repeat("i", MaxImageURLLen) },
		"image scheme":     func(f *Facility) { f.ImageURL = "ftp://example.com/a.png" },
		"blank name":       func(f *Facility) { f.Name = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newDepot()
			mutate(f)
			assert.ErrorIs(t, f.Validate(), ErrValidation)
		})
	}
}

func TestListLine(t *testing.T) {
	f := newDepot()
	f.ID = 12
	assert.Equal(t, "12 | Depot A | North Ridge", f.ListLine())

	f.ThreadID = 555
	assert.Equal(t, "12 | <#555>", f.ListLine())
}

func TestDetailView(t *testing.T) {
	f := newDepot()
	f.ID = 3
	f.Coordinates = "G12k3"
	require.NoError(t, f.ItemServices.Set("concrete", true))

	v := f.DetailView()
	assert.Equal(t, "Depot A", v.Title)
	assert.Equal(t, "ID 3", v.Footer)

	byName := map[string]string{}
	for _, fld := range v.Fields {
		byName[fld.Name] = fld.Value
	}
	assert.Equal(t, "North Ridge (G12k3)", byName["Location"])
	assert.Equal(t, "<@1>", byName["Author"])
	assert.Equal(t, "Concrete", byName["Item Services"])
	assert.NotContains(t, byName, "Vehicle Services")
}
