package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSetRoundTrip(t *testing.T) {
	for _, reg := range []*FlagRegistry{ItemServices, VehicleServices} {
		for _, f := range reg.Flags() {
			s := reg.Empty()
			require.NoError(t, s.Set(f.Name, true))
			assert.Equal(t, s, reg.FromInt(s.Int()), "%s/%s", reg.Name(), f.Name)
		}

		all := reg.Empty()
		for _, f := range reg.Flags() {
			require.NoError(t, all.Set(f.Name, true))
		}
		assert.Equal(t, all, reg.FromInt(all.Int()))
	}
}

func TestFlagSetIsEmptyMatchesInt(t *testing.T) {
	s := ItemServices.Empty()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, int64(0), s.Int())

	require.NoError(t, s.Set("concrete", true))
	assert.False(t, s.IsEmpty())
	assert.NotEqual(t, int64(0), s.Int())

	require.NoError(t, s.Set("concrete", false))
	assert.True(t, s.IsEmpty())
	assert.Equal(t, int64(0), s.Int())
}

func TestFlagSetHasAndSet(t *testing.T) {
	s := ItemServices.Empty()
	require.NoError(t, s.Set("petrol", true))

	ok, err := s.Has("petrol")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Has("water")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlagSetUnknownName(t *testing.T) {
	s := ItemServices.Empty()

	_, err := s.Has("plutonium")
	var unknown *UnknownFlagError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "plutonium", unknown.Name)
	assert.Equal(t, "item", unknown.Set)
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, s.Set("plutonium", true), ErrValidation)

	_, err = ItemServices.FromNames([]string{"petrol", "plutonium"})
	assert.ErrorIs(t, err, ErrValidation)

	var zero FlagSet
	_, err = zero.Has("petrol")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFromNames(t *testing.T) {
	empty, err := ItemServices.FromNames(nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	names := []string{"steel", "concrete"}
	a, err := ItemServices.FromNames(names)
	require.NoError(t, err)
	b, err := ItemServices.FromNames(names)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Names come back in registration order, not input order.
	assert.Equal(t, []string{"concrete", "steel"}, a.Names())

	// Replacing the set drops flags not named.
	c, err := ItemServices.FromNames([]string{"steel"})
	require.NoError(t, err)
	ok, _ := c.Has("concrete")
	assert.False(t, ok)
}

func TestFlagSetAllIteratesInOrder(t *testing.T) {
	s, err := VehicleServices.FromNames([]string{"repair"})
	require.NoError(t, err)

	states := s.All()
	require.Len(t, states, len(VehicleServices.Flags()))
	assert.Equal(t, "garage", states[0].Name)
	for _, st := range states {
		assert.Equal(t, st.Name == "repair", st.Set, st.Name)
	}
}

func TestVehicleProducers(t *testing.T) {
	producers := VehicleServices.ProducersOf("light tank")
	assert.Equal(t, []string{"small_assembly", "tank_assembly"}, producers.Names())

	assert.True(t, VehicleServices.ProducersOf("Spaceship").IsEmpty())
	assert.Contains(t, VehicleServices.Vehicles(), "Locomotive")
	assert.Contains(t, VehicleServices.Produces("shipyard"), "Barge")
	assert.Nil(t, VehicleServices.Produces("refuel"))
}

func TestNewFlagRegistryRejectsBadBits(t *testing.T) {
	assert.Panics(t, func() {
		NewFlagRegistry("bad", []FlagDescriptor{{Name: "a", Bit: 3}})
	})
	assert.Panics(t, func() {
		NewFlagRegistry("dup", []FlagDescriptor{{Name: "a", Bit: 1}, {Name: "b", Bit: 1}})
	})
	assert.Panics(t, func() {
		NewFlagRegistry("dup", []FlagDescriptor{{Name: "a", Bit: 1}, {Name: "a", Bit: 2}})
	})
}
