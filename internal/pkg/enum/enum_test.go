package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create a enum of string", func(t *testing.T) {
		type Color string

		red := New(Color("red"))
		green := New(Color("green"))
		require.Equal(t, Color("red"), red)

		v, err := ToEnum[Color]("green")
		require.NoError(t, err)
		require.Equal(t, green, v)

		_, err = ToEnum[Color]("Green")
		require.Error(t, err)

		require.True(t, IsValid(red))
		require.False(t, IsValid(Color("blue")))
		require.Equal(t, []Color{red, green}, Values[Color]())
	})

	t.Run("registering twice keeps one value", func(t *testing.T) {
		type Size string

		New(Size("s"))
		New(Size("s"))
		require.Len(t, Values[Size](), 1)
	})

	t.Run("unknown enum type", func(t *testing.T) {
		type Unknown string

		_, err := ToEnum[Unknown]("x")
		require.Error(t, err)
		require.False(t, IsValid(Unknown("x")))
		require.Nil(t, Values[Unknown]())
	})
}
