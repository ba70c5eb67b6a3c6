package main

import (
	"testing"

	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/logging"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	size, err := parseSize("120x40")
	require.NoError(t, err)
	assert.Equal(t, movable.Size{Width: 120, Height: 40}, size)

	for _, bad := range []string{"", "120", "0x40", "-5x3", "axb"} {
		_, err := parseSize(bad)
		assert.Error(t, err, bad)
	}

	p, err := parsePoint("-60,2.5")
	require.NoError(t, err)
	assert.Equal(t, movable.Point{X: -60, Y: 2.5}, p)

	_, err = parsePoint("left")
	assert.Error(t, err)
}

func TestSimulateDrag(t *testing.T) {
	viewport := movable.Size{Width: 120, Height: 39}
	size := movable.Size{Width: 34, Height: 9}

	outside := config.DefaultConfig().MovableOptions()
	outside.Contain = false
	outside.Snap.Outside = true

	tests := []struct {
		name string
		opts movable.Options
		drag movable.Point
		want snapReport
	}{
		{
			name: "snaps to the left edge",
			opts: config.DefaultConfig().MovableOptions(),
			drag: movable.Point{X: -40},
			want: snapReport{Placement: movable.Center, OffsetX: -42, X: 1, Y: 15},
		},
		{
			name: "small drag returns to the centre",
			opts: config.DefaultConfig().MovableOptions(),
			drag: movable.Point{X: 5, Y: -2},
			want: snapReport{Placement: movable.Center, X: 43, Y: 15},
		},
		{
			name: "peeks from outside the left edge",
			opts: outside,
			drag: movable.Point{X: -70},
			want: snapReport{Placement: movable.Center, OffsetX: -74, X: -31, Y: 15, Outside: "left"},
		},
		{
			name: "closes past the derived threshold",
			opts: outside,
			drag: movable.Point{X: -80},
			want: snapReport{Placement: movable.Center, OffsetX: -80, X: -37, Y: 15, Closed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := simulateDrag(tt.opts, viewport, size, tt.drag, logging.Discard())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimulateDragDisabled(t *testing.T) {
	opts := config.DefaultConfig().MovableOptions()
	opts.Disabled = true

	_, err := simulateDrag(opts, movable.Size{Width: 80, Height: 24}, movable.Size{Width: 10, Height: 5}, movable.Point{}, logging.Discard())
	assert.Error(t, err)
}
