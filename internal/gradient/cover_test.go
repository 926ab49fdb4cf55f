package gradient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/pipegrade/internal/network"
)

func TestCoverHeights(t *testing.T) {
	shaft := manhole("s1", "Abwasser", 0, 0, 100)
	shaft.Type = network.ObjectTypeShaftRound

	p1 := pipe("p1", "Abwasser Gemeinde", pt(1, 0, 97), pt(40, 0, 95))
	p1.Dimension = network.Round(0.3)
	p2 := pipe("p2", "Abwasser Privat", pt(30, 2, 99), pt(0, 2, 96.5))
	p2.Dimension = network.Rectangular(0.4, 0.5)
	gas := pipe("g1", "Gas", pt(0, 1, 90), pt(20, 1, 90))
	far := pipe("far", "Abwasser", pt(50, 50, 80), pt(60, 50, 80))

	lonely := manhole("s2", "Abwasser", 500, 500, 120)
	shallow := manhole("s3", "Gas", 200, 0, 10)
	shallowPipe := pipe("g2", "Gas", pt(200, 1, 9.9), pt(230, 1, 9.5))
	valve := manhole("v1", "Abwasser", 1, 0, 100)
	valve.Type = network.ObjectTypeValve

	objects := []*network.Object{shaft, p1, p2, gas, far, lonely, shallow, shallowPipe, valve}
	before := make([][]float64, len(objects))
	for i, o := range objects {
		before[i] = o.Altitudes()
	}

	a := newTestAdjuster(t, nil)
	heights := a.CoverHeights(context.Background(), objects)
	require.Len(t, heights, 2)

	h := heights[0]
	assert.Same(t, shaft, h.Shaft)
	assert.Equal(t, []*network.Object{p1, p2}, h.ConnectedPipes)
	assert.Same(t, p2, h.LowestPipe)
	assert.Equal(t, 100.0, h.CoverElevation)
	assert.InDelta(t, 96.0, h.LowestPipeElevation, 1e-9)
	assert.InDelta(t, 4.0, h.HeightDifference, 1e-9)
	assert.InDelta(t, 4.0, h.ShaftHeight, 1e-9)
	assert.Contains(t, h.MediumCompatibility, "compatible prefix (Abwasser <-> Abwasser Gemeinde)")
	assert.Contains(t, h.MediumCompatibility, "Abwasser Privat")

	g := heights[1]
	assert.Same(t, shallow, g.Shaft)
	assert.InDelta(t, 0.1, g.HeightDifference, 1e-9)
	assert.Equal(t, 1.0, g.ShaftHeight, "raised to the minimum shaft height")

	for i, o := range objects {
		assert.Equal(t, before[i], o.Altitudes(), "object %s must not change", o.ID)
	}
}

func TestCoverHeights_TieKeepsFirstPipe(t *testing.T) {
	shaft := manhole("s", "Wasser", 0, 0, 50)
	a1 := pipe("a1", "Wasser", pt(1, 0, 48), pt(10, 0, 47))
	a2 := pipe("a2", "Wasser", pt(0, 1, 48), pt(0, 10, 47))

	heights := newTestAdjuster(t, nil).CoverHeights(context.Background(), []*network.Object{shaft, a1, a2})
	require.Len(t, heights, 1)
	assert.Same(t, a1, heights[0].LowestPipe)
	assert.Len(t, heights[0].ConnectedPipes, 2)
}

func TestCoverHeights_Empty(t *testing.T) {
	assert.Empty(t, newTestAdjuster(t, nil).CoverHeights(context.Background(), nil))
}
