// Package glass_test pins the dispersion models to published values and the
// catalog contract (air, aliases, overrides, unknown names).
package glass_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optray/optray/glass"
)

func TestIndex_AirIsExactlyOne(t *testing.T) {
	c := glass.NewCatalog()
	for _, name := range []string{"", "AIR", "air", " Air "} {
		n, err := c.Index(name, 0.5876)
		require.NoError(t, err)
		assert.Equal(t, 1.0, n, "air must be exactly 1.0 for %q", name)
	}
}

func TestIndex_UnknownMaterial(t *testing.T) {
	c := glass.NewCatalog()
	_, err := c.Index("UNOBTAINIUM", 0.5876)
	assert.ErrorIs(t, err, glass.ErrMaterialUnknown)
}

func TestIndex_SellmeierNBK7(t *testing.T) {
	c := glass.NewCatalog()

	nd, err := c.Index("N-BK7", glass.WavelengthD)
	require.NoError(t, err)
	assert.InDelta(t, 1.5168, nd, 2e-4, "d-line index of N-BK7")

	nF, err := c.Index("N-BK7", glass.WavelengthF)
	require.NoError(t, err)
	nC, err := c.Index("N-BK7", glass.WavelengthC)
	require.NoError(t, err)
	assert.Greater(t, nF, nC, "normal dispersion: blue bends more")

	vd := (nd - 1) / (nF - nC)
	assert.InDelta(t, 64.17, vd, 0.3, "Abbe number from the Sellmeier curve")
}

func TestIndex_AliasesResolve(t *testing.T) {
	c := glass.NewCatalog()

	nAlias, err := c.Index("BK7", 0.55)
	require.NoError(t, err)
	nCanon, err := c.Index("N-BK7", 0.55)
	require.NoError(t, err)
	assert.Equal(t, nCanon, nAlias, "BK7 aliases N-BK7")
}

func TestIndex_AbbeModelPinnedAtD(t *testing.T) {
	c := glass.NewCatalog()
	c.Add(glass.Material{Name: "TESTCROWN", Formula: glass.Abbe, Nd: 1.60, Vd: 55})

	nd, err := c.Index("TESTCROWN", glass.WavelengthD)
	require.NoError(t, err)
	assert.InDelta(t, 1.60, nd, 1e-12, "Cauchy fit reproduces n_d exactly")

	nF, err := c.Index("TESTCROWN", glass.WavelengthF)
	require.NoError(t, err)
	nC, err := c.Index("TESTCROWN", glass.WavelengthC)
	require.NoError(t, err)
	assert.InDelta(t, (1.60-1)/55, nF-nC, 1e-12, "principal dispersion from Vd")
}

func TestCatalog_OverrideIsLocal(t *testing.T) {
	a := glass.NewCatalog()
	b := glass.NewCatalog()
	a.Add(glass.Material{Name: "N-BK7", Formula: glass.Constant, Nd: 2.0})

	na, err := a.Index("N-BK7", 0.5876)
	require.NoError(t, err)
	nb, err := b.Index("N-BK7", 0.5876)
	require.NoError(t, err)

	assert.Equal(t, 2.0, na, "override visible in the mutated catalog")
	assert.InDelta(t, 1.5168, nb, 2e-4, "other catalogs unaffected")
}
