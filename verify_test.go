package zonalib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspectRaster(t *testing.T) {
	g := NewRasterToolbox()
	grid := newTestGrid(t, g, 4, 3)
	tif := filepath.Join(t.TempDir(), "a.tif")
	writeTestRaster(t, g, tif, grid, NewBlock(4, 3))

	info, err := g.InspectRaster(tif)
	require.NoError(t, err)
	require.Equal(t, "a.tif", info.File)
	require.Equal(t, "EPSG:32721", info.CRS)
	require.Equal(t, 4, info.Width)
	require.Equal(t, 3, info.Height)
	require.Equal(t, grid.Transform[1], info.ResX)
	require.Equal(t, -grid.Transform[5], info.ResY)
	require.Equal(t, 1, info.Bands)
	require.Equal(t, grid.Bounds(), info.Bounds)
}

func TestVerifyRasters(t *testing.T) {
	g := NewRasterToolbox()
	dir := t.TempDir()
	grid := newTestGrid(t, g, 2, 2)

	a := filepath.Join(dir, "a.tif")
	writeTestRaster(t, g, a, grid, NewBlock(2, 2))
	b := filepath.Join(dir, "b.tif")
	writeTestRaster(t, g, b, grid, NewBlock(2, 2))

	rep, err := g.VerifyRasters([]string{a, b})
	require.NoError(t, err)
	require.Len(t, rep.Infos, 2)
	require.Empty(t, rep.Failures)
	require.True(t, rep.Consistent())

	// A raster on a different grid breaks consistency but not the report.
	c := filepath.Join(dir, "c.tif")
	writeTestRaster(t, g, c, newTestGrid(t, g, 5, 5), NewBlock(5, 5))
	rep, err = g.VerifyRasters([]string{a, b, c})
	require.NoError(t, err)
	require.Len(t, rep.Infos, 3)
	require.False(t, rep.Consistent())
	require.Equal(t, 2, rep.Distinct["width"])

	// Unreadable files are collected as failures.
	rep, err = g.VerifyRasters([]string{a, filepath.Join(dir, "missing.tif")})
	require.NoError(t, err)
	require.Len(t, rep.Infos, 1)
	require.Len(t, rep.Failures, 1)

	_, err = g.VerifyRasters([]string{filepath.Join(dir, "missing.tif")})
	require.ErrorIs(t, err, ErrNoRasters)
}

func TestVerifyReportWriteCSV(t *testing.T) {
	g := NewRasterToolbox()
	dir := t.TempDir()
	tif := filepath.Join(dir, "a.tif")
	writeTestRaster(t, g, tif, newTestGrid(t, g, 2, 2), NewBlock(2, 2))

	rep, err := g.VerifyRasters([]string{tif})
	require.NoError(t, err)

	out := filepath.Join(dir, "report.csv")
	require.NoError(t, rep.WriteCSV(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "file,crs,width"))
	require.True(t, strings.HasPrefix(lines[1], "a.tif,EPSG:32721,2,2,"))
}

func TestCompareRasters(t *testing.T) {
	g := NewRasterToolbox()
	dir := t.TempDir()
	grid := newTestGrid(t, g, 2, 2)
	a := filepath.Join(dir, "a.tif")
	writeTestRaster(t, g, a, grid, NewBlock(2, 2))
	b := filepath.Join(dir, "b.tif")
	writeTestRaster(t, g, b, grid, NewBlock(2, 2))
	c := filepath.Join(dir, "c.tif")
	writeTestRaster(t, g, c, newTestGrid(t, g, 3, 3), NewBlock(3, 3))

	same, _, err := g.CompareRasters(a, b)
	require.NoError(t, err)
	require.True(t, same)

	same, _, err = g.CompareRasters(a, c)
	require.NoError(t, err)
	require.False(t, same)
}
