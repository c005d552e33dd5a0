package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.True(t, FileExists(path))
	require.False(t, FileExists(dir), "directories do not count")
}

func TestGetFilenameWithoutExt(t *testing.T) {
	require.Equal(t, "NDVI_2023-06", GetFilenameWithoutExt("/data/ndvi/NDVI_2023-06.tif"))
	require.Equal(t, "report", GetFilenameWithoutExt("report.csv"))
	require.Equal(t, "noext", GetFilenameWithoutExt("noext"))
}

func TestTmpPath(t *testing.T) {
	a, b := TmpPath("/out/stack.tif"), TmpPath("/out/stack.tif")
	require.True(t, strings.HasPrefix(a, "/out/stack.tif."))
	require.True(t, strings.HasSuffix(a, ".tmp"))
	require.NotEqual(t, a, b)
	require.Equal(t, "/out", filepath.Dir(a), "scratch file stays next to the output")
}

func TestListPeriodRasters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"NDVI_2023-07.tif",
		"NDVI_2022-12.tif",
		"NDVI_2023-01.tif",
		"NDVI_banana.tif", // period does not parse
		"NDVI_2023-02.txt",
		"landcover.tif",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "NDVI_2023-03.tif"), 0755))

	files, periods, err := ListPeriodRasters(dir, "NDVI_", ".tif")
	require.NoError(t, err)
	require.Equal(t, []string{"2022-12", "2023-01", "2023-07"}, periods)
	require.Len(t, files, 3)
	require.Equal(t, filepath.Join(dir, "NDVI_2022-12.tif"), files[0])
	require.Equal(t, filepath.Join(dir, "NDVI_2023-07.tif"), files[2])

	_, _, err = ListPeriodRasters(filepath.Join(dir, "nope"), "NDVI_", ".tif")
	require.Error(t, err)
}
