package zonalib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCategorySet(t *testing.T) {
	set, err := NewCategorySet([]Category{
		{Code: 14, Label: "forest", Color: "#2d6a4f"},
		{Code: 3, Label: "crop"},
		{Code: 7, Label: "water", Color: "#1d3557"},
	})
	require.NoError(t, err)
	require.Equal(t, []int{3, 7, 14}, set.Codes())
	require.Equal(t, []string{"crop", "water", "forest"}, set.Labels())
	require.Equal(t, "#888888", set[0].Color, "missing color gets the fallback")

	_, err = NewCategorySet(nil)
	require.ErrorIs(t, err, ErrNoCategories)

	_, err = NewCategorySet([]Category{{Code: 3}, {Code: 3}})
	require.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCategorySetValidCodes(t *testing.T) {
	set, err := NewCategorySet([]Category{
		{Code: CODE_MASK, Label: "mask"},
		{Code: 3, Label: "crop"},
		{Code: 7, Label: "water"},
		{Code: CODE_NODATA, Label: "nodata"},
	})
	require.NoError(t, err)
	require.Equal(t, []int{3, 7}, set.ValidCodes([]int{CODE_MASK, CODE_NODATA}))
	require.Equal(t, []int{0, 3, 7, 255}, set.ValidCodes(nil))
}

func TestLoadCategorySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	body := `[{"code":9,"label":"urban","color":"#999999"},{"code":3,"label":"crop","color":"#a7c957"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	set, err := LoadCategorySet(path)
	require.NoError(t, err)
	require.Equal(t, []int{3, 9}, set.Codes())
	require.Equal(t, "crop", set[0].Label)

	_, err = LoadCategorySet(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
