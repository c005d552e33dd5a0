package zonalib

import (
	"encoding/json"
	"math"
)

// NanFloat marshals NaN as JSON null; encoding/json rejects NaN outright.
type NanFloat float64

func (f NanFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

func (f *NanFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NanFloat(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = NanFloat(v)
	return nil
}

// Bounds is a georeferenced box in CRS units.
type Bounds struct {
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
}

func (b Bounds) Valid() bool {
	return b.Left < b.Right && b.Bottom < b.Top
}

// Block is one window's worth of single-band pixels, row-major.
// It is owned by the current loop iteration and never aliased across windows.
type Block struct {
	Data []float32
	W, H int
}

func NewBlock(w, h int) Block {
	return Block{Data: make([]float32, w*h), W: w, H: h}
}

func (b Block) At(row, col int) float32 {
	return b.Data[row*b.W+col]
}

func (b Block) Set(row, col int, v float32) {
	b.Data[row*b.W+col] = v
}

func (b Block) Fill(v float32) {
	for i := range b.Data {
		b.Data[i] = v
	}
}

// SeasonSeries is one season's monthly zonal means, keyed by category code.
type SeasonSeries struct {
	Categories []int              `json:"categories"`
	Labels     []string           `json:"labels"`
	ByCategory map[int][]NanFloat `json:"ndvi_by_category"`
	Months     []string           `json:"months"`
}

// ZonalSeries is the persisted result of a full zonal-statistics run,
// one entry per season.
type ZonalSeries map[string]SeasonSeries
