package zonalib

import (
	"encoding/json"
	"os"
	"sort"
)

// Category is one land-cover class as exported by the style collaborator.
type Category struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
	Color string `json:"color"` // #RRGGBB
}

// CategorySet is an ordered category definition, ascending by code.
type CategorySet []Category

// NewCategorySet validates and sorts a raw category list. Codes must be
// unique within one definition.
func NewCategorySet(cats []Category) (set CategorySet, err error) {
	if len(cats) == 0 {
		err = ErrNoCategories
		return
	}
	set = make(CategorySet, len(cats))
	copy(set, cats)
	sort.Slice(set, func(i, j int) bool { return set[i].Code < set[j].Code })
	for i := 1; i < len(set); i++ {
		if set[i].Code == set[i-1].Code {
			set = nil
			err = ErrDuplicateCode
			return
		}
	}
	for i := range set {
		if set[i].Color == "" {
			set[i].Color = "#888888"
		}
	}
	return
}

// LoadCategorySet reads the JSON category listing produced by the style
// parser at the interface boundary.
func LoadCategorySet(path string) (set CategorySet, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var cats []Category
	if err = json.Unmarshal(data, &cats); err != nil {
		return
	}
	return NewCategorySet(cats)
}

// Codes returns all category codes in ascending order.
func (s CategorySet) Codes() []int {
	codes := make([]int, len(s))
	for i, c := range s {
		codes[i] = c.Code
	}
	return codes
}

// Labels returns the labels in code order.
func (s CategorySet) Labels() []string {
	labels := make([]string, len(s))
	for i, c := range s {
		labels[i] = c.Label
	}
	return labels
}

// ValidCodes drops the excluded sentinel codes (mask/background), which are
// never aggregated.
func (s CategorySet) ValidCodes(excluded []int) []int {
	skip := make(map[int]struct{}, len(excluded))
	for _, code := range excluded {
		skip[code] = struct{}{}
	}
	codes := make([]int, 0, len(s))
	for _, c := range s {
		if _, ok := skip[c.Code]; ok {
			continue
		}
		codes = append(codes, c.Code)
	}
	return codes
}
