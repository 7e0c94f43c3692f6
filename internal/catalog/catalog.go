// Package catalog holds the shop's reference data: frame categories, frame
// colors and frame dimensions. Free-form strings coming from clients are
// validated here before they reach a form or a stored item.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownColor    = errors.New("unknown color")
)

// Unselected is the placeholder value clients send for "Select Category" /
// "Select Color". It parses to nil.
const Unselected = "other"

// Category is the URL parameter name of a frame category.
type Category string

// Color is the URL parameter name of a frame color.
type Color string

// Dimension is a frame size label, e.g. "8x10".
type Dimension string

// CategoryInfo is one entry of the category reference list.
type CategoryInfo struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	URLParamName Category `json:"urlParamName"`
}

// ColorInfo is one entry of the color reference list.
type ColorInfo struct {
	ID           int    `json:"id"`
	Color        string `json:"color"`
	URLParamName Color  `json:"urlParamName"`
}

// DimensionInfo is one entry of the dimension reference list.
type DimensionInfo struct {
	ID   int       `json:"id"`
	Size Dimension `json:"size"`
}

var categories = []CategoryInfo{
	{ID: 1, Name: "Wall Frames", URLParamName: "wall"},
	{ID: 2, Name: "Table Frames", URLParamName: "table"},
	{ID: 3, Name: "Collage Frames", URLParamName: "collage"},
	{ID: 4, Name: "Poster Frames", URLParamName: "poster"},
	{ID: 5, Name: "Shadow Boxes", URLParamName: "shadowbox"},
}

var frameColors = []ColorInfo{
	{ID: 1, Color: "Black", URLParamName: "black"},
	{ID: 2, Color: "White", URLParamName: "white"},
	{ID: 3, Color: "Gold", URLParamName: "gold"},
	{ID: 4, Color: "Silver", URLParamName: "silver"},
	{ID: 5, Color: "Natural Wood", URLParamName: "wood"},
	{ID: 6, Color: "Walnut", URLParamName: "walnut"},
}

var frameDimensions = []DimensionInfo{
	{ID: 1, Size: "5x7"},
	{ID: 2, Size: "8x10"},
	{ID: 3, Size: "11x14"},
	{ID: 4, Size: "16x20"},
	{ID: 5, Size: "18x24"},
	{ID: 6, Size: "24x36"},
}

// ReferenceData bundles every reference list for clients building selectors.
type ReferenceData struct {
	Categories []CategoryInfo  `json:"categories"`
	Colors     []ColorInfo     `json:"colors"`
	Dimensions []DimensionInfo `json:"dimensions"`
}

// Reference returns copies of the reference lists.
func Reference() ReferenceData {
	return ReferenceData{
		Categories: append([]CategoryInfo(nil), categories...),
		Colors:     append([]ColorInfo(nil), frameColors...),
		Dimensions: append([]DimensionInfo(nil), frameDimensions...),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseCategory validates s against the category list. Empty input and the
// placeholder yield (nil, nil).
func ParseCategory(s string) (*Category, error) {
	v := normalize(s)
	if v == "" || v == Unselected {
		return nil, nil
	}
	for _, c := range categories {
		if string(c.URLParamName) == v {
			cat := c.URLParamName
			return &cat, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ParseColor validates s against the color list. Empty input and the
// placeholder yield (nil, nil).
func ParseColor(s string) (*Color, error) {
	v := normalize(s)
	if v == "" || v == Unselected {
		return nil, nil
	}
	for _, c := range frameColors {
		if string(c.URLParamName) == v {
			col := c.URLParamName
			return &col, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// String returns "" for a nil category.
func (c *Category) String() string {
	if c == nil {
		return ""
	}
	return string(*c)
}

// String returns "" for a nil color.
func (c *Color) String() string {
	if c == nil {
		return ""
	}
	return string(*c)
}
