package models

// Size is a measured tile size in logical pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placement is where the masonry packer put one tile.
type Placement struct {
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the y coordinate just below the tile.
func (p Placement) Bottom() float64 {
	return p.Y + p.Height
}

// PackedLayout is the result of one full masonry pass. Placements are
// indexed like the input tiles.
type PackedLayout struct {
	Placements  []Placement `json:"placements"`
	Columns     int         `json:"columns"`
	TileWidth   float64     `json:"tileWidth"`
	TotalHeight float64     `json:"totalHeight"`
}
