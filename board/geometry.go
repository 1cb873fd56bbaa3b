package board

// Geometry maps cells back onto continuous space.
type Geometry struct {
	TileWidth float64
}

// Bounds is the rectangle covered by a cell.
type Bounds struct {
	SouthWest Point
	NorthEast Point
}

// Origin returns the south-west corner of the cell. It is also the point a
// "locate home" request centers on.
func (g Geometry) Origin(c *Cell) Point {
	return Point{
		Lat: float64(c.X()) * g.TileWidth,
		Lng: float64(c.Y()) * g.TileWidth,
	}
}

func (g Geometry) Bounds(c *Cell) Bounds {
	sw := g.Origin(c)
	return Bounds{
		SouthWest: sw,
		NorthEast: Point{Lat: sw.Lat + g.TileWidth, Lng: sw.Lng + g.TileWidth},
	}
}

// Contains reports whether p falls inside the half-open rectangle b.
func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat < b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng < b.NorthEast.Lng
}
