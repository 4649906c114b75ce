package occurrence

import (
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// CheckWKT verifies that s is a syntactically valid Well-Known Text
// polygon or multipolygon. The server is the final judge, so callers
// treat the result as a warning.
func CheckWKT(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return fmt.Errorf("invalid WKT: %w", err)
	}
	switch p := g.(type) {
	case *geom.Polygon:
		return checkRings(p)
	case *geom.MultiPolygon:
		for i := range p.NumPolygons() {
			if err = checkRings(p.Polygon(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("WKT is %T, not a polygon", g)
	}
}

func checkRings(p *geom.Polygon) error {
	for i := range p.NumLinearRings() {
		r := p.LinearRing(i)
		n := r.NumCoords()
		if n < 4 {
			return fmt.Errorf("polygon ring %d has %d points, need at least 4", i, n)
		}
		first, last := r.Coord(0), r.Coord(n-1)
		if !first.Equal(r.Layout(), last) {
			return fmt.Errorf("polygon ring %d is not closed", i)
		}
	}
	return nil
}
