// utils/geohash.go
package utils

import (
	"math"
	"sort"
	"strings"
)

// CellPrecision is the canonical geohash length stored on user rows.
// 6 characters ≈ a 1.2km × 0.6km cell — coarse enough that we never
// hold anything close to raw coordinates.
const CellPrecision = 6

const geohashBase32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// EncodeCell encodes a coordinate into a fixed-precision geohash cell.
// Deterministic: the same input always yields the same cell.
func EncodeCell(lat, lon float64, precision int) string {
	if precision < 1 {
		precision = CellPrecision
	}
	if lat > 90 {
		lat = 90
	} else if lat < -90 {
		lat = -90
	}
	lon = wrapLon(lon)

	latMin, latMax := -90.0, 90.0
	lonMin, lonMax := -180.0, 180.0

	var sb strings.Builder
	bit := 0
	ch := 0
	evenBit := true // longitude first

	for sb.Len() < precision {
		if evenBit {
			mid := (lonMin + lonMax) / 2
			if lon >= mid {
				ch = ch<<1 | 1
				lonMin = mid
			} else {
				ch = ch << 1
				lonMax = mid
			}
		} else {
			mid := (latMin + latMax) / 2
			if lat >= mid {
				ch = ch<<1 | 1
				latMin = mid
			} else {
				ch = ch << 1
				latMax = mid
			}
		}
		evenBit = !evenBit
		bit++
		if bit == 5 {
			sb.WriteByte(geohashBase32[ch])
			bit = 0
			ch = 0
		}
	}
	return sb.String()
}

// NormalizeCell validates a stored cell and truncates it to the
// canonical precision. Invalid input yields "" (treated as "no
// location" by callers).
func NormalizeCell(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	if len(cell) < CellPrecision {
		return ""
	}
	cell = cell[:CellPrecision]
	for i := 0; i < len(cell); i++ {
		if !strings.ContainsRune(geohashBase32, rune(cell[i])) {
			return ""
		}
	}
	return cell
}

// CellCenter decodes a cell back to the center of its bounding box.
func CellCenter(cell string) (lat, lon float64, ok bool) {
	latMin, latMax := -90.0, 90.0
	lonMin, lonMax := -180.0, 180.0
	evenBit := true

	for i := 0; i < len(cell); i++ {
		idx := strings.IndexByte(geohashBase32, cell[i])
		if idx < 0 {
			return 0, 0, false
		}
		for b := 4; b >= 0; b-- {
			bit := (idx >> uint(b)) & 1
			if evenBit {
				mid := (lonMin + lonMax) / 2
				if bit == 1 {
					lonMin = mid
				} else {
					lonMax = mid
				}
			} else {
				mid := (latMin + latMax) / 2
				if bit == 1 {
					latMin = mid
				} else {
					latMax = mid
				}
			}
			evenBit = !evenBit
		}
	}
	return (latMin + latMax) / 2, (lonMin + lonMax) / 2, true
}

// CellsWithinRadius returns the cell plus the ring of neighbor cells
// whose combined coverage contains every point within radiusKm of the
// cell's center. Monotonic: a larger radius never yields a smaller
// ring, and the center cell is always included.
func CellsWithinRadius(cell string, radiusKm float64) []string {
	cell = NormalizeCell(cell)
	if cell == "" {
		return nil
	}
	lat, lon, ok := CellCenter(cell)
	if !ok {
		return nil
	}
	if radiusKm < 0 {
		radiusKm = 0
	}

	cellH, cellW := cellDims(len(cell)) // degrees lat, degrees lon

	// Degrees spanned by the radius at this latitude. 1° of latitude
	// ≈ 111.32km everywhere; longitude shrinks with cos(lat).
	radLatDeg := radiusKm / 111.32
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01 // polar cells: cap the lon blow-up
	}
	radLonDeg := radiusKm / (111.32 * cosLat)

	stepsLat := int(math.Ceil(radLatDeg / cellH))
	stepsLon := int(math.Ceil(radLonDeg / cellW))

	seen := make(map[string]struct{})
	for dy := -stepsLat; dy <= stepsLat; dy++ {
		nLat := lat + float64(dy)*cellH
		if nLat > 90 || nLat < -90 {
			continue
		}
		for dx := -stepsLon; dx <= stepsLon; dx++ {
			nLon := wrapLon(lon + float64(dx)*cellW)
			seen[EncodeCell(nLat, nLon, len(cell))] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// cellDims returns the (lat, lon) extent in degrees of one cell at the
// given geohash precision.
func cellDims(precision int) (latDeg, lonDeg float64) {
	lonBits := (5*precision + 1) / 2
	latBits := 5*precision - lonBits
	return 180 / math.Pow(2, float64(latBits)), 360 / math.Pow(2, float64(lonBits))
}

func wrapLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
