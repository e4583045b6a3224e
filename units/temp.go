package units

// TempDelta returns the offset added to a temperature after scaling from
// units named src to units named tgt. Pairs without a listed offset give 0.
//
// The table keys Rankine as "R" while the unit itself is written "°R", so
// conversions to or from °R by name never receive an offset.
func TempDelta(src, tgt string) float64 {
	switch src {
	case "°C":
		switch tgt {
		case "K":
			return 273.15
		case "°F":
			return 32
		case "R":
			return 491.67
		}
	case "K":
		switch tgt {
		case "°C":
			return -273.15
		case "°F":
			return -459.67
		}
	case "°F":
		switch tgt {
		case "°C":
			return -17
		case "K":
			return 255.372222222222
		case "R":
			return 459.67
		}
	case "R":
		switch tgt {
		case "°C":
			return -273.15
		case "°F":
			return -459.67
		}
	}
	return 0
}
