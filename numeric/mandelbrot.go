package numeric

import "math"

// Mandelbrot returns a smoothed escape count for the point x+yi under
// z ← z² + c, or NaN if the point does not escape radius 2 within 1000
// iterations. Points in the main cardioid and the period-2 bulb are
// recognized without iterating.
func Mandelbrot(x, y float64) float64 {
	if x > -1.25 && x < 0.375 {
		if x < -0.75 {
			if y > -0.25 && y < 0.25 {
				x1 := x + 1
				if x1*x1+y*y <= 0.0625 {
					return math.NaN()
				}
			}
		} else if y > -0.65 && y < 0.65 {
			x1 := x - 0.25
			y2 := y * y
			q := x1*x1 + y2
			if q*(q+x1) <= 0.25*y2 {
				return math.NaN()
			}
		}
	}
	re, im := x, y
	for i := 0; i <= 1000; i++ {
		re2, im2 := re*re, im*im
		if re2+im2 > 4 {
			logZn := math.Log(re2+im2) / 2
			nu := math.Log(logZn*log2Inv) * log2Inv
			return (1.01 - math.Pow(float64(i)+1-nu, 0.001)) * 1000
		}
		im = 2*re*im + y
		re = re2 - im2 + x
	}
	return math.NaN()
}
