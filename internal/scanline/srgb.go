package scanline

import "math"

// LinearToSRGB applies the piecewise sRGB OETF to a single linear-light
// channel value in [0,1]. Only RGB channels are ever passed through this;
// alpha is untouched by callers.
func LinearToSRGB(c float32) float32 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return float32(1.055*math.Pow(float64(c), 1.0/2.4) - 0.055)
}

// SRGBToLinear applies the sRGB EOTF, C <= 0.04045 ? C/12.92 :
// ((C+0.055)/1.055)^2.4, to an encoded (sRGB) value to produce linear
// light; it is the inverse of LinearToSRGB.
func SRGBToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow(float64((c+0.055)/1.055), 2.4))
}
