package numerics

import "math"

// Modified Bessel functions of the second kind, rational fits from
// Abramowitz & Stegun 9.8. Both switch between the small-argument
// series and the large-argument asymptotic expansion at x = 2.

// BesselK0 returns K0(x) for x > 0.
func BesselK0(x float64) float64 {
	if x <= 2 {
		t := x * x / 4
		return -math.Log(x/2)*besselI0(x) +
			(-0.57721566 + t*(0.42278420+t*(0.23069756+t*(0.03488590+
				t*(0.00262698+t*(0.00010750+t*0.00000740))))))
	}
	u := 2 / x
	return math.Exp(-x) / math.Sqrt(x) *
		(1.25331414 + u*(-0.07832358+u*(0.02189568+u*(-0.01062446+
			u*(0.00587872+u*(-0.00251540+u*0.00053208))))))
}

// BesselK1 returns K1(x) for x > 0.
func BesselK1(x float64) float64 {
	if x <= 2 {
		t := x * x / 4
		return math.Log(x/2)*besselI1(x) +
			(1/x)*(1+t*(0.15443144+t*(-0.67278579+t*(-0.18156897+
				t*(-0.01919402+t*(-0.00110404+t*-0.00004686))))))
	}
	u := 2 / x
	return math.Exp(-x) / math.Sqrt(x) *
		(1.25331414 + u*(0.23498619+u*(-0.03655620+u*(0.01504268+
			u*(-0.00780353+u*(0.00325614+u*-0.00068245))))))
}

func besselI0(x float64) float64 {
	t := x * x / (3.75 * 3.75)
	return 1 + t*(3.5156229+t*(3.0899424+t*(1.2067492+
		t*(0.2659732+t*(0.0360768+t*0.0045813)))))
}

func besselI1(x float64) float64 {
	t := x * x / (3.75 * 3.75)
	return x * (0.5 + t*(0.87890594+t*(0.51498869+t*(0.15084934+
		t*(0.02658733+t*(0.00301532+t*0.00032411))))))
}
