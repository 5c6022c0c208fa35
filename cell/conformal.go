package cell

import (
	"math"
	"math/cmplx"
)

// Series coefficients of the map from a regular polygon with 3 to 8
// corners onto the unit disc, for the centre and the corner expansion.
var ccCentre = [6][16]float64{
	// Triangle.
	{1.0000000000e+00, -.1666666865e+00, 0.3174602985e-01, -.5731921643e-02,
		0.1040112227e-02, -.1886279933e-03, 0.3421107249e-04, -.6204730198e-05,
		0.1125329618e-05, -.2040969207e-06, 0.3701631357e-07, -.6713513301e-08,
		0.1217605794e-08, -.2208327132e-09, 0.4005162868e-10, -.7264017512e-11},
	// Square.
	{1.0000000000e+00, -.1000000238e+00, 0.8333332837e-02, -.7051283028e-03,
		0.5967194738e-04, -.5049648280e-05, 0.4273189802e-06, -.3616123934e-07,
		0.3060091514e-08, -.2589557457e-09, 0.2191374859e-10, -.1854418528e-11,
		0.1569274224e-12, -.1327975205e-13, 0.1123779363e-14, -.9509817570e-16},
	// Pentagon.
	{1.0000000000e+00, -.6666666269e-01, 0.1212121220e-02, -.2626262140e-03,
		-.3322110570e-04, -.9413293810e-05, -.2570029210e-05, -.7695705904e-06,
		-.2422486887e-06, -.7945993730e-07, -.2691839640e-07, -.9361642128e-08,
		-.3327319087e-08, -.1204430555e-08, -.4428404310e-09, -.1650302672e-09},
	// Hexagon.
	{1.0000000000e+00, -.4761904851e-01, -.1221001148e-02, -.3753788769e-03,
		-.9415557724e-04, -.2862767724e-04, -.9587882232e-05, -.3441659828e-05,
		-.1299798896e-05, -.5103651119e-06, -.2066504408e-06, -.8578405186e-07,
		-.3635090096e-07, -.1567239494e-07, -.6857355572e-08, -.3038770346e-08},
	// Heptagon.
	{1.0000000000e+00, -.3571428731e-01, -.2040816238e-02, -.4936389159e-03,
		-.1446709794e-03, -.4963850370e-04, -.1877940667e-04, -.7600909157e-05,
		-.3232265954e-05, -.1427365532e-05, -.6493634714e-06, -.3026190711e-06,
		-.1438593245e-06, -.6953911225e-07, -.3409525462e-07, -.1692310647e-07},
	// Octagon.
	{1.0000000000e+00, -.2777777612e-01, -.2246732125e-02, -.5571441725e-03,
		-.1790652314e-03, -.6708275760e-04, -.2766949183e-04, -.1219387286e-04,
		-.5640039490e-05, -.2706697160e-05, -.1337270078e-05, -.6763995657e-06,
		-.3488264610e-06, -.1828456675e-06, -.9718036154e-07, -.5227070332e-07},
}

var ccCorner = [6][16]float64{
	// Triangle.
	{0.3333333135e+00, -.5555555597e-01, 0.1014109328e-01, -.1837154618e-02,
		0.3332451452e-03, -.6043842586e-04, 0.1096152027e-04, -.1988050826e-05,
		0.3605655365e-06, -.6539443120e-07, 0.1186035448e-07, -.2151069323e-08,
		0.3901317047e-09, -.7075676156e-10, 0.1283289534e-10, -.2327455936e-11},
	// Square.
	{1.0000000000e+00, -.5000000000e+00, 0.3000000119e+00, -.1750000119e+00,
		0.1016666889e+00, -.5916666612e-01, 0.3442307562e-01, -.2002724260e-01,
		0.1165192947e-01, -.6779119372e-02, 0.3944106400e-02, -.2294691978e-02,
		0.1335057430e-02, -.7767395582e-03, 0.4519091453e-03, -.2629216760e-03},
	// Pentagon.
	{0.1248050690e+01, -.7788147926e+00, 0.6355384588e+00, -.4899077415e+00,
		0.3713272810e+00, -.2838423252e+00, 0.2174729109e+00, -.1663445234e+00,
		0.1271933913e+00, -.9728997946e-01, 0.7442557812e-01, -.5692918226e-01,
		0.4354400188e-01, -.3330700099e-01, 0.2547712997e-01, -.1948769018e-01},
	// Hexagon.
	{0.1333333015e+01, -.8888888955e+00, 0.8395061493e+00, -.7242798209e+00,
		0.6016069055e+00, -.5107235312e+00, 0.4393203855e+00, -.3745460510e+00,
		0.3175755739e+00, -.2703750730e+00, 0.2308617830e+00, -.1966916919e+00,
		0.1672732830e+00, -.1424439549e+00, 0.1214511395e+00, -.1034612656e+00},
	// Heptagon.
	{0.1359752655e+01, -.9244638681e+00, 0.9593217969e+00, -.8771237731e+00,
		0.7490229011e+00, -.6677658558e+00, 0.6196745634e+00, -.5591596961e+00,
		0.4905325770e+00, -.4393517375e+00, 0.4029803872e+00, -.3631100059e+00,
		0.3199430704e+00, -.2866140604e+00, 0.2627358437e+00, -.2368256450e+00},
	// Octagon.
	{0.1362840652e+01, -.9286670089e+00, 0.1035511017e+01, -.9800255299e+00,
		0.8315343261e+00, -.7592730522e+00, 0.7612683773e+00, -.7132136226e+00,
		0.6074471474e+00, -.5554352999e+00, 0.5699443221e+00, -.5357525349e+00,
		0.4329345822e+00, -.3916820884e+00, 0.4401986003e+00, -.4197303057e+00},
}

// conformalMap maps z, in units of the tube radius, onto the unit disc
// and returns the image ww along with the derivative wd of the map.
func (c *Cell) conformalMap(z complex128) (ww, wd complex128) {
	const nterm = 15
	if z == 0 {
		return 0, complex(c.kappa, 0)
	}
	n := float64(c.ntube)
	cc1 := &ccCentre[c.ntube-3]
	cc2 := &ccCorner[c.ntube-3]
	if cmplx.Abs(z) < 0.75 {
		// Z is close to the centre: series expansion.
		zterm := cmplx.Pow(complex(c.kappa, 0)*z, complex(n, 0))
		var wdsum complex128
		wsum := complex(cc1[nterm], 0)
		for i := nterm; i > 0; i-- {
			wdsum = wsum + zterm*wdsum
			wsum = complex(cc1[i-1], 0) + zterm*wsum
		}
		ww = complex(c.kappa, 0) * z * wsum
		wd = complex(c.kappa, 0) * (wsum + complex(n, 0)*zterm*wdsum)
		return ww, wd
	}
	// Z is close to the edge: rotate to the first corner.
	arot := -2 * math.Pi *
		math.Round(math.Atan2(imag(z), real(z))*n/(2*math.Pi)) / n
	zz := z * cmplx.Exp(complex(0, arot))
	// Expansion around the corner.
	zterm := cmplx.Pow(complex(c.kappa, 0)*(1-zz), complex(n/(n-2), 0))
	var wdsum complex128
	wsum := complex(cc2[nterm], 0)
	for i := nterm; i > 0; i-- {
		wdsum = wsum + zterm*wdsum
		wsum = complex(cc2[i-1], 0) + zterm*wsum
	}
	ww = cmplx.Exp(complex(0, -arot)) * (1 - zterm*wsum)
	wd = complex(n*c.kappa/(n-2), 0) *
		cmplx.Pow(complex(c.kappa, 0)*(1-zz), complex(2/(n-2), 0)) *
		(wsum + zterm*wdsum)
	return ww, wd
}
