package astro

import (
	"math"

	"github.com/soniakeys/unit"
)

// Ecliptic holds the moon's geocentric ecliptic position.
type Ecliptic struct {
	Lon    unit.Angle
	Lat    unit.Angle
	DistKm float64
}

// Periodic-term tables for the lunar position (Meeus, Astronomical
// Algorithms ch. 47, truncated). Each term contributes
// coefficient * sin/cos(d*D + m*M + mp*M' + f*F), with the eccentricity
// factor E applied once per unit of |m|.
type moonTerm struct {
	d, m, mp, f int
	lon         float64 // sine coefficient, 1e-6 degrees
	dist        float64 // cosine coefficient, 1e-3 km
}

type moonLatTerm struct {
	d, m, mp, f int
	lat         float64 // sine coefficient, 1e-6 degrees
}

var moonLonDistTerms = []moonTerm{
	{0, 0, 1, 0, 6288774, -20905355},
	{2, 0, -1, 0, 1274027, -3699111},
	{2, 0, 0, 0, 658314, -2955968},
	{0, 0, 2, 0, 213618, -569925},
	{0, 1, 0, 0, -185116, 48888},
	{0, 0, 0, 2, -114332, -3149},
	{2, 0, -2, 0, 58793, 246158},
	{2, -1, -1, 0, 57066, -152138},
	{2, 0, 1, 0, 53322, -170733},
	{2, -1, 0, 0, 45758, -204586},
	{0, 1, -1, 0, -40923, -129620},
	{1, 0, 0, 0, -34720, 108743},
	{0, 1, 1, 0, -30383, 104755},
	{2, 0, 0, -2, 15327, 10321},
	{0, 0, 1, 2, -12528, 0},
	{0, 0, 1, -2, 10980, 79661},
	{4, 0, -1, 0, 10675, -34782},
	{0, 0, 3, 0, 10034, -23210},
	{4, 0, -2, 0, 8548, -21636},
	{2, 1, -1, 0, -7888, 24208},
	{2, 1, 0, 0, -6766, 30824},
	{1, 0, -1, 0, -5163, -8379},
	{1, 1, 0, 0, 4987, -16675},
	{2, -1, 1, 0, 4036, -12831},
	{2, 0, 2, 0, 3994, -10445},
	{4, 0, 0, 0, 3861, -11650},
	{2, 0, -3, 0, 3665, 14403},
	{0, 1, -2, 0, -2689, -7003},
	{2, 0, -1, 2, -2602, 0},
	{2, -1, -2, 0, 2390, 10056},
	{1, 0, 1, 0, -2348, 6322},
	{2, -2, 0, 0, 2236, -9884},
	{0, 1, 2, 0, -2120, 5751},
	{0, 2, 0, 0, -2069, 0},
	{2, -2, -1, 0, 2048, -4950},
	{2, 0, 1, -2, -1773, 4130},
	{2, 0, 0, 2, -1595, 0},
	{4, -1, -1, 0, 1215, -3958},
	{0, 0, 2, 2, -1110, 0},
	{3, 0, -1, 0, -892, 3258},
	{2, 1, 1, 0, -810, 2616},
	{4, -1, -2, 0, 759, -1897},
	{0, 2, -1, 0, -713, -2117},
	{2, 2, -1, 0, -700, 2354},
	{2, 1, -2, 0, 691, 0},
	{2, -1, 0, -2, 596, 0},
	{4, 0, 1, 0, 549, -1423},
}

var moonLatTerms = []moonLatTerm{
	{0, 0, 0, 1, 5128122},
	{0, 0, 1, 1, 280602},
	{0, 0, 1, -1, 277693},
	{2, 0, 0, -1, 173237},
	{2, 0, -1, 1, 55413},
	{2, 0, -1, -1, 46271},
	{2, 0, 0, 1, 32573},
	{0, 0, 2, 1, 17198},
	{2, 0, 1, -1, 9266},
	{0, 0, 2, -1, 8822},
	{2, -1, 0, -1, 8216},
	{2, 0, -2, -1, 4324},
	{2, 0, 1, 1, 4200},
	{2, 1, 0, -1, -3359},
	{2, -1, -1, 1, 2463},
	{2, -1, 0, 1, 2211},
	{2, -1, -1, -1, 2065},
	{0, 1, -1, -1, -1870},
	{4, 0, -1, -1, 1828},
	{0, 1, 0, 1, -1794},
	{0, 0, 0, 3, -1749},
	{0, 1, -1, 1, -1565},
	{1, 0, 0, 1, -1491},
	{0, 1, 1, 1, -1475},
	{0, 1, 1, -1, -1410},
	{0, 1, 0, -1, -1344},
	{1, 0, 0, -1, -1335},
	{0, 0, 3, 1, 1107},
	{4, 0, 0, -1, 1021},
	{4, 0, -1, 1, 833},
	{0, 0, 1, -3, 777},
	{4, 0, -2, 1, 671},
	{2, 0, 0, -3, 607},
	{2, 0, 2, -1, 596},
	{2, -1, 1, -1, 491},
	{2, 0, -2, 1, -451},
	{0, 0, 3, -1, 439},
	{2, 0, 2, 1, 422},
	{2, 0, -3, -1, 421},
	{2, 1, -1, 1, -366},
	{2, 1, 0, 1, -351},
	{4, 0, 0, 1, 331},
	{2, -1, 1, 1, 315},
}

// fundamentalArgs holds the five fundamental arguments of the lunar theory
// in radians, plus the eccentricity factor E.
type fundamentalArgs struct {
	lp, d, m, mp, f float64
	e               float64
}

func moonFundamentals(T float64) fundamentalArgs {
	lp := 218.3164477 + 481267.88123421*T - 0.0015786*T*T +
		T*T*T/538841 - T*T*T*T/65194000
	d := 297.8501921 + 445267.1114034*T - 0.0018819*T*T +
		T*T*T/545868 - T*T*T*T/113065000
	m := 357.5291092 + 35999.0502909*T - 0.0001536*T*T + T*T*T/24490000
	mp := 134.9633964 + 477198.8675055*T + 0.0087414*T*T +
		T*T*T/69699 - T*T*T*T/14712000
	f := 93.2720950 + 483202.0175233*T - 0.0036539*T*T -
		T*T*T/3526000 + T*T*T*T/863310000

	return fundamentalArgs{
		lp: unit.AngleFromDeg(normalizeDeg(lp)).Rad(),
		d:  unit.AngleFromDeg(normalizeDeg(d)).Rad(),
		m:  unit.AngleFromDeg(normalizeDeg(m)).Rad(),
		mp: unit.AngleFromDeg(normalizeDeg(mp)).Rad(),
		f:  unit.AngleFromDeg(normalizeDeg(f)).Rad(),
		e:  1 - 0.002516*T - 0.0000074*T*T,
	}
}

// eFactor applies the eccentricity correction for the term's sun-anomaly
// multiplier: E for |m| == 1, E*E for |m| == 2, 1 otherwise.
func (a fundamentalArgs) eFactor(m int) float64 {
	switch m {
	case 1, -1:
		return a.e
	case 2, -2:
		return a.e * a.e
	default:
		return 1
	}
}

// moonPosition evaluates the periodic-term expansion and returns the moon's
// geocentric ecliptic longitude, latitude, and distance.
func moonPosition(T float64) Ecliptic {
	args := moonFundamentals(T)

	var sumL, sumR float64
	for _, t := range moonLonDistTerms {
		arg := float64(t.d)*args.d + float64(t.m)*args.m +
			float64(t.mp)*args.mp + float64(t.f)*args.f
		e := args.eFactor(t.m)
		sumL += e * t.lon * math.Sin(arg)
		sumR += e * t.dist * math.Cos(arg)
	}

	var sumB float64
	for _, t := range moonLatTerms {
		arg := float64(t.d)*args.d + float64(t.m)*args.m +
			float64(t.mp)*args.mp + float64(t.f)*args.f
		sumB += args.eFactor(t.m) * t.lat * math.Sin(arg)
	}

	// Additive corrections for Venus (A1), Jupiter (A2), and flattening (A3).
	a1 := unit.AngleFromDeg(normalizeDeg(119.75 + 131.849*T)).Rad()
	a2 := unit.AngleFromDeg(normalizeDeg(53.09 + 479264.290*T)).Rad()
	a3 := unit.AngleFromDeg(normalizeDeg(313.45 + 481266.484*T)).Rad()

	sumL += 3958*math.Sin(a1) + 1962*math.Sin(args.lp-args.f) + 318*math.Sin(a2)
	sumB += -2235*math.Sin(args.lp) + 382*math.Sin(a3) +
		175*math.Sin(a1-args.f) + 175*math.Sin(a1+args.f) +
		127*math.Sin(args.lp-args.mp) - 115*math.Sin(args.lp+args.mp)

	lonDeg := normalizeDeg(args.lp*180/math.Pi + sumL/1e6)
	latDeg := sumB / 1e6
	distKm := 385000.56 + sumR/1e3

	return Ecliptic{
		Lon:    unit.AngleFromDeg(lonDeg),
		Lat:    unit.AngleFromDeg(latDeg),
		DistKm: distKm,
	}
}
