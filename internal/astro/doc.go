// Package astro is the precision solver: double-precision sun and moon
// positions, horizon-event detection, and moon phase.
//
// # Models
//
// The sun uses a truncated NOAA-style series: mean longitude plus an
// equation-of-center correction in the mean anomaly, rotated to equatorial
// coordinates through the mean obliquity. The moon uses a Meeus ch. 47
// periodic-term expansion (47 longitude/distance terms, 43 latitude terms,
// eccentricity-corrected), followed by a topocentric parallax correction
// with Earth's oblateness. Skipping that correction moves moonrise and
// moonset by several minutes, so it is applied before altitude evaluation.
//
// # Rise/set detection
//
// Both bodies share the sampling-plus-bisection search in internal/solver,
// run at a 5-minute cadence with a -0.833 degree horizon for the sun and a
// configurable (default -0.3 degree) horizon for the moon. Days without a
// crossing classify as always-above or always-below by sample majority; see
// the solver package for why that policy is preserved verbatim.
package astro
