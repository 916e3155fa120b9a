// Package domain models the records exchanged between the celestial solvers,
// the reconciler, and the rendering/transport collaborators.
//
// # Coordinate encoding
//
// Locations carry latitude and longitude as integers in millionths of a
// degree ("e6"), matching the wire schema and the fixed-point fallback
// solver, which never touches floating point. The UTC offset is a plain
// minute count; no timezone database or DST rules are modeled. The caller
// supplies the offset and local time is UTC shifted by it.
//
// # Event records
//
// SunEvents and MoonEvents report horizon crossings as minutes since local
// midnight (0-1439). Near the poles a day may have no crossing at all; that
// is reported through the explicit AlwaysDay/AlwaysNight (AlwaysUp/AlwaysDown)
// flags rather than sentinel minute values. The invariant is that exactly one
// of {normal, always-above, always-below} holds for a valid record; the
// minute fields are meaningful only in the normal case.
//
// # Moon phase
//
// MoonPhase is the cycle fraction in [0,1): 0 new, 0.5 full, wrapping at 1.
// It is derived from the sun-moon ecliptic elongation, not from rise/set, so
// it stays meaningful even when the moon record is degenerate.
package domain
