// Package gradient validates and corrects pipeline gradients.
//
// A pipeline must fall from its start point to its end point by at least
// a configured minimum gradient. The Adjuster pins pipeline endpoints to
// nearby manholes of a compatible medium when they exist, falls back to the
// pipeline's own terrain-model altitudes otherwise, and re-interpolates the
// interior points along the horizontal path.
//
// Gradients are percentages: (end altitude - start altitude) divided by the
// horizontal path length, times 100. Negative values mean downhill flow.
//
// The same package computes cover-to-pipe heights for shafts, which reuse
// the search radius and compatibility strategy of the Adjuster.
package gradient
