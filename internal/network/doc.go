// Package network models the objects of a buried infrastructure network
// (sewer, water, gas, cable) after they have been extracted from CAD drawings
// and populated with terrain elevations.
//
// An Object is either point-based (a shaft or manhole, exactly one point) or
// line-based (a pipeline or duct, two or more ordered points). Line-based
// objects are the only objects whose point altitudes are rewritten by the
// gradient adjuster; everything else is read-only input.
//
// Horizontal geometry is delegated to github.com/paulmach/orb so that all
// distance calculations ignore altitude consistently.
package network
