// Package geometry computes the source and destination rectangles for scaling
// operations.
//
// Solve is a pure function: it takes the current bitmap size and the desired
// size plus policy (sizing mode, whether enlarging is allowed, crop alignment)
// and returns a Plan describing which part of the source to sample and how
// large the result should be. A nil Plan means no resize is needed and the
// caller should hand back the image unchanged.
//
// # Sizing Modes
//
//   - Contain: the whole image stays visible and fits inside the target box.
//   - Cover: the target box is filled; the source is clipped on one axis.
//   - Exact: both dimensions are forced to the target, distorting if needed.
//
// When only one desired dimension is given the mode is ignored and the other
// dimension follows the source aspect ratio.
//
// # Alignment
//
// AlignX and AlignY are fractions in [0,1] placing the clipped sub-rectangle
// when Cover has to crop: 0 anchors at the left/top edge, 1 at the right/bottom
// edge and 0.5 centers it.
//
// # Rounding
//
// All rounding uses math.Round (halves away from zero). Dimensions in a
// returned Plan are never smaller than 1.
package geometry
