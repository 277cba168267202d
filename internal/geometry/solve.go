package geometry

import (
	"fmt"
	"math"
)

// Solve computes the resize plan for req.
//
// Returns:
//   - *Plan: the source rectangle and destination size, or nil when no resize
//     is needed (target already met, or enlarging required but not allowed).
//     A nil plan is not a failure.
//   - error: wraps ErrInvalidArgument when req is malformed.
//
// # Cases
//
// Only one desired dimension: the other follows the source aspect ratio and
// the full source is used. Nothing is done when the dimension already matches
// or would grow while AllowIncrease is false.
//
// Exact: the destination is the desired size, clamped per axis to the current
// size when AllowIncrease is false. Nothing is done when the size already
// matches, or when both axes would have to grow and growth is not allowed.
// If only one axis would grow, that axis alone is clamped.
//
// Contain and Cover: a single scale factor is chosen. Contain fits the more
// constraining axis, Cover the less constraining one. The scale is capped at 1
// when AllowIncrease is false. The sampled source area is the desired box
// divided by the scale, limited to the source, and positioned by AlignX/AlignY.
func Solve(req Request) (*Plan, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	switch {
	case req.Height == 0:
		return solveWidth(req), nil
	case req.Width == 0:
		return solveHeight(req), nil
	case req.Mode == Exact:
		return solveExact(req), nil
	default:
		return solveScaled(req), nil
	}
}

func validate(req Request) error {
	if req.CurWidth < 1 || req.CurHeight < 1 {
		return fmt.Errorf("current size %dx%d must be positive: %w", req.CurWidth, req.CurHeight, ErrInvalidArgument)
	}
	if req.Width < 0 || req.Height < 0 {
		return fmt.Errorf("desired size %dx%d must not be negative: %w", req.Width, req.Height, ErrInvalidArgument)
	}
	if req.Width == 0 && req.Height == 0 {
		return fmt.Errorf("width or height is required: %w", ErrInvalidArgument)
	}
	if req.Mode < Contain || req.Mode > Exact {
		return fmt.Errorf("unknown sizing mode %v: %w", req.Mode, ErrInvalidArgument)
	}
	if !unit(req.AlignX) || !unit(req.AlignY) {
		return fmt.Errorf("alignment (%g,%g) must be within [0,1]: %w", req.AlignX, req.AlignY, ErrInvalidArgument)
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

func solveWidth(req Request) *Plan {
	if req.Width == req.CurWidth || (!req.AllowIncrease && req.Width > req.CurWidth) {
		return nil
	}
	height := round(float64(req.Width) * float64(req.CurHeight) / float64(req.CurWidth))
	return &Plan{
		Src:    Rect{Width: req.CurWidth, Height: req.CurHeight},
		Width:  req.Width,
		Height: atLeastOne(height),
	}
}

func solveHeight(req Request) *Plan {
	if req.Height == req.CurHeight || (!req.AllowIncrease && req.Height > req.CurHeight) {
		return nil
	}
	width := round(float64(req.Height) * float64(req.CurWidth) / float64(req.CurHeight))
	return &Plan{
		Src:    Rect{Width: req.CurWidth, Height: req.CurHeight},
		Width:  atLeastOne(width),
		Height: req.Height,
	}
}

func solveExact(req Request) *Plan {
	if req.Width == req.CurWidth && req.Height == req.CurHeight {
		return nil
	}
	// Only growth on both axes at once short-circuits; a single growing axis is clamped below.
	if !req.AllowIncrease && req.Width > req.CurWidth && req.Height > req.CurHeight {
		return nil
	}

	width, height := req.Width, req.Height
	if !req.AllowIncrease {
		width = min(width, req.CurWidth)
		height = min(height, req.CurHeight)
	}
	return &Plan{
		Src:    Rect{Width: req.CurWidth, Height: req.CurHeight},
		Width:  width,
		Height: height,
	}
}

func solveScaled(req Request) *Plan {
	curW, curH := float64(req.CurWidth), float64(req.CurHeight)
	desW, desH := float64(req.Width), float64(req.Height)

	curRatio := curW / curH
	desRatio := desW / desH

	var scale float64
	if (req.Mode == Contain) != (curRatio > desRatio) {
		scale = desH / curH
	} else {
		scale = desW / curW
	}

	if !req.AllowIncrease && scale > 1 {
		scale = 1
	}
	if scale == 1 && req.Width > req.CurWidth && req.Height > req.CurHeight {
		return nil
	}

	srcW := atLeastOne(min(round(desW/scale), req.CurWidth))
	srcH := atLeastOne(min(round(desH/scale), req.CurHeight))

	return &Plan{
		Src: Rect{
			X:      round(float64(req.CurWidth-srcW) * req.AlignX),
			Y:      round(float64(req.CurHeight-srcH) * req.AlignY),
			Width:  srcW,
			Height: srcH,
		},
		Width:  atLeastOne(min(req.Width, round(curW*scale))),
		Height: atLeastOne(min(req.Height, round(curH*scale))),
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
