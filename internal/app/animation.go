package app

import (
	"math"

	"github.com/Gaurav-Gosain/tuikit/internal/config"
	"github.com/Gaurav-Gosain/tuikit/internal/movable"
	"github.com/charmbracelet/harmonica"
)

// settleEpsilon is how close the eased position has to get, in cells and
// cells per frame, before it locks onto the target.
const settleEpsilon = 0.01

// Glide eases the drawn panel position toward the engine's target with a
// damped spring. The engine decides where the panel goes; Glide only decides
// how the frames in between look.
type Glide struct {
	spring harmonica.Spring
	pos    movable.Point
	vel    movable.Point
	target movable.Point
	moving bool
}

// NewGlide returns a Glide resting at p.
func NewGlide(p movable.Point) *Glide {
	return &Glide{
		spring: harmonica.NewSpring(harmonica.FPS(config.NormalFPS), config.SpringFrequency, config.SpringDamping),
		pos:    p,
		target: p,
	}
}

// SetTarget starts easing toward p.
func (g *Glide) SetTarget(p movable.Point) {
	if p == g.target && !g.moving {
		return
	}
	g.target = p
	g.moving = g.pos != p
}

// Jump moves straight to p, as during a drag where the panel must stay under
// the pointer.
func (g *Glide) Jump(p movable.Point) {
	g.pos, g.target, g.vel = p, p, movable.Point{}
	g.moving = false
}

// Step advances one frame and reports whether the glide is still moving.
func (g *Glide) Step() bool {
	if !g.moving {
		return false
	}
	g.pos.X, g.vel.X = g.spring.Update(g.pos.X, g.vel.X, g.target.X)
	g.pos.Y, g.vel.Y = g.spring.Update(g.pos.Y, g.vel.Y, g.target.Y)

	if near(g.pos.X, g.target.X) && near(g.pos.Y, g.target.Y) && near(g.vel.X, 0) && near(g.vel.Y, 0) {
		g.Jump(g.target)
	}
	return g.moving
}

// Moving reports whether frames are still needed.
func (g *Glide) Moving() bool { return g.moving }

// Cell returns the position rounded to the terminal grid.
func (g *Glide) Cell() (x, y int) {
	return int(math.Round(g.pos.X)), int(math.Round(g.pos.Y))
}

func near(a, b float64) bool {
	return math.Abs(a-b) < settleEpsilon
}
