package gridworld

import (
	"fmt"

	"github.com/fogleman/gg"

	"github.com/samuelfneumann/goirl/policy"
)

// cell size in pixels for policy images
const cellPx = 40

// SavePolicyImage renders the action a policy takes in every cell of
// the grid as an arrow and saves the result as a PNG. Goal cells are
// filled green and carry no arrow.
func (g *GridWorld) SavePolicyImage(pi policy.Policy, path string) error {
	dc := gg.NewContext(g.cols*cellPx, g.rows*cellPx)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			p := Position{x, y}
			px, py := float64(x*cellPx), float64(y*cellPx)

			if g.goals[p] {
				dc.SetRGB(0.3, 0.8, 0.3)
				dc.DrawRectangle(px, py, cellPx, cellPx)
				dc.Fill()
				continue
			}

			action, err := pi.ActionFor(p)
			if err != nil {
				return fmt.Errorf("savePolicyImage: %v", err)
			}
			drawArrow(dc, px, py, action.(Move))
		}
	}

	// Grid lines
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	for x := 0; x <= g.cols; x++ {
		dc.DrawLine(float64(x*cellPx), 0, float64(x*cellPx),
			float64(g.rows*cellPx))
	}
	for y := 0; y <= g.rows; y++ {
		dc.DrawLine(0, float64(y*cellPx), float64(g.cols*cellPx),
			float64(y*cellPx))
	}
	dc.Stroke()

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("savePolicyImage: could not save %v: %v",
			path, err)
	}
	return nil
}

// drawArrow draws an arrow for move m inside the cell whose top-left
// corner is (px, py).
func drawArrow(dc *gg.Context, px, py float64, m Move) {
	cx, cy := px+cellPx/2, py+cellPx/2
	r := float64(cellPx) * 0.3

	var dx, dy float64
	switch m {
	case Left:
		dx, dy = -r, 0
	case Right:
		dx, dy = r, 0
	case Up:
		dx, dy = 0, -r
	case Down:
		dx, dy = 0, r
	}

	dc.SetRGB(0.1, 0.1, 0.7)
	dc.SetLineWidth(2)
	dc.DrawLine(cx-dx, cy-dy, cx+dx, cy+dy)
	dc.Stroke()
	dc.DrawCircle(cx+dx, cy+dy, 3)
	dc.Fill()
}
