package run

import (
	"fmt"
	"math"
)

// Score returns the HUD distance text.
func (c *Controller) Score() string {
	return fmt.Sprintf("%d m/ %d m", int(math.Round(c.distance)), int(math.Round(c.TotalDistance())))
}

// FPS returns the smoothed frame rate, or 0 before the first tick.
func (c *Controller) FPS() int {
	if c.fpsDelta <= 0 {
		return 0
	}
	return int(math.Round(1 / c.fpsDelta))
}

// ShowFPS reports whether the FPS counter is enabled.
func (c *Controller) ShowFPS() bool { return c.cfg.Debug.ShowFPS }
