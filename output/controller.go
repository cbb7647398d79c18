// SPDX-License-Identifier: EPL-2.0

package output

// Controller is the buffer-level controller: it watches each ring's
// fill level against low-water/target thresholds and issues credit
// requests toward the decode side. It runs in the non-RT loop only.
type Controller struct {
	lowWater int64
	target   int64
	credit   func(cueID string, frames int64)
}

// NewController builds a controller. credit is invoked for every ring
// whose buffered plus outstanding frames fall below lowWater, asking
// for enough to reach target.
func NewController(lowWater, target int64, credit func(cueID string, frames int64)) *Controller {
	if target < lowWater {
		target = lowWater
	}
	return &Controller{
		lowWater: lowWater,
		target:   target,
		credit:   credit,
	}
}

// Tick evaluates every ring once. Muted and EOF rings need no more
// audio and are skipped; outstanding-request bookkeeping keeps a slow
// decoder from being asked twice for the same frames.
func (c *Controller) Tick(rings []*Ring) {
	for _, r := range rings {
		if r.EOF() || r.Muted() {
			continue
		}
		have := r.Buffered() + r.OutstandingCredit()
		if have >= c.lowWater {
			continue
		}
		want := c.target - have
		if want <= 0 {
			continue
		}
		r.addOutstanding(want)
		c.credit(r.CueID(), want)
	}
}
