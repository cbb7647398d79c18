// SPDX-License-Identifier: EPL-2.0

package output

import "testing"

type creditRecorder struct {
	calls map[string]int64
}

func (c *creditRecorder) credit(cueID string, frames int64) {
	if c.calls == nil {
		c.calls = make(map[string]int64)
	}
	c.calls[cueID] += frames
}

func TestController_RequestsUpToTarget(t *testing.T) {
	t.Parallel()

	rec := &creditRecorder{}
	ctrl := NewController(1000, 4000, rec.credit)

	r := NewRing("a", 1, 0)
	ctrl.Tick([]*Ring{r})

	if rec.calls["a"] != 4000 {
		t.Errorf("credited %d frames, want 4000", rec.calls["a"])
	}
	if r.OutstandingCredit() != 4000 {
		t.Errorf("OutstandingCredit() = %d, want 4000", r.OutstandingCredit())
	}
}

func TestController_OutstandingPreventsDoubleCredit(t *testing.T) {
	t.Parallel()

	rec := &creditRecorder{}
	ctrl := NewController(1000, 4000, rec.credit)

	r := NewRing("a", 1, 0)
	ctrl.Tick([]*Ring{r})
	ctrl.Tick([]*Ring{r})

	if rec.calls["a"] != 4000 {
		t.Errorf("credited %d frames across two ticks, want 4000", rec.calls["a"])
	}
}

func TestController_TopsUpAfterDelivery(t *testing.T) {
	t.Parallel()

	rec := &creditRecorder{}
	ctrl := NewController(1000, 4000, rec.credit)

	r := NewRing("a", 1, 0)
	ctrl.Tick([]*Ring{r})

	// 4000 delivered, 3500 of it already played out.
	r.Push(constSamples(4000, 1, 0), 4000, false, false)
	r.Pull(make([]float32, 3500))

	ctrl.Tick([]*Ring{r})
	if rec.calls["a"] != 4000+3500 {
		t.Errorf("credited %d frames, want %d", rec.calls["a"], 4000+3500)
	}
}

func TestController_SkipsSatisfiedRing(t *testing.T) {
	t.Parallel()

	rec := &creditRecorder{}
	ctrl := NewController(1000, 4000, rec.credit)

	r := NewRing("a", 1, 0)
	r.Push(constSamples(2000, 1, 0), 2000, false, false)

	ctrl.Tick([]*Ring{r})
	if len(rec.calls) != 0 {
		t.Errorf("credited a ring above its low-water mark: %v", rec.calls)
	}
}

func TestController_SkipsEOFAndMuted(t *testing.T) {
	t.Parallel()

	rec := &creditRecorder{}
	ctrl := NewController(1000, 4000, rec.credit)

	eofRing := NewRing("eof", 1, 0)
	eofRing.Push(constSamples(1, 1, 0), 1, true, false)

	mutedRing := NewRing("muted", 1, 0)
	mutedRing.markFadedOut()

	ctrl.Tick([]*Ring{eofRing, mutedRing})
	if len(rec.calls) != 0 {
		t.Errorf("credited finished rings: %v", rec.calls)
	}
}
