package app

// Scroller is the part of a scrollable view follow mode drives.
type Scroller interface {
	GotoBottom()
	AtBottom() bool
}

// FollowController keeps the transcript pinned to its newest entry until the
// user scrolls away.
type FollowController struct {
	on       bool
	scroller Scroller
}

func NewFollowController(scroller Scroller) *FollowController {
	return &FollowController{on: true, scroller: scroller}
}

func (f *FollowController) Enabled() bool {
	return f != nil && f.on
}

// OnGrowth scrolls to the bottom after new content, but only while following.
func (f *FollowController) OnGrowth() {
	if f == nil || !f.on || f.scroller == nil {
		return
	}
	f.scroller.GotoBottom()
}

// OnUserScroll records a manual scroll. Leaving the bottom pauses follow;
// scrolling down onto the bottom resumes it. It reports whether the mode
// changed.
func (f *FollowController) OnUserScroll(down bool) bool {
	if f == nil || f.scroller == nil {
		return false
	}
	atBottom := f.scroller.AtBottom()
	switch {
	case f.on && !atBottom:
		f.on = false
		return true
	case !f.on && atBottom && down:
		f.on = true
		return true
	}
	return false
}

// JumpToLatest turns follow on and scrolls once.
func (f *FollowController) JumpToLatest() {
	if f == nil {
		return
	}
	f.on = true
	if f.scroller != nil {
		f.scroller.GotoBottom()
	}
}

// Force turns follow on without scrolling; the next growth scrolls.
func (f *FollowController) Force() {
	if f == nil {
		return
	}
	f.on = true
}

func (f *FollowController) Status() string {
	if f.Enabled() {
		return "follow: on"
	}
	return "follow: paused"
}
