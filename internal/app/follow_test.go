package app

import "testing"

func TestFollowControllerScrollsOnlyWhileOn(t *testing.T) {
	scroller := &fakeScroller{atBottom: true}
	follow := NewFollowController(scroller)
	follow.OnGrowth()
	if scroller.gotos != 1 {
		t.Fatalf("expected one scroll, got %d", scroller.gotos)
	}
	scroller.atBottom = false
	if !follow.OnUserScroll(false) {
		t.Fatalf("expected follow to pause when leaving the bottom")
	}
	follow.OnGrowth()
	if scroller.gotos != 1 {
		t.Fatalf("expected no scroll while paused")
	}
	if follow.Status() != "follow: paused" {
		t.Fatalf("unexpected status %q", follow.Status())
	}
}

func TestFollowControllerResumesWhenScrolledDownToBottom(t *testing.T) {
	tests := []struct {
		name     string
		atBottom bool
		down     bool
		want     bool
	}{
		{name: "down onto bottom", atBottom: true, down: true, want: true},
		{name: "up at bottom", atBottom: true, down: false, want: false},
		{name: "down above bottom", atBottom: false, down: true, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scroller := &fakeScroller{}
			follow := NewFollowController(scroller)
			follow.OnUserScroll(false)
			scroller.atBottom = tt.atBottom
			follow.OnUserScroll(tt.down)
			if follow.Enabled() != tt.want {
				t.Fatalf("expected enabled=%v", tt.want)
			}
		})
	}
}

func TestFollowControllerForceWaitsForGrowth(t *testing.T) {
	scroller := &fakeScroller{}
	follow := NewFollowController(scroller)
	follow.OnUserScroll(false)
	follow.Force()
	if !follow.Enabled() || scroller.gotos != 0 {
		t.Fatalf("expected force to enable without scrolling")
	}
	follow.JumpToLatest()
	if scroller.gotos != 1 {
		t.Fatalf("expected jump to scroll once")
	}
}

func TestNilFollowControllerIsSafe(t *testing.T) {
	var follow *FollowController
	follow.OnGrowth()
	follow.JumpToLatest()
	if follow.Enabled() || follow.OnUserScroll(true) {
		t.Fatalf("nil follow controller must be inert")
	}
}
