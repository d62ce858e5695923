package app

import (
	"reflect"
	"testing"

	tea "charm.land/bubbletea/v2"

	"agentview/internal/transcript"
	"agentview/internal/types"
)

func newTestSessionController(api SessionAPI) (*SessionController, *fakeScroller, *recordingNotifier) {
	scroller := &fakeScroller{atBottom: true}
	notifier := &recordingNotifier{}
	controller := NewSessionController(api, SessionControllerOptions{
		Scroller: scroller,
		Notifier: notifier,
	})
	return controller, scroller, notifier
}

// openChat runs the command returned by SendMessage and hands the result
// back to the controller, mimicking the update loop.
func openChat(t *testing.T, c *SessionController, cmd tea.Cmd) chatOpenedMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected chat command")
	}
	msg, ok := cmd().(chatOpenedMsg)
	if !ok {
		t.Fatalf("expected chatOpenedMsg")
	}
	c.HandleChatOpened(msg)
	return msg
}

func TestSendMessageWithoutSessionIsNoop(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, _ := newTestSessionController(api)
	if cmd := c.SendMessage("hello", nil); cmd != nil {
		t.Fatalf("expected no command without a session")
	}
	if c.State().Len() != 0 {
		t.Fatalf("expected empty transcript")
	}
}

func TestSendMessageAppendsUserEntryAndRequestsFromCursor(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, _ := newTestSessionController(api)
	c.sessionID = "s1"
	c.state.Apply(fixtureMessageEvent("e7", "assistant", "hi"))

	files := []types.FileInfo{{FileID: "f1", Filename: "a.txt"}, {Filename: "no-id"}}
	openChat(t, c, c.SendMessage("  run it  ", files))

	entries := c.State().Entries()
	if len(entries) != 3 {
		t.Fatalf("expected message, user entry and attachments, got %d", len(entries))
	}
	user, ok := entries[1].(transcript.UserMessage)
	if !ok || user.Content != "run it" || user.LocalID == "" {
		t.Fatalf("unexpected user entry: %#v", entries[1])
	}
	req := api.lastRequest()
	if req.Message != "run it" || req.EventID != "e7" {
		t.Fatalf("unexpected request: %#v", req)
	}
	if len(req.Attachments) != 1 || req.Attachments[0] != "f1" {
		t.Fatalf("unexpected attachments: %#v", req.Attachments)
	}
	if !c.Loading() || !c.Streaming() {
		t.Fatalf("expected loading with an open stream")
	}
	if c.State().LastEventID() != "e7" {
		t.Fatalf("local message must not move the cursor")
	}
}

func TestSecondSendCancelsFirstStream(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, _ := newTestSessionController(api)
	c.sessionID = "s1"

	first := openChat(t, c, c.SendMessage("one", nil)).stream.(*fakeStream)
	first.events <- fixtureMessageEvent("e1", "assistant", "partial")
	c.ConsumeTick()

	second := openChat(t, c, c.SendMessage("two", nil)).stream.(*fakeStream)
	if first.Cancelled() == 0 {
		t.Fatalf("expected first stream to be cancelled")
	}
	if second.Cancelled() != 0 {
		t.Fatalf("expected second stream to stay open")
	}
	if api.lastRequest().EventID != "e1" {
		t.Fatalf("expected resume from e1, got %q", api.lastRequest().EventID)
	}
	if c.stream.stream != second {
		t.Fatalf("expected controller to hold only the second stream")
	}
	var contents []string
	for _, entry := range c.State().Entries() {
		switch e := entry.(type) {
		case transcript.UserMessage:
			contents = append(contents, e.Content)
		case transcript.AssistantMessage:
			contents = append(contents, e.Content)
		}
	}
	if !reflect.DeepEqual(contents, []string{"one", "partial", "two"}) {
		t.Fatalf("entries from the cancelled stream must stay: %#v", contents)
	}
}

func TestStaleChatOpenIsCancelled(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, _ := newTestSessionController(api)
	c.sessionID = "s1"

	firstCmd := c.SendMessage("one", nil)
	secondCmd := c.SendMessage("two", nil)
	second := openChat(t, c, secondCmd).stream.(*fakeStream)
	first := openChat(t, c, firstCmd).stream.(*fakeStream)

	if first.Cancelled() == 0 {
		t.Fatalf("expected stale stream to be cancelled")
	}
	if c.stream.stream != second {
		t.Fatalf("expected newest stream to be kept")
	}
}

func TestChatOpenAfterNavigateIsCancelled(t *testing.T) {
	api := newFakeSessionAPI()
	api.sessions["s2"] = &types.Session{ID: "s2", Status: types.SessionStatusCompleted}
	c, _, _ := newTestSessionController(api)
	c.sessionID = "s1"

	cmd := c.SendMessage("one", nil)
	c.Navigate("s2")
	msg := openChat(t, c, cmd)
	if msg.stream.(*fakeStream).Cancelled() == 0 {
		t.Fatalf("expected stream for the old session to be cancelled")
	}
	if c.Streaming() {
		t.Fatalf("expected no stream after navigation")
	}
}

func TestConsumeTickFoldsEventsAndStopsOnDone(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, _ := newTestSessionController(api)
	c.sessionID = "s1"
	stream := openChat(t, c, c.SendMessage("go", nil)).stream.(*fakeStream)

	stream.events <- fixtureStepEvent("e1", "1", types.StepStatusRunning)
	stream.events <- fixtureToolEvent("e2", "t1", "shell", types.ToolStatusCalling)
	stream.events <- fixtureToolEvent("e3", "t1", "shell", types.ToolStatusCalled)
	stream.events <- fixtureDoneEvent("e4")
	stream.close(nil)

	if !c.ConsumeTick() {
		t.Fatalf("expected a change")
	}
	if c.Loading() {
		t.Fatalf("expected loading to stop")
	}
	if c.Streaming() {
		t.Fatalf("expected stream to be released after close")
	}
	if c.Status() != types.SessionStatusCompleted {
		t.Fatalf("expected completed status, got %q", c.Status())
	}
	if c.State().LastEventID() != "e4" {
		t.Fatalf("expected cursor e4, got %q", c.State().LastEventID())
	}
	ref, ok := c.State().ToolByID("t1")
	if !ok || c.Inspector().Focus() != ref {
		t.Fatalf("expected inspector to focus the shell tool")
	}
}

func TestTransportFailureNotifiesAndKeepsEntries(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, notifier := newTestSessionController(api)
	c.sessionID = "s1"
	stream := openChat(t, c, c.SendMessage("go", nil)).stream.(*fakeStream)

	stream.events <- fixtureMessageEvent("e1", "assistant", "working")
	stream.close(errTransport)
	c.ConsumeTick()

	if len(notifier.errors) != 1 {
		t.Fatalf("expected one error toast, got %#v", notifier.errors)
	}
	if c.Loading() {
		t.Fatalf("expected loading to stop")
	}
	if c.State().Len() != 2 {
		t.Fatalf("expected entries to be kept, got %d", c.State().Len())
	}
}

func TestChatOpenFailureNotifies(t *testing.T) {
	api := newFakeSessionAPI()
	api.chatErr = errTransport
	c, _, notifier := newTestSessionController(api)
	c.sessionID = "s1"
	openChat(t, c, c.SendMessage("go", nil))

	if c.Loading() || c.Streaming() {
		t.Fatalf("expected idle controller after failed open")
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected one error toast, got %#v", notifier.errors)
	}
}

func TestChatOpenFailureRestoresPreviousStatus(t *testing.T) {
	api := newFakeSessionAPI()
	api.chatErr = errTransport
	c, _, _ := newTestSessionController(api)
	c.sessionID = "s1"
	c.status = types.SessionStatusCompleted

	cmd := c.SendMessage("go", nil)
	if c.Status() != types.SessionStatusRunning {
		t.Fatalf("expected optimistic running status, got %q", c.Status())
	}
	openChat(t, c, cmd)
	if c.Status() != types.SessionStatusCompleted {
		t.Fatalf("expected status to fall back to completed, got %q", c.Status())
	}
}

func TestSendDuringRestoreIsRefused(t *testing.T) {
	api := newFakeSessionAPI()
	api.sessions["s1"] = &types.Session{
		ID:     "s1",
		Status: types.SessionStatusCompleted,
		Events: []types.Event{fixtureMessageEvent("e1", "assistant", "earlier")},
	}
	c, _, _ := newTestSessionController(api)

	fetch := c.Navigate("s1")
	if !c.Restoring() {
		t.Fatalf("expected restore to be pending")
	}
	if cmd := c.SendMessage("hi", nil); cmd != nil {
		t.Fatalf("expected send to be refused while restoring")
	}
	if c.State().Len() != 0 || len(api.requests) != 0 {
		t.Fatalf("refused send must not touch the transcript or the server")
	}

	c.HandleSessionFetched(fetch().(sessionFetchedMsg))
	if c.Restoring() || c.Loading() {
		t.Fatalf("expected idle controller after restore")
	}
	openChat(t, c, c.SendMessage("hi", nil))
	if req := api.lastRequest(); req.EventID != "e1" || req.Message != "hi" {
		t.Fatalf("expected send from the restored cursor, got %#v", req)
	}
	entries := c.State().Entries()
	if len(entries) != 2 {
		t.Fatalf("expected history plus the new message, got %d", len(entries))
	}
	if user, ok := entries[1].(transcript.UserMessage); !ok || user.Content != "hi" {
		t.Fatalf("unexpected entry %#v", entries[1])
	}
	if !c.Loading() || !c.Streaming() {
		t.Fatalf("expected loading with an open stream")
	}
}

func TestFailedRestoreAllowsSending(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, _ := newTestSessionController(api)
	c.HandleSessionFetched(c.Navigate("missing")().(sessionFetchedMsg))
	if c.Restoring() {
		t.Fatalf("expected restore to finish on error")
	}
	if cmd := c.SendMessage("retry", nil); cmd == nil {
		t.Fatalf("expected send after a failed restore")
	}
}

func TestRestoreReplaysWithoutMovingInspector(t *testing.T) {
	history := []types.Event{
		fixtureMessageEvent("e1", "user", "list files"),
		fixtureStepEvent("e2", "1", types.StepStatusRunning),
		fixtureToolEvent("e3", "t1", "shell", types.ToolStatusCalling),
		fixtureToolEvent("e4", "t1", "shell", types.ToolStatusCalled),
		fixtureToolEvent("e5", "t2", "file", types.ToolStatusCalled),
		fixtureStepEvent("e6", "1", types.StepStatusCompleted),
		fixtureMessageEvent("e7", "assistant", "done"),
		fixtureDoneEvent("e8"),
	}
	api := newFakeSessionAPI()
	api.sessions["s1"] = &types.Session{ID: "s1", Status: types.SessionStatusCompleted, Events: history}
	c, scroller, _ := newTestSessionController(api)

	notified := 0
	c.Inspector().SetFocusListener(func(transcript.ToolRef) { notified++ })

	cmd := c.Navigate("s1")
	msg, ok := cmd().(sessionFetchedMsg)
	if !ok {
		t.Fatalf("expected sessionFetchedMsg")
	}
	if after := c.HandleSessionFetched(msg); after == nil {
		t.Fatalf("expected clear-unread command")
	}

	direct := transcript.New()
	for _, event := range history {
		direct.Apply(event)
	}
	if !reflect.DeepEqual(c.State(), direct) {
		t.Fatalf("replayed state differs from a direct fold")
	}
	if notified != 0 {
		t.Fatalf("expected no focus notifications during replay, got %d", notified)
	}
	if !c.Inspector().Realtime() || c.Inspector().Focus() != direct.LastNoMessageTool() {
		t.Fatalf("expected real-time focus on the newest tool")
	}
	if c.Status() != types.SessionStatusCompleted || c.Loading() {
		t.Fatalf("unexpected status %q loading=%v", c.Status(), c.Loading())
	}
	if scroller.gotos == 0 {
		t.Fatalf("expected jump to latest after restore")
	}
}

func TestRestoreOfRunningSessionReattaches(t *testing.T) {
	api := newFakeSessionAPI()
	api.sessions["s1"] = &types.Session{
		ID:     "s1",
		Status: types.SessionStatusRunning,
		Events: []types.Event{fixtureMessageEvent("e1", "user", "hi")},
	}
	c, _, _ := newTestSessionController(api)

	msg := c.Navigate("s1")().(sessionFetchedMsg)
	batch := c.HandleSessionFetched(msg)
	if batch == nil {
		t.Fatalf("expected commands")
	}
	cmds, ok := batch().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch of commands")
	}
	var opened bool
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		if open, ok := cmd().(chatOpenedMsg); ok {
			c.HandleChatOpened(open)
			opened = true
		}
	}
	if !opened {
		t.Fatalf("expected a chat open for the running session")
	}
	req := api.lastRequest()
	if req.Message != "" || req.EventID != "e1" {
		t.Fatalf("unexpected reattach request: %#v", req)
	}
	if !c.Streaming() || !c.Loading() {
		t.Fatalf("expected live stream after reattach")
	}
	if c.State().Len() != 1 {
		t.Fatalf("reattach must not add a user entry")
	}
}

func TestStaleSessionFetchIsIgnored(t *testing.T) {
	api := newFakeSessionAPI()
	api.sessions["s1"] = &types.Session{ID: "s1", Events: []types.Event{fixtureMessageEvent("e1", "user", "old")}}
	api.sessions["s2"] = &types.Session{ID: "s2"}
	c, _, _ := newTestSessionController(api)

	first := c.Navigate("s1")().(sessionFetchedMsg)
	second := c.Navigate("s2")().(sessionFetchedMsg)
	c.HandleSessionFetched(second)
	if cmd := c.HandleSessionFetched(first); cmd != nil {
		t.Fatalf("expected stale fetch to be ignored")
	}
	if c.SessionID() != "s2" || c.State().Len() != 0 {
		t.Fatalf("stale history leaked into s2")
	}
}

func TestSessionFetchErrorNotifies(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, notifier := newTestSessionController(api)
	msg := c.Navigate("missing")().(sessionFetchedMsg)
	c.HandleSessionFetched(msg)
	if len(notifier.errors) != 1 || c.Loading() {
		t.Fatalf("expected error toast and idle controller")
	}
}

func TestPinnedInspectorIgnoresLiveTools(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, _ := newTestSessionController(api)
	c.sessionID = "s1"
	stream := openChat(t, c, c.SendMessage("go", nil)).stream.(*fakeStream)

	stream.events <- fixtureToolEvent("e1", "t1", "shell", types.ToolStatusCalling)
	c.ConsumeTick()
	first, _ := c.State().ToolByID("t1")
	c.PinTool(first)

	stream.events <- fixtureToolEvent("e2", "t2", "browser", types.ToolStatusCalling)
	c.ConsumeTick()
	if c.Inspector().Focus() != first || c.Inspector().Realtime() {
		t.Fatalf("pinned focus must not move")
	}

	c.JumpToRealtime()
	second, _ := c.State().ToolByID("t2")
	if c.Inspector().Focus() != second || !c.Inspector().Realtime() {
		t.Fatalf("expected jump back to the newest tool")
	}
	if !c.InspectorLive() {
		t.Fatalf("expected a calling tool to be live")
	}
}

func TestFollowPausesAndResumes(t *testing.T) {
	api := newFakeSessionAPI()
	c, scroller, _ := newTestSessionController(api)
	c.sessionID = "s1"
	stream := openChat(t, c, c.SendMessage("go", nil)).stream.(*fakeStream)
	baseline := scroller.gotos

	stream.events <- fixtureMessageEvent("e1", "assistant", "one")
	c.ConsumeTick()
	if scroller.gotos != baseline+1 {
		t.Fatalf("expected follow to scroll on growth")
	}

	scroller.atBottom = false
	c.Follow().OnUserScroll(false)
	stream.events <- fixtureMessageEvent("e2", "assistant", "two")
	c.ConsumeTick()
	if scroller.gotos != baseline+1 || c.Follow().Enabled() {
		t.Fatalf("expected paused follow to leave the viewport alone")
	}

	c.Follow().JumpToLatest()
	stream.events <- fixtureMessageEvent("e3", "assistant", "three")
	c.ConsumeTick()
	if scroller.gotos != baseline+3 {
		t.Fatalf("expected follow to resume, gotos=%d", scroller.gotos)
	}
}

func TestStopCallsServer(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, _ := newTestSessionController(api)
	if c.Stop() != nil {
		t.Fatalf("expected no stop without a session")
	}
	c.sessionID = "s1"
	msg := c.Stop()().(stopSessionMsg)
	c.HandleStopped(msg)
	if len(api.stopped) != 1 || api.stopped[0] != "s1" {
		t.Fatalf("unexpected stop calls: %#v", api.stopped)
	}
}

func TestTeardownCancelsStream(t *testing.T) {
	api := newFakeSessionAPI()
	c, _, _ := newTestSessionController(api)
	c.sessionID = "s1"
	stream := openChat(t, c, c.SendMessage("go", nil)).stream.(*fakeStream)
	c.Teardown()
	if stream.Cancelled() == 0 || c.Streaming() || c.Loading() {
		t.Fatalf("expected teardown to cancel the stream")
	}
}

func TestNilSessionControllerIsSafe(t *testing.T) {
	var c *SessionController
	if c.SendMessage("x", nil) != nil || c.Restore("s") != nil || c.Navigate("s") != nil {
		t.Fatalf("expected nil commands")
	}
	c.Teardown()
	c.ConsumeTick()
}
