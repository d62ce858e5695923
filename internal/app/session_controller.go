package app

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"agentview/internal/client"
	"agentview/internal/logging"
	"agentview/internal/transcript"
	"agentview/internal/types"
)

const defaultMaxEventsPerTick = 64

// Notifier surfaces controller failures to the user.
type Notifier interface {
	NotifyError(message string)
	NotifyInfo(message string)
}

type nopNotifier struct{}

func (nopNotifier) NotifyError(string) {}
func (nopNotifier) NotifyInfo(string)  {}

// SessionController owns the current session: its transcript, its single
// chat stream, follow mode and the inspector focus. All methods run on the
// update goroutine; network work is returned as commands.
type SessionController struct {
	api       SessionAPI
	notifier  Notifier
	logger    logging.Logger
	stream    *StreamController
	follow    *FollowController
	inspector *Inspector
	state     *transcript.State
	now       func() time.Time

	sessionID  string
	status     types.SessionStatus
	sentFrom   types.SessionStatus
	loading    bool
	replaying  bool
	restoring  bool
	sendSeq    int
	restoreSeq int
}

type SessionControllerOptions struct {
	MaxEventsPerTick int
	LiveWindow       time.Duration
	Scroller         Scroller
	Notifier         Notifier
	Logger           logging.Logger
}

func NewSessionController(api SessionAPI, opts SessionControllerOptions) *SessionController {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &SessionController{
		api:       api,
		notifier:  notifier,
		logger:    logger,
		stream:    NewStreamController(opts.MaxEventsPerTick),
		follow:    NewFollowController(opts.Scroller),
		inspector: NewInspector(opts.LiveWindow),
		state:     transcript.New(),
		now:       time.Now,
	}
}

func (c *SessionController) SessionID() string {
	if c == nil {
		return ""
	}
	return c.sessionID
}

func (c *SessionController) Status() types.SessionStatus {
	if c == nil {
		return ""
	}
	return c.status
}

func (c *SessionController) Loading() bool {
	return c != nil && c.loading
}

// Restoring reports whether the history fetch for the session is pending.
// Sends are refused until it returns, since the replay rebuilds the
// transcript from scratch.
func (c *SessionController) Restoring() bool {
	return c != nil && c.restoring
}

func (c *SessionController) Streaming() bool {
	return c != nil && c.stream.Active()
}

func (c *SessionController) State() *transcript.State {
	if c == nil {
		return nil
	}
	return c.state
}

func (c *SessionController) Follow() *FollowController {
	if c == nil {
		return nil
	}
	return c.follow
}

func (c *SessionController) Inspector() *Inspector {
	if c == nil {
		return nil
	}
	return c.inspector
}

// SendMessage posts text and opens a fresh stream from the current cursor.
// An empty text only re-attaches to a running agent. Entries already folded
// stay when an older stream is cancelled. Nothing is sent while a restore is
// pending.
func (c *SessionController) SendMessage(text string, attachments []types.FileInfo) tea.Cmd {
	if c == nil || c.api == nil || c.sessionID == "" || c.restoring {
		return nil
	}
	c.stream.Reset()
	text = strings.TrimSpace(text)
	now := c.now()
	if text != "" {
		c.state.AppendUserMessage(uuid.NewString(), text, attachments, now)
	}
	c.follow.Force()
	c.follow.OnGrowth()
	c.loading = true
	c.sentFrom = c.status
	c.status = types.SessionStatusRunning
	c.sendSeq++

	req := client.ChatRequest{
		Message:   text,
		Timestamp: types.NewTimestamp(now),
		EventID:   c.state.LastEventID(),
	}
	for _, file := range attachments {
		if file.FileID != "" {
			req.Attachments = append(req.Attachments, file.FileID)
		}
	}
	c.logger.Debug("chat open",
		logging.F("session_id", c.sessionID),
		logging.F("seq", c.sendSeq),
		logging.F("cursor", req.EventID),
		logging.F("attachments", len(req.Attachments)),
	)
	return openChatCmd(c.api, c.sessionID, c.sendSeq, req)
}

// HandleChatOpened attaches a freshly opened stream, unless the user has
// moved on since it was requested, in which case it is cancelled unseen.
func (c *SessionController) HandleChatOpened(msg chatOpenedMsg) {
	if c == nil {
		return
	}
	if msg.id != c.sessionID || msg.seq != c.sendSeq {
		if msg.stream != nil {
			msg.stream.Cancel()
		}
		c.logger.Debug("chat stale", logging.F("session_id", msg.id), logging.F("seq", msg.seq))
		return
	}
	if msg.err != nil {
		c.loading = false
		c.status = c.sentFrom
		c.logger.Warn("chat open failed", logging.F("session_id", msg.id), logging.Err(msg.err))
		c.notifier.NotifyError("chat error: " + msg.err.Error())
		return
	}
	c.stream.SetStream(msg.stream)
}

// ConsumeTick folds the events that arrived since the last tick and reports
// whether the transcript changed.
func (c *SessionController) ConsumeTick() bool {
	if c == nil {
		return false
	}
	events, closed, err := c.stream.ConsumeTick()
	changed := false
	for _, event := range events {
		if c.apply(event) {
			changed = true
		}
	}
	if closed {
		c.loading = false
		if err != nil {
			c.logger.Warn("chat stream failed", logging.F("session_id", c.sessionID), logging.Err(err))
			c.notifier.NotifyError("stream error: " + err.Error())
		}
	}
	if changed {
		c.follow.OnGrowth()
	}
	return changed || closed
}

func (c *SessionController) apply(event types.Event) bool {
	effect := c.state.Apply(event)
	if effect.StopLoading || effect.Terminal {
		c.loading = false
	}
	if effect.Status != "" {
		c.status = effect.Status
	}
	if effect.LiveTool != transcript.NoTool && !c.replaying {
		c.inspector.OnLiveTool(effect.LiveTool)
	}
	return effect.Changed || effect.TitleChanged || effect.PlanChanged
}

// Stop asks the server to stop the agent. The local stream stays open and
// ends when the server closes it.
func (c *SessionController) Stop() tea.Cmd {
	if c == nil || c.api == nil || c.sessionID == "" {
		return nil
	}
	return stopSessionCmd(c.api, c.sessionID)
}

func (c *SessionController) HandleStopped(msg stopSessionMsg) {
	if c == nil || msg.err == nil {
		return
	}
	c.notifier.NotifyError("stop error: " + msg.err.Error())
}

// Restore loads the session's history. The transcript is rebuilt when the
// fetch returns.
func (c *SessionController) Restore(sessionID string) tea.Cmd {
	if c == nil || c.api == nil {
		return nil
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	c.sessionID = sessionID
	c.restoreSeq++
	c.restoring = true
	c.loading = true
	return fetchSessionCmd(c.api, sessionID, c.restoreSeq)
}

// HandleSessionFetched replays the history without moving the inspector,
// then re-enters real-time mode and re-attaches if the agent is still
// working.
func (c *SessionController) HandleSessionFetched(msg sessionFetchedMsg) tea.Cmd {
	if c == nil || msg.id != c.sessionID || msg.seq != c.restoreSeq {
		return nil
	}
	c.restoring = false
	c.loading = c.stream.Active()
	if msg.err != nil {
		c.logger.Warn("session fetch failed", logging.F("session_id", msg.id), logging.Err(msg.err))
		c.notifier.NotifyError("session error: " + msg.err.Error())
		return nil
	}
	session := msg.session
	if session == nil {
		return nil
	}
	c.state.Reset()
	c.replaying = true
	for _, event := range session.Events {
		c.apply(event)
	}
	c.replaying = false
	if session.Title != "" {
		c.state.SetTitle(session.Title)
	}
	c.status = session.Status
	c.inspector.JumpToRealtime(c.state)
	c.follow.JumpToLatest()
	c.logger.Info("session restored",
		logging.F("session_id", session.ID),
		logging.F("events", len(session.Events)),
		logging.F("skipped", session.SkippedEvents),
		logging.F("status", session.Status),
	)

	cmds := []tea.Cmd{clearUnreadCmd(c.api, c.sessionID)}
	if session.Status.Active() {
		cmds = append(cmds, c.SendMessage("", nil))
	}
	return tea.Batch(cmds...)
}

// Navigate switches to another session, dropping everything local to the
// current one.
func (c *SessionController) Navigate(sessionID string) tea.Cmd {
	if c == nil {
		return nil
	}
	c.stream.Reset()
	c.state.Reset()
	c.inspector.Reset()
	c.follow.Force()
	c.sessionID = ""
	c.status = ""
	c.loading = false
	c.restoring = false
	c.sendSeq++
	return c.Restore(sessionID)
}

// Teardown cancels the open stream. The controller remains usable.
func (c *SessionController) Teardown() {
	if c == nil {
		return
	}
	c.stream.Reset()
	c.loading = false
}

// PinTool focuses the inspector on ref and leaves real-time mode.
func (c *SessionController) PinTool(ref transcript.ToolRef) {
	if c == nil {
		return
	}
	if _, ok := c.state.Tool(ref); !ok {
		return
	}
	c.inspector.Pin(ref)
}

func (c *SessionController) JumpToRealtime() {
	if c == nil {
		return
	}
	c.inspector.JumpToRealtime(c.state)
}

// InspectorLive reports whether the inspected tool is still in progress.
func (c *SessionController) InspectorLive() bool {
	if c == nil {
		return false
	}
	return c.inspector.Live(c.state)
}
