package app

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"agentview/internal/config"
	"agentview/internal/logging"
	"agentview/internal/store"
	"agentview/internal/transcript"
	"agentview/internal/types"
)

const (
	minViewportWidth  = 20
	minContentHeight  = 4
	composerHeight    = 3
	inspectorMinWidth = 90
)

type focusArea int

const (
	focusComposer focusArea = iota
	focusTranscript
	focusInspector
)

type overlayMode int

const (
	overlayNone overlayMode = iota
	overlaySessions
	overlayFiles
)

// Options wires the model to its collaborators. Files and States are
// optional.
type Options struct {
	API       SessionAPI
	Files     FileAPI
	States    store.AppStateStore
	Logger    logging.Logger
	Config    config.Config
	SessionID string
}

// viewportScroller defers scrolling until the viewport has the new content.
type viewportScroller struct {
	vp      *viewport.Model
	pending bool
}

func (s *viewportScroller) GotoBottom() { s.pending = true }

func (s *viewportScroller) AtBottom() bool { return s.vp.AtBottom() }

func (s *viewportScroller) flush() {
	if s.pending {
		s.vp.GotoBottom()
		s.pending = false
	}
}

type Model struct {
	api    SessionAPI
	files  FileAPI
	states store.AppStateStore
	logger logging.Logger

	session        *SessionController
	scroller       *viewportScroller
	transcriptView viewport.Model
	toolRows       map[int]transcript.ToolRef
	inspectorView  viewport.Model
	composer       textarea.Model
	loader         spinner.Model
	picker         *Picker
	sessionList    ChatStream
	listPending    bool
	overlay        overlayMode
	focus          focusArea

	width           int
	height          int
	inspectorHidden bool
	appState        types.AppState
	pending         []types.FileInfo
	uploads         int
	initialSession  string

	tickInterval    time.Duration
	refreshInterval time.Duration
	nextRefresh     time.Time
	refreshInFlight bool
	liveContent     map[string]string

	status     string
	toast      toast
	toastQueue []toast
	now        func() time.Time
}

func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	cfg := opts.Config
	m := &Model{
		api:             opts.API,
		files:           opts.Files,
		states:          opts.States,
		logger:          logger,
		initialSession:  strings.TrimSpace(opts.SessionID),
		tickInterval:    cfg.TickInterval(),
		refreshInterval: cfg.RefreshInterval(),
		liveContent:     map[string]string{},
		now:             time.Now,
	}
	m.transcriptView = viewport.New(viewport.WithWidth(minViewportWidth), viewport.WithHeight(minContentHeight))
	m.inspectorView = viewport.New(viewport.WithWidth(minViewportWidth), viewport.WithHeight(minContentHeight))
	m.scroller = &viewportScroller{vp: &m.transcriptView}
	m.session = NewSessionController(opts.API, SessionControllerOptions{
		MaxEventsPerTick: cfg.MaxEventsPerTick(),
		LiveWindow:       cfg.LiveWindow(),
		Scroller:         m.scroller,
		Notifier:         m,
		Logger:           logger,
	})
	m.session.Inspector().SetFocusListener(m.onInspectorFocus)

	m.composer = textarea.New()
	m.composer.Placeholder = "Message the agent (enter to send, alt+enter for newline)"
	m.composer.ShowLineNumbers = false
	m.composer.SetHeight(composerHeight)
	m.composer.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	m.composer.Focus()

	m.loader = spinner.New(spinner.WithSpinner(spinner.Line))
	m.picker = NewPicker("Sessions", minViewportWidth, minContentHeight)
	setMarkdownStyle(cfg.MarkdownStyle())
	m.refreshTranscript()
	m.refreshInspector()
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tickInterval), m.loader.Tick}
	switch {
	case m.states != nil:
		cmds = append(cmds, loadAppStateCmd(m.states))
	case m.initialSession != "":
		cmds = append(cmds, m.navigate(m.initialSession))
	default:
		cmds = append(cmds, fetchSessionsCmd(m.api))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		return m, m.handleTick(time.Time(msg))
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case chatOpenedMsg:
		m.session.HandleChatOpened(msg)
		m.refreshTranscript()
		return m, nil
	case sessionFetchedMsg:
		cmd := m.session.HandleSessionFetched(msg)
		m.refreshTranscript()
		m.refreshInspector()
		return m, cmd
	case stopSessionMsg:
		m.session.HandleStopped(msg)
		if msg.err == nil {
			m.showInfoToast("stop requested")
		}
		return m, nil
	case sessionsMsg:
		return m, m.handleSessions(msg)
	case sessionListOpenedMsg:
		m.handleSessionListOpened(msg)
		return m, nil
	case sessionCreatedMsg:
		if msg.err != nil {
			m.showErrorToast("create session: " + msg.err.Error())
			return m, nil
		}
		m.closeOverlay()
		return m, m.navigate(msg.id)
	case sessionDeletedMsg:
		return m, m.handleSessionDeleted(msg)
	case clearUnreadMsg:
		if msg.err != nil {
			m.logger.Debug("clear unread failed", logging.F("session_id", msg.id), logging.Err(msg.err))
		}
		return m, nil
	case sessionFilesMsg:
		m.handleSessionFiles(msg)
		return m, nil
	case uploadMsg:
		m.handleUpload(msg)
		return m, nil
	case inspectorContentMsg:
		m.handleInspectorContent(msg)
		return m, nil
	case appStateMsg:
		return m, m.applyAppState(msg)
	case appStateSavedMsg:
		if msg.err != nil {
			m.logger.Warn("ui state save failed", logging.Err(msg.err))
		}
		return m, nil
	case clipboardMsg:
		if msg.err != nil {
			m.showErrorToast("copy failed: " + msg.err.Error())
		} else if msg.method == clipboardMethodOSC52 {
			m.showInfoToast("copied " + msg.label + " via " + msg.method.String())
		} else {
			m.showInfoToast("copied " + msg.label)
		}
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.MouseWheelMsg:
		m.handleWheel(msg.Mouse())
		return m, nil
	case tea.MouseClickMsg:
		m.handleClick(msg.Mouse())
		return m, nil
	}
	if m.focus == focusComposer && m.overlay == overlayNone {
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleTick(at time.Time) tea.Cmd {
	m.expireToast(at)
	m.drainSessionList()
	if m.session.ConsumeTick() {
		m.refreshTranscript()
		m.refreshInspector()
	}
	cmds := []tea.Cmd{tickCmd(m.tickInterval)}
	if cmd := m.maybeRefreshInspector(at); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// navigate switches sessions, parking the composer draft of the old one.
func (m *Model) navigate(sessionID string) tea.Cmd {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	if old := m.session.SessionID(); old != "" {
		store.SetDraft(&m.appState, old, m.composer.Value())
	}
	m.composer.Reset()
	if draft, ok := m.appState.ComposerDrafts[sessionID]; ok {
		m.composer.SetValue(draft)
	}
	m.pending = nil
	m.liveContent = map[string]string{}
	m.refreshInFlight = false
	m.appState.LastSessionID = sessionID
	m.status = "loading session"
	cmd := m.session.Navigate(sessionID)
	m.refreshTranscript()
	m.refreshInspector()
	return tea.Batch(cmd, m.saveAppState())
}

func (m *Model) submitComposer() tea.Cmd {
	text := strings.TrimSpace(m.composer.Value())
	switch {
	case strings.HasPrefix(text, "/attach "):
		return m.attach(strings.TrimSpace(strings.TrimPrefix(text, "/attach ")))
	case text == "/detach":
		m.pending = nil
		m.composer.Reset()
		m.showInfoToast("attachments cleared")
		return nil
	}
	if text == "" && len(m.pending) == 0 {
		return nil
	}
	if m.session.SessionID() == "" {
		m.showWarningToast("no session: ctrl+n creates one, ctrl+o opens one")
		return nil
	}
	if m.session.Restoring() {
		m.showWarningToast("session is still loading")
		return nil
	}
	if m.uploads > 0 {
		m.showWarningToast("upload in progress")
		return nil
	}
	cmd := m.session.SendMessage(text, m.pending)
	m.pending = nil
	m.composer.Reset()
	store.SetDraft(&m.appState, m.session.SessionID(), "")
	m.refreshTranscript()
	return cmd
}

func (m *Model) attach(path string) tea.Cmd {
	m.composer.Reset()
	if path == "" {
		m.showWarningToast("usage: /attach <path>")
		return nil
	}
	if m.files == nil {
		m.showWarningToast("file upload unavailable")
		return nil
	}
	m.uploads++
	m.status = "uploading " + path
	return uploadFileCmd(m.files, path)
}

func (m *Model) handleUpload(msg uploadMsg) {
	if m.uploads > 0 {
		m.uploads--
	}
	if msg.err != nil {
		m.showErrorToast("upload " + msg.path + ": " + msg.err.Error())
		return
	}
	if msg.file == nil {
		return
	}
	m.pending = append(m.pending, *msg.file)
	m.showInfoToast("attached " + msg.file.DisplayName())
}

func (m *Model) handleSessions(msg sessionsMsg) tea.Cmd {
	if msg.err != nil {
		m.showErrorToast("list sessions: " + msg.err.Error())
		return nil
	}
	if len(msg.sessions) == 0 && m.session.SessionID() == "" {
		return createSessionCmd(m.api)
	}
	m.picker.list.Title = "Sessions"
	m.picker.SetItems(sessionPickerItems(msg.sessions), m.session.SessionID())
	m.openOverlay(overlaySessions)
	return m.watchSessionList()
}

func (m *Model) handleSessionDeleted(msg sessionDeletedMsg) tea.Cmd {
	if msg.err != nil {
		m.showErrorToast("delete session: " + msg.err.Error())
		return nil
	}
	m.showInfoToast("session deleted")
	delete(m.appState.ComposerDrafts, msg.id)
	if msg.id == m.session.SessionID() {
		m.session.Teardown()
		m.session.Navigate("")
		m.appState.LastSessionID = ""
		m.refreshTranscript()
		m.refreshInspector()
	}
	return tea.Batch(fetchSessionsCmd(m.api), m.saveAppState())
}

func (m *Model) handleSessionFiles(msg sessionFilesMsg) {
	if msg.err != nil {
		m.showErrorToast("session files: " + msg.err.Error())
		return
	}
	if msg.id != m.session.SessionID() {
		return
	}
	if len(msg.files) == 0 {
		m.showInfoToast("no files in this session")
		return
	}
	m.picker.list.Title = "Files"
	m.picker.SetItems(filePickerItems(msg.files), "")
	m.openOverlay(overlayFiles)
}

func (m *Model) openOverlay(mode overlayMode) {
	m.overlay = mode
	m.composer.Blur()
}

func (m *Model) closeOverlay() {
	m.stopSessionList()
	m.overlay = overlayNone
	m.setFocus(m.focus)
}

func (m *Model) setFocus(focus focusArea) {
	m.focus = focus
	if focus == focusComposer {
		m.composer.Focus()
	} else {
		m.composer.Blur()
	}
	m.refreshInspector()
}

func (m *Model) onInspectorFocus(transcript.ToolRef) {
	m.nextRefresh = time.Time{}
	m.inspectorView.GotoTop()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	transcriptWidth, inspectorWidth := m.paneWidths()
	bodyHeight := max(minContentHeight, height-composerHeight-3)
	m.transcriptView.SetWidth(transcriptWidth)
	m.transcriptView.SetHeight(bodyHeight)
	m.inspectorView.SetWidth(max(1, inspectorWidth))
	m.inspectorView.SetHeight(bodyHeight)
	m.composer.SetWidth(max(minViewportWidth, width))
	m.picker.SetSize(max(minViewportWidth, width-6), max(minContentHeight, bodyHeight-2))
	if m.session.Follow().Enabled() {
		m.scroller.GotoBottom()
	}
	m.refreshTranscript()
	m.refreshInspector()
}

// paneWidths splits the body between transcript and inspector. The inspector
// is dropped on narrow terminals.
func (m *Model) paneWidths() (int, int) {
	width := max(minViewportWidth, m.width)
	if m.inspectorHidden || width < inspectorMinWidth {
		return width, 0
	}
	inspector := width * 2 / 5
	return width - inspector, inspector - 2
}

func (m *Model) inspectorVisible() bool {
	_, width := m.paneWidths()
	return width > 0
}

func (m *Model) quit() tea.Cmd {
	m.session.Teardown()
	m.stopSessionList()
	if sessionID := m.session.SessionID(); sessionID != "" {
		store.SetDraft(&m.appState, sessionID, m.composer.Value())
	}
	if save := m.saveAppState(); save != nil {
		return tea.Sequence(save, tea.Quit)
	}
	return tea.Quit
}
