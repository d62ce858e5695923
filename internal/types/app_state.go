package types

// AppState is the small amount of UI state kept between runs. It never holds
// transcript content; conversations are always rebuilt from the server.
type AppState struct {
	LastSessionID   string            `json:"last_session_id,omitempty"`
	InspectorHidden bool              `json:"inspector_hidden,omitempty"`
	ComposerDrafts  map[string]string `json:"composer_drafts,omitempty"`
}
