package types

import "encoding/json"

type ConsoleRecord struct {
	PS1     string `json:"ps1"`
	Command string `json:"command"`
	Output  string `json:"output"`
}

type ShellToolContent struct {
	Console []ConsoleRecord `json:"console"`
}

type FileToolContent struct {
	Content string `json:"content"`
}

type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type SearchToolContent struct {
	Results []SearchResult `json:"results"`
}

type BrowserToolContent struct {
	Screenshot string `json:"screenshot"`
}

type MCPToolContent struct {
	Result json.RawMessage `json:"result"`
}

type ShellView struct {
	Output    string          `json:"output"`
	SessionID string          `json:"session_id"`
	Console   []ConsoleRecord `json:"console,omitempty"`
}

type FileView struct {
	Content string `json:"content"`
	File    string `json:"file"`
}
