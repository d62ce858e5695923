package client

import (
	"encoding/json"

	"agentview/internal/types"
)

// envelope wraps every JSON response: code 0 means success.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type ListSessionsResponse struct {
	Sessions []types.SessionSummary `json:"sessions"`
}

// ChatRequest opens the event channel. An empty Message re-attaches to the
// running agent; EventID resumes after that event.
type ChatRequest struct {
	Message     string          `json:"message,omitempty"`
	Timestamp   types.Timestamp `json:"timestamp"`
	EventID     string          `json:"event_id,omitempty"`
	Attachments []string        `json:"attachments,omitempty"`
}

type ShellViewRequest struct {
	SessionID string `json:"session_id"`
}

type FileViewRequest struct {
	File string `json:"file"`
}

type UploadFileResponse struct {
	FileID     string `json:"file_id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	UploadDate string `json:"upload_date"`
	Message    string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUser struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

type LoginResponse struct {
	User         LoginUser `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
