package api

import "time"

// Roles on a wire message.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Token is the payload of a successful login or registration.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

// Chat is one persisted conversation thread as the backend returns it.
type Chat struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	UpdatedAt time.Time     `json:"updated_at"`
	Messages  []ChatMessage `json:"messages"`
}

// ChatMessage is one turn on the wire.
type ChatMessage struct {
	ID               string            `json:"id"`
	Role             string            `json:"role"`
	Text             string            `json:"text"`
	Timestamp        time.Time         `json:"timestamp"`
	Attachments      []Attachment      `json:"attachments,omitempty"`
	GroundingSources []GroundingSource `json:"groundingSources,omitempty"`
}

// Attachment is the encoded artifact shipped with a user turn.
type Attachment struct {
	Type     string `json:"type"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
	Name     string `json:"name,omitempty"`
}

// GroundingSource is a citation returned alongside an assistant answer.
type GroundingSource struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type createChatRequest struct {
	Title string `json:"title"`
}

// SendMessageRequest carries one user turn to the exchange endpoint.
type SendMessageRequest struct {
	Message     string       `json:"message"`
	Language    string       `json:"language"`
	Attachments []Attachment `json:"attachments,omitempty"`
}
