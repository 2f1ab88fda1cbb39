package dto

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionId string `json:"session_id"`
}

type SessionResponse struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
}

type MessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GetMessagesResponse struct {
	SessionId string       `json:"session_id"`
	Messages  []MessageDTO `json:"messages"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
