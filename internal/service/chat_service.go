package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/dto"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/pkg/logger"
	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/store"
)

// IChatService defines the chat service interface
type IChatService interface {
	CreateSession(ctx context.Context) (*dto.SessionResponse, error)
	SendChat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	ClearHistory(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	GetMessages(ctx context.Context, sessionID string) (*dto.GetMessagesResponse, error)
}

type chatService struct {
	sessions *store.SessionStore
	logger   logger.ILogger
}

func NewChatService(sessions *store.SessionStore, logger logger.ILogger) IChatService {
	return &chatService{
		sessions: sessions,
		logger:   logger,
	}
}

func (cs *chatService) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	session, err := cs.sessions.GetOrCreate(ctx, uuid.NewString())
	if err != nil {
		cs.logger.Error("chat", "session creation failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	cs.logger.Info("chat", "session created", map[string]interface{}{"session_id": session.ID})
	return &dto.SessionResponse{
		SessionId: session.ID,
		Message:   "Session created successfully",
	}, nil
}

// SendChat resolves the session (creating one when no identifier is supplied),
// runs the agent and, only on success, appends the user/assistant pair to the
// transcript. A failed exchange leaves the transcript untouched and the
// session usable.
func (cs *chatService) SendChat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	session, err := cs.sessions.GetOrCreate(ctx, request.SessionId)
	if err != nil {
		cs.logger.Error("chat", "session resolution failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	reply, err := session.Agent.Run(ctx, request.Message)
	if err != nil {
		cs.logger.Error("chat", "agent invocation failed", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		return nil, &store.AgentInvocationError{Err: err}
	}

	session.AppendExchange(request.Message, reply)

	return &dto.ChatResponse{
		Response:  reply,
		SessionId: session.ID,
	}, nil
}

func (cs *chatService) ClearHistory(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	if err := cs.sessions.Clear(sessionID); err != nil {
		return nil, err
	}

	return &dto.SessionResponse{
		SessionId: sessionID,
		Message:   "History cleared successfully",
	}, nil
}

// DeleteSession removes the session. A ReleaseError from closing the tool
// connections is logged and swallowed: the entry is gone either way and the
// caller has nothing actionable to do with a half-closed transport.
func (cs *chatService) DeleteSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	err := cs.sessions.Delete(sessionID)

	var releaseErr *store.ReleaseError
	switch {
	case err == nil:
	case errors.As(err, &releaseErr):
		cs.logger.Warn("chat", "tool connections not fully released", map[string]interface{}{
			"session_id": sessionID,
			"error":      releaseErr.Error(),
		})
	default:
		return nil, err
	}

	cs.logger.Info("chat", "session deleted", map[string]interface{}{"session_id": sessionID})
	return &dto.SessionResponse{
		SessionId: sessionID,
		Message:   "Session deleted successfully",
	}, nil
}

func (cs *chatService) GetMessages(ctx context.Context, sessionID string) (*dto.GetMessagesResponse, error) {
	session, err := cs.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	messages := session.Messages()
	out := make([]dto.MessageDTO, len(messages))
	for i, msg := range messages {
		out[i] = dto.MessageDTO{Role: msg.Role, Content: msg.Content}
	}

	return &dto.GetMessagesResponse{
		SessionId: sessionID,
		Messages:  out,
	}, nil
}
