package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/kargotek/destek/backend/internal/config"
	"github.com/kargotek/destek/backend/internal/model/support"
)

// historyLimit bounds how much session history is replayed to the model.
const historyLimit = 10

// Service wraps the chat model behind the two collaborator contracts the
// orchestrator depends on: intent resolution and response composition.
type Service struct {
	chatModel    model.ChatModel
	resolveChain compose.Runnable[map[string]any, *schema.Message]
	composeChain compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the AI service and compiles both chains.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	resolveChain, err := compileChain(ctx, chatModel, true)
	if err != nil {
		return nil, fmt.Errorf("failed to compile resolver chain: %w", err)
	}

	composeChain, err := compileChain(ctx, chatModel, false)
	if err != nil {
		return nil, fmt.Errorf("failed to compile composer chain: %w", err)
	}

	return &Service{
		chatModel:    chatModel,
		resolveChain: resolveChain,
		composeChain: composeChain,
	}, nil
}

func compileChain(ctx context.Context, chatModel model.ChatModel, withHistory bool) (compose.Runnable[map[string]any, *schema.Message], error) {
	templates := []schema.MessagesTemplate{schema.SystemMessage("{system}")}
	if withHistory {
		templates = append(templates, schema.MessagesPlaceholder("history", true))
	}
	templates = append(templates, schema.UserMessage("{query}"))

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(prompt.FromMessages(schema.FString, templates...))
	chain.AppendChatModel(chatModel)
	return chain.Compile(ctx)
}

// Resolve asks the model for a structured decision about the user
// message. Non-conforming model output comes back as an error; the caller
// treats it as a chat failure, never a crash.
func (s *Service) Resolve(ctx context.Context, sess *support.Session, message string) (support.Decision, error) {
	input := map[string]any{
		"system":  resolverSystemPrompt(sess),
		"history": historyMessages(sess),
		"query":   message,
	}

	response, err := s.resolveChain.Invoke(ctx, input)
	if err != nil {
		return support.Decision{}, fmt.Errorf("failed to run resolver chain: %w", err)
	}

	decision, err := support.ParseDecision(response.Content)
	if err != nil {
		log.Printf("[ai] discarding non-conforming resolver output: %v", err)
		return support.Decision{}, err
	}
	return decision, nil
}

// Compose turns a system fact into a natural-language reply to the user
// message.
func (s *Service) Compose(ctx context.Context, userMessage, fact string) (string, error) {
	input := map[string]any{
		"system": fmt.Sprintf(composerContract, fact),
		"query":  userMessage,
	}

	response, err := s.composeChain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run composer chain: %w", err)
	}
	return response.Content, nil
}

// historyMessages replays the most recent session turns to the model.
func historyMessages(sess *support.Session) []*schema.Message {
	if sess == nil || len(sess.History) == 0 {
		return nil
	}

	records := sess.History
	if len(records) > historyLimit {
		records = records[len(records)-historyLimit:]
	}

	history := make([]*schema.Message, 0, len(records))
	for _, rec := range records {
		switch rec.Sender {
		case "user":
			history = append(history, schema.UserMessage(rec.Content))
		case "agent":
			history = append(history, schema.AssistantMessage(rec.Content, nil))
		}
	}
	return history
}
