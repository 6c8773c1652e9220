package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/llm"
)

// AssistantService proxies the editor-side assistant endpoints to the
// completion API. Each endpoint carries its own system prompt; the service
// flattens the conversation into a single completion request.
type AssistantService struct {
	llmClient llm.Client
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(llmClient llm.Client, tracer trace.Tracer, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		llmClient: llmClient,
		tracer:    tracer,
		logger:    logger,
	}
}

// Explain answers questions about a specific problem statement
func (s *AssistantService) Explain(ctx context.Context, req *domain.AssistantRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AssistantService.Explain")
	defer span.End()
	span.SetAttributes(attribute.String("problem.title", req.Title))

	system := llm.ExplainSystemPrompt
	if req.Title != "" {
		system += fmt.Sprintf("\nContext: Problem %q", req.Title)
	}

	prompt := flattenConversation(req.Messages)
	if prompt == "" {
		prompt = fmt.Sprintf("Problem: %s\n%s\n\nWhat is this problem about?", req.Title, req.Description)
	}
	return s.llmClient.GenerateText(ctx, system, prompt)
}

// AnalyzeCode reviews the user's in-editor code in a conversational setting
func (s *AssistantService) AnalyzeCode(ctx context.Context, req *domain.AssistantRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AssistantService.AnalyzeCode")
	defer span.End()
	span.SetAttributes(attribute.String("problem.title", req.Title))

	system := llm.CodeAnalyzeSystemPrompt
	if req.Title != "" {
		system += fmt.Sprintf("\nContext: Analyzing code for problem %q", req.Title)
	}

	messages := req.Messages
	// Attach the editor code to the last user turn when it asks for a look at
	// the code and doesn't already carry it
	if req.Code != "" && len(messages) > 0 {
		last := messages[len(messages)-1]
		lower := strings.ToLower(last.Content)
		wantsCode := last.Role == "user" &&
			(strings.Contains(lower, "analyze") || strings.Contains(lower, "check") || strings.Contains(lower, "review"))
		if wantsCode && !strings.Contains(last.Content, "```") {
			amended := make([]domain.AssistantMessage, len(messages))
			copy(amended, messages)
			amended[len(amended)-1].Content = fmt.Sprintf(
				"%s\n\nHere is my current code:\n```python\n%s\n```", last.Content, req.Code)
			messages = amended
		}
	}

	prompt := flattenConversation(messages)
	if prompt == "" {
		prompt = fmt.Sprintf("Problem: %s\n%s\n\nAnalyze this code:\n```python\n%s\n```",
			req.Title, req.Description, req.Code)
	}
	return s.llmClient.GenerateText(ctx, system, prompt)
}

// CodeHelp is the general coding help assistant
func (s *AssistantService) CodeHelp(ctx context.Context, req *domain.AssistantRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AssistantService.CodeHelp")
	defer span.End()
	span.SetAttributes(attribute.String("problem.title", req.Title))

	var b strings.Builder
	if req.Title != "" && req.Description != "" {
		fmt.Fprintf(&b, "The user is working on the following problem:\nTitle: %s\nDescription: %s\n",
			req.Title, req.Description)
		if req.Code != "" {
			fmt.Fprintf(&b, "\nTheir current code is:\n```python\n%s\n```\n", req.Code)
		}
	}

	prompt := b.String() + flattenConversation(req.Messages)
	if strings.TrimSpace(prompt) == "" {
		prompt = "What specific question do you have?"
	}
	return s.llmClient.GenerateText(ctx, llm.CodeHelpSystemPrompt, prompt)
}

// Docs answers documentation questions about a topic
func (s *AssistantService) Docs(ctx context.Context, req *domain.AssistantRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AssistantService.Docs")
	defer span.End()
	span.SetAttributes(attribute.String("docs.topic", req.Topic))

	var b strings.Builder
	if req.Topic != "" {
		fmt.Fprintf(&b, "You're asking about: %s\n", req.Topic)
		if req.Language != "" {
			fmt.Fprintf(&b, "Preferred programming language: %s\n", req.Language)
		}
	}

	prompt := b.String() + flattenConversation(req.Messages)
	if strings.TrimSpace(prompt) == "" {
		prompt = "What would you like to know about?"
	}
	return s.llmClient.GenerateText(ctx, llm.DocsSystemPrompt, prompt)
}

// InfoHelp explains concepts in the context of a specific problem
func (s *AssistantService) InfoHelp(ctx context.Context, req *domain.AssistantRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AssistantService.InfoHelp")
	defer span.End()
	span.SetAttributes(attribute.String("problem.title", req.Title))

	var b strings.Builder
	if req.Title != "" && req.Description != "" {
		fmt.Fprintf(&b, "Providing help for the following problem:\nTitle: %s\nDescription: %s\n",
			req.Title, req.Description)
		if req.Topic != "" {
			fmt.Fprintf(&b, "\nFocusing on: %s\n", req.Topic)
		}
	}

	prompt := b.String() + flattenConversation(req.Messages)
	if strings.TrimSpace(prompt) == "" {
		prompt = "What would you like to learn about?"
	}
	return s.llmClient.GenerateText(ctx, llm.InfoHelpSystemPrompt, prompt)
}

// flattenConversation renders a message history as a single prompt, skipping
// system turns (the system prompt is supplied separately)
func flattenConversation(messages []domain.AssistantMessage) string {
	var sb strings.Builder
	for _, m := range messages {
		if m.Role == "system" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		switch m.Role {
		case "assistant":
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(m.Content)
	}
	return sb.String()
}
