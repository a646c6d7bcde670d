package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	"github.com/kalaasetu/kalaasetu-backend/pkg/gemini"
)

const (
	minDescriptionLength = 10
	maxDescriptionLength = 2000
	maxChatLength        = 1000
	maxBullets           = 6
	maxHashtags          = 8

	enhanceSystemPrompt = "You write marketing copy for Indian classical and folk artists. " +
		"Respond with a single JSON object only, no markdown fences, no commentary. " +
		"The object must have exactly these keys: title (string), bullets (array of strings), " +
		"paragraph (string), hashtags (array of strings)."

	chatSystemPrompt = "You are the KalaaSetu assistant. You help artists, clients, and moderators " +
		"of an Indian classical arts marketplace with questions about art forms, performances, " +
		"hiring artists, and the application process. Politely decline unrelated topics."
)

var validTones = map[string]struct{}{
	"professional": {}, "friendly": {}, "artistic": {}, "traditional": {},
}

var validAudiences = map[string]struct{}{
	"buyers": {}, "event_organizers": {}, "students": {}, "general": {},
}

var validLengths = map[string]struct{}{
	"short": {}, "medium": {}, "long": {},
}

// bannedWords is the output safety list. Matches are case-insensitive whole
// words.
var bannedWords = []string{
	"guaranteed income",
	"get rich",
	"scam",
	"gambling",
	"adult",
}

// EnhanceInput holds the description enhancement request.
type EnhanceInput struct {
	Text     string
	Tone     string
	Audience string
	Length   string
}

// EnhancedDescription is the structured copy produced by the model.
type EnhancedDescription struct {
	Title     string   `json:"title"`
	Bullets   []string `json:"bullets"`
	Paragraph string   `json:"paragraph"`
	Hashtags  []string `json:"hashtags"`
}

type textGenerator interface {
	GenerateText(ctx context.Context, req gemini.GenerateRequest) (string, error)
}

// Service exposes the Gemini-backed text endpoints.
type Service interface {
	EnhanceDescription(ctx context.Context, input EnhanceInput) (*EnhancedDescription, error)
	Chat(ctx context.Context, message string) (string, error)
}

type service struct {
	generator textGenerator
}

// NewService builds the AI text service.
func NewService(generator textGenerator) (Service, error) {
	if generator == nil {
		return nil, fmt.Errorf("text generator required")
	}
	return &service{generator: generator}, nil
}

func (s *service) EnhanceDescription(ctx context.Context, input EnhanceInput) (*EnhancedDescription, error) {
	if details := validateEnhanceInput(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "enhance fields failed validation").WithDetails(details)
	}

	prompt := buildEnhancePrompt(input)
	raw, err := s.generator.GenerateText(ctx, gemini.GenerateRequest{
		SystemPrompt: enhanceSystemPrompt,
		Prompt:       prompt,
	})
	if err != nil {
		return nil, err
	}

	result, parseErr := parseEnhancedDescription(raw)
	if parseErr != nil {
		// One repair attempt with the broken output echoed back.
		repairPrompt := fmt.Sprintf("Your previous response was not valid JSON with the required keys "+
			"(title, bullets, paragraph, hashtags). Previous response:\n%s\n\nReturn only the corrected JSON object for this request:\n%s",
			raw, prompt)
		raw, err = s.generator.GenerateText(ctx, gemini.GenerateRequest{
			SystemPrompt: enhanceSystemPrompt,
			Prompt:       repairPrompt,
		})
		if err != nil {
			return nil, err
		}
		result, parseErr = parseEnhancedDescription(raw)
		if parseErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, parseErr, "model returned unusable output")
		}
	}

	normalizeEnhancedDescription(result)
	if word := findBannedWord(result); word != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "generated content failed the safety check").
			WithDetails(map[string]string{"content": fmt.Sprintf("generated text contains a disallowed term: %s", word)})
	}
	return result, nil
}

func (s *service) Chat(ctx context.Context, message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if length := utf8.RuneCountInString(trimmed); length < 1 || length > maxChatLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message failed validation").
			WithDetails(map[string]string{"message": fmt.Sprintf("message must be between 1 and %d characters", maxChatLength)})
	}

	reply, err := s.generator.GenerateText(ctx, gemini.GenerateRequest{
		SystemPrompt: chatSystemPrompt,
		Prompt:       trimmed,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func validateEnhanceInput(input EnhanceInput) map[string]string {
	details := make(map[string]string)
	length := utf8.RuneCountInString(strings.TrimSpace(input.Text))
	if length < minDescriptionLength || length > maxDescriptionLength {
		details["text"] = fmt.Sprintf("text must be between %d and %d characters", minDescriptionLength, maxDescriptionLength)
	}
	if _, ok := validTones[input.Tone]; !ok {
		details["tone"] = "tone must be one of professional, friendly, artistic, traditional"
	}
	if _, ok := validAudiences[input.Audience]; !ok {
		details["audience"] = "audience must be one of buyers, event_organizers, students, general"
	}
	if _, ok := validLengths[input.Length]; !ok {
		details["length"] = "length must be one of short, medium, long"
	}
	return details
}

func buildEnhancePrompt(input EnhanceInput) string {
	return fmt.Sprintf("Rewrite this artist description with a %s tone for an audience of %s, at %s length.\n\nDescription:\n%s",
		input.Tone, strings.ReplaceAll(input.Audience, "_", " "), input.Length, strings.TrimSpace(input.Text))
}

func parseEnhancedDescription(raw string) (*EnhancedDescription, error) {
	cleaned := stripCodeFence(raw)
	var result EnhancedDescription
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	if strings.TrimSpace(result.Title) == "" {
		return nil, fmt.Errorf("model output missing title")
	}
	if strings.TrimSpace(result.Paragraph) == "" {
		return nil, fmt.Errorf("model output missing paragraph")
	}
	if len(result.Bullets) == 0 {
		return nil, fmt.Errorf("model output missing bullets")
	}
	if len(result.Hashtags) == 0 {
		return nil, fmt.Errorf("model output missing hashtags")
	}
	return &result, nil
}

// stripCodeFence removes a wrapping ```json fence when the model ignores the
// JSON-only instruction.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func normalizeEnhancedDescription(result *EnhancedDescription) {
	if len(result.Bullets) > maxBullets {
		result.Bullets = result.Bullets[:maxBullets]
	}
	if len(result.Hashtags) > maxHashtags {
		result.Hashtags = result.Hashtags[:maxHashtags]
	}
	for i, tag := range result.Hashtags {
		clean := strings.TrimSpace(tag)
		if clean != "" && !strings.HasPrefix(clean, "#") {
			clean = "#" + clean
		}
		result.Hashtags[i] = clean
	}
}

func findBannedWord(result *EnhancedDescription) string {
	var builder strings.Builder
	builder.WriteString(result.Title)
	builder.WriteString(" ")
	builder.WriteString(result.Paragraph)
	for _, b := range result.Bullets {
		builder.WriteString(" ")
		builder.WriteString(b)
	}
	for _, h := range result.Hashtags {
		builder.WriteString(" ")
		builder.WriteString(h)
	}
	haystack := strings.ToLower(builder.String())
	for _, word := range bannedWords {
		if strings.Contains(haystack, word) {
			return word
		}
	}
	return ""
}
