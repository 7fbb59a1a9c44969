package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	config "github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/configs"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/models"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/transfer"
)

const systemPrompt = "You are an expert social media content creator specializing in AI education."

const (
	geminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai/"
	anthropicBaseURL = "https://api.anthropic.com/v1/"

	geminiDefaultModel    = "gemini-2.0-flash"
	anthropicDefaultModel = "claude-3-5-haiku-latest"
)

var toneInstructions = map[string]string{
	models.ToneProfessional:  "Write in a professional, authoritative tone suitable for business audiences.",
	models.ToneCasual:        "Write in a friendly, conversational tone that feels approachable.",
	models.ToneEducational:   "Write in an informative, teaching style that explains concepts clearly.",
	models.ToneInspirational: "Write in an uplifting, motivational tone that inspires action.",
}

var platformPrompts = map[string]string{
	models.PlatformLinkedin: `Create a professional LinkedIn post about: %s

Requirements:
- Start with a compelling hook
- Include 3-5 key insights or takeaways
- Use appropriate spacing for readability
- End with a thought-provoking question
- Keep it 200-300 words
- Don't include hashtags (added separately)

%s`,

	models.PlatformInstagram: `Create an Instagram caption about: %s

Requirements:
- Start with a POWERFUL hook (emoji + attention-grabbing statement)
- Keep main message short and punchy (max 150 words)
- Use line breaks for readability
- Include a clear call-to-action
- End with 15-20 relevant hashtags

%s`,

	models.PlatformFacebook: `Create a Facebook post about: %s

Requirements:
- Use a storytelling approach
- Make complex concepts simple and digestible
- Include a personal touch or real-world example
- Write in a conversational tone
- End with a clear call-to-action
- Keep it 150-250 words

%s`,
}

var hashtagPattern = regexp.MustCompile(`#\w+`)

// llmClient wraps a langchaingo model configured with a user-supplied key.
// Gemini and Anthropic are reached through their OpenAI-compatible endpoints,
// so one client type covers all three providers.
type llmClient struct {
	model       llms.Model
	temperature float64
}

func newLLMClient(cfg config.Config, keyType, apiKey string) (*llmClient, error) {
	opts := []openai.Option{openai.WithToken(apiKey)}

	switch keyType {
	case models.KeyTypeOpenAI:
		opts = append(opts, openai.WithModel(cfg.LLM.DefaultModel))
	case models.KeyTypeGemini:
		opts = append(opts, openai.WithModel(geminiDefaultModel), openai.WithBaseURL(geminiBaseURL))
	case models.KeyTypeAnthropic:
		opts = append(opts, openai.WithModel(anthropicDefaultModel), openai.WithBaseURL(anthropicBaseURL))
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", keyType)
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	return &llmClient{model: model, temperature: cfg.LLM.Temperature}, nil
}

func (c *llmClient) GenerateContent(ctx context.Context, topic, platform, tone, additionalContext string) (*transfer.GeneratedContent, error) {
	prompt := buildPrompt(topic, platform, tone, additionalContext)

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(1000),
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Content)
	return &transfer.GeneratedContent{
		Content:  content,
		Hashtags: extractHashtags(content),
	}, nil
}

func buildPrompt(topic, platform, tone, additionalContext string) string {
	tmpl, ok := platformPrompts[platform]
	if !ok {
		tmpl = platformPrompts[models.PlatformLinkedin]
	}

	prompt := fmt.Sprintf(tmpl, topic, toneInstructions[tone])
	if additionalContext != "" {
		prompt += fmt.Sprintf("\n\nAdditional context: %s", additionalContext)
	}
	return prompt
}

func extractHashtags(text string) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, tag := range hashtagPattern.FindAllString(text, -1) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
