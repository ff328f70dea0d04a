// Package gemini generates the daily post text and image prompt pair
// using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"autoposts/internal/jsonutil"
)

// systemInstruction pins the model to a strict two-field JSON contract.
// Post content is in Spanish (the bot's audience); the image prompt is in
// English, which diffusion models handle better.
const systemInstruction = `Eres un asistente que genera contenido para redes sociales (Facebook e Instagram).
Tu tarea es devolver ÚNICAMENTE un JSON válido, sin markdown ni texto extra, con exactamente estas dos claves:

- "post_text": Un post profesional y educativo (2-4 párrafos breves) sobre temas de interés técnico. Lenguaje claro y motivador. Incluye un título corto al inicio.
- "image_prompt": Un prompt en inglés, optimizado para Stable Diffusion, que genere una ilustración minimalista y profesional relacionada con el tema del post. Estilo: limpio, moderno, sin texto en la imagen.

Genera contenido variado y de valor. El JSON debe ser parseable directamente.`

// userPrompt is the per-run request; the heavy lifting lives in the
// system instruction.
const userPrompt = "Genera el post de hoy."

// Content is the generated pair consumed by the synthesizer and publishers.
// Both fields are trimmed and non-empty.
type Content struct {
	PostText    string `json:"post_text"`
	ImagePrompt string `json:"image_prompt"`
}

// Client wraps the Gemini SDK for post generation.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client for the given API key and model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// GeneratePost asks Gemini for today's post and parses the strict JSON
// response. Any contract deviation (no candidates, empty text, malformed
// JSON, missing field) is an error.
func (c *Client) GeneratePost(ctx context.Context) (*Content, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      genai.Ptr[float32](0.7),
		MaxOutputTokens:  1024,
		ResponseMIMEType: "application/json",
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: userPrompt}}},
	}

	log.Debug().Str("model", c.model).Msg("Requesting post content from Gemini")
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("Gemini returned no candidates")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("Gemini returned empty text")
	}

	content, err := ParseContent(text)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("post_length", len(content.PostText)).
		Str("image_prompt", content.ImagePrompt).
		Msg("Post content generated")
	return content, nil
}

// ParseContent parses the model's JSON payload into Content, stripping a
// single markdown fence if the model wrapped its output despite the
// instruction. Both fields must be non-empty after trimming.
func ParseContent(raw string) (*Content, error) {
	parsed, err := jsonutil.ParseJSON[Content](raw)
	if err != nil {
		return nil, fmt.Errorf("parse Gemini response: %w", err)
	}

	content := &Content{
		PostText:    strings.TrimSpace(parsed.PostText),
		ImagePrompt: strings.TrimSpace(parsed.ImagePrompt),
	}
	if content.PostText == "" {
		return nil, fmt.Errorf("Gemini response missing post_text")
	}
	if content.ImagePrompt == "" {
		return nil, fmt.Errorf("Gemini response missing image_prompt")
	}
	return content, nil
}
