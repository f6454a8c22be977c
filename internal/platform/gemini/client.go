package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const recognizePrompt = "Identify the ingredients in this image. 'Only the ingredients' comma separated and nothing else."

// Client is a client for the Gemini API.
type Client struct {
	visionModel *genai.GenerativeModel
	textModel   *genai.GenerativeModel
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey, visionModel, textModel string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Client{
		visionModel: client.GenerativeModel(visionModel),
		textModel:   client.GenerativeModel(textModel),
	}, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}
	return string(text), nil
}

// RecognizeIngredients sends one JPEG image to the vision model and returns
// its free-text ingredient list verbatim.
func (c *Client) RecognizeIngredients(ctx context.Context, imageData []byte) (string, error) {
	prompt := []genai.Part{
		genai.ImageData("jpeg", imageData),
		genai.Text(recognizePrompt),
	}

	resp, err := c.visionModel.GenerateContent(ctx, prompt...)
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// SuggestRecipe asks the text model for a recipe using the aggregated
// ingredient string, scaled to the given serving count.
func (c *Client) SuggestRecipe(ctx context.Context, ingredients string, servings int) (string, error) {
	prompt := fmt.Sprintf(
		"Suggest a recipe using these ingredients: %s. The recipe should serve %d people. Include a name, the ingredient list with quantities, and step-by-step instructions.",
		ingredients, servings)

	resp, err := c.textModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return firstText(resp)
}
