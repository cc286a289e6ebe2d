package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"catalog-assistant/internal/catalog"
)

const (
	defaultChatTimeout     = 30 * time.Second
	defaultChatTemperature = 0.2
)

// systemPrompt pins the model to Spanish and to the supplied product list.
const systemPrompt = "Eres un asistente de una tienda virtual de productos.\n" +
	"Respondes SIEMPRE en español, de forma amable, clara y cordial.\n" +
	"Solo puedes responder usando la información de la lista de productos que recibes. " +
	"Si el usuario pregunta algo que no está relacionado con los productos o la lista está vacía, " +
	"debes indicar que solo puedes responder sobre los productos disponibles en la tabla."

// OpenAIAnswerer calls the OpenAI Chat Completions API.
type OpenAIAnswerer struct {
	model  openai.ChatModel
	client *openai.Client
}

// NewOpenAIAnswerer builds a client with defaults against api.openai.com.
func NewOpenAIAnswerer(apiKey string, model openai.ChatModel) (*OpenAIAnswerer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAnswerer{
		model:  model,
		client: &cli,
	}, nil
}

// Ask sends one single-turn request: system instruction, an assistant
// message carrying the product context, and the user question. A non-2xx
// response from the API is degraded to a fixed diagnostic answer instead of
// an error; only transport-level failures propagate.
func (c *OpenAIAnswerer) Ask(ctx context.Context, question string, products []catalog.Product) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai answerer")
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    buildMessages(question, products),
		Temperature: openai.Float(defaultChatTemperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return StatusDiagnostic(apiErr.StatusCode), nil
		}
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// StatusDiagnostic is the user-visible answer produced when the chat
// endpoint responds with a non-success status.
func StatusDiagnostic(status int) string {
	return fmt.Sprintf("Hubo un problema al llamar al modelo (código %d). "+
		"Revisa la API key, el modelo o la configuración de la cuenta.", status)
}

func buildMessages(question string, products []catalog.Product) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(systemPrompt),
				},
			},
		},
		{
			OfAssistant: &openai.ChatCompletionAssistantMessageParam{
				Content: openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String("Esta es la lista de productos disponibles en la base de datos:\n" + ProductContext(products)),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(question),
				},
			},
		},
	}
}

// ProductContext renders the retrieved products as the human-readable block
// the model is allowed to answer from.
func ProductContext(products []catalog.Product) string {
	if len(products) == 0 {
		return "No se encontraron productos que coincidan con la búsqueda."
	}
	lines := make([]string, len(products))
	for i, p := range products {
		lines[i] = fmt.Sprintf("- ID: %s, Nombre: %s, Descripción: %s, Precio: %s %.2f, Familia: %s, Subfamilia: %s, Foto: %s",
			p.ID, p.Name, p.Description, p.Currency, p.Price, p.Family, p.Subfamily, p.PhotoURL)
	}
	return strings.Join(lines, "\n")
}
