package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Blob is an inline binary document (PDF or image) sent alongside the prompt.
type Blob struct {
	MIMEType string
	Data     []byte
}

// Tool is the single function the model is asked to call with its structured answer.
type Tool struct {
	Name        string
	Description string
	Parameters  *genai.Schema
}

// Request is one model invocation.
type Request struct {
	SystemInstruction string
	Prompt            string
	Blob              *Blob
	Tool              *Tool
}

// FunctionCall is a tool invocation returned by the model.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// Response holds what the model returned: function calls and any free text.
type Response struct {
	Model         string
	FunctionCalls []FunctionCall
	Text          string
}

// Call returns the first function call with the given name.
func (r *Response) Call(name string) (FunctionCall, bool) {
	if r == nil {
		return FunctionCall{}, false
	}
	for _, fc := range r.FunctionCalls {
		if fc.Name == name {
			return fc, true
		}
	}
	return FunctionCall{}, false
}

// Invoker performs a single call against one model with one credential.
type Invoker interface {
	Invoke(ctx context.Context, cred Credential, model string, req Request) (*Response, error)
}

// Client runs requests through the rotation layer.
type Client struct {
	rotator *Rotator
	invoker Invoker
	logger  *zap.Logger
}

// NewClient creates a client. The invoker is usually a GeminiInvoker.
func NewClient(rotator *Rotator, invoker Invoker, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{rotator: rotator, invoker: invoker, logger: logger}
}

// Generate sends the request, rotating credentials and models on rate limits.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	var resp *Response
	err := c.rotator.Do(ctx, func(ctx context.Context, cred Credential, model string) error {
		r, err := c.invoker.Invoke(ctx, cred, model, req)
		if err != nil {
			return err
		}
		r.Model = model
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("model call succeeded",
		zap.String("model", resp.Model),
		zap.Int("function_calls", len(resp.FunctionCalls)),
	)
	return resp, nil
}

// Rotator exposes the rotation state, mainly so tests can reset it.
func (c *Client) Rotator() *Rotator {
	return c.rotator
}

// GeminiInvoker implements Invoker for Google Gemini.
type GeminiInvoker struct {
	gen Generation
}

// NewGeminiInvoker creates a Gemini invoker. A nil gen uses DefaultGeneration.
func NewGeminiInvoker(gen *Generation) *GeminiInvoker {
	if gen == nil {
		d := DefaultGeneration()
		gen = &d
	}
	return &GeminiInvoker{gen: *gen}
}

// Invoke calls the model. A genai client is created per call because the credential can change
// from one call to the next.
func (g *GeminiInvoker) Invoke(ctx context.Context, cred Credential, modelName string, req Request) (*Response, error) {
	if cred.Key == "" {
		return nil, ErrNoCredentials
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cred.Key))
	if err != nil {
		return nil, &APICallError{Model: modelName, Message: "failed to create Gemini client", Cause: err}
	}
	defer func() { _ = client.Close() }()

	model := client.GenerativeModel(modelName)
	model.SetTemperature(g.gen.Temperature)
	if g.gen.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(g.gen.MaxOutputTokens)
	}
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstruction)}}
	}
	if req.Tool != nil {
		model.Tools = []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        req.Tool.Name,
				Description: req.Tool.Description,
				Parameters:  req.Tool.Parameters,
			}},
		}}
		model.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingAny,
				AllowedFunctionNames: []string{req.Tool.Name},
			},
		}
	}

	parts := []genai.Part{genai.Text(req.Prompt)}
	if req.Blob != nil {
		parts = append(parts, genai.Blob{MIMEType: req.Blob.MIMEType, Data: req.Blob.Data})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &APICallError{Model: modelName, Message: "failed to generate content", Cause: err}
	}
	return responseFromGenai(resp), nil
}

// responseFromGenai collects function calls and text from the first candidate.
func responseFromGenai(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil || len(resp.Candidates) == 0 {
		return out
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return out
	}

	var text []string
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text = append(text, string(p))
		case genai.FunctionCall:
			out.FunctionCalls = append(out.FunctionCalls, FunctionCall{Name: p.Name, Args: p.Args})
		case *genai.FunctionCall:
			out.FunctionCalls = append(out.FunctionCalls, FunctionCall{Name: p.Name, Args: p.Args})
		}
	}
	out.Text = strings.Join(text, "")
	return out
}
