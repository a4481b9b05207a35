package llm

import (
	"context"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAI(baseURL, apiKey, model string) *OpenAIProvider {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, option.WithHTTPClient(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}))
	client := openai.NewClient(opts...)
	return &OpenAIProvider{client: &client, model: model}
}

func (o *OpenAIProvider) Chat(ctx context.Context, system string, msgs []Message, tools []ToolDef) (*Reply, error) {
	var input []responses.ResponseInputItemUnionParam
	if system != "" {
		input = append(input, responses.ResponseInputItemParamOfMessage(system, "developer"))
	}

	for _, m := range msgs {
		switch m.Role {
		case RoleUser:
			input = append(input, responses.ResponseInputItemParamOfMessage(m.Content, "user"))
		case RoleAssistant:
			if m.Content != "" {
				input = append(input, responses.ResponseInputItemParamOfMessage(m.Content, "assistant"))
			}
			for _, tc := range m.ToolCalls {
				input = append(input, responses.ResponseInputItemUnionParam{
					OfFunctionCall: &responses.ResponseFunctionToolCallParam{
						CallID:    tc.ID,
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
		case RoleTool:
			input = append(input, responses.ResponseInputItemParamOfFunctionCallOutput(m.CallID, m.Content))
		}
	}

	var toolParams []responses.ToolUnionParam
	for _, t := range tools {
		toolParams = append(toolParams, responses.ToolUnionParam{
			OfFunction: &responses.FunctionToolParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  t.Schema,
				Strict:      openai.Bool(true),
			},
		})
	}

	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(o.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: input,
		},
		Tools: toolParams,
	})
	if err != nil {
		return nil, err
	}

	reply := &Reply{Text: resp.OutputText()}
	for _, item := range resp.Output {
		if item.Type == "function_call" {
			fc := item.AsFunctionCall()
			reply.ToolCalls = append(reply.ToolCalls, ToolCall{
				ID:        fc.CallID,
				Name:      fc.Name,
				Arguments: fc.Arguments,
			})
		}
	}

	return reply, nil
}
