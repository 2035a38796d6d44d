package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/invokers/internal/continuation"
	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/failure"
)

// InvokeInput is the input schema for the invoke tool.
type InvokeInput struct {
	Profile      string `json:"profile" jsonschema:"the configured profile to call"`
	Input        string `json:"input,omitempty" jsonschema:"raw input, usually a Request document"`
	Continuation string `json:"continuation,omitempty" jsonschema:"token from a previous suspended result"`
}

// InvokeOutput is the output schema for the invoke and submit tools.
type InvokeOutput struct {
	ChainID      string `json:"chain_id,omitempty"`
	Kind         string `json:"kind"`
	Body         string `json:"body,omitempty"`
	Empty        bool   `json:"empty,omitempty"`
	DelayMillis  int64  `json:"delay_ms,omitempty"`
	Continuation string `json:"continuation,omitempty"`
	Category     string `json:"category,omitempty"`
	Message      string `json:"message,omitempty"`
}

// SubmitInput is the input schema for the submit tool.
type SubmitInput struct {
	Profile string `json:"profile" jsonschema:"the configured profile to call"`
	Input   string `json:"input,omitempty" jsonschema:"raw input, usually a Request document"`
}

// ProfilesOutput is the output schema for the list_profiles tool.
type ProfilesOutput struct {
	Profiles []string `json:"profiles"`
	Count    int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "invoke",
		Description: "Call a configured invoker once. A suspended result carries a delay " +
			"and a continuation token; wait, then call again with the token.",
	}, s.handleInvoke)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List the configured invoker profiles",
	}, s.handleListProfiles)

	if s.ports.Dispatcher != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "submit",
			Description: "Start a chain that the background dispatcher resumes until it finishes",
		}, s.handleSubmit)
	}
}

// handleInvoke handles the invoke tool invocation.
func (s *Server) handleInvoke(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InvokeInput,
) (*mcp.CallToolResult, InvokeOutput, error) {
	prior, err := continuation.DecodeToken(input.Continuation)
	if err != nil {
		return nil, outputOf(failure.FromError(err).Build()), nil
	}

	res, err := s.ports.Invocation.Invoke(ctx, input.Profile, input.Input, prior)
	if err != nil {
		return nil, InvokeOutput{}, err
	}
	return nil, outputOf(res), nil
}

// handleSubmit handles the submit tool invocation.
func (s *Server) handleSubmit(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubmitInput,
) (*mcp.CallToolResult, InvokeOutput, error) {
	id, res, err := s.ports.Dispatcher.Submit(ctx, input.Profile, input.Input)
	if err != nil {
		return nil, InvokeOutput{}, err
	}
	output := outputOf(res)
	output.ChainID = id
	// The dispatcher owns the chain from here.
	output.Continuation = ""
	return nil, output, nil
}

// handleListProfiles handles the list_profiles tool invocation.
func (s *Server) handleListProfiles(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ProfilesOutput, error) {
	profiles := s.ports.Invocation.Profiles()
	if profiles == nil {
		profiles = []string{}
	}
	return nil, ProfilesOutput{Profiles: profiles, Count: len(profiles)}, nil
}

// outputOf flattens a result for the wire.
func outputOf(res domain.Result) InvokeOutput {
	out := InvokeOutput{Kind: res.Kind.String()}

	switch res.Kind {
	case domain.KindCompleted:
		body, err := convert.RenderDocument(res.Body)
		if err != nil {
			return outputOf(failure.New(domain.CategoryDataConvert).
				Rawf("rendering result: %v", err).
				Cause(err).
				Build())
		}
		out.Body = body
		out.Empty = res.Empty
	case domain.KindSuspended:
		token, err := continuation.EncodeToken(res.Continuation)
		if err != nil {
			return outputOf(failure.Internal(err).Build())
		}
		out.DelayMillis = res.DelayMillis
		out.Continuation = token
	case domain.KindFailed:
		if res.Failure != nil {
			out.Category = string(res.Failure.Category)
			out.Message = res.Failure.Error()
		}
	}
	return out
}
