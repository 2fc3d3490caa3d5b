package llm

import (
	"context"

	"github.com/teilomillet/chatagent/types"
)

// FunctionHandler executes a locally-registered function on the model's
// behalf and returns the result text sent back in a tool message.
type FunctionHandler func(ctx context.Context, args map[string]any) (string, error)

// RegisterFunction binds a handler to a function name declared on prompts.
func (c *Client) RegisterFunction(name string, handler FunctionHandler) {
	c.functions[name] = handler
}

// loopState drives the function-calling exchange. The exchange is a bounded
// state machine rather than recursive re-invocation, so the round bound and
// termination condition are explicit.
type loopState int

const (
	stateAwaitingModel loopState = iota
	stateExecutingFunction
	stateDone
	stateLoopExceeded
)

// runFunctionLoop repeatedly invokes the model, executing requested
// functions between rounds, until a final message is produced or
// MaxFunctionRounds model responses have requested tool use.
func (c *Client) runFunctionLoop(ctx context.Context, prompt *Prompt, options map[string]any) (*Response, error) {
	current := prompt
	state := stateAwaitingModel
	rounds := 0
	maxRounds := c.config.MaxFunctionRounds
	var resp *Response
	var lastCall string

	for {
		switch state {
		case stateAwaitingModel:
			var err error
			resp, err = c.invoke(ctx, current, options)
			if err != nil {
				return nil, err
			}
			if !resp.HasToolCalls() || len(current.Tools) == 0 {
				state = stateDone
				break
			}
			rounds++
			if rounds > maxRounds {
				lastCall = resp.ToolCalls[0].Function.Name
				state = stateLoopExceeded
				break
			}
			state = stateExecutingFunction

		case stateExecutingFunction:
			next, err := c.executeCalls(ctx, current, resp)
			if err != nil {
				return nil, err
			}
			current = next
			state = stateAwaitingModel

		case stateDone:
			return resp, nil

		case stateLoopExceeded:
			return nil, &FunctionLoopError{Rounds: maxRounds, LastCall: lastCall}
		}
	}
}

// executeCalls appends the assistant's tool-call message, runs every
// requested function, and appends one tool message per result. Handler
// errors are reported to the model as error results rather than aborting
// the exchange; an unknown function name is reported the same way.
func (c *Client) executeCalls(ctx context.Context, prompt *Prompt, resp *Response) (*Prompt, error) {
	next := prompt.Append(types.Message{
		Role:      types.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	})

	for _, call := range resp.ToolCalls {
		result := c.executeCall(ctx, call)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next = next.Append(types.Message{
			Role:       types.RoleTool,
			Content:    result.Content,
			ToolCallID: result.ToolCallID,
		})
	}
	return next, nil
}

func (c *Client) executeCall(ctx context.Context, call types.ToolCall) types.ToolResult {
	name := call.Function.Name
	handler, ok := c.functions[name]
	if !ok {
		c.logger.Warn("Model requested unregistered function", "function", name)
		return types.NewToolError(call.ID, "unknown function: "+name)
	}

	args, err := call.Arguments()
	if err != nil {
		return types.NewToolError(call.ID, "invalid arguments: "+err.Error())
	}

	c.logger.Debug("Executing function", "function", name)
	content, err := handler(ctx, args)
	if err != nil {
		return types.NewToolError(call.ID, err.Error())
	}
	return types.NewToolResult(call.ID, content)
}
