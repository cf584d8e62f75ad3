// Package mcptools exposes the planner as MCP tool calls.
package mcptools

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"VetNutrition/internal/domain"
	"VetNutrition/internal/usecase"
)

// ErrUnknownTool is returned for tool names that are not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool names.
const (
	ToolEnergy      = "energy"
	ToolFoods       = "foods"
	ToolPlan        = "plan"
	ToolIdealWeight = "ideal_weight"
)

// IdealWeightParams are the arguments of the ideal_weight tool.
type IdealWeightParams struct {
	Species            domain.Species `json:"species" description:"dog or cat"`
	WeightKg           float64        `json:"weightKg" description:"Current body weight in kg"`
	BodyConditionScore int            `json:"bodyConditionScore" description:"Body condition score on the 1-9 scale"`
}

// IdealWeightResult is returned by the ideal_weight tool.
type IdealWeightResult struct {
	IdealWeightKg float64 `json:"idealWeightKg"`
}

type handler func(req *protocol.CallToolRequest) (any, error)

// Tools dispatches tool calls to the planner.
type Tools struct {
	planner  *usecase.Planner
	logger   *slog.Logger
	handlers map[string]handler
}

// New registers every tool over planner.
func New(planner *usecase.Planner, log *slog.Logger) *Tools {
	t := &Tools{planner: planner, logger: log}
	t.handlers = map[string]handler{
		ToolEnergy:      t.handleEnergy,
		ToolFoods:       t.handleFoods,
		ToolPlan:        t.handlePlan,
		ToolIdealWeight: t.handleIdealWeight,
	}
	return t
}

// Names lists the registered tools in sorted order.
func (t *Tools) Names() []string {
	names := make([]string, 0, len(t.handlers))
	for name := range t.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Call runs one tool and wraps its JSON output as text content.
func (t *Tools) Call(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	h, ok := t.handlers[req.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, req.Name)
	}
	if t.logger != nil {
		t.logger.Debug("tool call", "tool", req.Name)
	}

	out, err := h(req)
	if err != nil {
		return nil, err
	}
	return jsonResult(out)
}

func (t *Tools) handleEnergy(req *protocol.CallToolRequest) (any, error) {
	var params domain.PatientInputs
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	return t.planner.Energy(params)
}

func (t *Tools) handleFoods(req *protocol.CallToolRequest) (any, error) {
	var params usecase.FoodQuery
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	return t.planner.Foods(params), nil
}

func (t *Tools) handlePlan(req *protocol.CallToolRequest) (any, error) {
	var params usecase.PlanRequest
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	return t.planner.Plan(params)
}

func (t *Tools) handleIdealWeight(req *protocol.CallToolRequest) (any, error) {
	var params IdealWeightParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	w, err := t.planner.IdealWeight(params.Species, params.WeightKg, params.BodyConditionScore)
	if err != nil {
		return nil, err
	}
	return IdealWeightResult{IdealWeightKg: w}, nil
}

// ParamsError marks malformed tool arguments.
type ParamsError struct {
	Err error
}

func (e *ParamsError) Error() string { return "invalid parameters: " + e.Err.Error() }

func (e *ParamsError) Unwrap() error { return e.Err }

func extractParams(req *protocol.CallToolRequest, target any) error {
	raw, err := json.Marshal(req.Arguments)
	if err != nil {
		return &ParamsError{Err: err}
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return &ParamsError{Err: err}
	}
	return nil
}

func jsonResult(data any) (*protocol.CallToolResult, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(raw),
			},
		},
	}, nil
}
