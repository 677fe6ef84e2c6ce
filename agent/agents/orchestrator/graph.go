package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/taskmaster-ai/taskmaster-agent/agent/nodes"
)

// compileCycleGraph wires one orchestration cycle:
//
//	validate -> load_context -> draft -> detect
//	detect -> execute_tool -> ground -> record_grounded   (tool envelope)
//	detect -> record_direct                               (plain text)
func (o *Orchestrator) compileCycleGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadContext(in, o.store, o.window)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_context: %w", err)
	}

	if err := graph.AddLambdaNode("draft",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Draft(ctx, in, o.gen, o.system, o.opts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node draft: %w", err)
	}

	if err := graph.AddLambdaNode("detect",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Detect(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node detect: %w", err)
	}

	if err := graph.AddLambdaNode("execute_tool",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExecuteTool(ctx, in, o.tools)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_tool: %w", err)
	}

	if err := graph.AddLambdaNode("ground",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Ground(ctx, in, o.gen, o.opts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node ground: %w", err)
	}

	if err := graph.AddLambdaNode("record_grounded",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Record(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_grounded: %w", err)
	}

	if err := graph.AddLambdaNode("record_direct",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Record(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_direct: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in.HasToolCall() {
				return "execute_tool", nil
			}
			return "record_direct", nil
		},
		map[string]bool{
			"execute_tool":  true,
			"record_direct": true,
		},
	)

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_context"},
		{"load_context", "draft"},
		{"draft", "detect"},
		{"execute_tool", "ground"},
		{"ground", "record_grounded"},
		{"record_grounded", compose.END},
		{"record_direct", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}
	if err := graph.AddBranch("detect", branch); err != nil {
		return nil, fmt.Errorf("add detect branch: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.cycle"))
	if err != nil {
		return nil, fmt.Errorf("compile cycle graph: %w", err)
	}
	return runner, nil
}
