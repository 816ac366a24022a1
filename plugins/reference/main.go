package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pluginrpc "worktrack/internal/modules/plugin/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:         "reference",
		Version:      "1.0.0",
		Capabilities: []string{"command", "analyze"},
	}, nil
}

func (s *server) ListCommands(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.ListCommandsResponse, error) {
	return &pluginrpc.ListCommandsResponse{Commands: []pluginrpc.CommandDescriptor{
		{ID: "echo", Title: "Echo", Description: "Echoes provided input", Kind: "command", TimeoutMS: 2000},
		{ID: "analyze-day", Title: "Analyze day", Description: "Judges the day's metrics", Kind: "analyze", TimeoutMS: 2500},
	}}, nil
}

func (s *server) Execute(_ context.Context, in *pluginrpc.ExecuteRequest) (*pluginrpc.ExecuteResponse, error) {
	switch in.CommandID {
	case "echo":
		if strings.TrimSpace(in.InputJSON) == "" {
			return &pluginrpc.ExecuteResponse{Stdout: "echo", OutputJSON: `{"echo":""}`, ExitCode: 0}, nil
		}
		return &pluginrpc.ExecuteResponse{Stdout: in.InputJSON, OutputJSON: fmt.Sprintf(`{"echo":%q}`, in.InputJSON), ExitCode: 0}, nil
	case "analyze-day":
		metrics := map[string]any{}
		if strings.TrimSpace(in.Context.MetricsJSON) != "" {
			_ = json.Unmarshal([]byte(in.Context.MetricsJSON), &metrics)
		}
		verdict := "quiet day"
		if today, ok := metrics["todaySeconds"].(float64); ok && today >= 14400 {
			verdict = "solid day"
		}
		raw, _ := json.Marshal(map[string]any{
			"date_key":    in.Context.DateKey,
			"verdict":     verdict,
			"metric_keys": len(metrics),
		})
		return &pluginrpc.ExecuteResponse{Stdout: "analysis complete", OutputJSON: string(raw), ExitCode: 0}, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", in.CommandID)
	}
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
