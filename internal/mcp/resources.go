package mcp

import (
	"context"
	"encoding/json"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mamaar/drupalrefactor/pkg/analysis"
)

const (
	servicesResourceURI  = "drupalrefactor://services"
	shortcutsResourceURI = "drupalrefactor://shortcuts"
)

func registerResources(s *server.MCPServer, state *MCPServer) {
	servicesResource := mcpsdk.NewResource(servicesResourceURI,
		"Workspace Services",
		mcpsdk.WithResourceDescription("Every service indexed from the workspace's *.services.yml files"),
		mcpsdk.WithMIMEType("application/json"),
	)

	s.AddResource(servicesResource, func(ctx context.Context, request mcpsdk.ReadResourceRequest) ([]mcpsdk.ResourceContents, error) {
		state.RLock()
		defer state.RUnlock()

		index, err := state.GetRegistry()
		if err != nil {
			return nil, err
		}

		data, err := json.MarshalIndent(serviceResults(index.All()), "", "  ")
		if err != nil {
			return nil, err
		}
		return []mcpsdk.ResourceContents{
			mcpsdk.TextResourceContents{
				URI:      servicesResourceURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})

	shortcutsResource := mcpsdk.NewResource(shortcutsResourceURI,
		"Shortcut Accessors",
		mcpsdk.WithResourceDescription("The built-in mapping from \\Drupal accessor methods to service ids"),
		mcpsdk.WithMIMEType("application/json"),
	)

	s.AddResource(shortcutsResource, func(ctx context.Context, request mcpsdk.ReadResourceRequest) ([]mcpsdk.ResourceContents, error) {
		data, err := json.MarshalIndent(analysis.ShortcutServices, "", "  ")
		if err != nil {
			return nil, err
		}
		return []mcpsdk.ResourceContents{
			mcpsdk.TextResourceContents{
				URI:      shortcutsResourceURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
