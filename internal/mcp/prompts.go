package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerPrompts(s *server.MCPServer) {
	injectionPrompt := mcpsdk.NewPrompt("di_conversion",
		mcpsdk.WithPromptDescription("Plan the conversion of a Drupal class from static \\Drupal calls to constructor injection"),
		mcpsdk.WithArgument("file",
			mcpsdk.ArgumentDescription("Path of the class file to convert"),
			mcpsdk.RequiredArgument(),
		),
		mcpsdk.WithArgument("context",
			mcpsdk.ArgumentDescription("Additional context about the class or module"),
		),
	)

	s.AddPrompt(injectionPrompt, func(ctx context.Context, request mcpsdk.GetPromptRequest) (*mcpsdk.GetPromptResult, error) {
		args := request.Params.Arguments

		file, ok := args["file"]
		if !ok {
			return nil, fmt.Errorf("file is required")
		}
		extra := args["context"]

		prompt := fmt.Sprintf(`You are a Drupal dependency-injection expert. Help convert the following class from static \Drupal calls to constructor injection:

File: %s`, file)

		if extra != "" {
			prompt += fmt.Sprintf(`
Context: %s`, extra)
		}

		prompt += `

Work with the drupalrefactor tools:
1. Call class_skeleton to learn the class structure and its detected role
2. Call detect_static_calls to list the static service lookups
3. Review the planned edits from inject_services before applying them
4. Re-run inject_services with apply=true once the plan looks right

Watch out for:
- Classes extending ControllerBase or FormBase get a static create() factory, not a services.yml entry
- Plugin classes need ContainerFactoryPluginInterface and the plugin create() signature
- Plain services must have their new constructor arguments mirrored in the module's services.yml
- Calls inside static methods cannot use $this; exclude their ids with the services argument and convert those sites by hand`

		return &mcpsdk.GetPromptResult{
			Description: "Dependency injection conversion guidance",
			Messages: []mcpsdk.PromptMessage{
				{
					Role: mcpsdk.RoleUser,
					Content: mcpsdk.TextContent{
						Type: "text",
						Text: prompt,
					},
				},
			},
		}, nil
	})
}
