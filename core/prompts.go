package core

import (
	"fmt"
	"strings"

	"github.com/santiagomed/dapp/contract"
)

const maxComponentLines = 150

func getSystemPrompt() string {
	return `You are an expert React developer who builds web interfaces for deployed smart contracts.

You design small, focused components that read from and write to a contract through wallet hooks, and you write plain JavaScript with JSX only.

Follow the requested output format exactly. When asked for JSON, respond with a single JSON object and nothing else.`
}

func getPlanPrompt(abi contract.ABI, address, requirement string) string {
	events := strings.Join(abi.EventNames(), ", ")
	if events == "" {
		events = "none"
	}

	var req string
	if strings.TrimSpace(requirement) != "" {
		req = fmt.Sprintf("\nUser requirements: %s\n", strings.TrimSpace(requirement))
	}

	return fmt.Sprintf(`Design the interface for a %s contract deployed at %s.

Contract functions: %s
Contract events: %s
%s
Plan between 4 and 7 components. Include:
1. At least one layout component (app shell, header or navigation)
2. Feature components that read from or write to the contract
3. Small ui components shared by the feature components

List components in the order they should be built: building blocks first, components that use them later.

Respond with a JSON object of this shape:
{
  "appName": "short name of the app",
  "description": "one sentence about what the app does",
  "theme": {"primaryColor": "#hex color", "style": "visual style keywords"},
  "components": [
    {"name": "PascalCaseName", "description": "what it renders and which contract functions it uses", "type": "layout|feature|ui"}
  ]
}`, contract.Classify(abi), address, strings.Join(abi.FunctionNames(), ", "), events, req)
}

func formatFunctions(abi contract.ABI) string {
	var sb strings.Builder
	for _, fn := range abi.Functions() {
		mode := "write"
		if fn.IsView() {
			mode = "read"
		}
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", fn.Signature(), mode))
	}
	if sb.Len() == 0 {
		return "- none\n"
	}
	return sb.String()
}

func getComponentPrompt(spec ComponentSpec, plan *Plan, abi contract.ABI, address string, prior []GeneratedComponent) string {
	existing := "none yet"
	if len(prior) > 0 {
		names := make([]string, len(prior))
		for i, c := range prior {
			names[i] = c.Name
		}
		existing = strings.Join(names, ", ")
	}

	return fmt.Sprintf(`App: %s (%s)
Theme: primary color %s, style %s
Contract address: %s
Contract functions:
%s
Write exactly one React component.

Name: %s
Type: %s
Description: %s

Components already written, which you may render by name: %s

Rules:
1. Keep it under %d lines
2. You may use useState and useEffect, useReadContract and useWriteContract for the contract, formatEther for amounts, and motion for animation
3. The ABI is available as the constant CONTRACT_ABI and the address as CONTRACT_ADDRESS
4. Do not write import or export statements
5. Do not write type annotations, interfaces or generics
6. Style with Tailwind class names

Respond with a JSON object: {"name": "%s", "code": "the component source"}`,
		plan.AppName, plan.Description, plan.Theme.PrimaryColor, plan.Theme.Style,
		address, formatFunctions(abi),
		spec.Name, spec.Kind, spec.Description,
		existing, maxComponentLines, spec.Name)
}

func getAssemblyPrompt(plan *Plan, components []GeneratedComponent, abi contract.ABI, address string) string {
	var sb strings.Builder
	for _, c := range components {
		sb.WriteString(fmt.Sprintf("// %s\n%s\n\n", c.Name, c.Code))
	}

	return fmt.Sprintf(`Combine the following components into one self-contained file for the app "%s".

%s
Contract address: %s
Contract ABI: %s

Requirements:
1. Declare const CONTRACT_ADDRESS and const CONTRACT_ABI at the top with the values above
2. Include every component once, keeping its behaviour
3. Finish with a root component named App that lays out the components
4. Do not write import or export statements
5. Do not write type annotations

Output only the source code.`, plan.AppName, sb.String(), address, abi.JSON())
}
