package generator

import "github.com/khanglvm/suggest-engine/internal/activity"

// Property describes one field of the expected result.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Schema is a minimal JSON-schema object sent alongside the prompt.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// SuggestionSchema returns the schema for activity.Suggestion.
func SuggestionSchema() Schema {
	costs := make([]string, 0, len(activity.CostTiers))
	for _, c := range activity.CostTiers {
		costs = append(costs, string(c))
	}

	return Schema{
		Type: "object",
		Properties: map[string]Property{
			"title":       {Type: "string", Description: "short name of the activity"},
			"description": {Type: "string", Description: "one or two sentences"},
			"category":    {Type: "string"},
			"cost":        {Type: "string", Enum: costs},
			"duration":    {Type: "string", Description: "human readable, e.g. 2-3 hours"},
			"tip":         {Type: "string"},
		},
		Required: []string{"title", "description", "category", "cost", "duration"},
	}
}
