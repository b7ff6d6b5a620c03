package main

import (
	"github.com/aretw0/flowcraft/pkg/adapters/memory"
	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/dsl"
)

const defaultTemplate = "greeting"

// templates returns the starter documents offered by "flowcraft new".
func templates() (*memory.Loader, error) {
	greeting := dsl.New()
	greeting.Start().Go("welcome")
	greeting.Add("welcome").Name("Welcome").Message("Hi! How can I help you today?")

	lead := dsl.New()
	lead.Start().Go("ask-name")
	lead.Add("ask-name").Name("Ask name").Question("What is your name?").SaveTo("name").Go("ask-email")
	lead.Add("ask-email").Name("Ask email").Question("What is your email?").SaveTo("email").Go("submit")
	lead.Add("submit").Name("Submit lead").
		Call(domain.MethodPost, "https://example.com/leads").
		Header("Content-Type", "application/json").
		Body(`{"name": "{{name}}", "email": "{{email}}"}`).
		Go("thanks")
	lead.Add("thanks").Name("Thanks").Message("Thanks {{name}}, we will be in touch.")

	support := dsl.New()
	support.Start().Go("ask-topic")
	support.Add("ask-topic").Name("Ask topic").Question("Is this about billing? (yes/no)").SaveTo("billing").Go("route")
	support.Add("route").Name("Billing?").Condition(`billing == "yes"`).
		Branch("yes", "billing").
		Branch("no", "general")
	support.Add("billing").Name("Billing team").Set("queue", "billing").Go("handoff")
	support.Add("general").Name("General team").Set("queue", "general").Go("handoff")
	support.Add("handoff").Name("Hand-off").Message("Connecting you to the {{queue}} team.")

	return memory.NewFromDocs(map[string]*domain.FlowData{
		"blank":        domain.NewFlowData(),
		"greeting":     greeting.MustBuild(),
		"lead-capture": lead.MustBuild(),
		"support":      support.MustBuild(),
	})
}
