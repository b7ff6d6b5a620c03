package flowcraft_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/flowcraft"
	"github.com/aretw0/flowcraft/pkg/adapters/memory"
	"github.com/aretw0/flowcraft/pkg/dsl"
	"github.com/aretw0/flowcraft/pkg/serializer"
)

// ExampleEditor_Open builds a flow in Go, stores it and opens it in a new editor.
func ExampleEditor_Open() {
	b := dsl.New()
	b.Start().Go("hello")
	b.Add("hello").Message("Hello from memory!")

	data, err := serializer.Encode(b.MustBuild(), serializer.FormatJSON)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	docs := memory.NewStore()
	author := flowcraft.New(flowcraft.WithDocumentStore(docs), flowcraft.WithFlowName("greeting"))
	if err := author.Import(data, serializer.FormatJSON); err != nil {
		log.Fatal(err)
	}
	if err := author.Save(ctx); err != nil {
		log.Fatal(err)
	}

	reader := flowcraft.New(flowcraft.WithDocumentStore(docs))
	if err := reader.Open(ctx, "greeting"); err != nil {
		log.Fatal(err)
	}
	nodes, edges := reader.Len()
	fmt.Println(reader.FlowName(), nodes, edges, reader.Valid())
	// Output:
	// greeting 2 1 true
}
