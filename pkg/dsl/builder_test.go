package dsl

import (
	"testing"

	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()

	b.Start().Go("ask_name")

	b.Add("ask_name").
		Question("What is your name?").
		SaveTo("user_name").
		Go("check")

	b.Add("check").
		Name("Adult?").
		Condition("age >= 18").
		Branch("yes", "greet").
		Branch("no", "bye")

	b.Add("greet").
		Message("Nice to meet you!")

	b.Add("bye").
		Call(domain.MethodPost, "https://example.com/leads").
		Header("Content-Type", "application/json").
		Body(`{"source":"bot"}`).
		At(10, 20)

	doc, err := b.Build()
	require.NoError(t, err)

	require.Len(t, doc.Nodes, 5)
	assert.Equal(t, domain.NewStartNode(), doc.Nodes[0])
	assert.Equal(t, domain.QuestionPayload{Question: "What is your name?", Variable: "user_name"}, doc.Nodes[1].Payload)
	assert.Equal(t, "Question Node", doc.Nodes[1].Name)
	assert.Equal(t, domain.Position{X: 250, Y: 170}, doc.Nodes[1].Position)
	assert.Equal(t, "Adult?", doc.Nodes[2].Name)
	assert.Equal(t, domain.Position{X: 10, Y: 20}, doc.Nodes[4].Position)
	assert.Equal(t, map[string]string{"Content-Type": "application/json"}, doc.Nodes[4].Payload.(domain.APIPayload).Headers)

	assert.Equal(t, []domain.Edge{
		{ID: "edge-1", Source: domain.StartNodeID, Target: "ask_name"},
		{ID: "edge-2", Source: "ask_name", Target: "check"},
		{ID: "edge-3", Source: "check", Target: "greet", Label: "yes"},
		{ID: "edge-4", Source: "check", Target: "bye", Label: "no"},
	}, doc.Edges)

	assert.Empty(t, validator.ValidateFlow(doc))
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	first := b.Add("a").Message("one")
	assert.Same(t, first, b.Add("a"))
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("Missing Type", func(t *testing.T) {
		b := New()
		b.Add("a")
		_, err := b.Build()
		assert.ErrorIs(t, err, domain.ErrUnknownNodeType)
	})

	t.Run("Unknown Target", func(t *testing.T) {
		b := New()
		b.Start().Go("ghost")
		_, err := b.Build()
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
		assert.Panics(t, func() { b.MustBuild() })
	})
}

func TestNodeBuilder_Extra(t *testing.T) {
	n := New().Add("a").Message("hi").Extra("color", "red").Build()
	assert.Equal(t, map[string]any{"color": "red"}, n.Extra)
}
