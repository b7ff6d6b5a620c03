/*
Package dsl provides a fluent builder for constructing flow documents in Go.

It is useful for tests, starter templates and generated flows, where writing the
JSON document by hand would be noisy. The builder always includes the standard
start node, reachable through Start().

Example usage:

	b := dsl.New()

	b.Start().Go("ask_name")

	b.Add("ask_name").
		Question("What is your name?").
		SaveTo("user_name").
		Go("greet")

	b.Add("greet").
		Message("Nice to meet you!")

	doc, err := b.Build()
	// ... pass doc to an editor or serializer
*/
package dsl
