// Command flowcraft validates, converts and renders chatbot flow documents and serves
// the editor over HTTP or MCP.
package main

func main() {
	Execute()
}
