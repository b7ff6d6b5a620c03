/*
Package ports defines the driven ports (interfaces) of the flow editor.

These interfaces decouple the editor from storage backends, so the same editor
can autosave to memory, a directory, or Redis, and browse a read-only library
of flows.

# Key Interfaces

  - DocumentStore: persists the canonical document of a named flow.
  - DocumentLoader: read-only access to a library of flow documents (e.g. Loam).
  - Watchable: loaders that can signal changes to the underlying files.
*/
package ports
