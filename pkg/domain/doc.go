/*
Package domain contains the flow data model shared by every other package.

It defines the entities a chatbot flow is made of and the canonical document
used to exchange flows. The package is kept free of I/O.

# Key Entities

  - Node: one step of the flow. Its type-specific data is a sealed Payload union
    (StartPayload, MessagePayload, QuestionPayload, SetVariablePayload,
    ConditionPayload, APIPayload).
  - Edge: a directed connection between two nodes.
  - FlowData: the canonical {nodes, edges} document.
  - ValidationError: a structured report of an incomplete flow.
  - NodeChange / EdgeChange: incremental edits coming from a canvas.
*/
package domain
