package domain

// GlobalNodeID is the NodeID of validation errors that concern the whole flow.
const GlobalNodeID = "global"

// ValidationError reports a required-field or structural omission in a flow.
// Validation errors are data: they never block editing.
type ValidationError struct {
	NodeID  string `json:"nodeId" yaml:"nodeId"`
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (e ValidationError) String() string {
	return e.NodeID + "." + e.Field + ": " + e.Message
}
