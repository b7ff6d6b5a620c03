package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/go-playground/validator/v10"
)

type addNodeRequest struct {
	Type domain.NodeType `json:"type" validate:"required,oneof=message question set_variable condition api"`
}

type connectRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Label  string `json:"label"`
}

type selectRequest struct {
	NodeID string `json:"nodeId" validate:"required"`
}

type nodeChangesRequest struct {
	Changes []domain.NodeChange `json:"changes" validate:"dive"`
}

type edgeChangesRequest struct {
	Changes []domain.EdgeChange `json:"changes" validate:"dive"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type validationResponse struct {
	Valid  bool                     `json:"valid"`
	Errors []domain.ValidationError `json:"errors"`
}

type selectionResponse struct {
	NodeID string   `json:"nodeId,omitempty"`
	Nodes  []string `json:"nodes"`
	Edges  []string `json:"edges"`
}

type paletteEntry struct {
	Type        domain.NodeType `json:"type"`
	Label       string          `json:"label"`
	DefaultName string          `json:"defaultName"`
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates req and flattens field errors into readable details.
func check(req any) []string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", fieldPath(fe)))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of: %s", fieldPath(fe), fe.Param()))
		default:
			details = append(details, fmt.Sprintf("%s failed %q", fieldPath(fe), fe.Tag()))
		}
	}
	return details
}

// fieldPath drops the request type name: "changes[0].type" rather than "nodeChangesRequest.changes[0].type".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
