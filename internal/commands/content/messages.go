package contentcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-site/internal/collections"
)

const validateContentMessageType = "site.content.validate"

// ResultCallback receives the report of a validation run. It is invoked
// synchronously before the handler returns, also when content is invalid.
type ResultCallback func(*Report)

// ValidateContentCommand loads and validates content collections.
type ValidateContentCommand struct {
	// Collections limits the run to the named collections. Empty means every
	// collection whose module is enabled.
	Collections []string `json:"collections,omitempty"`
	// Strict turns duplicate section ids into failures.
	Strict         bool           `json:"strict,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ValidateContentCommand) Type() string { return validateContentMessageType }

// Validate ensures every requested collection is known.
func (cmd ValidateContentCommand) Validate() error {
	known := make([]any, 0, len(collections.Names()))
	for _, name := range collections.Names() {
		known = append(known, string(name))
	}
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Collections, validation.Each(
			validation.By(func(value any) error {
				if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
					return validation.NewError("site.content.validate.collection_required", "collection names must not be empty")
				}
				return nil
			}),
			validation.In(known...).Error("unknown collection"),
		)),
	)
}
