package designer

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/linesmerrill/report-designer-api/catalog"
)

var validate = validator.New()

// Metadata is the user supplied library information applied on save: name,
// description, category, tags and visibility.
type Metadata struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags" validate:"max=10,dive,required,max=30"`
	IsPublic    bool     `json:"isPublic"`
}

// Validate checks the metadata before it is written with a template. An
// empty category leaves the template uncategorized.
func (m Metadata) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMetadata, describe(err))
	}
	if m.Category != "" && !catalog.IsTemplateCategory(m.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidMetadata, m.Category)
	}
	return nil
}

// checkComponent verifies the value constraints of a single component
func checkComponent(c Component) error {
	if err := validate.Struct(c.Position); err != nil {
		return fmt.Errorf("position: %s", describe(err))
	}
	if c.Config == nil {
		return errors.New("config: missing")
	}
	if c.Config.Kind() != c.Type {
		return fmt.Errorf("config: %s config on a %s component", c.Config.Kind(), c.Type)
	}
	if err := validate.Struct(c.Config); err != nil {
		return fmt.Errorf("config: %s", describe(err))
	}
	return nil
}

// checkTemplate verifies the template level constraints, not its components
func checkTemplate(t Template) error {
	if err := validate.Struct(t); err != nil {
		return errors.New(describe(err))
	}
	return nil
}

// describe flattens a validator error into "Field failed 'tag'" text
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed '%s=%s'", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag())
}
