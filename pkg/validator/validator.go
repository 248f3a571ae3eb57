package validator

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate = newValidate()

	mu       sync.RWMutex
	messages = map[string]string{}
)

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}
	// Report fields by their JSON name so messages line up with request bodies.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Register adds a custom validation tag. It panics on an invalid tag name and is
// meant to be called from package init.
func Register(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// RegisterCtx adds a custom validation tag whose function receives the
// context passed to ValidateCtx.
func RegisterCtx(tag string, fn validator.FuncCtx) {
	if err := validate.RegisterValidationCtx(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// RegisterMessages installs user-facing messages keyed by "<field>.<tag>", where
// field is the JSON name of the struct field.
func RegisterMessages(m map[string]string) {
	mu.Lock()
	defer mu.Unlock()
	for k, v := range m {
		messages[k] = v
	}
}

// Validate validates a struct using go-playground/validator tags.
func Validate(s any) error {
	return ValidateCtx(context.Background(), s)
}

// ValidateCtx validates a struct, handing ctx to context-aware rules.
func ValidateCtx(ctx context.Context, s any) error {
	if err := validate.StructCtx(ctx, s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return &ValidationError{Errors: validationErrors}
		}
		return err
	}
	return nil
}

// ValidationError wraps validator.ValidationErrors with user-friendly messages.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns one message per failed field in struct declaration order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	seen := make(map[string]struct{}, len(e.Errors))
	for _, fe := range e.Errors {
		if _, dup := seen[fe.Namespace()]; dup {
			continue
		}
		seen[fe.Namespace()] = struct{}{}
		msgs = append(msgs, messageFor(fe))
	}
	return msgs
}

func messageFor(fe validator.FieldError) string {
	mu.RLock()
	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	mu.RUnlock()
	if ok {
		return msg
	}
	return fmt.Sprintf("%s %s", fe.Field(), msgForTag(fe))
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "alphanum":
		return "must be alphanumeric"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
