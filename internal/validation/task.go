package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"task_tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateInput is the body of POST /tasks. Unknown fields are ignored.
type CreateInput struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description"`
}

// UpdateInput is the body of PUT/PATCH /tasks/{id}. Omitted fields are not changed.
type UpdateInput struct {
	Title       domain.Optional[string] `json:"title"`
	Description domain.Optional[string] `json:"description"`
	Completed   domain.Optional[bool]   `json:"completed"`
}

// Patch converts the input into a repository patch.
func (in UpdateInput) Patch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}
}

// ReadOutput is the JSON shape of a stored task.
type ReadOutput struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func NewReadOutput(t *domain.Task) ReadOutput {
	return ReadOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func NewReadOutputs(tasks []*domain.Task) []ReadOutput {
	out := make([]ReadOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewReadOutput(t))
	}
	return out
}

// DecodeCreate parses and validates a create body.
func DecodeCreate(body []byte) (CreateInput, error) {
	var in CreateInput
	if err := json.Unmarshal(body, &in); err != nil {
		return CreateInput{}, newError(fromDecodeError("", err))
	}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return CreateInput{}, fromValidatorErrors(verrs)
		}
		return CreateInput{}, err
	}
	return in, nil
}

// DecodeUpdate parses an update body, keeping track of which fields were sent.
// An absent field is left unchanged. An explicit null clears description and is
// rejected for title and completed.
func DecodeUpdate(body []byte) (UpdateInput, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return UpdateInput{}, newError(bodyField("", "Input should be a valid object", "model_type"))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return UpdateInput{}, newError(fromDecodeError("", err))
	}

	var in UpdateInput
	var errs []FieldError
	decodeField(raw, "title", &in.Title, &errs)
	decodeField(raw, "description", &in.Description, &errs)
	decodeField(raw, "completed", &in.Completed, &errs)

	// title and completed are NOT NULL columns
	if in.Title.Set && in.Title.Null {
		errs = append(errs, bodyField("title", "Input should be a valid string", "null_not_allowed"))
	}
	if in.Completed.Set && in.Completed.Null {
		errs = append(errs, bodyField("completed", "Input should be a valid boolean", "null_not_allowed"))
	}

	if len(errs) > 0 {
		return UpdateInput{}, newError(errs...)
	}
	return in, nil
}

func decodeField(raw map[string]json.RawMessage, name string, dst json.Unmarshaler, errs *[]FieldError) {
	v, ok := raw[name]
	if !ok {
		return
	}
	if err := dst.UnmarshalJSON(v); err != nil {
		*errs = append(*errs, fromDecodeError(name, err))
	}
}

// ParseCompletedFilter parses the optional ?completed= query value.
// An empty value, as in ?completed=, means no filter.
func ParseCompletedFilter(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	var v bool
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on", "t", "y":
		v = true
	case "false", "0", "no", "off", "f", "n":
		v = false
	default:
		return nil, newError(FieldError{
			Loc:  []string{"query", "completed"},
			Msg:  "Input should be a valid boolean, unable to interpret input",
			Type: "bool_parsing",
		})
	}
	return &v, nil
}

// ParseTaskID parses the {id} path segment.
func ParseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, newError(FieldError{
			Loc:  []string{"path", "task_id"},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
			Type: "int_parsing",
		})
	}
	return id, nil
}
