package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fastygo/todo/domain"
)

// Schemas check field types only; required and length rules belong to the
// domain so their messages stay the same across transports.
const (
	createTaskSchema = `{
		"type": "object",
		"properties": {
			"task": {"type": "string"}
		}
	}`

	updateTaskSchema = `{
		"type": "object",
		"properties": {
			"task": {"type": ["string", "null"]},
			"completed": {"type": ["boolean", "null"]}
		}
	}`
)

var (
	createSchema = jsonschema.MustCompileString("create_task.json", createTaskSchema)
	updateSchema = jsonschema.MustCompileString("update_task.json", updateTaskSchema)
)

// DecodeCreate parses and type-checks a create body.
func DecodeCreate(body []byte) (CreateTaskRequest, error) {
	var req CreateTaskRequest
	err := decode(body, createSchema, &req)
	return req, err
}

// DecodeUpdate parses and type-checks a patch body.
func DecodeUpdate(body []byte) (UpdateTaskRequest, error) {
	var req UpdateTaskRequest
	err := decode(body, updateSchema, &req)
	return req, err
}

func decode(body []byte, schema *jsonschema.Schema, dst interface{}) error {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.ErrInvalidPayload
	}
	if err := schema.Validate(raw); err != nil {
		return domain.NewError(domain.ErrCodeInvalid, describe(err))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.ErrInvalidPayload
	}
	return nil
}

// describe reduces a schema failure to its first leaf, e.g.
// "invalid payload: completed: expected boolean or null, but got string".
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return domain.ErrInvalidPayload.Message
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	field := strings.TrimPrefix(strings.ReplaceAll(ve.InstanceLocation, "/", "."), ".")
	if field == "" {
		return fmt.Sprintf("%s: %s", domain.ErrInvalidPayload.Message, ve.Message)
	}
	return fmt.Sprintf("%s: %s: %s", domain.ErrInvalidPayload.Message, field, ve.Message)
}
