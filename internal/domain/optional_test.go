package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchBody struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Completed   Optional[bool]   `json:"completed"`
}

func TestOptional_Unmarshal(t *testing.T) {
	var body patchBody
	require.NoError(t, json.Unmarshal([]byte(`{"description": null, "completed": true}`), &body))

	assert.False(t, body.Title.Set, "omitted field must stay unset")
	assert.True(t, body.Description.Set)
	assert.True(t, body.Description.Null)
	assert.Nil(t, body.Description.Ptr())
	assert.True(t, body.Completed.Set)
	assert.False(t, body.Completed.Null)
	assert.Equal(t, true, *body.Completed.Ptr())
}

func TestOptional_UnmarshalWrongType(t *testing.T) {
	var body patchBody
	err := json.Unmarshal([]byte(`{"completed": "yes"}`), &body)
	assert.Error(t, err)
}

func TestOptional_Marshal(t *testing.T) {
	cases := []struct {
		name string
		in   Optional[string]
		want string
	}{
		{"unset", Optional[string]{}, "null"},
		{"null", Null[string](), "null"},
		{"value", Some("x"), `"x"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(b))
		})
	}
}

func TestTaskPatch_Empty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())
	assert.False(t, TaskPatch{Completed: Some(true)}.Empty())
	assert.False(t, TaskPatch{Description: Null[string]()}.Empty())
}
