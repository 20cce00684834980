package classroom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/portal/core"
)

func TestCapacity_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    int
		wantMsg string
	}{
		{name: "number", json: `12`, want: 12},
		{name: "fraction is floored", json: `12.9`, want: 12},
		{name: "numeric string", json: `" 40 "`, want: 40},
		{name: "one", json: `1`, want: 1},
		{name: "zero", json: `0`, wantMsg: msgCapacityTooSmall},
		{name: "below one", json: `0.5`, wantMsg: msgCapacityTooSmall},
		{name: "negative", json: `-3`, wantMsg: msgCapacityTooSmall},
		{name: "null counts as zero", json: `null`, wantMsg: msgCapacityTooSmall},
		{name: "blank string counts as zero", json: `"  "`, wantMsg: msgCapacityTooSmall},
		{name: "text", json: `"lol"`, wantMsg: msgInvalidCapacity},
		{name: "bool", json: `true`, wantMsg: msgInvalidCapacity},
		{name: "too big", json: `1e12`, wantMsg: msgInvalidCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Capacity
			assert.NoError(t, json.Unmarshal([]byte(tt.json), &c))
			assert.True(t, c.IsSet())

			got, err := c.Normalize()
			if tt.wantMsg != "" {
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantMsg, err.(*core.ValidationError).FieldMap()["capacity"])
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing", func(t *testing.T) {
		var nc NewClass
		assert.NoError(t, json.Unmarshal([]byte(`{"name": "Turma"}`), &nc))
		assert.False(t, nc.Capacity.IsSet())
		_, err := nc.Capacity.Normalize()
		assert.Error(t, err)
	})
}

func TestUpdateClass_Validate(t *testing.T) {
	t.Run("partial", func(t *testing.T) {
		var uc UpdateClass
		assert.NoError(t, json.Unmarshal([]byte(`{"name": "  Turma B  "}`), &uc))
		assert.NoError(t, uc.Validate())
		assert.Equal(t, "Turma B", *uc.Name)
		assert.False(t, uc.Capacity.IsSet())
	})

	t.Run("null capacity is rejected", func(t *testing.T) {
		var uc UpdateClass
		assert.NoError(t, json.Unmarshal([]byte(`{"capacity": null}`), &uc))
		assert.True(t, uc.Capacity.IsSet())
		err := uc.Validate()
		if assert.Error(t, err) {
			assert.Equal(t, msgCapacityTooSmall, err.(*core.ValidationError).FieldMap()["capacity"])
		}
	})

	t.Run("blank name", func(t *testing.T) {
		name := "   "
		uc := UpdateClass{Name: &name}
		err := uc.Validate()
		if assert.Error(t, err) {
			assert.Equal(t, msgNameBlank, err.(*core.ValidationError).FieldMap()["name"])
		}
	})

	t.Run("bad capacity", func(t *testing.T) {
		var uc UpdateClass
		assert.NoError(t, json.Unmarshal([]byte(`{"capacity": "abc"}`), &uc))
		assert.Error(t, uc.Validate())
	})
}

func TestUpdateClass_MarshalJSON(t *testing.T) {
	name := "Turma B"
	out, err := json.Marshal(UpdateClass{Name: &name})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"name": "Turma B"}`, string(out))

	out, err = json.Marshal(UpdateClass{Capacity: NewCapacity(12)})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"capacity": 12}`, string(out))
}

func TestClassRoom(t *testing.T) {
	c := ClassRoom{Capacity: 2, StudentIDs: []string{"student-1"}}
	assert.Equal(t, 1, c.Enrolled())
	assert.False(t, c.IsFull())
	assert.True(t, c.HasStudent("student-1"))
	assert.False(t, c.HasStudent("student-2"))

	c.StudentIDs = append(c.StudentIDs, "student-2")
	assert.True(t, c.IsFull())
}
