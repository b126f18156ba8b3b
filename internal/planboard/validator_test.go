package planboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator(t *testing.T) {
	rv := NewRequestValidator()
	require.NotNil(t, rv)

	type projectReq struct {
		Name string `validate:"required,projectName"`
	}
	type roleReq struct {
		Name string `validate:"required,roleName"`
	}
	type statusReq struct {
		Label string `validate:"required,statusLabel"`
	}

	t.Run("project name", func(t *testing.T) {
		assert.NoError(t, rv.Validate(projectReq{Name: "Apollo"}))
		assert.NoError(t, rv.Validate(projectReq{Name: "Проект №1 (тест)"}))
		assert.Error(t, rv.Validate(projectReq{Name: ""}))
		assert.Error(t, rv.Validate(projectReq{Name: strings.Repeat("a", 101)}))
	})

	t.Run("role name", func(t *testing.T) {
		assert.NoError(t, rv.Validate(roleReq{Name: "admin"}))
		assert.NoError(t, rv.Validate(roleReq{Name: "релиз-менеджер"}))
		assert.Error(t, rv.Validate(roleReq{Name: "bad name"}))
		assert.Error(t, rv.Validate(roleReq{Name: "role!"}))
	})

	t.Run("status label", func(t *testing.T) {
		assert.NoError(t, rv.Validate(statusReq{Label: "В работе"}))
		assert.Error(t, rv.Validate(statusReq{Label: strings.Repeat("я", 51)}))
	})
}
