package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager-api/internal/models"
)

func TestToUserDTO_OmitsSecrets(t *testing.T) {
	user := models.User{
		ID:       "u1",
		Name:     "Andrew",
		Email:    "andrew@example.com",
		Age:      27,
		Password: "$2a$08$hash",
		Avatar:   []byte{0x89, 'P', 'N', 'G'},
		Tokens:   []models.UserToken{{Token: "abc"}},
	}

	body, err := json.Marshal(ToAuthResponse(user, "abc"))
	require.NoError(t, err)

	var decoded struct {
		User  map[string]interface{} `json:"user"`
		Token string                 `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))

	for _, key := range []string{"password", "tokens", "avatar"} {
		assert.NotContains(t, decoded.User, key)
	}
	assert.Equal(t, "andrew@example.com", decoded.User["email"])
	assert.Equal(t, "abc", decoded.Token)
	assert.NotContains(t, string(body), "$2a$08$hash")
}

func TestToTaskDTOs_EmptyIsArray(t *testing.T) {
	body, err := json.Marshal(ToTaskDTOs(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}
