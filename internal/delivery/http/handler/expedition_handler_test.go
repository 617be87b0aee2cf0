package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedContext(role string, userID uuid.UUID) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("role", role)
	c.Set("userID", userID)
	return c
}

func TestScopeFromContext_AgentSeesOwnExpeditions(t *testing.T) {
	userID := uuid.New()
	scope := scopeFromContext(newAuthedContext("agent", userID))

	require.NotNil(t, scope.AgentID)
	assert.Equal(t, userID, *scope.AgentID)
	assert.Nil(t, scope.DriverID)
}

func TestScopeFromContext_DriverSeesOwnTours(t *testing.T) {
	userID := uuid.New()
	scope := scopeFromContext(newAuthedContext("driver", userID))

	require.NotNil(t, scope.DriverID)
	assert.Equal(t, userID, *scope.DriverID)
	assert.Nil(t, scope.AgentID)
}

func TestScopeFromContext_AdminIsUnrestricted(t *testing.T) {
	scope := scopeFromContext(newAuthedContext("admin", uuid.New()))

	assert.Nil(t, scope.AgentID)
	assert.Nil(t, scope.DriverID)
}
