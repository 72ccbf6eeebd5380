package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/evolucion-dental/api-catalogo/internal/models"
	"github.com/evolucion-dental/api-catalogo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenSettings struct{ SettingsService }

func (brokenSettings) Get(context.Context, string) (json.RawMessage, error) {
	return nil, errors.New("conexión rechazada")
}

func TestStatusDefaultsToEnabled(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(testutil.OpenTestDB(t))
	status := NewStatus(svc, nil)

	assert.True(t, status.Enabled(ctx))

	require.NoError(t, status.SetEnabled(ctx, false))
	assert.False(t, status.Enabled(ctx))

	raw, err := svc.Get(ctx, models.SettingAgentActive)
	require.NoError(t, err)
	assert.Equal(t, "false", string(raw))

	require.NoError(t, status.SetEnabled(ctx, true))
	assert.True(t, status.Enabled(ctx))
}

func TestStatusAcceptsStringValues(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(testutil.OpenTestDB(t))
	status := NewStatus(svc, nil)

	require.NoError(t, svc.Set(ctx, models.SettingAgentActive, json.RawMessage(`"false"`)))
	assert.False(t, status.Enabled(ctx))

	require.NoError(t, svc.Set(ctx, models.SettingAgentActive, json.RawMessage(`{"x":1}`)))
	assert.True(t, status.Enabled(ctx))
}

func TestStatusUnreadableIsEnabled(t *testing.T) {
	status := NewStatus(brokenSettings{}, nil)
	assert.True(t, status.Enabled(context.Background()))
}
