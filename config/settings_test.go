package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayAcceptsArray(t *testing.T) {
	var settings Settings
	err := json.Unmarshal([]byte(`{"groups": ["G1", "G2"]}`), &settings)

	require.NoError(t, err)
	assert.Equal(t, StringArray{"G1", "G2"}, settings.Groups)
}

func TestStringArrayAcceptsCommaSeparated(t *testing.T) {
	var settings Settings
	err := json.Unmarshal([]byte(`{"groups": "G1, G2 ,G3"}`), &settings)

	require.NoError(t, err)
	assert.Equal(t, StringArray{"G1", "G2", "G3"}, settings.Groups)
}

func TestStringArrayEmptyString(t *testing.T) {
	var settings Settings
	err := json.Unmarshal([]byte(`{"groups": ""}`), &settings)

	require.NoError(t, err)
	assert.Empty(t, settings.Groups)
}

func TestSettingsThresholdFields(t *testing.T) {
	var settings Settings
	err := json.Unmarshal([]byte(`{"stale_after_days": 14, "impact_due_months": 6, "listen_addr": "0.0.0.0:9000"}`), &settings)

	require.NoError(t, err)
	require.NotNil(t, settings.StaleAfterDays)
	assert.Equal(t, 14, *settings.StaleAfterDays)
	require.NotNil(t, settings.ImpactDueMonths)
	assert.Equal(t, 6, *settings.ImpactDueMonths)
	assert.Equal(t, "0.0.0.0:9000", settings.ListenAddr)
}
