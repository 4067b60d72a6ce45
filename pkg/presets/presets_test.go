/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/camcontrol/pkg/models"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "camera_settings.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

const sampleTable = `Slider Position,iris,exposuregain,shutterspeed,brightness
0,2,1,50,30
1,5,3,100,50
2,8,6,200,70
`

func TestLoadAndLookup(t *testing.T) {
	t.Parallel()

	table, err := Load(writeTable(t, sampleTable))
	require.NoError(t, err)

	assert.Equal(t, 2, table.MaxSlider())

	settings, err := table.SettingsFor(1)
	require.NoError(t, err)

	assert.Equal(t, models.Settings{
		"changeexposuremode": "1",
		"exposuremode":       "manual",
		"iris":               5,
		"exposuregain":       3,
		"shutterspeed":       100,
		"brightness":         50,
	}, settings)
}

func TestSettingsForOutOfRange(t *testing.T) {
	t.Parallel()

	table, err := Load(writeTable(t, sampleTable))
	require.NoError(t, err)

	_, err = table.SettingsFor(3)
	assert.ErrorIs(t, err, ErrSliderOutOfRange)

	_, err = table.SettingsFor(-1)
	assert.ErrorIs(t, err, ErrSliderOutOfRange)
}

func TestSettingsForReturnsACopy(t *testing.T) {
	t.Parallel()

	table, err := Load(writeTable(t, sampleTable))
	require.NoError(t, err)

	first, err := table.SettingsFor(0)
	require.NoError(t, err)

	first["iris"] = 99

	second, err := table.SettingsFor(0)
	require.NoError(t, err)
	assert.Equal(t, 2, second["iris"])
}

func TestLoadMissingColumn(t *testing.T) {
	t.Parallel()

	_, err := Load(writeTable(t, "Slider Position,iris\n0,2\n"))
	assert.ErrorContains(t, err, "exposuregain")
}

func TestLoadBadValue(t *testing.T) {
	t.Parallel()

	_, err := Load(writeTable(t, "iris,exposuregain,shutterspeed,brightness\n2,1,fast,30\n"))
	assert.ErrorContains(t, err, "shutterspeed")
}

func TestLoadEmptyTable(t *testing.T) {
	t.Parallel()

	_, err := Load(writeTable(t, "iris,exposuregain,shutterspeed,brightness\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/camera_settings.csv")
	assert.Error(t, err)
}
