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

// Package presets maps a UI slider position to a camera settings tuple
// loaded from a CSV preset table.
package presets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/carverauto/camcontrol/pkg/models"
)

// ErrSliderOutOfRange is returned when the slider position has no preset row.
var ErrSliderOutOfRange = errors.New("slider position out of range")

var errEmptyTable = errors.New("preset table has no rows")

// settingColumns are the CSV columns carried into every settings tuple.
var settingColumns = []string{"iris", "exposuregain", "shutterspeed", "brightness"}

// Table is an immutable slider-position → settings lookup.
type Table struct {
	rows []models.Settings
}

// Load reads a preset table from a CSV file. Each row becomes one slider
// position, in file order. The required columns are iris, exposuregain,
// shutterspeed, brightness; header matching is case-insensitive.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset table '%s': %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse preset table '%s': %w", path, err)
	}

	if len(records) < 2 {
		return nil, errEmptyTable
	}

	columns, err := columnIndexes(records[0])
	if err != nil {
		return nil, fmt.Errorf("preset table '%s': %w", path, err)
	}

	rows := make([]models.Settings, 0, len(records)-1)

	for i, record := range records[1:] {
		settings, err := rowSettings(record, columns)
		if err != nil {
			return nil, fmt.Errorf("preset table '%s' row %d: %w", path, i+1, err)
		}

		rows = append(rows, settings)
	}

	return &Table{rows: rows}, nil
}

func columnIndexes(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range settingColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	return columns, nil
}

func rowSettings(record []string, columns map[string]int) (models.Settings, error) {
	// Exposure is always forced to manual so the numeric settings take
	// effect on the device.
	settings := models.Settings{
		"changeexposuremode": "1",
		"exposuremode":       "manual",
	}

	for _, name := range settingColumns {
		idx := columns[name]
		if idx >= len(record) {
			return nil, fmt.Errorf("missing value for column %q", name)
		}

		value, err := strconv.Atoi(strings.TrimSpace(record[idx]))
		if err != nil {
			return nil, fmt.Errorf("invalid value for column %q: %w", name, err)
		}

		settings[name] = value
	}

	return settings, nil
}

// SettingsFor returns a copy of the settings tuple for a slider position.
func (t *Table) SettingsFor(slider int) (models.Settings, error) {
	if slider < 0 || slider >= len(t.rows) {
		return nil, fmt.Errorf("%w: %d (0-%d)", ErrSliderOutOfRange, slider, t.MaxSlider())
	}

	return t.rows[slider].Clone(), nil
}

// MaxSlider returns the highest valid slider position.
func (t *Table) MaxSlider() int {
	return len(t.rows) - 1
}
