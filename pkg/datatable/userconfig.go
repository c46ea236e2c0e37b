package datatable

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/andri/cdtable/internal/logger"
)

// Store is the durable key-value surface table configs are persisted in.
// Get reports false when nothing is stored under key.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// ColumnConfig is the persisted visibility of one column.
type ColumnConfig struct {
	Prop     string `json:"prop" yaml:"prop"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	IsHidden bool   `json:"isHidden" yaml:"isHidden"`
}

// UserConfig is the persisted layout of a table.
type UserConfig struct {
	TableName string         `json:"tableName" yaml:"tableName"`
	Columns   []ColumnConfig `json:"columns" yaml:"columns"`
	Sorts     []SortProp     `json:"sorts" yaml:"sorts"`
	Limit     int            `json:"limit" yaml:"limit"`
}

// ParseUserConfig decodes a persisted config.
func ParseUserConfig(name, data string) (UserConfig, error) {
	var cfg UserConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return UserConfig{}, &ConfigError{TableName: name, Err: err}
	}
	return cfg, nil
}

// Encode renders the config in its persisted JSON form.
func (c UserConfig) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode table config %q: %w", c.TableName, err)
	}
	return string(data), nil
}

// TableNameFor derives a stable table name from a column schema. Renaming or
// reordering columns yields a new name.
func TableNameFor(columns []Column) string {
	total := 0
	for i, c := range columns {
		total += (stringWeight(c.Prop) + stringWeight(c.Name)) * (i + 1)
	}
	return strconv.Itoa(total)
}

func stringWeight(s string) int {
	sum := 0
	for i, unit := range utf16.Encode([]rune(s)) {
		sum += int(unit) * i
	}
	return sum
}

// UserConfig returns a copy of the current persisted layout.
func (t *Table) UserConfig() UserConfig {
	cfg := t.userConfig
	cfg.Columns = append([]ColumnConfig(nil), t.userConfig.Columns...)
	cfg.Sorts = append([]SortProp(nil), t.userConfig.Sorts...)
	return cfg
}

// TableName returns the key the table config is persisted under.
func (t *Table) TableName() string {
	return t.tableName
}

// loadUserConfig reads the stored config. It reports false when nothing
// usable is stored.
func (t *Table) loadUserConfig() (UserConfig, bool) {
	if t.store == nil {
		return UserConfig{}, false
	}
	data, ok, err := t.store.Get(t.tableName)
	if err != nil {
		logger.Warn("failed to read table config", "table", t.tableName, "error", err)
		return UserConfig{}, false
	}
	if !ok || data == "" {
		return UserConfig{}, false
	}
	cfg, err := ParseUserConfig(t.tableName, data)
	if err != nil {
		logger.Warn("ignoring unreadable table config", "table", t.tableName, "error", err)
		return UserConfig{}, false
	}
	return cfg, true
}

// applyUserConfig copies stored visibility, sorts and limit onto the table.
func (t *Table) applyUserConfig(stored UserConfig) {
	for _, cc := range stored.Columns {
		if c := t.column(cc.Prop); c != nil {
			c.IsHidden = cc.IsHidden
		}
	}
	if t.visibleCount() == 0 && len(t.columns) > 0 {
		t.columns[0].IsHidden = false
	}

	sorts := make([]SortProp, 0, len(stored.Sorts))
	for _, s := range stored.Sorts {
		if t.column(s.Prop) == nil {
			continue
		}
		if s.Dir != SortDesc {
			s.Dir = SortAsc
		}
		sorts = append(sorts, s)
	}
	if len(sorts) > 0 {
		t.userConfig.Sorts = sorts
	}
	if stored.Limit > 0 {
		t.userConfig.Limit = stored.Limit
	}
}

// syncUserConfig refreshes the column section from the current columns.
func (t *Table) syncUserConfig() {
	cols := make([]ColumnConfig, 0, len(t.columns))
	for _, c := range t.columns {
		cols = append(cols, ColumnConfig{Prop: c.Prop, Name: c.Name, IsHidden: c.IsHidden})
	}
	t.userConfig.TableName = t.tableName
	t.userConfig.Columns = cols
}

// saveUserConfig overwrites the persisted config.
func (t *Table) saveUserConfig() error {
	t.syncUserConfig()
	if t.store == nil {
		return nil
	}
	data, err := t.userConfig.Encode()
	if err != nil {
		return err
	}
	if err := t.store.Set(t.tableName, data); err != nil {
		return fmt.Errorf("save table config %q: %w", t.tableName, err)
	}
	logger.Debug("saved table config", "table", t.tableName)
	return nil
}
