// internal/pkg/config/state.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// DefaultOutletID is used when no valid outlet is stored or configured.
const DefaultOutletID int64 = 1

// ClientState is what the terminal remembers between sessions.
// Values are kept as stored; use ResolveOutletID to read the outlet.
type ClientState struct {
	OutletID string
	UserID   string
}

// LoadState reads the JSON state file. A missing file is an empty state.
func LoadState(path string) (*ClientState, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return &ClientState{}, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	return &ClientState{
		OutletID: strings.TrimSpace(v.GetString("outlet_id")),
		UserID:   strings.TrimSpace(v.GetString("user_id")),
	}, nil
}

// SaveState writes the state file.
func SaveState(path string, state *ClientState) error {
	v := viper.New()
	v.SetConfigType("json")
	v.Set("outlet_id", state.OutletID)
	v.Set("user_id", state.UserID)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}

// ResolveOutletID picks the configured outlet, then the stored one, then
// DefaultOutletID. Unparsable or non-positive values are skipped.
func ResolveOutletID(cfg *Config, state *ClientState) int64 {
	if cfg != nil && cfg.POS.OutletID > 0 {
		return cfg.POS.OutletID
	}
	if state != nil {
		if id, err := strconv.ParseInt(state.OutletID, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return DefaultOutletID
}

// ResolveUserID returns the stored user id, or 0 when absent.
func ResolveUserID(state *ClientState) int64 {
	if state == nil {
		return 0
	}
	id, err := strconv.ParseInt(state.UserID, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
