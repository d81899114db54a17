// Package config reads the server settings from the environment and loads
// render presets from disk.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Server holds the process settings.
type Server struct {
	Port string
	// MaxRenders bounds the summed cost of renders running at once.
	MaxRenders int64
	PresetDir  string
	GinMode    string
	// RemoteBackgrounds lets render states fetch http(s) background images.
	RemoteBackgrounds bool
}

// Defaults returns the settings used when nothing is set.
func Defaults() Server {
	return Server{Port: "8080", MaxRenders: 4, GinMode: "release"}
}

// Addr is the listen address for gin.
func (s Server) Addr() string { return ":" + s.Port }

// FromEnv overlays the recognised variables in environ (KEY=value pairs, as
// from os.Environ) on Defaults.
func FromEnv(environ []string) (Server, error) {
	s := Defaults()
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch key {
		case "PORT":
			if val == "" {
				continue
			}
			if _, err := strconv.ParseUint(val, 10, 16); err != nil {
				return s, fmt.Errorf("PORT %q: %w", val, err)
			}
			s.Port = val
		case "QRTOOLKIT_MAX_RENDERS":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil || n < 1 {
				return s, fmt.Errorf("QRTOOLKIT_MAX_RENDERS %q: must be a positive integer", val)
			}
			s.MaxRenders = n
		case "QRTOOLKIT_PRESETS":
			s.PresetDir = val
		case "QRTOOLKIT_REMOTE_BACKGROUNDS":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return s, fmt.Errorf("QRTOOLKIT_REMOTE_BACKGROUNDS %q: %w", val, err)
			}
			s.RemoteBackgrounds = b
		case "GIN_MODE":
			if val != "" {
				s.GinMode = val
			}
		}
	}
	return s, nil
}
