package logger

import (
	"log/slog"
	"strings"
)

// Config selects the handler, level and base attributes for InitLogger
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

// DefaultConfig is used by tools that run without an app config.
func DefaultConfig() Config {
	return Config{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		ServiceName: DefaultServiceName,
		Version:     DefaultVersion,
		Environment: EnvironmentDev,
	}
}

// LogLevel parses Level the way slog does ("warn", "debug-4", ...) and
// also accepts "warning". Anything unparseable is info.
func (c Config) LogLevel() slog.Level {
	name := strings.TrimSpace(c.Level)
	if strings.EqualFold(name, LogLevelWarning) {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

// baseAttrs are attached to every record; empty values are left out
func (c Config) baseAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	for _, kv := range [][2]string{
		{AttrKeyService, c.ServiceName},
		{AttrKeyVersion, c.Version},
		{AttrKeyEnvironment, c.Environment},
	} {
		if kv[1] != "" {
			attrs = append(attrs, slog.String(kv[0], kv[1]))
		}
	}
	return attrs
}
