package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

type themeContext struct {
	Name         string `json:"name,omitempty"`
	Variant      string `json:"variant,omitempty"`
	CSSVarsStyle string `json:"cssVarsStyle,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	vars := make(map[string]string, len(cfg.CSSVars)+len(cfg.Tokens))
	for key, value := range cfg.Tokens {
		vars["--survey-"+strings.TrimPrefix(key, "--")] = value
	}
	for key, value := range cfg.CSSVars {
		vars[key] = value
	}
	return themeContext{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(vars),
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	return b.String()
}

// stylesheetURL prefers a theme supplied stylesheet over the default.
func stylesheetURL(cfg *theme.RendererConfig, fallback string) string {
	if cfg != nil && cfg.AssetURL != nil {
		if url := cfg.AssetURL("stylesheet"); url != "" {
			return url
		}
	}
	return fallback
}
