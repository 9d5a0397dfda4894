package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors and styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Render renders the status data to a string
func Render(data *Data) string {
	sections := []string{
		renderHeader(data),
		renderMatching(data),
		renderSearchPath(data),
		renderScopes(data),
		renderIndex(data),
		renderCache(data),
	}
	return strings.Join(sections, "\n\n")
}

func renderHeader(data *Data) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📦 Version: ") + valueStyle.Render(data.Version) + "\n")
	if data.ConfigPath != "" {
		b.WriteString(titleStyle.Render("📝 Config: ") + valueStyle.Render(data.ConfigPath))
	} else {
		b.WriteString(titleStyle.Render("📝 Config: ") + subtleStyle.Render("built-in defaults"))
	}
	return b.String()
}

func renderMatching(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("⚙️  Matching:") + "\n")
	b.WriteString("   " + keyStyle.Render("Policy: ") + valueStyle.Render(data.Policy) + "\n")

	archives := errorStyle.Render("✗ off")
	if data.ScanArchives {
		archives = successStyle.Render("✓ on")
	}
	b.WriteString("   " + keyStyle.Render("Archives: ") + archives + "\n")

	extra := subtleStyle.Render("none")
	if len(data.Extra) > 0 {
		extra = valueStyle.Render(strings.Join(data.Extra, ", "))
	}
	b.WriteString("   " + keyStyle.Render("Metadata: ") + extra + "\n")

	limit := subtleStyle.Render("unlimited")
	if data.MaxResults > 0 {
		limit = valueStyle.Render(fmt.Sprintf("%d", data.MaxResults))
	}
	b.WriteString("   " + keyStyle.Render("Max results: ") + limit)

	if len(data.Providers) > 0 {
		b.WriteString("\n   " + keyStyle.Render("Providers: ") + subtleStyle.Render(strings.Join(data.Providers, " → ")))
	}
	return b.String()
}

func renderSearchPath(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📂 Search path:") + "\n")

	if len(data.Roots) == 0 {
		b.WriteString("   " + warningStyle.Render("No roots configured"))
		return b.String()
	}

	for i, root := range data.Roots {
		kind := subtleStyle.Render(root.Kind)
		if root.Kind == "unsupported" || root.Kind == "empty" {
			kind = warningStyle.Render(root.Kind)
		}
		b.WriteString(fmt.Sprintf("   %d. %s %s\n", i+1, valueStyle.Render(root.Path), kind))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderScopes(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔗 Scopes:") + "\n")
	if len(data.Scopes) == 0 {
		b.WriteString("   " + subtleStyle.Render("No scopes loaded"))
		return b.String()
	}
	b.WriteString("   " + keyStyle.Render("Loaded: ") + valueStyle.Render(fmt.Sprintf("%d", len(data.Scopes))) + "\n")
	b.WriteString("   " + subtleStyle.Render(truncateString(strings.Join(data.Scopes, ", "), 72)))
	return b.String()
}

func renderIndex(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔍 Index:") + "\n")
	rows := []struct {
		key   string
		value int
	}{
		{"Files", data.Stats.Files},
		{"Class groups", data.Stats.Groups},
		{"Classes", data.Stats.Classes},
		{"Modules", data.Stats.Modules},
		{"Resources", data.Stats.Resources},
	}
	for _, r := range rows {
		b.WriteString("   " + keyStyle.Render(r.key+": ") + valueStyle.Render(fmt.Sprintf("%d", r.value)) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderCache(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("💾 Cache:") + "\n")
	b.WriteString("   " + keyStyle.Render("Parsed contexts: ") + valueStyle.Render(fmt.Sprintf("%d", data.ContextCache)))

	if data.Cache == nil {
		return b.String()
	}
	b.WriteString("\n   " + keyStyle.Render("Hits/misses: ") +
		valueStyle.Render(fmt.Sprintf("%d/%d", data.Cache.Hits, data.Cache.Misses)))

	if len(data.Cache.Slots) == 0 {
		b.WriteString("\n   " + subtleStyle.Render("No views cached yet"))
		return b.String()
	}
	for _, slot := range data.Cache.Slots {
		b.WriteString(fmt.Sprintf("\n      %s %s %s",
			keyStyle.Render(slot.Name),
			valueStyle.Render(fmt.Sprintf("%d roots", slot.KeySize)),
			subtleStyle.Render(slot.Updated.Format("2006-01-02 15:04:05"))))
	}
	return b.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
