package cli

import (
	"github.com/charmbracelet/lipgloss"

	"logviewer/internal/config"
)

var (
	sectionHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginTop(1)
	bodyMedium    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0"))
	mutedText     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
	commandName   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	exampleCode   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA726"))

	appNameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	appVersionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BDBDBD"))
	titleWrapper    = lipgloss.NewStyle().MarginTop(1).MarginBottom(1)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA726"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E53935"))
)

// RenderTitle renders the app title block with name, version, and description
func RenderTitle() string {
	title := titleWrapper.Render(
		appNameStyle.Render(config.AppName) + appVersionStyle.Render(" v"+config.Version),
	)
	description := bodyMedium.Render(config.AppDescription)

	return lipgloss.JoinVertical(lipgloss.Left, title, description)
}

// RenderHelp renders the usage screen
func RenderHelp() string {
	usage := lipgloss.JoinVertical(
		lipgloss.Left,
		usageLine("apply -f <file.filter> [logs...]", "Count lines matched by each filter"),
		usageLine("check <files...>", "Report legacy and invalid filter records"),
		usageLine("add -f <file> -n <name> -p <pattern> -c R:G:B", "Append a filter"),
		usageLine("list <files...>", "Print filter definitions"),
		usageLine("export <files...>", "Export filters as YAML"),
		usageLine("init", "Generate "+config.FileName),
		usageLine("version", "Show version"),
	)

	examples := lipgloss.JoinVertical(
		lipgloss.Left,
		bodyMedium.Render("  "+exampleCode.Render(config.AppName+" apply -f crash.filter main.log radio.log")),
		bodyMedium.Render("  "+exampleCode.Render(config.AppName+" apply -f crash.filter --watch --matches main.log")),
		bodyMedium.Render("  "+exampleCode.Render(config.AppName+` add -f crash -n Crash -p "FATAL|ANR" -c 255:0:0 -s ERROR`)),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		RenderTitle(),
		sectionHeader.Render("Usage:"),
		usage,
		sectionHeader.Render("Examples:"),
		examples,
	) + "\n"
}

func usageLine(command, description string) string {
	return bodyMedium.Render("  " + commandName.Render(config.AppName+" "+command) + "  " + mutedText.Render(description))
}
