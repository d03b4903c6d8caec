package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/searchbridge/internal/artifact"
	"github.com/kingrea/searchbridge/internal/metamorpheus"
	"github.com/kingrea/searchbridge/internal/model"
	"github.com/kingrea/searchbridge/internal/orchestrator"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Width(12)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

var stateColors = map[artifact.State]lipgloss.Color{
	artifact.StateReady:   lipgloss.Color("#7BD88F"),
	artifact.StateMissing: lipgloss.Color("#888888"),
	artifact.StateInvalid: lipgloss.Color("#FFB347"),
	artifact.StateError:   lipgloss.Color("#FF6B6B"),
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func renderPrepared(run *orchestrator.Run) string {
	rows := []string{
		titleStyle.Render(fmt.Sprintf("⬡ %s · %s", run.Invocation.Type(), run.Invocation.CurrentFile())),
		row("work dir", run.WorkDir),
		row("protease", fmt.Sprintf("%s (%d missed cleavages)", run.Digestion.ProteaseName, run.Digestion.MissedCleavages)),
	}
	for _, res := range run.Results {
		rows = append(rows, row(strings.TrimPrefix(res.ModuleID, "metamorpheus-"), res.Path))
	}
	rows = append(rows, "", mutedStyle.Render(run.Invocation.String()))
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func renderCatalog(catalog *model.Catalog) string {
	rows := []string{titleStyle.Render(fmt.Sprintf("Modifications (%d)", catalog.Len()))}
	for _, name := range catalog.SortedNames() {
		mod, _ := catalog.Lookup(name)
		targets := strings.Join(mod.Targets.Residues(), "")
		if targets == "" {
			targets = "X"
		}
		position, err := metamorpheus.Position(mod.Type)
		if err != nil {
			position = "unsupported"
		}
		detail := mutedStyle.Render(fmt.Sprintf("%s on %s, %s  %s", mod.Type, targets, position, mod.Composition))
		rows = append(rows, fmt.Sprintf("%s\n    %s", metamorpheus.SanitizeName(mod.Name), detail))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func renderArtifacts(results []artifact.CheckResult) string {
	rows := []string{titleStyle.Render("Artifacts")}
	for _, res := range results {
		state := lipgloss.NewStyle().Foreground(stateColors[res.State]).Width(8).Render(string(res.State))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Width(24).Render(res.Ref.ID),
			state,
			mutedStyle.Render(res.Path),
		))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}
