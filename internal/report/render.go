package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are bound to one output so color detection follows the writer.
type styles struct {
	header    lipgloss.Style
	section   lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	dim       lipgloss.Style
	warning   lipgloss.Style
	container lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1),
		section: r.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			MarginTop(1),
		label: r.NewStyle().
			Foreground(lipgloss.Color("45")).
			Width(28),
		value: r.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true),
		dim: r.NewStyle().
			Foreground(lipgloss.Color("245")),
		warning: r.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true),
		container: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
	}
}

func (s styles) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label), s.value.Render(value))
}

// FormatMeters formats an elevation or length with millimeter precision.
func FormatMeters(v float64) string {
	return fmt.Sprintf("%.3f m", v)
}

// FormatGradient formats a gradient percentage with its sign.
func FormatGradient(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// RenderAdjustmentReport writes a terminal view of r to w.
func RenderAdjustmentReport(w io.Writer, r AdjustmentReport) error {
	s := newStyles(w)
	var b strings.Builder

	b.WriteString(s.header.Render("Pipeline gradient adjustments"))
	b.WriteString("\n")
	b.WriteString(s.row("Summary", r.Summary) + "\n")
	if r.TotalAdjustments > 0 {
		b.WriteString(s.row("Adjusted pipelines", fmt.Sprintf("%d", r.TotalAdjustments)) + "\n")
		b.WriteString(s.row("Mediums", fmt.Sprintf("%d", r.MediumGroups)) + "\n")
		b.WriteString(s.row("Total elevation change", FormatMeters(r.TotalElevationChangeMeters)) + "\n")
		b.WriteString(s.row("Average gradient", FormatGradient(r.AverageGradientPercent)) + "\n")
	}
	if r.CompatibilityStrategy != "" {
		b.WriteString(s.row("Compatibility strategy", r.CompatibilityStrategy) + "\n")
	}

	if len(r.AdjustmentsByMedium) > 0 {
		b.WriteString(s.section.Render("By medium") + "\n")
		mediums := make([]string, 0, len(r.AdjustmentsByMedium))
		for m := range r.AdjustmentsByMedium {
			mediums = append(mediums, m)
		}
		sort.Strings(mediums)
		for _, m := range mediums {
			b.WriteString(s.row(m, fmt.Sprintf("%d", r.AdjustmentsByMedium[m])) + "\n")
		}
	}

	for _, e := range r.Adjustments {
		b.WriteString(s.section.Render(fmt.Sprintf("%s (%s)", e.PipelineID, e.PipelineMedium)) + "\n")
		b.WriteString(s.row("Gradient", FormatGradient(e.GradientPercent)) + "\n")
		b.WriteString(s.row("Start", fmt.Sprintf("%s -> %s", FormatMeters(e.OriginalStartElevation), FormatMeters(e.AdjustedStartElevation))) + "\n")
		b.WriteString(s.row("End", fmt.Sprintf("%s -> %s", FormatMeters(e.OriginalEndElevation), FormatMeters(e.AdjustedEndElevation))) + "\n")
		b.WriteString(s.dim.Render(e.Reason) + "\n")
		b.WriteString(s.dim.Render(e.MediumCompatibility) + "\n")
		if e.AnchorOverridden {
			b.WriteString(s.warning.Render("end manhole elevation overridden") + "\n")
		}
	}

	_, err := io.WriteString(w, s.container.Render(strings.TrimRight(b.String(), "\n"))+"\n")
	return err
}

// RenderCoverHeightReport writes a terminal view of r to w.
func RenderCoverHeightReport(w io.Writer, r CoverHeightReport) error {
	s := newStyles(w)
	var b strings.Builder

	b.WriteString(s.header.Render("Shaft cover heights"))
	b.WriteString("\n")
	b.WriteString(s.row("Summary", r.Summary) + "\n")
	if r.TotalShafts > 0 {
		st := r.HeightStatistics
		b.WriteString(s.row("Average height", FormatMeters(st.AverageHeight)) + "\n")
		b.WriteString(s.row("Min height", FormatMeters(st.MinHeight)) + "\n")
		b.WriteString(s.row("Max height", FormatMeters(st.MaxHeight)) + "\n")
		b.WriteString(s.row("Pipe connections", fmt.Sprintf("%d", st.TotalPipeConnections)) + "\n")
	}

	for _, e := range r.Shafts {
		b.WriteString(s.section.Render(fmt.Sprintf("%s (%s)", e.ShaftID, e.ShaftMedium)) + "\n")
		b.WriteString(s.row("Cover", FormatMeters(e.CoverElevation)) + "\n")
		b.WriteString(s.row("Lowest invert", fmt.Sprintf("%s (%s)", FormatMeters(e.LowestPipeElevation), e.LowestPipeID)) + "\n")
		b.WriteString(s.row("Shaft height", FormatMeters(e.ShaftHeight)) + "\n")
		b.WriteString(s.dim.Render(e.MediumCompatibility) + "\n")
	}

	_, err := io.WriteString(w, s.container.Render(strings.TrimRight(b.String(), "\n"))+"\n")
	return err
}
