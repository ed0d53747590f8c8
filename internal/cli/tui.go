package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qrying/stackreel/pkg/scene"
)

// Player styles
var (
	playerSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	playerCaptionStyle = lipgloss.NewStyle().Foreground(colorWhite).Italic(true)
	playerBarStyle     = lipgloss.NewStyle().Foreground(colorCyan)
	playerTrackStyle   = lipgloss.NewStyle().Foreground(colorDim)
	playerBoxStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

const (
	minSpeed = 0.25
	maxSpeed = 8.0

	// maxOnScreen caps the list of visible labels.
	maxOnScreen = 8
)

// =============================================================================
// PlayerModel - Interactive storyboard playback
// =============================================================================

// tickMsg advances the playhead by one frame.
type tickMsg time.Time

// PlayerModel is the bubbletea model that plays a storyboard in the
// terminal: the current section, its narration, the labels on screen and
// the circuit diagram.
type PlayerModel struct {
	Storyboard *scene.Storyboard
	Diagram    string

	// Time is the playhead in seconds.
	Time   float64
	Paused bool
	Speed  float64
	FPS    float64
	Width  int
}

// NewPlayerModel creates a player positioned at the start of sb.
func NewPlayerModel(sb *scene.Storyboard, diagram string, fps float64) PlayerModel {
	if fps <= 0 {
		fps = 12
	}
	return PlayerModel{
		Storyboard: sb,
		Diagram:    diagram,
		Speed:      1,
		FPS:        fps,
		Width:      80,
	}
}

func (m PlayerModel) tick() tea.Cmd {
	return tea.Tick(time.Duration(float64(time.Second)/m.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m PlayerModel) Init() tea.Cmd {
	return m.tick()
}

func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.Paused {
			m.Time += m.Speed / m.FPS
			if m.Time >= m.Storyboard.Duration {
				m.Time = m.Storyboard.Duration
				m.Paused = true
			}
		}
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			if m.Paused && m.Finished() {
				m.Time = 0
			}
			m.Paused = !m.Paused
		case "right", "l":
			m.Time = nextStep(m.Storyboard, m.Time)
		case "left", "h":
			m.Time = prevStep(m.Storyboard, m.Time)
		case "n", "pgdown":
			m.Time = nextSection(m.Storyboard, m.Time)
		case "b", "pgup":
			m.Time = prevSection(m.Storyboard, m.Time)
		case "up", "+":
			m.Speed = min(m.Speed*2, maxSpeed)
		case "down", "-":
			m.Speed = max(m.Speed/2, minSpeed)
		case "home", "g":
			m.Time = 0
		}
	case tea.WindowSizeMsg:
		m.Width = max(msg.Width, 40)
	}
	return m, nil
}

// Finished reports whether the playhead reached the end.
func (m PlayerModel) Finished() bool {
	return m.Time >= m.Storyboard.Duration
}

func (m PlayerModel) View() string {
	sb := m.Storyboard
	frame := sb.At(m.Time)
	width := m.Width - 4

	var b strings.Builder
	b.WriteString(StyleTitle.Render(sb.Title))
	b.WriteString("\n")

	sec := sb.SectionAt(m.Time)
	b.WriteString(playerSectionStyle.Render(frame.Section))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", sec+1, len(sb.Sections))))
	b.WriteString("\n\n")

	b.WriteString(progressBar(m.Time, sb.Duration, width))
	b.WriteString("\n")
	state := "▶"
	if m.Paused {
		state = "⏸"
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s %5.1fs / %.1fs  %gx", state, m.Time, sb.Duration, m.Speed)))
	b.WriteString("\n\n")

	if frame.Caption != "" {
		b.WriteString(playerCaptionStyle.Width(width).Render(frame.Caption))
		b.WriteString("\n\n")
	}

	if labels := onScreen(frame, maxOnScreen); len(labels) > 0 {
		b.WriteString(StyleDim.Render("On screen: "))
		b.WriteString(StyleValue.Render(strings.Join(labels, StyleDim.Render(" · "))))
		b.WriteString("\n\n")
	}

	if m.Diagram != "" {
		b.WriteString(playerBoxStyle.Render(strings.TrimRight(m.Diagram, "\n")))
		b.WriteString("\n")
	}

	b.WriteString(StyleDim.Render("space pause  ←/→ step  b/n section  ↑/↓ speed  g restart  q quit"))
	return b.String()
}

// progressBar draws the playhead position as a filled track.
func progressBar(t, total float64, width int) string {
	width = max(width, 10)
	filled := 0
	if total > 0 {
		filled = int(float64(width) * min(t/total, 1))
	}
	return playerBarStyle.Render(strings.Repeat("━", filled)) +
		playerTrackStyle.Render(strings.Repeat("─", width-filled))
}

// onScreen lists the distinct text of visible text elements, first limit.
func onScreen(f scene.Frame, limit int) []string {
	var out []string
	for _, it := range f.Items {
		if !it.Kind.IsText() || it.Opacity < 0.5 {
			continue
		}
		line := strings.TrimSpace(strings.SplitN(it.Text, "\n", 2)[0])
		if line == "" || slices.Contains(out, line) {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, line)
	}
	return out
}

const stepEpsilon = 1e-6

// nextStep returns the start of the step after the one running at t.
func nextStep(sb *scene.Storyboard, t float64) float64 {
	i := sb.StepAt(t + stepEpsilon)
	if i >= len(sb.Steps) {
		return sb.Duration
	}
	return sb.Steps[i].End()
}

// prevStep returns the start of the step running at t, or of the one before
// it when t already sits on a step boundary.
func prevStep(sb *scene.Storyboard, t float64) float64 {
	i := min(sb.StepAt(t), len(sb.Steps)-1)
	for ; i >= 0; i-- {
		if sb.Steps[i].Start < t-stepEpsilon {
			return sb.Steps[i].Start
		}
	}
	return 0
}

// nextSection returns the start of the section after the one at t.
func nextSection(sb *scene.Storyboard, t float64) float64 {
	for _, s := range sb.Sections {
		if s.Start > t+stepEpsilon {
			return s.Start
		}
	}
	return sb.Duration
}

// prevSection returns the start of the section at t, or of the previous one
// when t is at a section start.
func prevSection(sb *scene.Storyboard, t float64) float64 {
	for i := len(sb.Sections) - 1; i >= 0; i-- {
		if sb.Sections[i].Start < t-stepEpsilon {
			return sb.Sections[i].Start
		}
	}
	return 0
}
