package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/membry/mpm/pkg/models"
)

// Dashboard panel indices.
const (
	panelPhases = iota
	panelWorkload
	panelAlerts
	panelCount
)

type dashboardModel struct {
	projectID   string
	activePanel int
	width       int
	height      int

	// Data.
	projectName string
	overall     int
	phases      []phaseSnapshot
	workload    []workloadSnapshot
	alerts      []alertSnapshot

	// State.
	loading bool
	err     error
}

type phaseSnapshot struct {
	phase     string
	status    string
	progress  int
	total     int
	completed int
}

type workloadSnapshot struct {
	name        string
	load        float64
	capacity    float64
	loadPercent int
}

type alertSnapshot struct {
	severity string
	message  string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	projectName string
	overall     int
	phases      []phaseSnapshot
	workload    []workloadSnapshot
	alerts      []alertSnapshot
	err         error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	phaseCompleted  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	phaseInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	phaseBlocked    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	phaseNotStarted = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	overloadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel(projectID string) dashboardModel {
	return dashboardModel{
		projectID:   projectID,
		activePanel: panelPhases,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadDashboardData(m.projectID)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadDashboardData(m.projectID)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.projectName = msg.projectName
		m.overall = msg.overall
		m.phases = msg.phases
		m.workload = msg.workload
		m.alerts = msg.alerts
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(fmt.Sprintf(" %s | %d%% ", m.projectName, m.overall))
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	phasesPanel := m.renderPhasesPanel()
	workloadPanel := m.renderWorkloadPanel()
	alertsPanel := m.renderAlertsPanel()

	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		colWidth := availableWidth / 3
		phasesPanel = m.applyPanelStyle(panelPhases, phasesPanel, colWidth-4)
		workloadPanel = m.applyPanelStyle(panelWorkload, workloadPanel, colWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, phasesPanel, workloadPanel, alertsPanel)
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		phasesPanel = m.applyPanelStyle(panelPhases, phasesPanel, panelWidth)
		workloadPanel = m.applyPanelStyle(panelWorkload, workloadPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, phasesPanel, workloadPanel, alertsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderPhasesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Phases"))
	b.WriteString("\n")

	if len(m.phases) == 0 {
		b.WriteString("  No phase data.")
		return b.String()
	}

	for _, p := range m.phases {
		line := fmt.Sprintf("  %-14s %s %3d%%  %d/%d",
			p.phase, progressBar(p.progress, 12), p.progress, p.completed, p.total)
		b.WriteString(styleForPhaseStatus(p.status).Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func (m dashboardModel) renderWorkloadPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Workload"))
	b.WriteString("\n")

	if len(m.workload) == 0 {
		b.WriteString("  No members. Run 'mpm roster sync'.")
		return b.String()
	}

	for _, w := range m.workload {
		line := fmt.Sprintf("  %-18s %5.1f/%4.0fh %4d%%", w.name, w.load, w.capacity, w.loadPercent)
		if w.loadPercent >= 100 {
			line = overloadStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range m.alerts {
		sev := styleForSeverity(a.severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(a.severity)))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, a.message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))

	return b.String()
}

func styleForPhaseStatus(status string) lipgloss.Style {
	switch status {
	case "completed":
		return phaseCompleted
	case "in_progress":
		return phaseInProgress
	case "blocked":
		return phaseBlocked
	case "not_started":
		return phaseNotStarted
	default:
		return lipgloss.NewStyle()
	}
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadDashboardData(projectID string) tea.Cmd {
	return func() tea.Msg {
		var result dataLoadedMsg

		if Projects == nil {
			result.err = fmt.Errorf("project store not initialized")
			return result
		}

		project, err := Projects.GetProject(projectID)
		if err != nil {
			result.err = fmt.Errorf("loading project: %w", err)
			return result
		}
		PhaseMgr.RefreshPhases(project)

		result.projectName = project.Name
		result.overall = PhaseMgr.OverallProgress(project)

		for _, phase := range models.AllPhases() {
			info := project.Phases[phase]
			snap := phaseSnapshot{
				phase:    string(phase),
				status:   string(info.Status),
				progress: info.Progress,
			}
			for _, t := range project.Tasks {
				if t.Phase != phase {
					continue
				}
				snap.total++
				if t.Status == models.StatusCompleted {
					snap.completed++
				}
			}
			result.phases = append(result.phases, snap)
		}

		var members []*models.Member
		if Team != nil {
			members, err = Team.GetAllMembers()
			if err != nil {
				result.err = fmt.Errorf("loading members: %w", err)
				return result
			}
			for _, m := range members {
				result.workload = append(result.workload, workloadSnapshot{
					name:        m.Name,
					load:        m.CurrentLoad,
					capacity:    m.Availability,
					loadPercent: int(m.LoadRatio() * 100),
				})
			}
		}

		if AlertEngine != nil {
			for _, a := range AlertEngine.Evaluate(project, members, time.Now().UTC()) {
				result.alerts = append(result.alerts, alertSnapshot{
					severity: string(a.Severity),
					message:  a.Message,
				})
			}
		}

		return result
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <project-id>",
	Short: "Interactive TUI dashboard for a project",
	Long: `Launch an interactive terminal dashboard showing a project's phase
progress, member workload, and active alerts in a live view.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}
		p := tea.NewProgram(newDashboardModel(args[0]), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
