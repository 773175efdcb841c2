package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/membry/mpm/pkg/models"
)

// Notifier sends workflow events to the Membry notification channel. Sends
// are one-way and fire-and-forget: a failed send surfaces as an error to the
// caller but never rolls back engine state.
type Notifier interface {
	TaskCompleted(task *models.Task) error
	TaskBlocked(task *models.Task, reason string) error
	DeadlineApproaching(project *models.Project, daysRemaining int) error
	SendProgressReport(report *ProgressReport) error
}

// webhookNotifier posts Membry message blocks to a webhook URL.
type webhookNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewWebhookNotifier creates a Notifier posting to the given webhook URL.
func NewWebhookNotifier(webhookURL string) Notifier {
	return &webhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

type membryMessage struct {
	Blocks []membryBlock `json:"blocks"`
}

type membryBlock struct {
	Type string      `json:"type"`
	Text *membryText `json:"text,omitempty"`
}

type membryText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func headerBlock(text string) membryBlock {
	return membryBlock{Type: "header", Text: &membryText{Type: "plain_text", Text: text}}
}

func sectionBlock(text string) membryBlock {
	return membryBlock{Type: "section", Text: &membryText{Type: "mrkdwn", Text: text}}
}

func (n *webhookNotifier) TaskCompleted(task *models.Task) error {
	msg := membryMessage{Blocks: []membryBlock{
		headerBlock("Task completed"),
		sectionBlock(fmt.Sprintf("*%s* (%s)\nPhase: %s", task.Title, task.ID, task.Phase)),
	}}
	return n.post(msg)
}

func (n *webhookNotifier) TaskBlocked(task *models.Task, reason string) error {
	text := fmt.Sprintf("*%s* (%s)\nPhase: %s", task.Title, task.ID, task.Phase)
	if reason != "" {
		text += fmt.Sprintf("\nReason: %s", reason)
	}
	msg := membryMessage{Blocks: []membryBlock{
		headerBlock("Task blocked"),
		sectionBlock(text),
	}}
	return n.post(msg)
}

func (n *webhookNotifier) DeadlineApproaching(project *models.Project, daysRemaining int) error {
	msg := membryMessage{Blocks: []membryBlock{
		headerBlock("Deadline approaching"),
		sectionBlock(fmt.Sprintf("*%s* (%s)\n%d day(s) remaining until %s",
			project.Name, project.ID, daysRemaining, project.TargetEndDate.Format("2006-01-02"))),
	}}
	return n.post(msg)
}

func (n *webhookNotifier) SendProgressReport(report *ProgressReport) error {
	blocks := []membryBlock{
		headerBlock(fmt.Sprintf("Progress report: %s", report.ProjectName)),
		sectionBlock(fmt.Sprintf("Overall progress: *%d%%*", report.OverallProgress)),
	}

	var lines []string
	for _, ps := range report.Phases {
		lines = append(lines, fmt.Sprintf("• %s: %d%% (%s, %d/%d tasks done)",
			ps.Phase, ps.Progress, ps.Status, ps.CompletedTasks, ps.TotalTasks))
	}
	blocks = append(blocks, sectionBlock(strings.Join(lines, "\n")))

	if len(report.CriticalPath) > 0 {
		blocks = append(blocks, sectionBlock(fmt.Sprintf("Critical path: %s",
			strings.Join(report.CriticalPath, " → "))))
	}

	return n.post(membryMessage{Blocks: blocks})
}

func (n *webhookNotifier) post(msg membryMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}
	return nil
}
