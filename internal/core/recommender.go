package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/membry/mpm/pkg/models"
)

// phaseRequiredSkills maps each workflow phase to the pair of skills its
// tasks require.
var phaseRequiredSkills = map[models.Phase][]models.Skill{
	models.PhaseSales:         {models.SkillSales, models.SkillProjectManagement},
	models.PhaseDesign:        {models.SkillDesign, models.SkillQualityAssurance},
	models.PhaseManufacturing: {models.SkillManufacturing, models.SkillQualityAssurance},
	models.PhaseConstruction:  {models.SkillConstruction, models.SkillQualityAssurance},
}

// RequiredSkills returns the skills required for tasks in the given phase.
// The returned slice is a copy and safe to modify.
func RequiredSkills(phase models.Phase) []models.Skill {
	src := phaseRequiredSkills[phase]
	skills := make([]models.Skill, len(src))
	copy(skills, src)
	return skills
}

// Recommendation is one ranked candidate for a task assignment.
type Recommendation struct {
	Member              *models.Member `json:"member"`
	Score               int            `json:"score"`
	Reason              string         `json:"reason"`
	EstimatedCompletion time.Time      `json:"estimated_completion"`
}

// BalanceResult records the outcome of one task during a load-balancing
// pass.
type BalanceResult struct {
	TaskID     string `json:"task_id"`
	MemberID   string `json:"member_id,omitempty"`
	MemberName string `json:"member_name,omitempty"`
	Score      int    `json:"score,omitempty"`
	Assigned   bool   `json:"assigned"`
	Reason     string `json:"reason,omitempty"`
}

// AssignmentRecommender scores members against a task's skill requirements
// and current load, ranks candidates, mutates assignments, and performs
// greedy load balancing. It holds no state of its own: the caller owns the
// member store and passes members in explicitly.
type AssignmentRecommender interface {
	Score(task *models.Task, member *models.Member) int
	Recommend(task *models.Task, members []*models.Member, now time.Time, topN int) []Recommendation
	Assign(task *models.Task, member *models.Member)
	Unassign(task *models.Task, member *models.Member)
	BalanceLoad(tasks []*models.Task, members []*models.Member, now time.Time) []BalanceResult
}

type skillLoadRecommender struct{}

// NewAssignmentRecommender creates the standard skill-and-load scoring
// recommender.
func NewAssignmentRecommender() AssignmentRecommender {
	return &skillLoadRecommender{}
}

// Score rates a member for a task on a 0 to 100 scale. Components: skill
// match (matched/required x 50), load tier (+30 below 70% load, +20 below
// 90%, +10 below 100%, else 0), and a priority component (critical tasks
// reward skill breadth; others reward spare capacity). Components are summed
// in float64 and rounded and clamped once at the end.
func (r *skillLoadRecommender) Score(task *models.Task, member *models.Member) int {
	required := phaseRequiredSkills[task.Phase]
	score := 0.0

	if len(required) > 0 {
		matched := 0
		for _, skill := range required {
			if member.HasSkill(skill) {
				matched++
			}
		}
		score += float64(matched) / float64(len(required)) * 50
	}

	ratio := member.LoadRatio()
	switch {
	case ratio < 0.7:
		score += 30
	case ratio < 0.9:
		score += 20
	case ratio < 1.0:
		score += 10
	}

	if task.Priority == models.PriorityCritical {
		switch {
		case len(member.Skills) >= 3:
			score += 20
		case len(member.Skills) >= 2:
			score += 10
		}
	} else {
		score += math.Max(0, 20-ratio*20)
	}

	result := int(math.Round(score))
	if result < 0 {
		result = 0
	}
	if result > 100 {
		result = 100
	}
	return result
}

// Recommend ranks members for a task, best score first, and returns at most
// topN candidates (all candidates when topN is not positive). Members
// scoring zero are excluded.
func (r *skillLoadRecommender) Recommend(task *models.Task, members []*models.Member, now time.Time, topN int) []Recommendation {
	var recs []Recommendation
	for _, m := range members {
		score := r.Score(task, m)
		if score == 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Member:              m,
			Score:               score,
			Reason:              r.reason(task, m),
			EstimatedCompletion: estimateCompletion(task, m, now),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if topN > 0 && len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

// reason builds a human-readable rationale for a candidate: skills matched,
// load status, and skill breadth.
func (r *skillLoadRecommender) reason(task *models.Task, member *models.Member) string {
	required := phaseRequiredSkills[task.Phase]
	matched := 0
	for _, skill := range required {
		if member.HasSkill(skill) {
			matched++
		}
	}

	parts := []string{
		fmt.Sprintf("matches %d/%d required skills", matched, len(required)),
		fmt.Sprintf("load %d%% (%s)", int(math.Round(member.LoadRatio()*100)), loadLabel(member.LoadRatio())),
	}
	if task.Priority == models.PriorityCritical && len(member.Skills) >= 2 {
		parts = append(parts, fmt.Sprintf("broad coverage across %d skills", len(member.Skills)))
	}
	return strings.Join(parts, "; ")
}

func loadLabel(ratio float64) string {
	switch {
	case ratio < 0.7:
		return "light"
	case ratio < 0.9:
		return "moderate"
	case ratio < 1.0:
		return "heavy"
	default:
		return "over capacity"
	}
}

// estimateCompletion projects a completion date: now plus the estimated
// hours divided by the member's spare weekly capacity, rounded up to whole
// weeks and expressed in days.
func estimateCompletion(task *models.Task, member *models.Member, now time.Time) time.Time {
	spare := member.Availability - member.CurrentLoad
	if spare < 1 {
		spare = 1
	}
	weeks := int(math.Ceil(task.EstimatedHours / spare))
	return now.AddDate(0, 0, weeks*7)
}

// Assign records the task against the member: the task ID joins the
// member's assigned list, the member's load grows by the task's estimate,
// and the task's assignee fields are set.
func (r *skillLoadRecommender) Assign(task *models.Task, member *models.Member) {
	member.AssignedTaskIDs = append(member.AssignedTaskIDs, task.ID)
	member.CurrentLoad += task.EstimatedHours
	task.AssigneeID = member.ID
	task.AssigneeName = member.Name
	task.UpdatedAt = time.Now().UTC()
}

// Unassign reverses Assign: the member's load shrinks by the task's
// estimate (floored at zero), the task ID leaves the assigned list, and the
// task's assignee fields are cleared.
func (r *skillLoadRecommender) Unassign(task *models.Task, member *models.Member) {
	member.CurrentLoad -= task.EstimatedHours
	if member.CurrentLoad < 0 {
		member.CurrentLoad = 0
	}
	for i, id := range member.AssignedTaskIDs {
		if id == task.ID {
			member.AssignedTaskIDs = append(member.AssignedTaskIDs[:i], member.AssignedTaskIDs[i+1:]...)
			break
		}
	}
	task.AssigneeID = ""
	task.AssigneeName = ""
	task.UpdatedAt = time.Now().UTC()
}

// BalanceLoad assigns every unassigned task to its single best-scoring
// candidate, in input order, updating member load live so later tasks in the
// same pass see the reduced capacity. The strategy is greedy first-fit: no
// backtracking and no global re-optimization. A task ID is never assigned
// twice within a pass.
func (r *skillLoadRecommender) BalanceLoad(tasks []*models.Task, members []*models.Member, now time.Time) []BalanceResult {
	var results []BalanceResult
	seen := make(map[string]bool, len(tasks))

	for _, task := range tasks {
		if seen[task.ID] {
			continue
		}
		seen[task.ID] = true

		if task.AssigneeID != "" {
			continue
		}

		recs := r.Recommend(task, members, now, 1)
		if len(recs) == 0 {
			results = append(results, BalanceResult{
				TaskID: task.ID,
				Reason: "no suitable candidate",
			})
			continue
		}

		best := recs[0]
		r.Assign(task, best.Member)
		results = append(results, BalanceResult{
			TaskID:     task.ID,
			MemberID:   best.Member.ID,
			MemberName: best.Member.Name,
			Score:      best.Score,
			Assigned:   true,
			Reason:     best.Reason,
		})
	}

	return results
}
