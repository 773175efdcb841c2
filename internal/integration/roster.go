// Package integration provides clients for external collaborators: the
// Membry member roster that supplies workers to the scheduling engine.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/membry/mpm/pkg/models"
)

// RosterMember is one worker as the Membry roster reports it.
type RosterMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// MemberSource lists all workers available for assignment. Implementations
// paginate internally and return the concatenated roster.
type MemberSource interface {
	FetchMembers(ctx context.Context) ([]RosterMember, error)
}

// membryRosterClient implements MemberSource against the Membry members API.
type membryRosterClient struct {
	baseURL  string
	token    string
	pageSize int
	client   *http.Client
}

// NewMembryMemberSource creates a MemberSource for the Membry API described
// by cfg. A missing base URL is a setup defect and returns a hard error.
func NewMembryMemberSource(cfg models.RosterConfig) (MemberSource, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("roster provider not configured: roster.base_url is empty")
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	return &membryRosterClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		pageSize: pageSize,
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// membersPage is one page of the Membry members listing.
type membersPage struct {
	Members []RosterMember `json:"members"`
	HasMore bool           `json:"has_more"`
}

// FetchMembers pages through /api/v1/members and returns the full roster.
func (c *membryRosterClient) FetchMembers(ctx context.Context) ([]RosterMember, error) {
	var all []RosterMember
	for page := 1; ; page++ {
		result, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("syncing roster: %w", err)
		}
		all = append(all, result.Members...)
		if !result.HasMore || len(result.Members) == 0 {
			break
		}
	}
	return all, nil
}

func (c *membryRosterClient) fetchPage(ctx context.Context, page int) (*membersPage, error) {
	endpoint := fmt.Sprintf("%s/api/v1/members?page=%d&per_page=%d", c.baseURL, page, c.pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for page %d: %w", page, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching page %d: members API returned status %d", page, resp.StatusCode)
	}

	var result membersPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding page %d: %w", page, err)
	}
	return &result, nil
}

// departmentSkills maps department keywords to a primary skill.
var departmentSkills = []struct {
	keyword string
	skill   models.Skill
}{
	{"sales", models.SkillSales},
	{"design", models.SkillDesign},
	{"engineering", models.SkillDesign},
	{"manufacturing", models.SkillManufacturing},
	{"production", models.SkillManufacturing},
	{"construction", models.SkillConstruction},
}

// titleSkills maps title keywords to an additional skill.
var titleSkills = []struct {
	keyword string
	skill   models.Skill
}{
	{"project manager", models.SkillProjectManagement},
	{"manager", models.SkillProjectManagement},
	{"director", models.SkillProjectManagement},
	{"qa", models.SkillQualityAssurance},
	{"quality", models.SkillQualityAssurance},
	{"inspector", models.SkillQualityAssurance},
	{"designer", models.SkillDesign},
	{"architect", models.SkillDesign},
}

// InferSkills derives a skill set from a worker's job metadata: the
// department picks the primary skill, title keywords add to it. An empty
// result means nothing could be inferred; callers decide the fallback.
func InferSkills(title, department string) []models.Skill {
	var skills []models.Skill
	add := func(s models.Skill) {
		for _, existing := range skills {
			if existing == s {
				return
			}
		}
		skills = append(skills, s)
	}

	dept := strings.ToLower(department)
	for _, m := range departmentSkills {
		if strings.Contains(dept, m.keyword) {
			add(m.skill)
			break
		}
	}

	lowTitle := strings.ToLower(title)
	for _, m := range titleSkills {
		if strings.Contains(lowTitle, m.keyword) {
			add(m.skill)
		}
	}

	return skills
}

// MemberFromRoster converts a roster entry into a scheduling Member with
// inferred skills and the default weekly availability.
func MemberFromRoster(rm RosterMember, availability float64) *models.Member {
	if availability <= 0 {
		availability = 40
	}
	return &models.Member{
		ID:           rm.ID,
		Name:         rm.Name,
		Email:        rm.Email,
		Title:        rm.Title,
		Department:   rm.Department,
		AvatarURL:    rm.AvatarURL,
		Skills:       InferSkills(rm.Title, rm.Department),
		Availability: availability,
	}
}
