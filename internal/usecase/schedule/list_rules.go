package schedule

import (
	"context"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type ListRules struct {
	repo domain.RuleRepository
}

func NewListRules(repo domain.RuleRepository) *ListRules {
	return &ListRules{repo: repo}
}

// Execute returns the template ordered by weekday; onlyActive hides closed
// weekdays for public calendars.
func (uc *ListRules) Execute(
	ctx context.Context,
	onlyActive bool,
) ([]models.ScheduleRule, error) {

	rules, err := uc.repo.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	if !onlyActive {
		return rules, nil
	}

	active := make([]models.ScheduleRule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	return active, nil
}
