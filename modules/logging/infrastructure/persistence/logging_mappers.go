package persistence

import (
	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/modules/logging/infrastructure/persistence/models"
)

func toDomainActivity(row *models.Activity) *activity.Activity {
	if row == nil {
		return nil
	}
	return &activity.Activity{
		ID:        row.ID,
		BrowserID: row.BrowserID,
		Action:    row.Action,
		Target:    row.Target,
		Status:    activity.Status(row.Status),
		Message:   row.Message,
		CreatedAt: row.CreatedAt,
	}
}

func toDBActivity(a *activity.Activity) *models.Activity {
	if a == nil {
		return &models.Activity{}
	}
	return &models.Activity{
		ID:        a.ID,
		BrowserID: a.BrowserID,
		Action:    a.Action,
		Target:    a.Target,
		Status:    string(a.Status),
		Message:   a.Message,
		CreatedAt: a.CreatedAt,
	}
}
