package mappers

import (
	"time"

	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/modules/logging/presentation/viewmodels"
)

func ActivityToViewModel(a *activity.Activity) *viewmodels.Activity {
	if a == nil {
		return nil
	}
	return &viewmodels.Activity{
		ID:        a.ID,
		Action:    a.Action,
		Target:    a.Target,
		Status:    string(a.Status),
		Message:   a.Message,
		CreatedAt: a.CreatedAt.Format(time.DateTime),
	}
}

func ActivitiesToViewModels(items []*activity.Activity) []*viewmodels.Activity {
	out := make([]*viewmodels.Activity, 0, len(items))
	for _, a := range items {
		if vm := ActivityToViewModel(a); vm != nil {
			out = append(out, vm)
		}
	}
	return out
}
