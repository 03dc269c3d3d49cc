package base

import (
	"context"

	"github.com/iota-uz/hcm-console/pkg/composables"
)

func Translate(ctx context.Context, id string, data ...map[string]interface{}) string {
	pageCtx := composables.UsePageCtx(ctx)
	if len(data) > 0 {
		return pageCtx.TSafe(id, data[0])
	}
	return pageCtx.TSafe(id)
}
