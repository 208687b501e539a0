package importer

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/asset_tracker/biz/model/api"
)

// Creator is the create operation rows are replayed through.
type Creator interface {
	CreateAsset(ctx context.Context, req *api.CreateAssetRequest) (*api.Asset, error)
}

// Run submits every row independently. A failed row is logged and recorded
// in the summary; the remaining rows still run. delay is waited between
// consecutive submissions. Only context cancellation stops the batch early,
// in which case the partial summary is returned with the context error.
func Run(ctx context.Context, creator Creator, batch *Batch, delay time.Duration) (*api.ImportSummary, error) {
	summary := &api.ImportSummary{
		Shape:   string(batch.Shape),
		Rows:    batch.Rows,
		Skipped: batch.Skipped,
	}

	for i, row := range batch.Items {
		if i > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return summary, ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		created, err := creator.CreateAsset(ctx, row.Request)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, api.ImportFailure{
				Row:   row.Line,
				Name:  row.Request.Name,
				Error: err.Error(),
			})
			hlog.CtxWarnf(ctx, "import row %d (%s) failed: %v", row.Line, row.Request.Name, err)
			continue
		}
		summary.Imported++
		hlog.CtxDebugf(ctx, "imported row %d: %s (qty %d) as id %d", row.Line, created.Name, created.Quantity, created.ID)
	}

	hlog.CtxInfof(ctx, "import finished: %d imported, %d skipped, %d failed", summary.Imported, summary.Skipped, summary.Failed)
	return summary, nil
}
