package queue

import (
	"context"
	"time"

	"github.com/insightdash/insight"
	"github.com/insightdash/insight/synthetic"
)

// RefreshRunner returns a Runner executing insight.RefreshDataset
// transactions: regenerate the synthetic dataset and replace the stored
// snapshot with it.
func RefreshRunner(data insight.DatasetService) Runner {
	return func(ctx context.Context, t *insight.Transaction, report func(progress float64, message string)) error {
		refresh, ok := t.Data.(insight.RefreshDataset)
		if !ok {
			return insight.Errorf(insight.EINVALID, "unknown transaction payload %T", t.Data)
		}

		seed := refresh.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		report(0.1, "generating dataset")
		gen := synthetic.New(synthetic.Config{
			NumStudents: refresh.NumStudents,
			Seed:        seed,
		})
		ds := gen.Generate()

		if err := ctx.Err(); err != nil {
			return err
		}

		report(0.6, "saving dataset")
		if err := data.SaveDataset(ctx, ds); err != nil {
			return err
		}

		report(1, "dataset refreshed")
		return nil
	}
}
