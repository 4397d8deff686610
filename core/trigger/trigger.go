package trigger

import (
	"context"
	"github.com/sideletter/callprep/core/worker"
)

type Trigger interface {
	AddWorkers(ctx context.Context, workers ...worker.Worker) (int, error)
}
