package ports

import (
	"context"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
)

// ForensicModule is the contract every handcrafted forensic check satisfies.
// A module may emit zero, one, or several findings; an error means the module
// itself broke and contributes nothing (siblings keep running).
type ForensicModule interface {
	ID() core.ModuleID
	Category() signal.Category
	Inspect(ctx context.Context, img *sample.ImageSample) ([]signal.ForensicFinding, error)
}
