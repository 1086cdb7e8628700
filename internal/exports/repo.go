package exports

import "context"

// Repo persists export records. Get only returns exports of projects owned by userID.
type Repo interface {
	Create(ctx context.Context, export Export) error
	Get(ctx context.Context, userID, exportID string) (Export, error)
}
