package port

import (
	"context"

	"menuCms/internal/modules/menus/domain"
)

// MenuStore persists the whole menu document. Implementations rewrite the document
// atomically; concurrent writers are last-writer-wins.
type MenuStore interface {
	LoadAll(ctx context.Context) (domain.Document, error)
	SaveAll(ctx context.Context, doc domain.Document) error
}

// ActivityLogger appends audit lines; entries are never read back.
type ActivityLogger interface {
	Append(ctx context.Context, entry domain.ActivityEntry) error
}
