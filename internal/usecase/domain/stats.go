// Package domain contains application services orchestrating domain logic by statistics.
package domain

import (
	"context"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

// Stats returns aggregated workflow stats. Faculty only.
func (u *Usecase) Stats(ctx context.Context, actor entities.Principal) (entities.Stats, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireTeacher(actor); err != nil {
		return entities.Stats{}, err
	}
	return u.repo.Stats(ctx)
}
