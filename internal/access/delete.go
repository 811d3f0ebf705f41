package access

import (
	"context"
	"fmt"

	"github.com/five82/nib/internal/inkwell"
)

// Confirm asks the user to approve deleting a. Returning false cancels.
type Confirm func(ctx context.Context, a inkwell.Article) (bool, error)

// Deleter removes an owned article. *inkwell.Client satisfies it.
type Deleter interface {
	Delete(ctx context.Context, userID, id int64) error
}

var _ Deleter = (*inkwell.Client)(nil)

// Delete removes a after confirm approves it. Only the author may delete;
// anyone else is refused before confirm runs. A declined confirmation returns
// false with no error and issues no request, as does a nil confirm.
func Delete(ctx context.Context, d Deleter, confirm Confirm, actor *inkwell.Actor, a inkwell.Article) (bool, error) {
	if actor == nil {
		return false, &inkwell.APIError{Kind: inkwell.KindUnauthenticated, Detail: "sign in to delete articles"}
	}
	if !CanModify(actor, a) {
		return false, &inkwell.APIError{Kind: inkwell.KindForbidden, Detail: "only the author can delete this article"}
	}
	if confirm == nil {
		return false, nil
	}
	ok, err := confirm(ctx, a)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := d.Delete(ctx, actor.ID, a.ID); err != nil {
		return false, fmt.Errorf("delete article %d: %w", a.ID, inkwell.Classify(err))
	}
	return true, nil
}

// Always approves every deletion. Callers that already confirmed use it.
func Always(context.Context, inkwell.Article) (bool, error) { return true, nil }
