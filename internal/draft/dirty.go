package draft

import (
	"time"

	"github.com/five82/nib/internal/inkwell"
)

// FormState is the editable working copy behind the article form.
type FormState struct {
	Title            string
	Content          string
	Status           inkwell.Status
	PublishDateLocal string
}

// StateFromArticle loads a into form state, rendering its schedule in loc.
func StateFromArticle(a inkwell.Article, loc *time.Location) FormState {
	return FormState{
		Title:            a.Title,
		Content:          a.Content,
		Status:           a.Status,
		PublishDateLocal: ToLocalInput(a.PublishDate, loc),
	}
}

// IsDirty reports whether current differs from original in any tracked field.
// Schedules are compared at minute precision.
func IsDirty(original, current FormState, loc *time.Location) bool {
	return original.Title != current.Title ||
		original.Content != current.Content ||
		original.Status != current.Status ||
		normalizeLocal(original.PublishDateLocal, loc) != normalizeLocal(current.PublishDateLocal, loc)
}
