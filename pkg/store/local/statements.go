package local

import (
	"context"
	"time"

	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/store"
)

// Statements is the due diligence statement collection.
type Statements struct {
	*Collection[models.DueDiligenceStatement, models.DueDiligenceStatementPatch]
}

var _ store.StatementBackend = (*Statements)(nil)

// Submit moves a draft to submitted and stamps today's UTC date. Submitting a
// statement that is already submitted changes nothing.
func (s *Statements) Submit(ctx context.Context, id string) (*models.DueDiligenceStatement, error) {
	return s.modify(ctx, id, func(st *models.DueDiligenceStatement) (bool, error) {
		switch st.Status {
		case models.StatementSubmitted:
			return false, nil
		case models.StatementApproved, models.StatementRejected:
			return false, store.ErrStatementFinalized
		}
		st.Status = models.StatementSubmitted
		st.SubmissionDate = s.now().UTC().Format(time.DateOnly)
		return true, nil
	})
}
