package workflow

import (
	"context"
	"log"

	"github.com/caseflow/caseflow/internal/audit"
	"github.com/caseflow/caseflow/internal/domain"
)

// Auditor records trail entries for workflow mutations. Recording must be
// best effort; implementations never return errors to the caller.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// Notifier creates notifications for workflow side effects.
type Notifier interface {
	Create(ctx context.Context, spec domain.NotificationSpec) (domain.Notification, error)
}

// DefaultWorkflowTypeProvider supplies the fallback workflow type for
// cases created without one.
type DefaultWorkflowTypeProvider interface {
	GetDefault(ctx context.Context) (domain.WorkflowType, error)
}

// hook is one post-commit side effect. Hooks run after the primary
// mutation has been persisted; a failing or panicking hook is logged and
// never affects the primary result.
type hook struct {
	name string
	run  func(ctx context.Context)
}

func runHooks(ctx context.Context, hooks []hook) {
	for _, h := range hooks {
		func() {
			defer func() {
				if p := recover(); p != nil {
					log.Printf("[WORKFLOW] hook %s panicked: %v", h.name, p)
				}
			}()
			h.run(ctx)
		}()
	}
}
