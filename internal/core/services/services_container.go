package services

import (
	"fmt"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
)

// ContainerConfig carries the start-up choices the services depend on.
type ContainerConfig struct {
	ApprovalPolicy string
	Rules          domain.PostingRules
	Clock          portssvc.Clock // nil means the system clock
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg ContainerConfig, repos portsrepo.RepositoryProvider) (*portssvc.ServiceContainer, error) {
	policy, err := domain.PolicyByName(cfg.ApprovalPolicy)
	if err != nil {
		return nil, fmt.Errorf("resolve workflow policy: %w", err)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	container := &portssvc.ServiceContainer{}
	container.Chart = NewChartService(repos.ChartRepo, cfg.Rules, WithChartClock(clock))
	container.Period = NewPeriodService(repos.PeriodLockRepo, WithPeriodClock(clock))
	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.JournalRepo,
		container.Chart,
		WithWorkflowPolicy(policy),
		WithTransactionClock(clock),
		WithPeriodGuard(container.Period),
		WithAuditReader(repos.AuditRepo),
	)
	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		WithAccountLedgerSource(repos.ChartRepo, repos.JournalRepo),
		WithTransactionSource(repos.TransactionRepo),
		WithReportingClock(clock),
	)
	return container, nil
}
