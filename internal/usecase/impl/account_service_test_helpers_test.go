package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"library/config"
	"library/internal/domain/repository"
	mockRepo "library/internal/mocks/repository"
	mockSvc "library/internal/mocks/service"
	"library/internal/usecase"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	return cfg
}

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service   usecase.AccountUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	deriver   *mockSvc.MockCredentialDeriver
	throttle  *mockSvc.MockLoginThrottle
}

func createTestAccountService(t *testing.T, cfg *config.Config) accountServiceFixtures {
	t.Helper()

	if cfg == nil {
		cfg = newTestConfig()
	}

	f := accountServiceFixtures{
		txManager: mockRepo.NewMockTransactionManager(t),
		userRepo:  mockRepo.NewMockUserRepository(t),
		deriver:   mockSvc.NewMockCredentialDeriver(t),
		throttle:  mockSvc.NewMockLoginThrottle(t),
	}
	f.service = NewAccountService(AccountServiceParams{
		TxManager: f.txManager,
		UserRepo:  f.userRepo,
		Deriver:   f.deriver,
		Throttle:  f.throttle,
		Config:    cfg,
		Logger:    newDiscardLogger(),
	})

	return f
}

// expectTx runs the transaction callback against a fresh transactional user repository.
func (f accountServiceFixtures) expectTx(t *testing.T) *mockRepo.MockUserRepository {
	t.Helper()

	txRepo := mockRepo.NewMockUserRepository(t)
	f.txManager.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			factory := mockRepo.NewMockRepositoryFactory(t)
			factory.EXPECT().UserRepo().Return(txRepo)

			return fn(factory)
		}).
		Once()

	return txRepo
}
