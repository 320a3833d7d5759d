package usecase

import (
	"testing"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/testutil"
	"github.com/korey-h/api-yamdb/pkg/throttle"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

type testEnv struct {
	store   *testutil.Store
	mailbox *testutil.Mailbox
	service *Service
}

func newTestEnv(t *testing.T, configure ...func(*utils.Config)) *testEnv {
	t.Helper()

	config := testutil.Config()
	for _, fn := range configure {
		fn(config)
	}

	store := testutil.NewStore()
	mailbox := &testutil.Mailbox{}
	deps := Dependencies{
		Tokens:   testutil.NewTokens(t),
		Mailer:   mailbox,
		Throttle: throttle.NewMemoryLimiter(),
	}

	return &testEnv{
		store:   store,
		mailbox: mailbox,
		service: NewService(store.Repository(), deps, config, zap.NewNop()),
	}
}

func ptr[T any](v T) *T { return &v }
