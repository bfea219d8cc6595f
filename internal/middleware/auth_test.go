package middleware

import (
	"errors"
	"testing"

	"drillbot/internal/service"
	"drillbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		ctx          *testutil.FakeContext
		authorized   bool
		expectNext   bool
		expectPrompt bool
	}{
		{
			name:       "authorized callback passes",
			ctx:        testutil.NewCallbackContext(1, "lessons", ""),
			authorized: true,
			expectNext: true,
		},
		{
			name:       "unauthorized start passes",
			ctx:        testutil.NewTextContext(1, "/start"),
			expectNext: true,
		},
		{
			name:       "unauthorized text passes as password",
			ctx:        testutil.NewTextContext(1, "secret"),
			expectNext: true,
		},
		{
			name:         "unauthorized command is blocked",
			ctx:          testutil.NewTextContext(1, "/help"),
			expectPrompt: true,
		},
		{
			name:         "unauthorized callback is blocked",
			ctx:          testutil.NewCallbackContext(1, "lessons", ""),
			expectPrompt: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockLearnerRepository)
			repo.On("EnsureLearner", int64(1)).Return(nil)
			repo.On("IsAuthorized", int64(1)).Return(tt.authorized, nil)

			called := false
			next := func(c tele.Context) error {
				called = true
				return nil
			}

			mw := AuthMiddleware(service.NewAuthService(repo, "secret"), testutil.NewTestLogger())
			err := mw(next)(tt.ctx)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectNext, called)
			if tt.expectPrompt {
				assert.Equal(t, passwordPrompt, tt.ctx.Last().Text)
			} else {
				assert.Empty(t, tt.ctx.Outputs)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthMiddleware_RepositoryError(t *testing.T) {
	repo := new(testutil.MockLearnerRepository)
	repo.On("EnsureLearner", int64(1)).Return(errors.New("db down"))

	called := false
	mw := AuthMiddleware(service.NewAuthService(repo, "secret"), testutil.NewTestLogger())
	ctx := testutil.NewTextContext(1, "secret")

	err := mw(func(c tele.Context) error {
		called = true
		return nil
	})(ctx)

	assert.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, ctx.Last().Text, "ошибка")
	repo.AssertNotCalled(t, "IsAuthorized", int64(1))
}
