package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-event-sharing/internal/infrastructure/memory"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
	mailtpl "github.com/oksasatya/go-event-sharing/pkg/mailer/templates"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(ctx, body).Error(0)
}

type fakeUploader struct {
	paths []string
}

func (f *fakeUploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.paths = append(f.paths, objectPath)
	return "https://cdn.test/" + objectPath, nil
}

type fixture struct {
	store  *memory.Store
	auth   *AuthService
	users  *UserService
	events *EventService
	mail   *mockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	mail := &mockPublisher{}
	mail.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Maybe()

	return &fixture{
		store:  store,
		auth:   NewAuthService(store, memory.NewSessionStore(), helpers.NewSessionTokenManager("test-secret", time.Hour), nil),
		users:  NewUserService(store, nil, nil, mail, mailtpl.Site{AppName: "EventShare", BaseURL: "http://test"}, nil),
		events: NewEventService(store, nil, nil, "photo.svg", nil),
		mail:   mail,
	}
}

// signup creates a user and returns its identity.
func (f *fixture) signup(t *testing.T, username string) *Profile {
	t.Helper()
	p, err := f.users.Signup(context.Background(), SignupInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "abcdef",
		PasswordConfirm: "abcdef",
	})
	require.NoError(t, err)
	return p
}
