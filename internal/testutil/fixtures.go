package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/pkg/mailer"
	"github.com/korey-h/api-yamdb/pkg/token"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

const TestSecret = "test-secret-key"

// Mailbox is a mailer.Sender that records messages instead of sending them.
type Mailbox struct {
	mu   sync.Mutex
	sent []mailer.Message

	// Err, when set, is returned by Send and nothing is recorded.
	Err error
}

func (m *Mailbox) Send(ctx context.Context, msg mailer.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *Mailbox) Sent() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

// LastCode extracts the confirmation code from the latest message sent to email.
func (m *Mailbox) LastCode(t testing.TB, email string) string {
	t.Helper()
	sent := m.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].To == email {
			_, code, ok := strings.Cut(sent[i].Body, "confirmation_code: ")
			require.True(t, ok, "message body has no confirmation code: %q", sent[i].Body)
			return code
		}
	}
	t.Fatalf("no message sent to %s", email)
	return ""
}

// Config returns a configuration suitable for tests.
func Config() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{Name: "api-yamdb-test", Port: "0"},
		JWT: utils.JWTConfig{Secret: TestSecret, ExpiryHours: 24},
		Confirmation: utils.ConfirmationConfig{
			TTLHours: 24,
		},
		RateLimit: utils.RateLimitConfig{RPS: 1000, Burst: 1000},
	}
}

func NewTokens(t testing.TB, opts ...token.Option) *token.Manager {
	t.Helper()
	m, err := token.NewManager(TestSecret, 24*time.Hour, 24*time.Hour, opts...)
	require.NoError(t, err)
	return m
}

// SeedUser inserts an active user directly into the store.
func (s *Store) SeedUser(t testing.TB, username string, role entity.UserRole) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		Base:     entity.Base{CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, s.Repository().User.Create(context.Background(), u))
	return u
}

func (s *Store) SeedCategory(t testing.TB, name, slug string) *entity.Category {
	t.Helper()
	c := &entity.Category{Name: name, Slug: slug}
	c.CreatedAt = time.Now()
	require.NoError(t, s.Repository().Category.Create(context.Background(), c))
	return c
}

func (s *Store) SeedGenre(t testing.TB, name, slug string) *entity.Genre {
	t.Helper()
	g := &entity.Genre{Name: name, Slug: slug}
	g.CreatedAt = time.Now()
	require.NoError(t, s.Repository().Genre.Create(context.Background(), g))
	return g
}

// SeedTitle inserts a title linked to the given genres.
func (s *Store) SeedTitle(t testing.TB, name string, category *entity.Category, genres ...*entity.Genre) *entity.Title {
	t.Helper()
	now := time.Now()
	title := &entity.Title{Name: name}
	title.CreatedAt = now
	title.UpdatedAt = now
	if category != nil {
		title.CategoryID = &category.ID
	}

	repo := s.Repository()
	require.NoError(t, repo.Title.Create(context.Background(), title))

	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	require.NoError(t, repo.TitleGenre.CreateBatch(context.Background(), title.ID, ids))
	return title
}

// SeedReview inserts a review without touching the title rating.
func (s *Store) SeedReview(t testing.TB, title *entity.Title, author *entity.User, score int) *entity.Review {
	t.Helper()
	rv := &entity.Review{
		TitleID:  title.ID,
		AuthorID: author.ID,
		Text:     fmt.Sprintf("review by %s", author.Username),
		Score:    score,
		PubDate:  time.Now(),
	}
	require.NoError(t, s.Repository().Review.Create(context.Background(), rv))
	return rv
}

// Rating returns the stored rating of a title.
func (s *Store) Rating(titleID int64) *float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.titles[titleID]
	if !ok || t.Rating == nil {
		return nil
	}
	r := *t.Rating
	return &r
}
