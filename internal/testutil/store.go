// Package testutil provides in-memory repositories and fixtures for tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/internal/data/repository"
)

// ErrInjected is returned by repositories whose Fail hook is set.
var ErrInjected = errors.New("injected failure")

// Store is an in-memory database shared by the repositories it hands out.
// It mirrors the Postgres schema: unique keys, cascades and the
// SET NULL on a deleted category.
type Store struct {
	mu sync.Mutex

	nextID int64

	users      map[int64]*entity.User
	categories map[int64]*entity.Category
	genres     map[int64]*entity.Genre
	titles     map[int64]*entity.Title
	links      map[int64]map[int64]struct{} // title -> genres
	reviews    map[int64]*entity.Review
	comments   map[int64]*entity.Comment

	// Fail, when set, is consulted before every operation and may return an
	// error to simulate storage failures. op is "<table>.<method>".
	Fail func(op string) error
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]*entity.User),
		categories: make(map[int64]*entity.Category),
		genres:     make(map[int64]*entity.Genre),
		titles:     make(map[int64]*entity.Title),
		links:      make(map[int64]map[int64]struct{}),
		reviews:    make(map[int64]*entity.Review),
		comments:   make(map[int64]*entity.Comment),
	}
}

// Repository exposes the store through the repository interfaces.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:       &userRepo{s},
		Category:   &categoryRepo{s},
		Genre:      &genreRepo{s},
		Title:      &titleRepo{s},
		TitleGenre: &titleGenreRepo{s},
		Review:     &reviewRepo{s},
		Comment:    &commentRepo{s},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op)
}

func contains(haystack, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ==================== USERS ====================

type userRepo struct{ s *Store }

func (r *userRepo) activeBy(match func(*entity.User) bool) *entity.User {
	for _, u := range r.s.users {
		if u.DeletedAt == nil && match(u) {
			c := *u
			return &c
		}
	}
	return nil
}

func (r *userRepo) conflicts(u *entity.User) bool {
	return r.activeBy(func(o *entity.User) bool {
		return o.ID != u.ID && (strings.EqualFold(o.Email, u.Email) || o.Username == u.Username)
	}) != nil
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.Create"); err != nil {
		return err
	}

	if r.conflicts(user) {
		return fmt.Errorf("create user %s: %w", user.Email, repository.ErrDuplicate)
	}
	user.ID = r.s.id()
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

func (r *userRepo) FindOrCreateByEmail(_ context.Context, user *entity.User) (*entity.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.FindOrCreateByEmail"); err != nil {
		return nil, false, err
	}

	if existing := r.activeBy(func(o *entity.User) bool { return strings.EqualFold(o.Email, user.Email) }); existing != nil {
		return existing, false, nil
	}
	if r.conflicts(user) {
		return nil, false, fmt.Errorf("upsert user %s: %w", user.Email, repository.ErrDuplicate)
	}
	user.ID = r.s.id()
	c := *user
	r.s.users[user.ID] = &c
	out := c
	return &out, true, nil
}

func (r *userRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.FindByID"); err != nil {
		return nil, err
	}
	return r.activeBy(func(o *entity.User) bool { return o.ID == id }), nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.FindByEmail"); err != nil {
		return nil, err
	}
	return r.activeBy(func(o *entity.User) bool { return strings.EqualFold(o.Email, email) }), nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.FindByUsername"); err != nil {
		return nil, err
	}
	return r.activeBy(func(o *entity.User) bool { return o.Username == username }), nil
}

func (r *userRepo) filtered(search string) []*entity.User {
	var out []*entity.User
	for _, u := range r.s.users {
		if u.DeletedAt == nil && contains(u.Username, search) {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *userRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.FindAll"); err != nil {
		return nil, err
	}
	return page(r.filtered(search), limit, offset), nil
}

func (r *userRepo) CountAll(_ context.Context, search string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.CountAll"); err != nil {
		return 0, err
	}
	return int64(len(r.filtered(search))), nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.Update"); err != nil {
		return err
	}

	current, ok := r.s.users[user.ID]
	if !ok || current.DeletedAt != nil {
		return fmt.Errorf("user %d not found", user.ID)
	}
	if r.conflicts(user) {
		return fmt.Errorf("update user %d: %w", user.ID, repository.ErrDuplicate)
	}
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.Delete"); err != nil {
		return err
	}

	u, ok := r.s.users[id]
	if !ok || u.DeletedAt != nil {
		return fmt.Errorf("user %d not found", id)
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

// ==================== CATEGORIES ====================

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.Create"); err != nil {
		return err
	}

	for _, c := range r.s.categories {
		if c.Slug == category.Slug {
			return fmt.Errorf("create category %s: %w", category.Slug, repository.ErrDuplicate)
		}
	}
	category.ID = r.s.id()
	c := *category
	r.s.categories[category.ID] = &c
	return nil
}

func (r *categoryRepo) FindByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.FindByID"); err != nil {
		return nil, err
	}
	if c, ok := r.s.categories[id]; ok {
		out := *c
		return &out, nil
	}
	return nil, nil
}

func (r *categoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.FindBySlug"); err != nil {
		return nil, err
	}
	for _, c := range r.s.categories {
		if c.Slug == slug {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) filtered(search string) []*entity.Category {
	var out []*entity.Category
	for _, c := range r.s.categories {
		if contains(c.Name, search) {
			cc := *c
			out = append(out, &cc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *categoryRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.FindAll"); err != nil {
		return nil, err
	}
	return page(r.filtered(search), limit, offset), nil
}

func (r *categoryRepo) CountAll(_ context.Context, search string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.CountAll"); err != nil {
		return 0, err
	}
	return int64(len(r.filtered(search))), nil
}

func (r *categoryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.categories[id]; !ok {
		return fmt.Errorf("category %d not found", id)
	}
	delete(r.s.categories, id)
	for _, t := range r.s.titles {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
		}
	}
	return nil
}

// ==================== GENRES ====================

type genreRepo struct{ s *Store }

func (r *genreRepo) Create(_ context.Context, genre *entity.Genre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("genre.Create"); err != nil {
		return err
	}

	for _, g := range r.s.genres {
		if g.Slug == genre.Slug {
			return fmt.Errorf("create genre %s: %w", genre.Slug, repository.ErrDuplicate)
		}
	}
	genre.ID = r.s.id()
	g := *genre
	r.s.genres[genre.ID] = &g
	return nil
}

func (r *genreRepo) FindByID(_ context.Context, id int64) (*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("genre.FindByID"); err != nil {
		return nil, err
	}
	if g, ok := r.s.genres[id]; ok {
		out := *g
		return &out, nil
	}
	return nil, nil
}

func (r *genreRepo) FindBySlug(_ context.Context, slug string) (*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("genre.FindBySlug"); err != nil {
		return nil, err
	}
	for _, g := range r.s.genres {
		if g.Slug == slug {
			out := *g
			return &out, nil
		}
	}
	return nil, nil
}

func sortGenres(genres []*entity.Genre) {
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Name != genres[j].Name {
			return genres[i].Name < genres[j].Name
		}
		return genres[i].ID < genres[j].ID
	})
}

func (r *genreRepo) FindBySlugs(_ context.Context, slugs []string) ([]*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("genre.FindBySlugs"); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		wanted[slug] = true
	}
	var out []*entity.Genre
	for _, g := range r.s.genres {
		if wanted[g.Slug] {
			gg := *g
			out = append(out, &gg)
		}
	}
	sortGenres(out)
	return out, nil
}

func (r *genreRepo) filtered(search string) []*entity.Genre {
	var out []*entity.Genre
	for _, g := range r.s.genres {
		if contains(g.Name, search) {
			gg := *g
			out = append(out, &gg)
		}
	}
	sortGenres(out)
	return out
}

func (r *genreRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("genre.FindAll"); err != nil {
		return nil, err
	}
	return page(r.filtered(search), limit, offset), nil
}

func (r *genreRepo) CountAll(_ context.Context, search string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("genre.CountAll"); err != nil {
		return 0, err
	}
	return int64(len(r.filtered(search))), nil
}

func (r *genreRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("genre.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.genres[id]; !ok {
		return fmt.Errorf("genre %d not found", id)
	}
	delete(r.s.genres, id)
	for _, set := range r.s.links {
		delete(set, id)
	}
	return nil
}

func (r *genreRepo) genresOf(titleID int64) []*entity.Genre {
	var out []*entity.Genre
	for genreID := range r.s.links[titleID] {
		if g, ok := r.s.genres[genreID]; ok {
			gg := *g
			out = append(out, &gg)
		}
	}
	sortGenres(out)
	return out
}

func (r *genreRepo) FindByTitleID(_ context.Context, titleID int64) ([]*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("genre.FindByTitleID"); err != nil {
		return nil, err
	}
	return r.genresOf(titleID), nil
}

func (r *genreRepo) FindByTitleIDs(_ context.Context, titleIDs []int64) (map[int64][]*entity.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("genre.FindByTitleIDs"); err != nil {
		return nil, err
	}

	result := make(map[int64][]*entity.Genre, len(titleIDs))
	for _, id := range titleIDs {
		if genres := r.genresOf(id); len(genres) > 0 {
			result[id] = genres
		}
	}
	return result, nil
}

// ==================== TITLE GENRES ====================

type titleGenreRepo struct{ s *Store }

func (r *titleGenreRepo) DeleteByTitleID(_ context.Context, titleID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title_genre.DeleteByTitleID"); err != nil {
		return err
	}
	delete(r.s.links, titleID)
	return nil
}

func (r *titleGenreRepo) FindByTitleID(_ context.Context, titleID int64) ([]*entity.TitleGenre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title_genre.FindByTitleID"); err != nil {
		return nil, err
	}

	var out []*entity.TitleGenre
	for genreID := range r.s.links[titleID] {
		out = append(out, &entity.TitleGenre{TitleID: titleID, GenreID: genreID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GenreID < out[j].GenreID })
	return out, nil
}

func (r *titleGenreRepo) link(titleID int64, genreIDs []int64) error {
	if _, ok := r.s.titles[titleID]; !ok {
		return fmt.Errorf("title %d does not exist", titleID)
	}
	set, ok := r.s.links[titleID]
	if !ok {
		set = make(map[int64]struct{})
		r.s.links[titleID] = set
	}
	for _, id := range genreIDs {
		if _, ok := r.s.genres[id]; !ok {
			return fmt.Errorf("genre %d does not exist", id)
		}
		set[id] = struct{}{}
	}
	return nil
}

func (r *titleGenreRepo) CreateBatch(_ context.Context, titleID int64, genreIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title_genre.CreateBatch"); err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}
	return r.link(titleID, genreIDs)
}

func (r *titleGenreRepo) ReplaceForTitle(_ context.Context, titleID int64, genreIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title_genre.ReplaceForTitle"); err != nil {
		return err
	}

	previous := r.s.links[titleID]
	delete(r.s.links, titleID)
	if len(genreIDs) == 0 {
		return nil
	}
	if err := r.link(titleID, genreIDs); err != nil {
		r.s.links[titleID] = previous
		return err
	}
	return nil
}

// ==================== TITLES ====================

type titleRepo struct{ s *Store }

func (r *titleRepo) Create(_ context.Context, title *entity.Title) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title.Create"); err != nil {
		return err
	}

	title.ID = r.s.id()
	t := *title
	r.s.titles[title.ID] = &t
	return nil
}

func (r *titleRepo) FindByID(_ context.Context, id int64) (*entity.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title.FindByID"); err != nil {
		return nil, err
	}
	if t, ok := r.s.titles[id]; ok {
		out := *t
		return &out, nil
	}
	return nil, nil
}

func (r *titleRepo) Update(_ context.Context, title *entity.Title) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title.Update"); err != nil {
		return err
	}

	current, ok := r.s.titles[title.ID]
	if !ok {
		return fmt.Errorf("title %d not found", title.ID)
	}
	t := *title
	t.Rating = current.Rating
	t.CreatedAt = current.CreatedAt
	r.s.titles[title.ID] = &t
	return nil
}

func (r *titleRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.titles[id]; !ok {
		return fmt.Errorf("title %d not found", id)
	}
	delete(r.s.titles, id)
	delete(r.s.links, id)
	for reviewID, rv := range r.s.reviews {
		if rv.TitleID == id {
			r.s.deleteReview(reviewID)
		}
	}
	return nil
}

func (r *titleRepo) matches(t *entity.Title, f repository.TitleFilter) bool {
	if !contains(t.Name, f.Name) {
		return false
	}
	if f.Year != nil && (t.Year == nil || *t.Year != *f.Year) {
		return false
	}
	if f.CategorySlug != "" {
		if t.CategoryID == nil {
			return false
		}
		c, ok := r.s.categories[*t.CategoryID]
		if !ok || c.Slug != f.CategorySlug {
			return false
		}
	}
	if f.GenreSlug != "" {
		found := false
		for genreID := range r.s.links[t.ID] {
			if g, ok := r.s.genres[genreID]; ok && g.Slug == f.GenreSlug {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *titleRepo) filtered(f repository.TitleFilter) []*entity.Title {
	var out []*entity.Title
	for _, t := range r.s.titles {
		if r.matches(t, f) {
			tt := *t
			out = append(out, &tt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *titleRepo) FindAll(_ context.Context, filter repository.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title.FindAll"); err != nil {
		return nil, err
	}
	return page(r.filtered(filter), limit, offset), nil
}

func (r *titleRepo) CountAll(_ context.Context, filter repository.TitleFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title.CountAll"); err != nil {
		return 0, err
	}
	return int64(len(r.filtered(filter))), nil
}

func (r *titleRepo) RecomputeRating(_ context.Context, titleID int64) (*float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("title.RecomputeRating"); err != nil {
		return nil, err
	}

	t, ok := r.s.titles[titleID]
	if !ok {
		return nil, nil
	}

	var sum, n int
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID {
			sum += rv.Score
			n++
		}
	}
	if n == 0 {
		t.Rating = nil
		return nil, nil
	}
	avg := float64(sum) / float64(n)
	t.Rating = &avg
	out := avg
	return &out, nil
}

// ==================== REVIEWS ====================

type reviewRepo struct{ s *Store }

func (s *Store) username(userID int64) string {
	if u, ok := s.users[userID]; ok {
		return u.Username
	}
	return ""
}

func (s *Store) deleteReview(id int64) {
	delete(s.reviews, id)
	for commentID, c := range s.comments {
		if c.ReviewID == id {
			delete(s.comments, commentID)
		}
	}
}

func (r *reviewRepo) read(rv *entity.Review) *entity.Review {
	out := *rv
	out.Author = r.s.username(rv.AuthorID)
	return &out
}

func (r *reviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("review.Create"); err != nil {
		return err
	}

	if _, ok := r.s.titles[review.TitleID]; !ok {
		return fmt.Errorf("title %d does not exist", review.TitleID)
	}
	for _, rv := range r.s.reviews {
		if rv.TitleID == review.TitleID && rv.AuthorID == review.AuthorID {
			return fmt.Errorf("create review for title %d by user %d: %w",
				review.TitleID, review.AuthorID, repository.ErrDuplicate)
		}
	}
	review.ID = r.s.id()
	rv := *review
	r.s.reviews[review.ID] = &rv
	return nil
}

func (r *reviewRepo) FindByID(_ context.Context, id int64) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("review.FindByID"); err != nil {
		return nil, err
	}
	if rv, ok := r.s.reviews[id]; ok {
		return r.read(rv), nil
	}
	return nil, nil
}

func (r *reviewRepo) byTitle(titleID int64) []*entity.Review {
	var out []*entity.Review
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID {
			out = append(out, r.read(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].PubDate.After(out[j].PubDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *reviewRepo) FindByTitleID(_ context.Context, titleID int64, limit, offset int) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("review.FindByTitleID"); err != nil {
		return nil, err
	}
	return page(r.byTitle(titleID), limit, offset), nil
}

func (r *reviewRepo) FindByTitleAndAuthor(_ context.Context, titleID, authorID int64) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("review.FindByTitleAndAuthor"); err != nil {
		return nil, err
	}
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID && rv.AuthorID == authorID {
			return r.read(rv), nil
		}
	}
	return nil, nil
}

func (r *reviewRepo) CountByTitleID(_ context.Context, titleID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("review.CountByTitleID"); err != nil {
		return 0, err
	}
	return int64(len(r.byTitle(titleID))), nil
}

func (r *reviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("review.Update"); err != nil {
		return err
	}

	current, ok := r.s.reviews[review.ID]
	if !ok {
		return fmt.Errorf("review %d not found", review.ID)
	}
	current.Text = review.Text
	current.Score = review.Score
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("review.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.reviews[id]; !ok {
		return fmt.Errorf("review %d not found", id)
	}
	r.s.deleteReview(id)
	return nil
}

// ==================== COMMENTS ====================

type commentRepo struct{ s *Store }

func (r *commentRepo) read(c *entity.Comment) *entity.Comment {
	out := *c
	out.Author = r.s.username(c.AuthorID)
	return &out
}

func (r *commentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("comment.Create"); err != nil {
		return err
	}

	if _, ok := r.s.reviews[comment.ReviewID]; !ok {
		return fmt.Errorf("review %d does not exist", comment.ReviewID)
	}
	comment.ID = r.s.id()
	c := *comment
	r.s.comments[comment.ID] = &c
	return nil
}

func (r *commentRepo) FindByID(_ context.Context, id int64) (*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("comment.FindByID"); err != nil {
		return nil, err
	}
	if c, ok := r.s.comments[id]; ok {
		return r.read(c), nil
	}
	return nil, nil
}

func (r *commentRepo) byReview(reviewID int64) []*entity.Comment {
	var out []*entity.Comment
	for _, c := range r.s.comments {
		if c.ReviewID == reviewID {
			out = append(out, r.read(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].PubDate.Before(out[j].PubDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *commentRepo) FindByReviewID(_ context.Context, reviewID int64, limit, offset int) ([]*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("comment.FindByReviewID"); err != nil {
		return nil, err
	}
	return page(r.byReview(reviewID), limit, offset), nil
}

func (r *commentRepo) CountByReviewID(_ context.Context, reviewID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("comment.CountByReviewID"); err != nil {
		return 0, err
	}
	return int64(len(r.byReview(reviewID))), nil
}

func (r *commentRepo) Update(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("comment.Update"); err != nil {
		return err
	}

	current, ok := r.s.comments[comment.ID]
	if !ok {
		return fmt.Errorf("comment %d not found", comment.ID)
	}
	current.Text = comment.Text
	return nil
}

func (r *commentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("comment.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.comments[id]; !ok {
		return fmt.Errorf("comment %d not found", id)
	}
	delete(r.s.comments, id)
	return nil
}
