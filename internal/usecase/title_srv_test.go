package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/internal/dto/request"
	"github.com/korey-h/api-yamdb/internal/dto/response"
)

func genreSlugs(genres []response.GenreResponse) []string {
	slugs := make([]string, len(genres))
	for i, g := range genres {
		slugs[i] = g.Slug
	}
	return slugs
}

func TestCreateAndUpdateTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.store.SeedCategory(t, "Films", "films")
	env.store.SeedCategory(t, "Books", "books")
	env.store.SeedGenre(t, "Drama", "drama")
	env.store.SeedGenre(t, "Sci-Fi", "sci-fi")

	created, err := env.service.Title.CreateTitle(ctx, &request.CreateTitleRequest{
		Name:     "  Solaris ",
		Year:     ptr(1972),
		Category: ptr("films"),
		Genre:    []string{"sci-fi", "drama", "drama"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Solaris", created.Name)
	require.NotNil(t, created.Category)
	assert.Equal(t, "films", created.Category.Slug)
	assert.ElementsMatch(t, []string{"drama", "sci-fi"}, genreSlugs(created.Genre))
	assert.Nil(t, created.Rating)

	updated, err := env.service.Title.UpdateTitle(ctx, created.ID, &request.UpdateTitleRequest{
		Category: ptr("books"),
		Genre:    &[]string{"drama"},
	})
	require.NoError(t, err)
	assert.Equal(t, "books", updated.Category.Slug)
	assert.Equal(t, []string{"drama"}, genreSlugs(updated.Genre))
	assert.Equal(t, 1972, *updated.Year)

	cleared, err := env.service.Title.UpdateTitle(ctx, created.ID, &request.UpdateTitleRequest{Category: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Category)
	assert.Equal(t, []string{"drama"}, genreSlugs(cleared.Genre))
}

func TestCreateTitleValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.store.SeedGenre(t, "Drama", "drama")

	tests := []struct {
		name  string
		req   request.CreateTitleRequest
		field string
	}{
		{name: "missing name", req: request.CreateTitleRequest{Name: "  "}, field: "name"},
		{name: "future year", req: request.CreateTitleRequest{Name: "x", Year: ptr(time.Now().Year() + 1)}, field: "year"},
		{name: "unknown category", req: request.CreateTitleRequest{Name: "x", Category: ptr("nope")}, field: "category"},
		{name: "unknown genre", req: request.CreateTitleRequest{Name: "x", Genre: []string{"drama", "nope"}}, field: "genre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.service.Title.CreateTitle(ctx, &req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestUpdateTitleRejectsBlankName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.store.SeedTitle(t, "Solaris", nil)

	_, err := env.service.Title.UpdateTitle(ctx, title.ID, &request.UpdateTitleRequest{Name: ptr("   ")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	stored, err := env.service.Title.GetTitleByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, "Solaris", stored.Name)

	renamed, err := env.service.Title.UpdateTitle(ctx, title.ID, &request.UpdateTitleRequest{Name: ptr("  Stalker ")})
	require.NoError(t, err)
	assert.Equal(t, "Stalker", renamed.Name)
}

func TestGetTitlesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	films := env.store.SeedCategory(t, "Films", "films")
	books := env.store.SeedCategory(t, "Books", "books")
	drama := env.store.SeedGenre(t, "Drama", "drama")
	comedy := env.store.SeedGenre(t, "Comedy", "comedy")

	env.store.SeedTitle(t, "Solaris", films, drama)
	env.store.SeedTitle(t, "Solaris (novel)", books, drama)
	env.store.SeedTitle(t, "Jeeves", books, comedy)

	tests := []struct {
		name string
		req  request.TitleListRequest
		want int64
	}{
		{name: "all", req: request.TitleListRequest{}, want: 3},
		{name: "by name", req: request.TitleListRequest{Name: "solaris"}, want: 2},
		{name: "by category", req: request.TitleListRequest{Category: "books"}, want: 2},
		{name: "by genre", req: request.TitleListRequest{Genre: "drama"}, want: 2},
		{name: "combined", req: request.TitleListRequest{Category: "books", Genre: "comedy"}, want: 1},
		{name: "no match", req: request.TitleListRequest{Genre: "horror"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			page, err := env.service.Title.GetTitles(ctx, &req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Pagination.Total)
			assert.Len(t, page.Data, int(tt.want))
		})
	}
}

func TestDeleteCategoryKeepsTitles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	films := env.store.SeedCategory(t, "Films", "films")
	title := env.store.SeedTitle(t, "Solaris", films)

	require.NoError(t, env.service.Category.DeleteCategory(ctx, "films"))
	assert.ErrorIs(t, env.service.Category.DeleteCategory(ctx, "films"), ErrNotFound)

	got, err := env.service.Title.GetTitleByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
}

func TestDeleteTitleCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.store.SeedTitle(t, "Solaris", nil)
	alice := env.store.SeedUser(t, "alice", entity.RoleUser)
	review := env.store.SeedReview(t, title, alice, 7)

	require.NoError(t, env.service.Title.DeleteTitle(ctx, title.ID))
	assert.ErrorIs(t, env.service.Title.DeleteTitle(ctx, title.ID), ErrNotFound)

	stored, err := env.store.Repository().Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestCreateCategoryAndGenreSlugs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	category, err := env.service.Category.CreateCategory(ctx, &request.CreateCategoryRequest{Name: "Café & Noir"})
	require.NoError(t, err)
	assert.Equal(t, "cafe-noir", category.Slug)

	_, err = env.service.Category.CreateCategory(ctx, &request.CreateCategoryRequest{Name: "Other", Slug: category.Slug})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "slug")

	genre, err := env.service.Genre.CreateGenre(ctx, &request.CreateGenreRequest{Name: "Sci Fi", Slug: "sci-fi"})
	require.NoError(t, err)
	assert.Equal(t, "sci-fi", genre.Slug)

	_, err = env.service.Genre.CreateGenre(ctx, &request.CreateGenreRequest{Name: "Bad", Slug: "not a slug"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "slug")

	list, err := env.service.Genre.ListGenres(ctx, &request.SearchRequest{Search: "sci"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)
}
