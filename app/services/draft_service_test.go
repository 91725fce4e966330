package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/internal/uploader"
	"github.com/allmart/storefront/pkg/workerpool"
)

// fakeCategories accepts a fixed set of category names.
type fakeCategories struct{ names []string }

func (f *fakeCategories) CategoryExists(_ context.Context, name string) (bool, error) {
	for _, n := range f.names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// fakeCreator records posted products and optionally fails.
type fakeCreator struct {
	created []models.Product
	err     error
}

func (f *fakeCreator) CreateProduct(_ context.Context, p models.Product) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, p)
	return nil
}

// seqUploader returns predictable URLs.
type seqUploader struct{ n int }

func (u *seqUploader) Name() string { return "seq" }

func (u *seqUploader) Upload(_ context.Context, f uploader.File) (string, error) {
	u.n++
	return "https://img.test/" + f.Name, nil
}

func newTestDraftService(t *testing.T, creator *fakeCreator) *DraftService {
	t.Helper()
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	return NewDraftService(
		&fakeCategories{names: []string{"Sarees", "Lehengas"}},
		creator,
		&seqUploader{},
		pool,
	)
}

func fillStep1(t *testing.T, s *DraftService, id string, imageCount int) {
	t.Helper()

	_, err := s.UpdateDetails(context.Background(), id, DetailsInput{
		Name:     "Silk Saree",
		Category: "Sarees",
		Price:    "1200",
		Stock:    "4",
		Gender:   models.GenderWomen,
	})
	require.NoError(t, err)

	files := make([]uploader.File, imageCount)
	for i := range files {
		files[i] = uploader.File{Name: string(rune('a'+i)) + ".jpg", Content: []byte("x")}
	}
	if imageCount > 0 {
		_, err = s.AddImages(context.Background(), id, files)
		require.NoError(t, err)
	}
}

func TestDraft_AdvanceBlockedBelowMinImages(t *testing.T) {
	s := newTestDraftService(t, &fakeCreator{})
	d := s.Create()

	fillStep1(t, s, d.ID, 1)

	_, err := s.Advance(d.ID)
	var verr *DraftValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "images")
}

func TestDraft_AdvanceAllowedWithinRange(t *testing.T) {
	for _, count := range []int{2, 3, 4} {
		s := newTestDraftService(t, &fakeCreator{})
		d := s.Create()
		fillStep1(t, s, d.ID, count)

		advanced, err := s.Advance(d.ID)
		require.NoError(t, err, "image count %d", count)
		assert.Equal(t, 2, advanced.Step)
	}
}

func TestDraft_AddImagesRejectsOverflow(t *testing.T) {
	s := newTestDraftService(t, &fakeCreator{})
	d := s.Create()
	fillStep1(t, s, d.ID, 4)

	_, err := s.AddImages(context.Background(), d.ID, []uploader.File{{Name: "extra.jpg"}})
	var verr *DraftValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "images")

	// The rejected add must not change the draft.
	got, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 4)
}

func TestDraft_AdvanceBlockedWithEmptyDetails(t *testing.T) {
	s := newTestDraftService(t, &fakeCreator{})
	d := s.Create()

	_, err := s.Advance(d.ID)
	var verr *DraftValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"name", "category", "price", "stock", "gender", "images"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestDraft_UnknownCategoryRejected(t *testing.T) {
	s := newTestDraftService(t, &fakeCreator{})
	d := s.Create()

	_, err := s.UpdateDetails(context.Background(), d.ID, DetailsInput{Category: "Shoes"})
	var verr *DraftValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")
}

func TestDraft_SubmitResetsOnSuccess(t *testing.T) {
	creator := &fakeCreator{}
	s := newTestDraftService(t, creator)
	d := s.Create()
	fillStep1(t, s, d.ID, 2)

	_, err := s.Advance(d.ID)
	require.NoError(t, err)
	_, err = s.UpdateAttributes(d.ID, AttributesPatch{Description: strptr("soft cotton")})
	require.NoError(t, err)

	product, err := s.Submit(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Silk Saree", product.Name)
	assert.Len(t, creator.created, 1)

	// Draft is back to its initial empty state under the same id.
	got, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, newDraftState(d.ID), got)
}

func TestDraft_SubmitFailureKeepsDraft(t *testing.T) {
	creator := &fakeCreator{err: errors.New("gateway down")}
	s := newTestDraftService(t, creator)
	d := s.Create()
	fillStep1(t, s, d.ID, 2)

	_, err := s.Submit(context.Background(), d.ID)
	require.Error(t, err)

	got, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Silk Saree", got.Name, "failed submit must leave the draft intact")
	assert.Len(t, got.Images, 2)
}

func TestDraft_UnknownIDIsNotFound(t *testing.T) {
	s := newTestDraftService(t, &fakeCreator{})

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = s.Advance("nope")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestCommitTokens(t *testing.T) {
	t.Run("trailing space commits the token", func(t *testing.T) {
		assert.Equal(t, []string{"red"}, CommitTokens(nil, "red "))
	})

	t.Run("text still being typed is not committed", func(t *testing.T) {
		assert.Equal(t, []string{"red"}, CommitTokens(nil, "red blu"))
	})

	t.Run("recommitting does not duplicate", func(t *testing.T) {
		assert.Equal(t, []string{"red"}, CommitTokens([]string{"red"}, "red "))
	})

	t.Run("multiple tokens in one entry", func(t *testing.T) {
		assert.Equal(t, []string{"red", "blue"}, CommitTokens(nil, "red blue "))
	})

	t.Run("whitespace only commits nothing", func(t *testing.T) {
		assert.Equal(t, []string{"red"}, CommitTokens([]string{"red"}, "   "))
	})

	t.Run("order preserved", func(t *testing.T) {
		got := CommitTokens([]string{"red"}, "green red blue ")
		assert.Equal(t, []string{"red", "green", "blue"}, got)
	})
}

func TestUpdateAttributes_RemoveToken(t *testing.T) {
	s := newTestDraftService(t, &fakeCreator{})
	d := s.Create()

	_, err := s.UpdateAttributes(d.ID, AttributesPatch{TagsRaw: strptr("red blue ")})
	require.NoError(t, err)

	got, err := s.UpdateAttributes(d.ID, AttributesPatch{RemoveTag: strptr("red")})
	require.NoError(t, err)
	assert.Equal(t, []string{"blue"}, got.Tags)
}

func strptr(s string) *string { return &s }
