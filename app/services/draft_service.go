package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/internal/uploader"
	"github.com/allmart/storefront/pkg/cache"
	"github.com/allmart/storefront/pkg/logger"
	"github.com/allmart/storefront/pkg/workerpool"
)

// ErrDraftNotFound is returned for unknown or expired draft ids.
var ErrDraftNotFound = errors.New("draft not found")

const draftTTL = time.Hour

// DraftValidationError names the step-1 fields blocking an advance or
// submit.
type DraftValidationError struct {
	Fields map[string]string
}

func (e *DraftValidationError) Error() string {
	return fmt.Sprintf("draft invalid on %d field(s)", len(e.Fields))
}

// ProductDraft is the server-held state of the two-step creation wizard.
type ProductDraft struct {
	ID          string   `json:"id"`
	Step        int      `json:"step"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	Stock       string   `json:"stock"`
	Gender      string   `json:"gender"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
	Colors      []string `json:"colors"`
	Description string   `json:"description"`
}

// newDraftState is the empty wizard state a draft starts with and
// resets to after a successful submit.
func newDraftState(id string) ProductDraft {
	return ProductDraft{ID: id, Step: 1}
}

// step1Errors returns the field problems blocking step 2, empty when valid.
func (d ProductDraft) step1Errors() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(d.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(d.Category) == "" {
		fields["category"] = "category is required"
	}
	if strings.TrimSpace(d.Price) == "" {
		fields["price"] = "price is required"
	}
	if strings.TrimSpace(d.Stock) == "" {
		fields["stock"] = "stock is required"
	}
	if d.Gender == "" {
		fields["gender"] = "gender is required"
	}
	if len(d.Images) < models.MinImages || len(d.Images) > models.MaxImages {
		fields["images"] = fmt.Sprintf("between %d and %d images required, have %d",
			models.MinImages, models.MaxImages, len(d.Images))
	}
	return fields
}

// ─── Draft store ──────────────────────────────────────────────────────────────

// draftStore persists drafts in redis with an in-memory fallback, so
// the wizard keeps working when redis is down (at the cost of drafts
// not surviving a restart).
type draftStore struct {
	mu  sync.RWMutex
	mem map[string]memDraft
}

type memDraft struct {
	draft     ProductDraft
	expiresAt time.Time
}

func newDraftStore() *draftStore {
	return &draftStore{mem: map[string]memDraft{}}
}

func draftKey(id string) string { return "storefront:draft:" + id }

func (s *draftStore) get(id string) (ProductDraft, bool) {
	var d ProductDraft
	if cache.Get(draftKey(id), &d) {
		return d, true
	}

	s.mu.RLock()
	entry, ok := s.mem[id]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return ProductDraft{}, false
	}
	return entry.draft, true
}

func (s *draftStore) put(d ProductDraft) {
	if err := cache.Set(draftKey(d.ID), d, draftTTL); err != nil {
		logger.Warn("draft: redis save failed, memory copy only", "error", err)
	}

	s.mu.Lock()
	s.mem[d.ID] = memDraft{draft: d, expiresAt: time.Now().Add(draftTTL)}
	s.mu.Unlock()
}

// ─── Service ──────────────────────────────────────────────────────────────────

// categoryChecker validates the category field against known categories.
type categoryChecker interface {
	CategoryExists(ctx context.Context, name string) (bool, error)
}

// productCreator posts the finished product.
type productCreator interface {
	CreateProduct(ctx context.Context, p models.Product) error
}

// DraftService drives the two-step product creation wizard.
type DraftService struct {
	store      *draftStore
	categories categoryChecker
	creator    productCreator
	uploads    uploader.Uploader
	pool       *workerpool.Pool
}

// NewDraftService wires the wizard to its collaborators. uploads may be
// nil when no image host is configured; AddImages then fails cleanly.
func NewDraftService(categories categoryChecker, creator productCreator, uploads uploader.Uploader, pool *workerpool.Pool) *DraftService {
	return &DraftService{
		store:      newDraftStore(),
		categories: categories,
		creator:    creator,
		uploads:    uploads,
		pool:       pool,
	}
}

// Create opens a fresh draft at step 1.
func (s *DraftService) Create() ProductDraft {
	d := newDraftState(uuid.NewString())
	s.store.put(d)
	return d
}

// Get returns a draft by id.
func (s *DraftService) Get(id string) (ProductDraft, error) {
	d, ok := s.store.get(id)
	if !ok {
		return ProductDraft{}, ErrDraftNotFound
	}
	return d, nil
}

// DetailsInput carries the step-1 form fields.
type DetailsInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price" validate:"numeric"`
	Stock    string `json:"stock" validate:"numeric"`
	Gender   string `json:"gender"`
}

// UpdateDetails sets the step-1 fields. Individual fields may be empty
// while the user is still typing; cross-field checks happen on advance.
func (s *DraftService) UpdateDetails(ctx context.Context, id string, in DetailsInput) (ProductDraft, error) {
	d, ok := s.store.get(id)
	if !ok {
		return ProductDraft{}, ErrDraftNotFound
	}

	if in.Gender != "" && !models.ValidGender(in.Gender) {
		return ProductDraft{}, &DraftValidationError{Fields: map[string]string{
			"gender": "must be one of Men, Women, Baby, Anyone",
		}}
	}
	if in.Category != "" {
		known, err := s.categories.CategoryExists(ctx, in.Category)
		if err != nil {
			return ProductDraft{}, err
		}
		if !known {
			return ProductDraft{}, &DraftValidationError{Fields: map[string]string{
				"category": "unknown category " + in.Category,
			}}
		}
	}

	d.Name = in.Name
	d.Category = in.Category
	d.Price = in.Price
	d.Stock = in.Stock
	d.Gender = in.Gender
	s.store.put(d)
	return d, nil
}

// AddImages uploads a batch of files to the image host and appends the
// returned display URLs. The batch is all-or-nothing; a failure leaves
// the draft's image list untouched.
func (s *DraftService) AddImages(ctx context.Context, id string, files []uploader.File) (ProductDraft, error) {
	d, ok := s.store.get(id)
	if !ok {
		return ProductDraft{}, ErrDraftNotFound
	}

	if len(files) == 0 {
		return ProductDraft{}, &DraftValidationError{Fields: map[string]string{
			"images": "no files supplied",
		}}
	}
	if len(d.Images)+len(files) > models.MaxImages {
		return ProductDraft{}, &DraftValidationError{Fields: map[string]string{
			"images": fmt.Sprintf("at most %d images allowed, have %d and adding %d",
				models.MaxImages, len(d.Images), len(files)),
		}}
	}
	if s.uploads == nil {
		return ProductDraft{}, errors.New("draft: no image host configured")
	}

	urls, err := uploader.Batch(ctx, s.pool, s.uploads, files)
	if err != nil {
		return ProductDraft{}, err
	}

	d.Images = append(d.Images, urls...)
	s.store.put(d)
	return d, nil
}

// Advance moves the draft to step 2 once every step-1 field is filled
// and the image count is within range.
func (s *DraftService) Advance(id string) (ProductDraft, error) {
	d, ok := s.store.get(id)
	if !ok {
		return ProductDraft{}, ErrDraftNotFound
	}

	if fields := d.step1Errors(); len(fields) > 0 {
		return ProductDraft{}, &DraftValidationError{Fields: fields}
	}

	d.Step = 2
	s.store.put(d)
	return d, nil
}

// AttributesPatch carries step-2 edits. Raw token fields accept the
// space-delimited entry convention; nil pointers leave a field alone.
type AttributesPatch struct {
	TagsRaw     *string `json:"tags_raw,omitempty"`
	ColorsRaw   *string `json:"colors_raw,omitempty"`
	RemoveTag   *string `json:"remove_tag,omitempty"`
	RemoveColor *string `json:"remove_color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateAttributes applies step-2 edits to tags, colors, and description.
func (s *DraftService) UpdateAttributes(id string, patch AttributesPatch) (ProductDraft, error) {
	d, ok := s.store.get(id)
	if !ok {
		return ProductDraft{}, ErrDraftNotFound
	}

	if patch.TagsRaw != nil {
		d.Tags = CommitTokens(d.Tags, *patch.TagsRaw)
	}
	if patch.ColorsRaw != nil {
		d.Colors = CommitTokens(d.Colors, *patch.ColorsRaw)
	}
	if patch.RemoveTag != nil {
		d.Tags = removeToken(d.Tags, *patch.RemoveTag)
	}
	if patch.RemoveColor != nil {
		d.Colors = removeToken(d.Colors, *patch.RemoveColor)
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}

	s.store.put(d)
	return d, nil
}

// Submit composes the final product record and posts it to the gateway.
// On success the draft resets to its initial empty state; on failure it
// is left intact so the user can retry.
func (s *DraftService) Submit(ctx context.Context, id string) (models.Product, error) {
	d, ok := s.store.get(id)
	if !ok {
		return models.Product{}, ErrDraftNotFound
	}

	// Submit re-checks the image presence even though advance already
	// did; the draft may have been mutated since.
	if len(d.Images) == 0 {
		return models.Product{}, &DraftValidationError{Fields: map[string]string{
			"images": "at least one image required",
		}}
	}
	if fields := d.step1Errors(); len(fields) > 0 {
		return models.Product{}, &DraftValidationError{Fields: fields}
	}

	product := models.Product{
		Name:        d.Name,
		Category:    d.Category,
		Price:       d.Price,
		Stock:       d.Stock,
		Description: d.Description,
		Gender:      d.Gender,
		Tags:        d.Tags,
		Colors:      d.Colors,
		Images:      d.Images,
	}

	if err := s.creator.CreateProduct(ctx, product); err != nil {
		return models.Product{}, err
	}

	s.store.put(newDraftState(d.ID))
	return product, nil
}

// ─── Token entry ──────────────────────────────────────────────────────────────

// CommitTokens implements the space-commits-a-token entry convention:
// every space in raw seals the trimmed token before it. Committed
// tokens are deduplicated; first occurrence keeps its position. Text
// after the final space is still "being typed" and is not committed.
func CommitTokens(existing []string, raw string) []string {
	out := append([]string(nil), existing...)

	last := strings.LastIndexByte(raw, ' ')
	if last < 0 {
		return out
	}

	for _, tok := range strings.Fields(raw[:last+1]) {
		if !containsToken(out, tok) {
			out = append(out, tok)
		}
	}
	return out
}

func containsToken(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func removeToken(s []string, v string) []string {
	out := make([]string, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
