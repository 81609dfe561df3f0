package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// InventoryServiceConfig holds configuration for the inventory service
type InventoryServiceConfig struct {
	Lexicon            Lexicon
	EnableDebugLogging bool

	// Clock returns the current instant; defaults to time.Now
	Clock func() time.Time
}

// InventoryService is the client-side session over the item collection: it keeps
// the cached items, the add-item form and the active tab, and routes OCR results
// and favorite toggles through the reconciler and the optimistic toggler.
type InventoryService struct {
	items      domain.ItemCollection
	ocr        domain.OCRClient
	store      *ItemStore
	toggler    *FavoriteToggler
	reconciler *Reconciler
	clock      func() time.Time
	debug      bool

	mutex     sync.Mutex
	form      domain.FormState
	mode      domain.Tab
	lastScan  *Reconciliation
	uploading bool
}

// NewInventoryService creates a new inventory service with dependencies
func NewInventoryService(
	items domain.ItemCollection,
	ocr domain.OCRClient,
	config InventoryServiceConfig,
) *InventoryService {
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	store := NewItemStore()
	guesser := NewNameGuesser(config.Lexicon, config.EnableDebugLogging)

	return &InventoryService{
		items:      items,
		ocr:        ocr,
		store:      store,
		toggler:    NewFavoriteToggler(items, store),
		reconciler: NewReconciler(guesser),
		clock:      clock,
		debug:      config.EnableDebugLogging,
		form:       domain.NewFormState(),
		mode:       domain.TabAll,
	}
}

// LoadItems fetches the full collection and replaces the cached copy
func (s *InventoryService) LoadItems(ctx context.Context) error {
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Replace(items); err != nil {
		return err
	}
	if s.debug {
		log.Printf("[INVENTORY] Loaded %d items", len(items))
	}
	return nil
}

// Form returns the current add-item form
func (s *InventoryService) Form() domain.FormState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.form
}

// SetForm replaces the add-item form with user edits
func (s *InventoryService) SetForm(form domain.FormState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.form = form
}

// Mode returns the active tab
func (s *InventoryService) Mode() domain.Tab {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.mode
}

// SetMode switches the active tab
func (s *InventoryService) SetMode(mode domain.Tab) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.mode = mode
}

// Uploading reports whether an OCR upload is in flight
func (s *InventoryService) Uploading() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.uploading
}

// LastScan returns the most recent reconciliation, kept for confidence display
func (s *InventoryService) LastScan() *Reconciliation {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastScan
}

// SubmitForm creates an item from the held form
func (s *InventoryService) SubmitForm(ctx context.Context) (*domain.Item, error) {
	return s.AddItem(ctx, s.Form())
}

// AddItem creates an item from form, then resets the form, reloads and returns to the "all" tab
func (s *InventoryService) AddItem(ctx context.Context, form domain.FormState) (*domain.Item, error) {
	form.Name = strings.TrimSpace(form.Name)
	if !form.Complete() {
		return nil, domain.ErrIncompleteForm
	}
	if form.Storage == "" {
		form.Storage = domain.DefaultStorage
	}

	created, err := s.items.CreateItem(ctx, domain.CreateItemRequest{
		Name:       form.Name,
		Storage:    form.Storage,
		ExpiryDate: form.ExpiryDate,
	})
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	s.form = domain.NewFormState()
	s.lastScan = nil
	s.mutex.Unlock()

	if err := s.LoadItems(ctx); err != nil {
		return created, fmt.Errorf("item created but reload failed: %w", err)
	}
	s.SetMode(domain.TabAll)

	return created, nil
}

// RenameItem changes an item's name and reloads
func (s *InventoryService) RenameItem(ctx context.Context, id, name string) (*domain.Item, error) {
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil, domain.ErrInvalidRequest
	}

	updated, err := s.items.UpdateItem(ctx, id, domain.UpdateItemRequest{Name: &name})
	if err != nil {
		return nil, err
	}
	if err := s.LoadItems(ctx); err != nil {
		return updated, fmt.Errorf("item renamed but reload failed: %w", err)
	}
	return updated, nil
}

// DeleteItem removes an item and reloads
func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.items.DeleteItem(ctx, id); err != nil {
		return err
	}
	return s.LoadItems(ctx)
}

// ToggleFavorite flips the item's favorite flag optimistically
func (s *InventoryService) ToggleFavorite(ctx context.Context, id string) (*PendingMutation, error) {
	return s.toggler.Toggle(ctx, id)
}

// ScanImage uploads an image for OCR and reconciles the result into the held form.
// The busy flag is set for the duration of the upload and cleared on every path.
func (s *InventoryService) ScanImage(ctx context.Context, filename string, image []byte) (*Reconciliation, error) {
	if len(image) == 0 {
		return nil, domain.ErrEmptyUpload
	}

	s.mutex.Lock()
	s.uploading = true
	s.mutex.Unlock()
	defer func() {
		s.mutex.Lock()
		s.uploading = false
		s.mutex.Unlock()
	}()

	scan, err := s.ocr.UploadImage(ctx, filename, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}

	// the session may have been torn down while the upload was in flight
	if s.store.Closed() {
		return nil, domain.ErrStoreClosed
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	rec := s.reconciler.Reconcile(scan.Result(), s.form)
	s.form = rec.Form
	s.mode = rec.Mode
	s.lastScan = &rec

	if s.debug {
		log.Printf("[INVENTORY] Reconciled scan %q: name=%q expiry=%s", filename, rec.Form.Name, rec.Form.ExpiryDate)
	}

	return &rec, nil
}

// Snapshot returns a copy of the cached collection
func (s *InventoryService) Snapshot() Snapshot {
	return s.store.Snapshot()
}

// Dashboard builds the view for the given tab and search string at the current instant
func (s *InventoryService) Dashboard(tab domain.Tab, search string) View {
	return BuildView(s.store.Snapshot(), tab, search, s.clock())
}

// Close tears the session down and waits for in-flight favorite toggles to settle
func (s *InventoryService) Close() {
	s.store.Close()
	s.toggler.Close()
}
