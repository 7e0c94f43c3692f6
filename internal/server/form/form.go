package form

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/framekeeper/internal/catalog"
	"github.com/dmitrijs2005/framekeeper/internal/logging"
	"github.com/dmitrijs2005/framekeeper/internal/server/alert"
	"github.com/dmitrijs2005/framekeeper/internal/server/models"
	"github.com/dmitrijs2005/framekeeper/internal/server/objectstore"
	"github.com/dmitrijs2005/framekeeper/internal/server/repositories/items"
	"github.com/dmitrijs2005/framekeeper/internal/server/viewstate"
)

// File is an image selected for upload. Size may be zero when unknown.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// uploadSession exists only while a transfer runs.
type uploadSession struct {
	fileName string
	size     int64
	progress float64
}

// Snapshot is a copy of the form state for rendering.
type Snapshot struct {
	Title     string            `json:"title"`
	Category  *catalog.Category `json:"category"`
	Color     *catalog.Color    `json:"color"`
	ImageURL  string            `json:"imageURL"`
	Busy      bool              `json:"busy"`
	Uploading string            `json:"uploading,omitempty"`
	Progress  float64           `json:"progress"`
	Alert     alert.State       `json:"alert"`
}

type Option func(*Form)

// WithImagePrefix sets the key namespace for uploaded images.
func WithImagePrefix(prefix string) Option {
	return func(f *Form) { f.imagePrefix = prefix }
}

// WithClock replaces time.Now for item IDs and object keys.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

type Form struct {
	storage objectstore.Storage
	items   items.Repository
	view    *viewstate.Store
	alert   *alert.Alert
	logger  logging.Logger

	imagePrefix string
	now         func() time.Time

	mu       sync.Mutex
	title    string
	category *catalog.Category
	color    *catalog.Color
	image    string
	busy     bool
	upload   *uploadSession
	closed   bool
}

func New(storage objectstore.Storage, itemsRepo items.Repository, view *viewstate.Store, al *alert.Alert, logger logging.Logger, opts ...Option) *Form {
	f := &Form{
		storage:     storage,
		items:       itemsRepo,
		view:        view,
		alert:       al,
		logger:      logger.With("module", "form"),
		imagePrefix: defaultImagePrefix,
		now:         time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Form) currentUser() (*viewstate.User, error) {
	u := f.view.State().User
	if u == nil {
		return nil, ErrNoUser
	}
	return u, nil
}

// editable checks the presence flag and that the form is still open.
// Callers hold no lock.
func (f *Form) editable() error {
	if !f.view.HasUser() {
		return ErrNoUser
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	return nil
}

func (f *Form) SetTitle(title string) error {
	if err := f.editable(); err != nil {
		return err
	}
	f.mu.Lock()
	f.title = title
	f.mu.Unlock()
	return nil
}

// SetCategory accepts a category URL parameter name. "" and "other" clear the
// selection.
func (f *Form) SetCategory(s string) error {
	if err := f.editable(); err != nil {
		return err
	}
	c, err := catalog.ParseCategory(s)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.category = c
	f.mu.Unlock()
	return nil
}

// SetColor accepts a color URL parameter name. "" and "other" clear the
// selection.
func (f *Form) SetColor(s string) error {
	if err := f.editable(); err != nil {
		return err
	}
	c, err := catalog.ParseColor(s)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.color = c
	f.mu.Unlock()
	return nil
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	s := Snapshot{
		Title:    f.title,
		Category: f.category,
		Color:    f.color,
		ImageURL: f.image,
		Busy:     f.busy,
	}
	if f.upload != nil {
		s.Uploading = f.upload.fileName
		s.Progress = f.upload.progress
	}
	f.mu.Unlock()

	s.Alert = f.alert.Snapshot()
	return s
}

// UploadImage streams file to object storage under a timestamped key and
// attaches the resulting address to the form. onProgress, if set, receives
// every transfer event.
func (f *Form) UploadImage(ctx context.Context, file File, onProgress objectstore.ProgressFunc) (string, error) {
	if _, err := f.currentUser(); err != nil {
		return "", err
	}
	if file.Body == nil || file.Name == "" {
		return "", ErrNoFile
	}

	f.mu.Lock()
	switch {
	case f.closed:
		f.mu.Unlock()
		return "", ErrClosed
	case f.busy:
		f.mu.Unlock()
		return "", ErrBusy
	case f.image != "":
		f.mu.Unlock()
		return "", ErrImageAttached
	}
	f.busy = true
	session := &uploadSession{fileName: file.Name, size: file.Size}
	f.upload = session
	f.mu.Unlock()

	key := objectstore.ImageKey(f.imagePrefix, file.Name, f.now())
	f.logger.Debug(ctx, "upload started", "key", key, "size", file.Size)

	progress := func(p objectstore.Progress) {
		f.mu.Lock()
		if f.upload == session {
			session.progress = p.Percent()
		}
		f.mu.Unlock()
		if onProgress != nil {
			onProgress(p)
		}
	}

	addr, err := f.storage.Upload(ctx, key, file.Body, file.Size, file.ContentType, progress)

	f.mu.Lock()
	f.busy = false
	if f.upload == session {
		f.upload = nil
	}
	if err == nil {
		f.image = addr
	}
	f.mu.Unlock()

	if err != nil {
		f.logger.Error(ctx, "upload failed", "key", key, "error", err)
		f.alert.Show(alert.Danger, MsgUploadFailed)
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}

	f.logger.Info(ctx, "image uploaded", "address", addr)
	f.alert.Show(alert.Success, MsgUploadOK)
	return addr, nil
}

// DeleteImage removes the attached image. An empty address means the attached
// one. Any other address, including one already cleared or saved with an
// item, is a no-op: storage is not touched.
func (f *Form) DeleteImage(ctx context.Context, address string) error {
	if _, err := f.currentUser(); err != nil {
		return err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if address == "" {
		address = f.image
	}
	if address == "" {
		f.mu.Unlock()
		return nil
	}
	if address != f.image {
		f.mu.Unlock()
		f.logger.Debug(ctx, "delete of detached image ignored", "address", address)
		return nil
	}
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	f.busy = true
	f.mu.Unlock()

	err := f.storage.Delete(ctx, address)

	f.mu.Lock()
	f.busy = false
	if err == nil && f.image == address {
		f.image = ""
	}
	f.mu.Unlock()

	if err != nil {
		f.logger.Error(ctx, "delete failed", "address", address, "error", err)
		f.alert.Show(alert.Danger, MsgDeleteFailed)
		return fmt.Errorf("%w: %w", ErrDelete, err)
	}

	f.logger.Info(ctx, "image deleted", "address", address)
	f.alert.Show(alert.Success, MsgDeleteOK)
	return nil
}

// SaveDetails validates the draft and stores it as a new catalog item. Title
// and image are cleared after a successful save; category and color stay
// selected for the next entry. Whatever the outcome, the catalog is fetched
// again and published to the view state.
func (f *Form) SaveDetails(ctx context.Context) (*models.Item, error) {
	user, err := f.currentUser()
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	title, image, category, color := f.title, f.image, f.category, f.color
	f.mu.Unlock()

	defer func() {
		if _, err := f.RefreshCatalog(ctx); err != nil {
			f.logger.Warn(ctx, "catalog refresh failed", "error", err)
		}
	}()

	if title == "" || image == "" {
		f.alert.Show(alert.Danger, MsgRequired)
		return nil, ErrValidation
	}

	now := f.now()
	item := &models.Item{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Title:     title,
		ImageURL:  image,
		Category:  category,
		Color:     color,
		CreatedBy: user.ID,
		CreatedAt: now.UTC(),
	}

	if err := f.items.Save(ctx, item); err != nil {
		f.logger.Error(ctx, "save failed", "id", item.ID, "error", err)
		f.alert.Show(alert.Danger, MsgSaveFailed)
		return nil, fmt.Errorf("%w: %w", ErrSave, err)
	}

	f.logger.Info(ctx, "item saved", "id", item.ID, "title", item.Title)
	f.alert.Show(alert.Success, MsgSaveOK)

	f.mu.Lock()
	f.title = ""
	if f.image == image {
		f.image = ""
	}
	f.mu.Unlock()

	return item, nil
}

// RefreshCatalog fetches every item and replaces the cached collection in the
// view state.
func (f *Form) RefreshCatalog(ctx context.Context) ([]*models.Item, error) {
	list, err := f.items.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	f.view.Dispatch(viewstate.SetCatalog{Items: list})
	return list, nil
}

// View returns the view state the form publishes to.
func (f *Form) View() *viewstate.Store {
	return f.view
}

// Close tears the form down: the alert is hidden, its timer cancelled and a
// running upload session is dropped. Further edits return ErrClosed.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	f.upload = nil
	f.mu.Unlock()

	f.alert.Hide()
	f.alert.Stop()
}
