package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dmitrijs2005/framekeeper/internal/catalog"
	"github.com/dmitrijs2005/framekeeper/internal/logging"
	"github.com/dmitrijs2005/framekeeper/internal/server/alert"
	"github.com/dmitrijs2005/framekeeper/internal/server/config"
	"github.com/dmitrijs2005/framekeeper/internal/server/form"
	"github.com/dmitrijs2005/framekeeper/internal/server/models"
	"github.com/dmitrijs2005/framekeeper/internal/server/objectstore"
	"github.com/dmitrijs2005/framekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/framekeeper/internal/server/viewstate"
)

// CatalogService owns the per-user item forms. Each signed-in user gets one
// form with its own view state; idle forms expire after the session TTL and
// are closed on eviction.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     objectstore.Storage
	cfg         *config.Config
	logger      logging.Logger

	mu       sync.Mutex
	sessions *expirable.LRU[string, *form.Form]

	// newAlert builds the alert slot of a new form.
	newAlert func(userID string) *alert.Alert
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, storage objectstore.Storage, cfg *config.Config, logger logging.Logger) *CatalogService {
	s := &CatalogService{
		db:          db,
		repomanager: m,
		storage:     storage,
		cfg:         cfg,
		logger:      logger.With("module", "catalog"),
	}
	s.newAlert = func(userID string) *alert.Alert {
		return alert.New(cfg.AlertDelay, alert.WithOnChange(func(st alert.State) {
			s.logger.Debug(context.Background(), "alert changed",
				"user_id", userID, "visible", st.Visible, "severity", st.Severity, "message", st.Message)
		}))
	}

	size := cfg.MaxSessions
	if size <= 0 {
		size = 1
	}
	s.sessions = expirable.NewLRU[string, *form.Form](size, s.onEvict, cfg.SessionTTL)
	return s
}

func (s *CatalogService) onEvict(userID string, f *form.Form) {
	f.View().Dispatch(viewstate.ClearUser{})
	f.Close()
	s.logger.Debug(context.Background(), "form session closed", "user_id", userID)
}

// Session returns the user's form, creating it on first use. Every call
// renews the session TTL.
func (s *CatalogService) Session(ctx context.Context, user viewstate.User) *form.Form {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.sessions.Get(user.ID); ok {
		if cur := f.View().State().User; cur == nil || *cur != user {
			f.View().Dispatch(viewstate.SetUser{User: user})
		}
		s.sessions.Add(user.ID, f)
		return f
	}

	view := viewstate.NewStore(viewstate.State{})
	view.Dispatch(viewstate.SetUser{User: user})
	view.Subscribe(func(st viewstate.State) {
		if st.User == nil {
			return
		}
		s.logger.Debug(context.Background(), "view state updated",
			"user_id", st.User.ID, "items", len(st.Items))
	})

	f := form.New(s.storage, s.repomanager.Items(s.db), view, s.newAlert(user.ID),
		s.logger.With("user_id", user.ID),
		form.WithImagePrefix(s.cfg.ImagePrefix))
	s.sessions.Add(user.ID, f)

	s.logger.Debug(ctx, "form session opened", "user_id", user.ID)
	return f
}

// EndSession closes the user's form, if any.
func (s *CatalogService) EndSession(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(userID)
}

// ListItems returns the catalog as cached in the user's view state, fetching
// it when nothing is cached yet or refresh is set.
func (s *CatalogService) ListItems(ctx context.Context, user viewstate.User, refresh bool) ([]*models.Item, error) {
	f := s.Session(ctx, user)
	if cached := f.View().State().Items; cached != nil && !refresh {
		return cached, nil
	}
	return f.RefreshCatalog(ctx)
}

func (s *CatalogService) Reference() catalog.ReferenceData {
	return catalog.Reference()
}

// Close closes every open form.
func (s *CatalogService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Purge()
}
