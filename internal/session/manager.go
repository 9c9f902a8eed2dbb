package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/page"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
	"github.com/MrSnakeDoc/folio/internal/sources/site"
)

// SiteSource provides the site structure new sessions start from.
type SiteSource interface {
	Current() site.Site
}

// ErrTooManySessions is returned by Open when the session limit is reached.
var ErrTooManySessions = errors.New("too many live sessions")

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Site        SiteSource
	Client      sheetapi.Client
	Throttle    Throttle // optional
	Zone        *time.Location
	MaxSessions int // 0 = unlimited
	Logger      logger.Logger
}

// Manager opens page sessions and keeps them in a Registry.
type Manager struct {
	*Registry

	site     SiteSource
	client   sheetapi.Client
	throttle Throttle
	zone     *time.Location
	max      int
	log      logger.Logger
}

// NewManager creates a session manager.
func NewManager(opts ManagerOptions) *Manager {
	return &Manager{
		Registry: NewRegistry(),
		site:     opts.Site,
		client:   opts.Client,
		throttle: opts.Throttle,
		zone:     opts.Zone,
		max:      opts.MaxSessions,
		log:      opts.Logger,
	}
}

// Open starts a new session for a visitor.
func (m *Manager) Open(acceptLanguage, clientKey string) (*Session, error) {
	if m.max > 0 && m.Count() >= m.max {
		return nil, ErrTooManySessions
	}

	st := m.site.Current()
	s, err := New(Config{
		ID:        uuid.NewString(),
		Sections:  st.Sections,
		Default:   st.Default,
		Messages:  st.Messages,
		Localizer: page.NewLocalizer(acceptLanguage, m.zone),
		Client:    m.client,
		Throttle:  m.throttle,
		ClientKey: clientKey,
		Logger:    m.log,
	})
	if err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}

	if !m.AddWithin(s, m.max) {
		s.Close()
		return nil, ErrTooManySessions
	}
	m.log.Debug("session opened",
		logger.String("session", s.ID()),
		logger.String("locale", s.Renderer().Localizer().Locale()))
	return s, nil
}
