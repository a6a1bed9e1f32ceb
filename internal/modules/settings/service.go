package settings

import (
	"github.com/rs/zerolog"
)

// Service wraps the repository with the admin-panel operations the server
// exposes: maintenance mode and the simulated-data toggle.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new settings service.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "settings").Logger(),
	}
}

// MaintenanceMode reports whether the dashboard is in maintenance mode.
// Errors are logged and treated as "off" so a broken settings read never
// locks users out.
func (s *Service) MaintenanceMode() bool {
	on, err := s.repo.GetBool(KeyMaintenanceMode, false)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read maintenance mode, assuming off")
		return false
	}
	return on
}

// SetMaintenanceMode toggles maintenance mode.
func (s *Service) SetMaintenanceMode(on bool) error {
	s.log.Info().Bool("on", on).Msg("Maintenance mode toggled")
	return s.repo.SetBool(KeyMaintenanceMode, on)
}

// SimulatedOnly reports whether live providers should be bypassed entirely.
func (s *Service) SimulatedOnly() bool {
	on, err := s.repo.GetBool(KeySimulatedOnly, false)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read simulated-only flag, assuming off")
		return false
	}
	return on
}

// SetSimulatedOnly toggles the simulated-data-only mode.
func (s *Service) SetSimulatedOnly(on bool) error {
	s.log.Info().Bool("on", on).Msg("Simulated-only mode toggled")
	return s.repo.SetBool(KeySimulatedOnly, on)
}

// QuoteAPIKey returns the admin-stored provider key, empty if unset. A
// stored key takes precedence over the environment-configured one; that
// resolution happens in the quotes client.
func (s *Service) QuoteAPIKey() string {
	value, err := s.repo.Get(KeyQuoteAPIKey)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read quote API key")
		return ""
	}
	if value == nil {
		return ""
	}
	return *value
}

// All returns every stored setting for the admin panel.
func (s *Service) All() (map[string]string, error) {
	return s.repo.GetAll()
}

// Set stores an arbitrary setting value.
func (s *Service) Set(key, value string) error {
	return s.repo.Set(key, value, nil)
}
