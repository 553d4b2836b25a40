package database

import (
	"context"

	"go.uber.org/zap"

	"sky_flights_booking/internal/logger"
	"sky_flights_booking/internal/models"
)

// FormStore persists the search form per client. It mirrors the persistence
// contract of the browser front end: writes never fail the caller, and a
// missing or unreadable form silently falls back to the defaults.
type FormStore struct {
	store Store
	log   *zap.Logger
}

// NewFormStore creates a form store over the given key-value store
func NewFormStore(store Store) *FormStore {
	return &FormStore{
		store: store,
		log:   logger.Get(),
	}
}

// Save persists the form. Write errors are logged and swallowed.
func (fs *FormStore) Save(ctx context.Context, clientID string, form models.SearchForm) {
	if err := fs.store.SetJSON(ctx, GenerateFormKey(clientID), form, 0); err != nil {
		fs.log.Warn("failed to persist search form",
			zap.String("client_id", clientID),
			zap.Error(err))
	}
}

// Load returns the persisted form, or the defaults when it is absent or corrupt
func (fs *FormStore) Load(ctx context.Context, clientID string) models.SearchForm {
	var form models.SearchForm
	if err := fs.store.GetJSON(ctx, GenerateFormKey(clientID), &form); err != nil {
		fs.log.Debug("no usable persisted search form, using defaults",
			zap.String("client_id", clientID),
			zap.Error(err))
		return models.DefaultSearchForm()
	}
	return form
}
