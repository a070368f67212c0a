package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"worklog/internal/models"
	"worklog/internal/repository"
)

// EntryService manages log entries. Only an entry's owner may change or
// remove it.
type EntryService struct {
	entries repository.EntryRepository
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewEntryService(entries repository.EntryRepository, log logrus.FieldLogger) *EntryService {
	if entries == nil {
		panic("entry service needs an entry repository")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EntryService{
		entries: entries,
		log:     log.WithField("service", "entry"),
		now:     time.Now,
	}
}

// normalize validates f and fills in defaults. A zero start time means now.
func (s *EntryService) normalize(f models.EntryFields) (models.EntryFields, error) {
	verr := &ValidationError{}
	if !f.Flow.Valid() {
		verr.add("flow", "must be one of High, Low, None")
	}
	if utf8.RuneCountInString(f.Comment) > models.MaxCommentLength {
		verr.add("comment", fmt.Sprintf("must be at most %d characters", models.MaxCommentLength))
	}
	if err := verr.orNil(); err != nil {
		return f, err
	}

	if f.StartTime.IsZero() {
		f.StartTime = s.now()
	}
	f.StartTime = f.StartTime.UTC().Truncate(time.Second)
	return f, nil
}

func (s *EntryService) Create(ctx context.Context, user *models.User, fields models.EntryFields) (*models.Entry, error) {
	fields, err := s.normalize(fields)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{OwnerID: user.ID}
	entry.Apply(fields)
	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("entry.Create: %w", err)
	}

	s.log.WithFields(logrus.Fields{"entry_id": entry.ID, "user_id": user.ID}).Info("entry created")
	return entry, nil
}

// List returns every user's entries, most recent start time first.
func (s *EntryService) List(ctx context.Context) ([]models.EntryView, error) {
	entries, err := s.entries.ListEntries(ctx, repository.EntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("entry.List: %w", err)
	}
	return entries, nil
}

// ListByOwner is List restricted to the user's own entries.
func (s *EntryService) ListByOwner(ctx context.Context, user *models.User) ([]models.EntryView, error) {
	entries, err := s.entries.ListEntries(ctx, repository.EntryFilter{OwnerID: &user.ID})
	if err != nil {
		return nil, fmt.Errorf("entry.ListByOwner: %w", err)
	}
	return entries, nil
}

func (s *EntryService) Get(ctx context.Context, id int64) (*models.Entry, error) {
	entry, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("entry.Get: %w", err)
	}
	return entry, nil
}

// GetOwned is Get for an entry the user is about to modify. Entries of
// other users yield ErrForbidden.
func (s *EntryService) GetOwned(ctx context.Context, user *models.User, id int64) (*models.Entry, error) {
	return s.owned(ctx, user, id)
}

func (s *EntryService) owned(ctx context.Context, user *models.User, id int64) (*models.Entry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.OwnerID != user.ID {
		s.log.WithFields(logrus.Fields{
			"entry_id": id,
			"owner_id": entry.OwnerID,
			"user_id":  user.ID,
		}).Warn("ownership check failed")
		return nil, ErrForbidden
	}
	return entry, nil
}

// Update overwrites the mutable fields of an entry the user owns.
func (s *EntryService) Update(ctx context.Context, user *models.User, id int64, fields models.EntryFields) (*models.Entry, error) {
	entry, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	fields, err = s.normalize(fields)
	if err != nil {
		return nil, err
	}

	entry.Apply(fields)
	if err := s.entries.UpdateEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("entry.Update: %w", err)
	}

	s.log.WithFields(logrus.Fields{"entry_id": id, "user_id": user.ID}).Info("entry updated")
	return entry, nil
}

// Delete removes an entry the user owns. Entries of other users are left
// in place and reported as ErrForbidden, as Update does.
func (s *EntryService) Delete(ctx context.Context, user *models.User, id int64) error {
	if _, err := s.owned(ctx, user, id); err != nil {
		return err
	}

	if err := s.entries.DeleteEntry(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("entry.Delete: %w", err)
	}

	s.log.WithFields(logrus.Fields{"entry_id": id, "user_id": user.ID}).Info("entry deleted")
	return nil
}
