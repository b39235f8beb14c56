package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/entity"
	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/usecase"

	"github.com/samber/lo"
	"go.uber.org/fx"
)

type contactService struct {
	contactRepo repository.ContactRepository
	logRepo     repository.LogRepository
	logger      *slog.Logger
	now         func() time.Time
}

// ContactServiceParams holds dependencies for ContactService, injected by Fx.
type ContactServiceParams struct {
	fx.In

	ContactRepo repository.ContactRepository
	LogRepo     repository.LogRepository
	Logger      *slog.Logger
}

// NewContactService is the constructor for contactService.
func NewContactService(params ContactServiceParams) usecase.ContactUsecase {
	return &contactService{
		contactRepo: params.ContactRepo,
		logRepo:     params.LogRepo,
		logger:      params.Logger,
		now:         time.Now,
	}
}

func (s *contactService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, s.logger)
}

func (s *contactService) Create(ctx context.Context, input *usecase.ContactInput) (*entity.Contact, error) {
	now := s.now()
	contact := &entity.Contact{
		ID:        entity.NewID(entity.IDPrefixContact, now),
		CreatedAt: entity.MillisOf(now),
	}
	if err := applyContactInput(contact, input); err != nil {
		return nil, err
	}
	contact.LastUpdated = contact.CreatedAt

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	err := appendLog(ctx, s.logRepo, now, entity.LogTypeContactAdded,
		fmt.Sprintf("Emergency contact added: %s", contact.Name),
		map[string]any{
			"contactId":       contact.ID,
			"associatedNodes": contact.AssociatedNodes,
		})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Contact added", slog.String("contactId", contact.ID), slog.Int("nodes", len(contact.AssociatedNodes)))

	return contact, nil
}

func (s *contactService) Update(ctx context.Context, contactID string, input *usecase.ContactInput) (*entity.Contact, error) {
	contact, err := s.find(ctx, contactID)
	if err != nil {
		return nil, err
	}

	if err := applyContactInput(contact, input); err != nil {
		return nil, err
	}
	contact.LastUpdated = entity.MillisOf(s.now())

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, contactID string) error {
	contact, err := s.find(ctx, contactID)
	if err != nil {
		return err
	}

	if err := s.contactRepo.Delete(ctx, contactID); err != nil {
		return err
	}

	return appendLog(ctx, s.logRepo, s.now(), entity.LogTypeContactRemoved,
		fmt.Sprintf("Emergency contact removed: %s", contact.Name),
		map[string]any{"contactId": contactID})
}

func (s *contactService) List(ctx context.Context) ([]*entity.Contact, error) {
	contacts, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].Name) < strings.ToLower(contacts[j].Name)
	})

	return contacts, nil
}

func (s *contactService) find(ctx context.Context, contactID string) (*entity.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domainerrors.ErrContactNotFound
	}

	return contact, nil
}

// applyContactInput validates input and copies it onto contact.
func applyContactInput(contact *entity.Contact, input *usecase.ContactInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domainerrors.ErrValidationFailed.WithDetails("name is required")
	}

	phone, ok := entity.NormalizePhone(input.Phone)
	if !ok {
		return domainerrors.ErrInvalidPhone
	}

	nodes := lo.Uniq(lo.Compact(lo.Map(input.AssociatedNodes, func(id string, _ int) string {
		return strings.TrimSpace(id)
	})))
	if len(nodes) == 0 {
		return domainerrors.ErrNoNodesSelected
	}

	preference := input.NotificationPreference
	if preference == "" {
		preference = entity.PreferenceSMS
	}
	if !preference.Valid() {
		return domainerrors.ErrValidationFailed.WithDetails("notification preference must be sms, email or both")
	}

	contact.Name = name
	contact.Phone = phone
	contact.Email = strings.TrimSpace(input.Email)
	contact.AssociatedNodes = nodes
	contact.NotificationPreference = preference

	return nil
}
