package records

import (
	"context"
	"sort"

	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
)

type contactRepository struct {
	store repository.RecordStore
}

// NewContactRepository is the constructor for contactRepository.
func NewContactRepository(store repository.RecordStore) repository.ContactRepository {
	return &contactRepository{store: store}
}

func (repo *contactRepository) Save(ctx context.Context, contact *entity.Contact) error {
	path, err := recordPath(constants.CollectionContacts, contact.ID)
	if err != nil {
		return err
	}

	return storeError(repo.store.Set(ctx, path, contact), "failed to save contact")
}

func (repo *contactRepository) FindByID(ctx context.Context, id string) (*entity.Contact, error) {
	path, err := recordPath(constants.CollectionContacts, id)
	if err != nil {
		return nil, err
	}

	snap, err := repo.store.Get(ctx, path)
	if err != nil {
		return nil, storeError(err, "failed to find contact")
	}
	if !snap.Exists() {
		return nil, nil
	}

	contact := &entity.Contact{}
	if err := snap.Decode(contact); err != nil {
		return nil, err
	}
	contact.ID = id

	return contact, nil
}

// List returns contacts ordered by id.
func (repo *contactRepository) List(ctx context.Context) ([]*entity.Contact, error) {
	snap, err := repo.store.Get(ctx, constants.CollectionContacts)
	if err != nil {
		return nil, storeError(err, "failed to list contacts")
	}

	contacts := make([]*entity.Contact, 0)
	err = decodeChildren(snap, func(key string, contact *entity.Contact) {
		contact.ID = key
		contacts = append(contacts, contact)
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(contacts, func(i, j int) bool { return contacts[i].ID < contacts[j].ID })

	return contacts, nil
}

func (repo *contactRepository) Delete(ctx context.Context, id string) error {
	path, err := recordPath(constants.CollectionContacts, id)
	if err != nil {
		return err
	}

	return storeError(repo.store.Remove(ctx, path), "failed to delete contact")
}
