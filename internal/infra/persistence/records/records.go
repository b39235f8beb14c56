// Package records implements the domain repositories on top of the record store.
package records

import (
	"encoding/json"
	"sort"
	"strings"

	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/domain/repository"

	"github.com/pkg/errors"
)

// forbiddenKeyChars cannot appear in a Realtime Database key.
const forbiddenKeyChars = "./#$[]"

// recordPath joins collection, key and optional sub-paths, rejecting keys the
// remote store would refuse.
func recordPath(collection, key string, rest ...string) (string, error) {
	if key == "" || strings.ContainsAny(key, forbiddenKeyChars) {
		return "", domainerrors.ErrValidationFailed.WithDetails("invalid record key: " + key)
	}

	parts := append([]string{collection, key}, rest...)

	return strings.Join(parts, "/"), nil
}

func storeError(err error, details string) error {
	if err == nil {
		return nil
	}

	return domainerrors.NewStoreError(err, details)
}

// decodeChildren decodes every child of snap into a T and passes it to set
// together with its key.
func decodeChildren[T any](snap repository.Snapshot, set func(key string, v *T)) error {
	children, err := snap.Children()
	if err != nil {
		return errors.Wrapf(err, "read children of %s", snap.Path())
	}

	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := new(T)
		if err := json.Unmarshal(children[k], v); err != nil {
			return errors.Wrapf(err, "decode %s/%s", snap.Path(), k)
		}
		set(k, v)
	}

	return nil
}
