package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-site"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// EntryUUID identifies a content entry by collection and entry id. The same
// file yields the same UUID across builds.
func EntryUUID(collection, id string) uuid.UUID {
	collection = strings.ToLower(strings.TrimSpace(collection))
	id = strings.TrimSpace(id)
	if collection == "" || id == "" {
		return uuid.Nil
	}
	return UUID(namespace + ":" + collection + ":" + id)
}
