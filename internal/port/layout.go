package port

import "github.com/fhuszti/videos-ms-go/internal/model"

// StoreLayout maps content to directories of the permanent content store.
type StoreLayout interface {
	BaseDir(kind model.ContentKind, ownerID, contentID string) (string, error)
	NewPackageDir(kind model.ContentKind, ownerID, contentID string) (string, error)
}
