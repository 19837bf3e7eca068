package port

import "context"

// PackagePublisher mirrors a finished streaming package to secondary storage.
type PackagePublisher interface {
	PublishPackage(ctx context.Context, dir, prefix string) error
}
