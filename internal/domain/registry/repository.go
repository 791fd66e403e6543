package registry

import "context"

// Repository describes registry persistence needs from use cases.
type Repository interface {
	GetByParticipantIDs(ctx context.Context, participantIDs []string) ([]Metadata, error)
	Upsert(ctx context.Context, items []Metadata) error
	ListActive(ctx context.Context) ([]Metadata, error)
}

// Fetcher retrieves a participant profile from the upstream profile service.
// It returns ErrProfileNotFound when the service has no such participant.
type Fetcher interface {
	FetchProfile(ctx context.Context, participantID string) (Metadata, error)
}
