package snapshots

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"

	"github.com/ccmha/rink-sync/pkg/models"
)

// Service stores the latest captured snapshot per venue. One document per
// venue, read once at the start of a detection run and overwritten once at
// the end.
type Service struct {
	Client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{
		Client: client,
	}
}

// GetLatest returns the stored snapshot for the venue. A missing document is
// a first run and comes back as an empty snapshot, not an error.
func (s Service) GetLatest(ctx context.Context, venueSlug string) (models.Snapshot, error) {
	doc, _ := s.Client.Collection("Snapshots").Doc(venueSlug).Get(ctx)
	if !doc.Exists() {
		log.Printf("No previous snapshot for %s\n", venueSlug)
		return models.Snapshot{}, nil
	}

	var snapshot models.Snapshot
	if err := doc.DataTo(&snapshot); err != nil {
		// If this fails, we have an inconsistency error as we control both the data written to
		// Firestore and the shape of our snapshot struct.
		return models.Snapshot{}, xerrors.Errorf(
			"consistency error. Converting %+v to snapshot struct failed: %w",
			doc,
			err,
		)
	}

	return snapshot, nil
}

// PutLatest overwrites the stored snapshot for the venue.
func (s Service) PutLatest(ctx context.Context, venueSlug string, snapshot models.Snapshot) error {
	_, err := s.Client.Collection("Snapshots").Doc(venueSlug).Set(ctx, snapshot)
	if err != nil {
		log.Printf("Failed to write snapshot to Firestore: %v\n", err)
		return err
	}
	return nil
}
