package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rs/zerolog"

	"github.com/atenabot/atena/internal/store"
)

// Store implements store.Store on a Notion database.
type Store struct {
	service    NotionService
	databaseID string
	log        zerolog.Logger
}

// NewStore creates a Notion-backed record store.
func NewStore(service NotionService, databaseID string, log zerolog.Logger) *Store {
	return &Store{
		service:    service,
		databaseID: databaseID,
		log:        log,
	}
}

// GetProfile implements store.Store. Profile pages are the ones carrying a
// monthly-income value for the user.
func (s *Store) GetProfile(ctx context.Context, ownerID int64) (*store.Profile, error) {
	owner := float64(ownerID)
	resp, err := s.service.QueryDatabase(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.AndCompoundFilter{
			notionapi.PropertyFilter{
				Property: propOwnerID,
				Number:   &notionapi.NumberFilterCondition{Equals: &owner},
			},
			notionapi.PropertyFilter{
				Property: propMonthlyIncome,
				Number:   &notionapi.NumberFilterCondition{IsNotEmpty: true},
			},
		},
		PageSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("GetProfile: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	return ProfileFromPage(&resp.Results[0]), nil
}

// PutProfile implements store.Store.
func (s *Store) PutProfile(ctx context.Context, profile *store.Profile) error {
	_, err := s.service.CreatePage(ctx, s.databaseID, ProfileToProperties(profile))
	if err != nil {
		return fmt.Errorf("PutProfile: %w", err)
	}

	s.log.Info().
		Int64("owner_id", profile.OwnerID).
		Msg("Profile persisted")
	return nil
}

// PutTransaction implements store.Store.
func (s *Store) PutTransaction(ctx context.Context, tx *store.Transaction) error {
	_, err := s.service.CreatePage(ctx, s.databaseID, TransactionToProperties(tx))
	if err != nil {
		return fmt.Errorf("PutTransaction: %w", err)
	}
	return nil
}

// QueryTransactions implements store.Store. Transaction pages are the ones
// carrying an amount; results come back most-recent-first.
func (s *Store) QueryTransactions(ctx context.Context, ownerID int64, since time.Time) ([]store.Transaction, error) {
	owner := float64(ownerID)
	filter := notionapi.AndCompoundFilter{
		notionapi.PropertyFilter{
			Property: propOwnerID,
			Number:   &notionapi.NumberFilterCondition{Equals: &owner},
		},
		notionapi.PropertyFilter{
			Property: propAmount,
			Number:   &notionapi.NumberFilterCondition{IsNotEmpty: true},
		},
	}
	if !since.IsZero() {
		sinceDate := notionapi.Date(since)
		filter = append(filter, notionapi.PropertyFilter{
			Property: propDate,
			Date:     &notionapi.DateFilterCondition{OnOrAfter: &sinceDate},
		})
	}

	resp, err := s.service.QueryDatabase(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: filter,
		Sorts: []notionapi.SortObject{
			{Property: propDate, Direction: notionapi.SortOrderDESC},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("QueryTransactions: %w", err)
	}

	transactions := make([]store.Transaction, 0, len(resp.Results))
	for i := range resp.Results {
		transactions = append(transactions, TransactionFromPage(&resp.Results[i]))
	}

	return transactions, nil
}

var _ store.Store = (*Store)(nil)
