package politicians

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gzambran/poligrade/services/positionparser"
)

// RecordStore adapts the politicians service to the position parser's
// record facade, so in-process commits skip the HTTP round trip.
type RecordStore struct {
	service Service
}

func NewRecordStore(service Service) RecordStore {
	return RecordStore{service: service}
}

func issueValue(p Politician, field string) *string {
	switch field {
	case "economicPolicy":
		return p.EconomicPolicy
	case "businessLabor":
		return p.BusinessLabor
	case "healthCare":
		return p.HealthCare
	case "education":
		return p.Education
	case "environment":
		return p.Environment
	case "civilRights":
		return p.CivilRights
	case "votingRights":
		return p.VotingRights
	case "immigrationForeignAffairs":
		return p.ImmigrationForeignAffairs
	case "publicSafety":
		return p.PublicSafety
	}
	return nil
}

func toRecord(p Politician) positionparser.Record {
	record := positionparser.Record{
		ID:     p.ID,
		Name:   p.Name,
		Issues: map[string]string{},
	}
	for _, field := range IssueFields {
		value := issueValue(p, field)
		if value != nil {
			record.Issues[field] = *value
		}
	}
	return record
}

func (s RecordStore) Fetch(ctx context.Context, id string) (positionparser.Record, error) {
	politician, err := s.service.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return positionparser.Record{}, positionparser.ErrRecordNotFound
	}
	if err != nil {
		return positionparser.Record{}, err
	}
	return toRecord(politician), nil
}

func (s RecordStore) ApplyPartialUpdate(ctx context.Context, id string, fields map[string]string) (positionparser.Record, error) {
	payload := map[string]json.RawMessage{}
	for field, serialized := range fields {
		payload[field] = json.RawMessage(serialized)
	}

	politician, err := s.service.Update(ctx, id, payload)
	if errors.Is(err, ErrNotFound) {
		return positionparser.Record{}, positionparser.ErrRecordNotFound
	}
	if err != nil {
		return positionparser.Record{}, err
	}
	return toRecord(politician), nil
}
