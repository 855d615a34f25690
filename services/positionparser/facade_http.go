package positionparser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gzambran/poligrade/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// HTTPFacade speaks the admin REST surface of a running poligrade
// server. Used by the CLI; the server itself commits through the
// store-backed facade instead.
type HTTPFacade struct {
	http *resty.Client
}

type HTTPFacadeOptions struct {
	BaseUrl string
	// admin access token, sent as a bearer token when present
	AccessToken string
}

func NewHTTPFacade(opts HTTPFacadeOptions) *HTTPFacade {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseUrl, "/"))
	client.SetTimeout(time.Second * 30)
	if opts.AccessToken != "" {
		client.SetHeader("Authorization", "Bearer "+opts.AccessToken)
	}
	telemetry.InstrumentResty(client, "positionparser/facade")

	return &HTTPFacade{http: client}
}

func recordFromJSON(body []byte) (Record, error) {
	var doc map[string]json.RawMessage
	err := json.Unmarshal(body, &doc)
	if err != nil {
		return Record{}, err
	}

	record := Record{Issues: map[string]string{}}
	if raw, ok := doc["id"]; ok {
		json.Unmarshal(raw, &record.ID)
	}
	if raw, ok := doc["name"]; ok {
		json.Unmarshal(raw, &record.Name)
	}
	for _, category := range Categories {
		field := category.Field()
		raw, ok := doc[field]
		if !ok {
			continue
		}
		var value *string
		err := json.Unmarshal(raw, &value)
		if err != nil || value == nil {
			continue
		}
		record.Issues[field] = *value
	}
	return record, nil
}

func (f *HTTPFacade) Fetch(ctx context.Context, id string) (Record, error) {
	res, err := f.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/api/admin/politicians/%s", id))
	if err != nil {
		return Record{}, err
	}
	if res.StatusCode() == http.StatusNotFound {
		return Record{}, ErrRecordNotFound
	}
	if res.IsError() {
		return Record{}, fmt.Errorf("fetch failed: %s", res.Status())
	}
	return recordFromJSON(res.Body())
}

func (f *HTTPFacade) ApplyPartialUpdate(ctx context.Context, id string, fields map[string]string) (Record, error) {
	// issue fields are serialized JSON arrays already; forward them
	// as-is so the payload contains only the touched fields
	payload := map[string]json.RawMessage{}
	for field, serialized := range fields {
		payload[field] = json.RawMessage(serialized)
	}

	res, err := f.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Put(fmt.Sprintf("/api/admin/politicians/%s", id))
	if err != nil {
		return Record{}, err
	}
	if res.StatusCode() == http.StatusNotFound {
		return Record{}, ErrRecordNotFound
	}
	if res.IsError() {
		return Record{}, fmt.Errorf("update failed: %s", res.Status())
	}
	return recordFromJSON(res.Body())
}

// ListCandidates fetches the records the operator can commit to,
// optionally filtered by name.
func (f *HTTPFacade) ListCandidates(ctx context.Context, name string) ([]Candidate, error) {
	res, err := f.http.R().
		SetContext(ctx).
		SetQueryParam("name", name).
		Get("/api/admin/politicians")
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("list failed: %s", res.Status())
	}

	var docs []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err = json.Unmarshal(res.Body(), &docs)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, len(docs))
	for i, doc := range docs {
		out[i] = Candidate{ID: doc.ID, Name: doc.Name}
	}
	return out, nil
}
