package positionparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gzambran/poligrade/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/positionparser")

// MaxURLs is the largest batch the backend accepts per submission.
const MaxURLs = 4

var ErrNoURLs = errors.New("no usable urls submitted")
var ErrTooManyURLs = fmt.Errorf("at most %d urls per submission", MaxURLs)
var ErrNotConfigured = errors.New("parser backend base url is not configured")
var ErrEmptyStream = errors.New("backend returned an empty response body")

// BackendError carries the backend's own description of why it
// rejected the submission.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

type ClientOptions struct {
	// base url of the parser backend; required
	BaseUrl string
	// optional, sent as X-API-Key when present
	ApiKey string
}

// Client submits url batches to the external analysis backend and
// consumes the resulting event stream.
type Client struct {
	http    *resty.Client
	baseUrl string
	apiKey  string
}

func NewClient(opts ClientOptions) *Client {
	client := resty.New()
	// the stream stays open for the whole analysis; reading is bounded
	// by the caller's context instead of a client timeout
	client.SetTimeout(0)
	telemetry.InstrumentResty(client, "positionparser/http")

	return &Client{
		http:    client,
		baseUrl: strings.TrimRight(opts.BaseUrl, "/"),
		apiKey:  opts.ApiKey,
	}
}

// Session is the outcome of one submit-and-stream cycle. There is no
// separate success flag: the terminal state is described entirely by
// whether a result arrived and what warnings accumulated.
type Session struct {
	// last progress message observed; transient, last write wins
	Progress string
	// the cumulative extraction, nil when the stream never produced one
	Result *Result
	// backend error events and result warnings, in arrival order;
	// warnings never block a commit
	Warnings []string
	// operator decisions, seeded fresh whenever a result arrives
	Selection *Selection
	// malformed frames dropped by the decoder
	SkippedFrames int
}

type parseRequest struct {
	Urls []string `json:"urls"`
}

func trimURLs(urls []string) []string {
	var out []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Parse submits 1..MaxURLs urls and drains the backend's event stream
// into a Session. Validation and configuration problems fail before any
// network traffic. onProgress, when non-nil, observes progress messages
// as they stream in; it must not block for long.
//
// Terminal failures (connectivity, backend rejection, empty stream) are
// returned as errors with nothing to show; once the stream opens, error
// events are folded into Session.Warnings and never abort consumption,
// since a result may still follow.
func (c *Client) Parse(ctx context.Context, urls []string, onProgress func(message string)) (*Session, error) {
	ctx, span := tracer.Start(ctx, "Parse")
	defer span.End()

	urls = trimURLs(urls)
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	if len(urls) > MaxURLs {
		return nil, ErrTooManyURLs
	}
	if c.baseUrl == "" {
		return nil, ErrNotConfigured
	}
	span.SetAttributes(attribute.Int("url_count", len(urls)))

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(parseRequest{Urls: urls}).
		SetDoNotParseResponse(true)
	if c.apiKey != "" {
		req.SetHeader("X-API-Key", c.apiKey)
	}

	res, err := req.Post(c.baseUrl + "/api/parse")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to reach parser backend: %w", err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.IsError() {
		text, _ := io.ReadAll(io.LimitReader(body, 1<<16))
		err := &BackendError{
			StatusCode: res.StatusCode(),
			Body:       strings.TrimSpace(string(text)),
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	session, err := c.consume(ctx, body, onProgress)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return session, nil
}

type countingReader struct {
	inner io.Reader
	n     int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	r.n += int64(n)
	return n, err
}

func (c *Client) consume(ctx context.Context, body io.Reader, onProgress func(string)) (*Session, error) {
	session := &Session{Selection: NewSelection(0)}
	counting := &countingReader{inner: body}
	decoder := NewDecoder(counting)
	decoder.OnSkip = func(line string) {
		slog.DebugContext(ctx, "dropped malformed frame", "line", line)
	}

	for {
		event, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stream read failed: %w", err)
		}

		switch event.Type {
		case EventProgress:
			session.Progress = event.Message
			if onProgress != nil {
				onProgress(event.Message)
			}
		case EventResult:
			session.Result = event.Result
			session.Selection = NewSelection(len(event.Result.Positions))
			session.Warnings = append(session.Warnings, event.Result.Warnings...)
		case EventError:
			session.Warnings = append(session.Warnings, event.Message)
		}
	}
	session.SkippedFrames = decoder.Skipped()

	if counting.n == 0 {
		return nil, ErrEmptyStream
	}
	if session.SkippedFrames > 0 {
		slog.WarnContext(ctx, "stream contained malformed frames",
			"skipped", session.SkippedFrames)
	}
	return session, nil
}
