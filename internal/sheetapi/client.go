package sheetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/utils"
)

// DefaultTimeout bounds a single remote request.
const DefaultTimeout = 15 * time.Second

// Client runs the remote endpoint operations.
type Client interface {
	GetBlogPosts(ctx context.Context) ([]domain.Post, error)
	GetComments(ctx context.Context) ([]domain.Comment, error)
	AddComment(ctx context.Context, name, message string) error
	AddRecommendation(ctx context.Context, rec domain.Recommendation) error
	Probe(ctx context.Context, op domain.Operation) ProbeReport
}

// Options configures NewClient.
type Options struct {
	URL        string        // remote endpoint, ex: https://script.google.com/macros/s/.../exec
	Timeout    time.Duration // per request, 0 => DefaultTimeout
	HTTPClient *http.Client  // optional, overrides Timeout
	Logger     logger.Logger
}

type httpClient struct {
	client   *http.Client
	endpoint *url.URL
	log      logger.Logger
}

// NewClient creates a remote endpoint client.
func NewClient(opts Options) (Client, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("remote endpoint URL is required")
	}
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing remote endpoint URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote endpoint URL must be http(s), got %q", opts.URL)
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &httpClient{
		client:   client,
		endpoint: u,
		log:      opts.Logger,
	}, nil
}

// GetBlogPosts fetches the published posts.
func (c *httpClient) GetBlogPosts(ctx context.Context) ([]domain.Post, error) {
	p, err := call[PostsPayload](ctx, c, domain.OpGetBlogPosts, nil)
	if err != nil {
		return nil, err
	}
	return p.posts(), nil
}

// GetComments fetches the visitor comments.
func (c *httpClient) GetComments(ctx context.Context) ([]domain.Comment, error) {
	p, err := call[CommentsPayload](ctx, c, domain.OpGetComments, nil)
	if err != nil {
		return nil, err
	}
	return p.comments(), nil
}

// AddComment submits a visitor comment.
func (c *httpClient) AddComment(ctx context.Context, name, message string) error {
	_, err := call[WritePayload](ctx, c, domain.OpAddComment, &writeRequest{
		Action:  domain.OpAddComment,
		Name:    name,
		Message: message,
	})
	return err
}

// AddRecommendation submits a visitor recommendation.
func (c *httpClient) AddRecommendation(ctx context.Context, rec domain.Recommendation) error {
	_, err := call[WritePayload](ctx, c, domain.OpAddRecommendation, &writeRequest{
		Action:  domain.OpAddRecommendation,
		Name:    rec.Name,
		Message: rec.Message,
	})
	return err
}

// call runs op and decodes its envelope into T.
func call[T payload](ctx context.Context, c *httpClient, op domain.Operation, body *writeRequest) (T, error) {
	var zero T
	start := time.Now()

	raw, status, err := c.roundTrip(ctx, op, body)
	if err == nil {
		var decoded T
		decoded, err = decode[T](op, raw, status)
		if err == nil {
			metrics.ObserveRemote(string(op), string(KindNone), time.Since(start))
			c.log.Debug("remote operation succeeded",
				logger.String("operation", string(op)),
				logger.Int("status", status),
				logger.Duration("duration", time.Since(start)))
			return decoded, nil
		}
	}

	metrics.ObserveRemote(string(op), string(Classify(err)), time.Since(start))
	return zero, err
}

// decode parses a response body into the operation's tagged union.
func decode[T payload](op domain.Operation, raw []byte, status int) (T, error) {
	var zero T
	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, &MalformedResponseError{Op: op, Status: status, Raw: string(raw), Err: err}
	}
	if env.Failed {
		return zero, &ApplicationError{Op: op, Message: env.Error, Raw: string(raw)}
	}
	if err := env.Payload.validate(); err != nil {
		return zero, &MalformedResponseError{Op: op, Status: status, Raw: string(raw), Err: err}
	}
	return env.Payload, nil
}

// roundTrip sends the request and returns the full body.
// Reads are GET ?action=op, writes are a JSON POST.
func (c *httpClient) roundTrip(ctx context.Context, op domain.Operation, body *writeRequest) ([]byte, int, error) {
	req, err := c.newRequest(ctx, op, body)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	defer utils.Close(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Op: op, Err: fmt.Errorf("reading response body: %w", err)}
	}
	return raw, resp.StatusCode, nil
}

func (c *httpClient) newRequest(ctx context.Context, op domain.Operation, body *writeRequest) (*http.Request, error) {
	if !op.IsWrite() {
		u := *c.endpoint
		q := u.Query()
		q.Set("action", string(op))
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("creating %s request: %w", op, err)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	if body == nil {
		return nil, fmt.Errorf("creating %s request: missing body", op)
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}
