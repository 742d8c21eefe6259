// Package practicum talks to the Yandex Practicum homework statuses API.
package practicum

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/domain"
)

// DefaultEndpoint is the production homework statuses URL.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const bodyExcerptLimit = 512

var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Client performs authenticated requests against the homework API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	log      *zap.Logger
}

// New creates a client. A zero timeout leaves requests unbounded, relying on ctx only.
func New(endpoint, token string, timeout time.Duration, log *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: timeout},
		log:      log.Named("practicum"),
	}
}

// HomeworkStatuses fetches homework changes since fromDate (Unix seconds)
// and returns the decoded, unvalidated JSON body.
func (c *Client) HomeworkStatuses(ctx context.Context, fromDate int64) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("requesting homework statuses", zap.Int64("from_date", fromDate))
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("homework API unreachable", zap.Error(err))
		return nil, domain.NewError(domain.KindAPIAccess, domain.MsgAPIAccess, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, bodyExcerptLimit))
		return nil, &domain.Error{
			Kind:       domain.KindHTTPStatus,
			Msg:        "Эндпоинт вернул неожиданный ответ",
			StatusCode: resp.StatusCode,
			Body:       string(excerpt),
		}
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewError(domain.KindShape, "Ответ API не является JSON", err)
	}
	return body, nil
}
