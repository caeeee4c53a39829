// Package suggest fetches search suggestions from an OpenSearch style
// endpoint and optionally caches them.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

// MaxResults caps every returned list.
const MaxResults = 10

const maxBody = 256 << 10

var ErrUnrecognizedPayload = errors.New("unrecognized suggestion payload")

// HTTP queries a suggestion endpoint. The template is an URL with one "%s"
// placeholder, e.g. https://duckduckgo.com/ac/?q=%s&type=list.
type HTTP struct {
	template string
	timeout  time.Duration
	client   *http.Client
	log      logger.Logger
}

func NewHTTP(template string, timeout time.Duration, log logger.Logger) *HTTP {
	return &HTTP{
		template: template,
		timeout:  timeout,
		client:   &http.Client{},
		log:      log,
	}
}

// Suggest fetches and decodes the suggestions for query.
func (h *HTTP) Suggest(ctx context.Context, query string) ([]string, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	target := domain.BuildSearchURL(h.template, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build suggestion request: %w", err)
	}
	req.Header.Set("Accept", "application/x-suggestions+json, application/json")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch suggestions: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read suggestions: %w", err)
	}

	out, err := Parse(body)
	if err != nil {
		return nil, err
	}

	h.log.Debug("suggestions fetched",
		logger.String("query", query),
		logger.Int("count", len(out)),
		logger.Duration("took", time.Since(start)))
	return out, nil
}

// Parse decodes the two common payload shapes:
//
//	["query", ["s1", "s2", ...], ...]   OpenSearch
//	[{"phrase": "s1"}, ...]             phrase list
//
// Blank entries are skipped and at most MaxResults are kept.
func Parse(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrUnrecognizedPayload
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, ErrUnrecognizedPayload
	}

	var items []gjson.Result
	if second := root.Get("1"); second.IsArray() {
		items = second.Array()
	} else {
		items = root.Get("#.phrase").Array()
		if len(items) == 0 && len(root.Array()) > 0 {
			return nil, ErrUnrecognizedPayload
		}
	}

	out := make([]string, 0, min(len(items), MaxResults))
	for _, it := range items {
		s := strings.TrimSpace(it.String())
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxResults {
			break
		}
	}
	return out, nil
}
