package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/models"
)

type httpDocumentStore struct {
	client *utils.HTTPClient

	baseURL    string
	collection string
	token      string

	logger *logger.Logger
}

// NewHTTPDocumentStore constructs an HTTP/REST implementation of
// [DocumentStore]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout. Every request carries token as a
// bearer credential.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPDocumentStore(adapterCfg config.ClientAdapter, token string, logger *logger.Logger) (DocumentStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	collection := strings.TrimSpace(adapterCfg.Collection)
	if collection == "" {
		collection = config.DefaultCollection
	}

	return &httpDocumentStore{
		client:     utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		baseURL:    baseURL,
		collection: collection,
		token:      strings.TrimSpace(token),
		logger:     logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchAll implements [DocumentStore]. It GETs
// /api/collections/{collection}/documents?owner={owner}.
func (h *httpDocumentStore) FetchAll(ctx context.Context, owner string) ([]models.Document, error) {
	var docs []models.Document

	resp, err := h.authedRequest(ctx).
		SetQueryParam("owner", owner).
		SetResult(&docs).
		Get(h.documentsPath())
	if err != nil {
		return nil, fmt.Errorf("fetch all request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

// FetchOne implements [DocumentStore]. A 404 answer is reported as absent,
// not as an error.
func (h *httpDocumentStore) FetchOne(ctx context.Context, id string) (models.Document, bool, error) {
	var doc models.Document

	resp, err := h.authedRequest(ctx).
		SetPathParam("id", id).
		SetResult(&doc).
		Get(h.documentsPath() + "/{id}")
	if err != nil {
		return models.Document{}, false, fmt.Errorf("fetch one request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Document{}, false, nil
		}
		return models.Document{}, false, err
	}

	return doc, true, nil
}

// Create implements [DocumentStore]. It POSTs doc and returns the identifier
// from the {"id": ...} answer.
func (h *httpDocumentStore) Create(ctx context.Context, doc models.Document) (string, error) {
	var created models.CreatedResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(doc).
		SetResult(&created).
		Post(h.documentsPath())
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: create answer has no id", ErrUnexpectedResponse)
	}

	return created.ID, nil
}

// Update implements [DocumentStore]. It PATCHes the non-nil fields of patch.
func (h *httpDocumentStore) Update(ctx context.Context, id string, patch models.DocumentPatch) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", id).
		SetBody(patch).
		Patch(h.documentsPath() + "/{id}")
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}

	return mapHTTPError(resp)
}

// Delete implements [DocumentStore].
func (h *httpDocumentStore) Delete(ctx context.Context, id string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", id).
		Delete(h.documentsPath() + "/{id}")
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpDocumentStore) documentsPath() string {
	return "/api/collections/" + url.PathEscape(h.collection) + "/documents"
}

func (h *httpDocumentStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if h.token != "" {
		req.SetAuthToken(h.token)
	}
	return req
}
