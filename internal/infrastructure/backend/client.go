// Package backend talks to the remote Forto REST backend.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/forto/backoffice/internal/domain/repository"
	infraRepo "github.com/forto/backoffice/internal/infrastructure/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// ActorHeader carries the employee on whose behalf the gateway calls the backend
	ActorHeader = "X-Employee-ID"
	// BranchHeader carries the branch the call operates on
	BranchHeader = "X-Branch-ID"
)

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Client implements repository.Backend over HTTP
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

var _ repository.Backend = (*Client)(nil)

// upstreamError is the error body returned by the backend
type upstreamError struct {
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors"`
}

// NewClient creates a backend client. With a ClientID set every call carries
// a client-credentials bearer token.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	var rc *resty.Client
	if cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		rc = resty.NewWithClient(cc.Client(context.Background()))
	} else {
		rc = resty.New()
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	rc.SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if actor, ok := infraRepo.GetActor(req.Context()); ok {
				req.SetHeader(ActorHeader, strconv.FormatInt(actor, 10))
			}
			if branch, ok := infraRepo.GetBranchID(req.Context()); ok {
				req.SetHeader(BranchHeader, strconv.FormatInt(branch, 10))
			}
			return nil
		})

	return &Client{http: rc, log: log}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&upstreamError{})
}

// send executes the request and maps transport failures and non-2xx statuses onto AppError
func (c *Client) send(req *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, c.transportError(method, path, err)
	}
	if resp.IsError() {
		return resp, c.statusError(resp, method, path)
	}
	return resp, nil
}

func (c *Client) transportError(method, path string, err error) error {
	c.log.Warn("backend request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Error(err),
	)
	return apperror.NewBackendError(err)
}

func (c *Client) statusError(resp *resty.Response, method, path string) error {
	body, _ := resp.Error().(*upstreamError)
	message := ""
	var fields []apperror.FieldError
	if body != nil {
		message = body.Message
		fields = body.Errors
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		if message == "" {
			return apperror.ErrNotFound
		}
		return apperror.NewAppError(http.StatusNotFound, message)
	case http.StatusConflict:
		if message == "" {
			message = "Conflicting change"
		}
		return apperror.NewConflictError(message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if len(fields) > 0 {
			appErr := apperror.NewValidationError(fields)
			if message != "" {
				appErr.Message = message
			}
			return appErr
		}
		if message == "" {
			message = apperror.ErrUnprocessable.Message
		}
		return apperror.NewAppError(http.StatusUnprocessableEntity, message)
	case http.StatusUnauthorized:
		return apperror.ErrUnauthorized
	case http.StatusForbidden:
		return apperror.ErrForbidden
	}

	c.log.Error("backend returned an unexpected status",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.String("message", message),
	)
	return apperror.NewBackendError(fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode()))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
