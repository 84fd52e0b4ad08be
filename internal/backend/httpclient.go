package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"context"

	"github.com/google/uuid"
)

// ErrUnauthorized is returned when the backend rejects the access token.
var ErrUnauthorized = errors.New("unauthorized")

// HTTP is the shared transport for the auth and table subsystems.
// It holds the base URL, the public API key sent with every request, and the
// underlying HTTP client with a configured timeout.
type HTTP struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// newHTTP creates the shared transport with a 10-second request timeout.
func newHTTP(baseURL, apiKey string) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// newRequest builds a request against the backend with the standard headers:
// the API key, an optional bearer token, and a per-request correlation id.
func (h *HTTP) newRequest(ctx context.Context, method, path string, query url.Values, body any, accessToken string) (*http.Request, error) {
	u := h.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", h.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		// PostgREST still expects a bearer; the anon key doubles as one
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
	return req, nil
}

// do executes the request and decodes a successful JSON response into out.
// Pass a nil out to discard the body. Non-2xx responses become errors, with
// 401 mapped to ErrUnauthorized.
func (h *HTTP) do(req *http.Request, out any) error {
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError extracts the backend's error message from a failed response.
// Both the auth subsystem ({"error_description"}) and the table subsystem
// ({"message"}) shapes are handled, with the raw body as fallback.
func apiError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		for _, m := range []string{payload.ErrorDescription, payload.Message, payload.Msg} {
			if m != "" {
				return fmt.Errorf("backend returned %d: %s", resp.StatusCode, m)
			}
		}
	}
	return fmt.Errorf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}
