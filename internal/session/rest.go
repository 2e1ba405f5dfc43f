// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"compliance-tools/internal/failure"
	"compliance-tools/internal/observability"
	"compliance-tools/internal/remote"
	"compliance-tools/internal/version"
)

// maxPages bounds how many @odata.nextLink pages one call follows.
const maxPages = 100

// restSession posts cmdlets to the InvokeCommand endpoint.
type restSession struct {
	client   *http.Client
	endpoint string
	opts     Options
	observer *observability.StandardObserver
	closed   bool
}

func newRESTSession(opts Options) *restSession {
	return &restSession{
		client:   &http.Client{},
		endpoint: strings.TrimRight(opts.Endpoint, "/") + "/InvokeCommand",
		opts:     opts,
		observer: observability.NewStandardObserver(opts.Logger),
	}
}

func (s *restSession) Invoke(ctx context.Context, cmdlet string, params *remote.Object) ([]*remote.Object, error) {
	if s.closed {
		return nil, failure.Remote(cmdlet, errors.New("session is closed"))
	}
	ctx, cancel := withTimeout(ctx, s.opts.Timeout)
	defer cancel()

	if params == nil {
		params = remote.NewObject()
	}
	input := remote.NewObject().
		Set("CmdletName", remote.String(cmdlet)).
		Set("Parameters", remote.ObjectValue(params))
	body, err := remote.NewObject().Set("CmdletInput", remote.ObjectValue(input)).MarshalJSON()
	if err != nil {
		return nil, failure.Remote(cmdlet, fmt.Errorf("encode request: %w", err))
	}

	var results []*remote.Object
	url := s.endpoint
	for page := 0; url != "" && page < maxPages; page++ {
		resp, err := s.post(ctx, cmdlet, url, body)
		if err != nil {
			return nil, failure.Remote(cmdlet, err)
		}
		items, next, err := pageResults(resp)
		if err != nil {
			return nil, failure.Remote(cmdlet, err)
		}
		results = append(results, items...)
		if next != "" {
			s.observer.LogDetail("session.rest", fmt.Sprintf("%s: following next page after %d results", cmdlet, len(results)))
		}
		url = next
	}
	if url != "" {
		s.opts.Logger.Warn("result paging stopped", zap.String("cmdlet", cmdlet), zap.Int("pages", maxPages))
	}
	return results, nil
}

func (s *restSession) post(ctx context.Context, cmdlet, url string, body []byte) (*remote.Object, error) {
	reqID := uuid.New().String()
	done := s.observer.StartTiming("session.rest", cmdlet, reqID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		done(false, nil)
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.opts.Token)
	req.Header.Set("X-AnchorMailbox", "UPN:"+s.opts.UserPrincipalName)
	req.Header.Set("client-request-id", reqID)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		done(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			s.opts.Logger.Warn("response body close failed", zap.String("request_id", reqID), zap.Error(err))
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		done(false, map[string]interface{}{"status": resp.StatusCode})
		return nil, fmt.Errorf("read response: %w", err)
	}
	s.opts.Logger.Debug("response received",
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
	)

	if resp.StatusCode/100 != 2 {
		done(false, map[string]interface{}{"status": resp.StatusCode})
		return nil, httpError(resp, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		done(true, map[string]interface{}{"status": resp.StatusCode})
		return remote.NewObject(), nil
	}
	obj, err := remote.DecodeObject(raw)
	if err != nil {
		done(false, map[string]interface{}{"status": resp.StatusCode})
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if msg, ok := serviceError(obj); ok {
		done(false, map[string]interface{}{"status": resp.StatusCode})
		return nil, errors.New(msg)
	}
	done(true, map[string]interface{}{"status": resp.StatusCode})
	return obj, nil
}

func (s *restSession) Close() error {
	s.closed = true
	s.client.CloseIdleConnections()
	return nil
}

// pageResults unwraps an OData collection. A response without a value
// array is itself the single result.
func pageResults(resp *remote.Object) ([]*remote.Object, string, error) {
	next, _ := resp.Get("@odata.nextLink").AsString()

	value, ok := resp.Lookup("value")
	if !ok {
		return []*remote.Object{resp}, "", nil
	}
	if value.IsNull() {
		return nil, next, nil
	}
	list, ok := value.AsList()
	if !ok {
		list = []remote.Value{value}
	}

	items := make([]*remote.Object, 0, len(list))
	for _, v := range list {
		if obj, ok := v.AsObject(); ok {
			items = append(items, obj)
			continue
		}
		// scalar output, kept so nothing the service returned is lost
		items = append(items, remote.NewObject().Set("Value", v))
	}
	return items, next, nil
}

// serviceError extracts {"error":{"code":...,"message":...}}.
func serviceError(obj *remote.Object) (string, bool) {
	v, ok := obj.Lookup("error")
	if !ok || v.IsEmpty() {
		return "", false
	}
	if msg, ok := v.AsString(); ok {
		return msg, true
	}
	e, ok := v.AsObject()
	if !ok {
		return v.Text(), true
	}
	msg, _ := e.Get("message").AsString()
	code, _ := e.Get("code").AsString()
	return describeError(msg, code), true
}

func describeError(msg, code string) string {
	switch {
	case msg != "" && code != "":
		return fmt.Sprintf("%s (%s)", msg, code)
	case msg != "":
		return msg
	case code != "":
		return code
	}
	return "the service reported an error without a message"
}

func httpError(resp *http.Response, raw []byte) error {
	if obj, err := remote.DecodeObject(raw); err == nil {
		if msg, ok := serviceError(obj); ok {
			return fmt.Errorf("%s: %s", resp.Status, msg)
		}
	}
	return errors.New(resp.Status)
}
