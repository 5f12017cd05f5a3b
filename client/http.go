// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnexpectedMsg = errors.New("unexpected message format")
)

func (c *Client) httpGET(url string) ([]byte, error) {
	return c.httpRequest(http.MethodGet, url, nil)
}

func (c *Client) httpPOST(url string, obj any) ([]byte, error) {
	var body io.Reader
	if obj != nil {
		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("unable to marshal payload - %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.httpRequest(http.MethodPost, url, body)
}

func (c *Client) httpDELETE(url string) ([]byte, error) {
	return c.httpRequest(http.MethodDelete, url, nil)
}

func (c *Client) httpRequest(method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("unable to create request - %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to perform request - %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body - %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("http error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
