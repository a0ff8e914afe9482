/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in, anonymous usage events (crop activations,
// replays, exports) and crash reports to HTTP endpoints. Nothing is sent
// unless the user opts in and an endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "cropregion/internal/log"
	"cropregion/internal/vector"
	"cropregion/internal/version"
)

// Environment variables read by FromEnv.
const (
	EnvOptIn     = "CRG_TELEMETRY_OPT_IN"
	EnvEventsURL = "CRG_TELEMETRY_URL"
	EnvCrashURL  = "CRG_CRASH_UPLOAD_URL"
	EnvTimeoutMS = "CRG_TELEMETRY_TIMEOUT_MS"
	EnvDebug     = "CRG_TELEMETRY_DEBUG"
)

type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
	Debug     bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:     parseBool(os.Getenv(EnvOptIn)),
		EventsURL: strings.TrimSpace(os.Getenv(EnvEventsURL)),
		CrashURL:  strings.TrimSpace(os.Getenv(EnvCrashURL)),
		Timeout:   1500 * time.Millisecond,
		Debug:     os.Getenv(EnvDebug) != "",
	}
	if ms := strings.TrimSpace(os.Getenv(EnvTimeoutMS)); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil && v > 0 {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Usage is one anonymous event. Props must not carry user data.
type Usage struct {
	Name  string
	Props map[string]any
}

// CropActivated reports the rounded size of a finalized crop.
func CropActivated(bounds vector.Rect) Usage {
	return Usage{Name: "crop_activated", Props: map[string]any{
		"w": math.Round(float64(bounds.W)),
		"h": math.Round(float64(bounds.H)),
	}}
}

// Replayed reports a script replay and its length.
func Replayed(events int) Usage {
	return Usage{Name: "replay", Props: map[string]any{"events": events}}
}

// Exported reports a frame export by format (file extension).
func Exported(format string) Usage {
	return Usage{Name: "export", Props: map[string]any{"format": strings.TrimPrefix(format, ".")}}
}

// Client queues events and posts them from a background goroutine. A full
// queue drops events rather than blocking the caller.
type Client struct {
	cfg     Config
	log     *slog.Logger
	http    *http.Client
	q       chan map[string]any
	pending sync.WaitGroup
	stop    chan struct{}
	once    sync.Once
}

func New(cfg Config) *Client {
	c := &Client{
		cfg:  cfg,
		log:  applog.WithComponent("telemetry"),
		http: &http.Client{Timeout: cfg.Timeout},
		q:    make(chan map[string]any, 64),
		stop: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events will be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Track queues u if telemetry is enabled.
func (c *Client) Track(u Usage) {
	if !c.Enabled() || u.Name == "" {
		return
	}
	payload := map[string]any{
		"name":    u.Name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.Version,
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range u.Props {
		payload[k] = v
	}
	c.pending.Add(1)
	select {
	case c.q <- payload:
	default:
		c.pending.Done()
	}
}

// Flush waits until queued events are sent or ctx is done.
func (c *Client) Flush(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Close stops the sender. Queued events that were not flushed are dropped.
func (c *Client) Close() { c.once.Do(func() { close(c.stop) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.stop:
			return
		case item := <-c.q:
			c.send(item)
			c.pending.Done()
		}
	}
}

func (c *Client) send(item map[string]any) {
	buf, err := json.Marshal(item)
	if err != nil {
		return
	}
	if err := c.post(c.cfg.EventsURL, "application/json", buf); err != nil && c.cfg.Debug {
		c.log.Debug("telemetry send failed", slog.Any("err", err))
	}
}

// UploadCrash posts a crash report if the user opted in. It blocks for at most
// the configured timeout since the process is about to exit.
func (c *Client) UploadCrash(report []byte) error {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return nil
	}
	if err := c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", report); err != nil {
		return fmt.Errorf("upload crash report: %w", err)
	}
	return nil
}

func (c *Client) post(url, contentType string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %s", url, resp.Status)
	}
	return nil
}

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// Default returns the process-wide client configured from the environment.
func Default() *Client {
	defaultOnce.Do(func() { defaultClient = New(FromEnv()) })
	return defaultClient
}
