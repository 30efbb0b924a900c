// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/cardealer/pkg/core/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDAttr(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := log.WithRequestID(context.Background(), "req-1")
	id, ok := log.RequestID(ctx)
	require.True(t, ok)
	assert.Equal(t, "req-1", id)

	log.Info(
		ctx, "car is sold",
		log.Decimal("price", decimal.RequireFromString("18000.50")),
		log.Err("err", nil),
	)
	log.Debug(ctx, "ignored by the default level")
	log.Warn(context.Background(), "no id", log.Err("err", errors.New("boom")))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2, "debug records must be filtered")
	rec := map[string]any{}
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "car is sold", rec["msg"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "18000.5", rec["price"])
	assert.Equal(t, "no-error", rec["err"])

	rec = map[string]any{}
	require.NoError(t, json.Unmarshal(lines[1], &rec))
	assert.Equal(t, "no id", rec["msg"])
	assert.NotContains(t, rec, "request_id")
	assert.Equal(t, "boom", rec["err"])
}
