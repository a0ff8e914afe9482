/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"testing"
	"time"

	"cropregion/internal/crop"
	"cropregion/internal/vector"
)

func TestCropRecordRoundTrip(t *testing.T) {
	r := crop.RectRegion(vector.Pt{X: 10, Y: 10}, vector.Pt{X: 110, Y: 60})
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	rec := NewCropRecord(r, vector.Size{W: 200, H: 100}, "ui", at)

	if err := rec.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if rec.Bounds != (Rect{X: 10, Y: 10, Width: 100, Height: 50}) {
		t.Fatalf("bounds = %+v", rec.Bounds)
	}
	if rec.CreatedAt.Location() != time.UTC {
		t.Fatalf("timestamp not normalized to UTC")
	}

	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got CropRecord
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	back, err := got.Region()
	if err != nil {
		t.Fatalf("region: %v", err)
	}
	if !back.Equal(r) {
		t.Fatalf("region mismatch: got %s want %s", back, r)
	}
	if got.Extent() != (vector.Size{W: 200, H: 100}) {
		t.Fatalf("extent = %+v", got.Extent())
	}
}

func TestCropRecordValidate(t *testing.T) {
	if err := (CropRecord{}).Validate(); err == nil {
		t.Fatalf("empty record should not validate")
	}
	rec := NewCropRecord(crop.Region{}, vector.Size{}, "", time.Now())
	if len(rec.Points) != 0 || rec.Bounds != (Rect{}) {
		t.Fatalf("empty region should give empty record: %+v", rec)
	}
}
