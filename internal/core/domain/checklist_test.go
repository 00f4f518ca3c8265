package domain

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestPhotoPaths_Decoding(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want PhotoPaths
	}{
		{"array", `{"photo_paths":["a.jpg","b.jpg"]}`, PhotoPaths{"a.jpg", "b.jpg"}},
		{"encoded string", `{"photo_paths":"[\"a.jpg\"]"}`, PhotoPaths{"a.jpg"}},
		{"empty string", `{"photo_paths":""}`, nil},
		{"null", `{"photo_paths":null}`, nil},
		{"absent", `{}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var tr TaskResponse
			if err := json.Unmarshal([]byte(tc.raw), &tr); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if !reflect.DeepEqual(tr.PhotoPaths, tc.want) {
				t.Fatalf("got %#v, want %#v", tr.PhotoPaths, tc.want)
			}
		})
	}
}

func TestChecklist_RequiredIncomplete(t *testing.T) {
	c := &Checklist{TaskResponses: []TaskResponse{
		{ID: 1, Completed: true, TaskTemplate: &TaskTemplate{Required: true}},
		{ID: 2, Completed: false, TaskTemplate: &TaskTemplate{Required: true}},
		{ID: 3, Completed: false, TaskTemplate: &TaskTemplate{Required: false}},
		{ID: 4, Completed: false},
	}}
	missing := c.RequiredIncomplete()
	if len(missing) != 1 || missing[0].ID != 2 {
		t.Fatalf("unexpected required-incomplete set %+v", missing)
	}
}

func TestChecklist_Progress(t *testing.T) {
	if p := (&Checklist{}).Progress(); p.Percent != 0 || p.Total != 0 {
		t.Fatalf("empty checklist: %+v", p)
	}
	c := &Checklist{TaskResponses: []TaskResponse{{Completed: true}, {}, {}, {Completed: true}}}
	if p := c.Progress(); p.Completed != 2 || p.Total != 4 || p.Percent != 50 {
		t.Fatalf("unexpected progress %+v", p)
	}
}

func TestRole_Unmarshal(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"id":1,"role":"operatore"}`), &u); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if u.Role != RoleOperator || u.IsManager() {
		t.Fatalf("expected operator, got %q", u.Role)
	}
	if err := json.Unmarshal([]byte(`{"id":2,"role":"manager"}`), &u); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if !u.IsManager() {
		t.Fatalf("expected manager")
	}
}

func TestTimestamp_Decoding(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{`"2024-01-01T00:00:00"`, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{`"2024-01-01T08:15:00.5"`, time.Date(2024, 1, 1, 8, 15, 0, 500000000, time.UTC)},
		{`"2024-01-01T10:00:00+02:00"`, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{`"2024-01-01T08:00:00Z"`, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{`"2024-01-01"`, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tc.raw), &ts); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", tc.raw, err)
		}
		if !ts.Equal(tc.want) {
			t.Fatalf("Unmarshal(%s) = %v, want %v", tc.raw, ts.Time, tc.want)
		}
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestChecklist_TimestampRoundTrip(t *testing.T) {
	var c Checklist
	if err := json.Unmarshal([]byte(`{"id":1,"date":"2024-03-05T00:00:00","completed_at":null}`), &c); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if c.CompletedAt != nil {
		t.Fatalf("null completed_at must stay nil")
	}
	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var back Checklist
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("re-decoding %s: %v", raw, err)
	}
	if !back.Date.Equal(c.Date.Time) {
		t.Fatalf("date changed across a round trip: %v vs %v", back.Date, c.Date)
	}
}
