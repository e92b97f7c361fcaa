// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package validation

import (
	"strings"
	"sync"
	"testing"
)

type recommendRequest struct {
	Title string `json:"title" validate:"required,max=512,title"`
	K     int    `json:"k" validate:"min=0,max=100"`
}

type seedRequest struct {
	Title string `json:"title" validate:"max=512,nocontrol"`
}

type pageRequest struct {
	Limit  int    `json:"limit" validate:"min=1,max=1000"`
	Offset int    `json:"offset" validate:"min=0"`
	Mode   string `json:"mode,omitempty" validate:"omitempty,oneof=content collaborative"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"valid request", &recommendRequest{Title: "Heat (1995)", K: 5}, "", "", ""},
		{"k zero allowed", &recommendRequest{Title: "Heat (1995)", K: 0}, "", "", ""},
		{"missing title", &recommendRequest{K: 5}, "title", "required", "title is required"},
		{"blank title", &recommendRequest{Title: "   ", K: 5}, "title", "title", "title must be a non-blank title without control characters"},
		{"control character", &recommendRequest{Title: "Heat\x00", K: 5}, "title", "title", ""},
		{"title too long", &recommendRequest{Title: strings.Repeat("a", 513), K: 5}, "title", "max", "title must be at most 512 characters"},
		{"seed title blank allowed", &seedRequest{Title: "   "}, "", "", ""},
		{"seed title missing allowed", &seedRequest{}, "", "", ""},
		{"seed title control character", &seedRequest{Title: "Heat\n"}, "title", "nocontrol", "title must not contain control characters"},
		{"k too large", &recommendRequest{Title: "Heat", K: 101}, "k", "max", "k must be at most 100"},
		{"k negative", &recommendRequest{Title: "Heat", K: -1}, "k", "min", "k must be at least 0"},
		{"bad mode", &pageRequest{Limit: 10, Mode: "hybrid"}, "mode", "oneof", "mode must be one of: content collaborative"},
		{"zero limit", &pageRequest{Limit: 0}, "limit", "min", "limit must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field != tt.wantField || errs[0].Tag != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field, errs[0].Tag, tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && errs[0].Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&recommendRequest{K: 5}).ToAPIError()
	if single.Code != ErrorCode || single.Details["field"] != "title" {
		t.Errorf("single = %+v", single)
	}

	multi := ValidateStruct(&recommendRequest{K: 500}).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("multi details = %+v", multi.Details)
	}
	if !strings.Contains(multi.Message, "title is required") || !strings.Contains(multi.Message, "k must be at most 100") {
		t.Errorf("multi message = %q", multi.Message)
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty message = %q", empty.Message)
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	var wg sync.WaitGroup
	seen := make(chan interface{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- GetValidator()
		}()
	}
	wg.Wait()
	close(seen)

	first := GetValidator()
	for v := range seen {
		if v != first {
			t.Fatal("GetValidator returned different instances")
		}
	}
}
