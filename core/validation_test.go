package core

import (
	"errors"
	"testing"
	"time"
)

func validDocument() *Document {
	return &Document{
		Id:         DocumentID("https://discourse.example.com/t/ga4/123", 0, "GA4 deadline moved"),
		Source:     SourceTypeForum,
		Title:      "GA4 deadline",
		URL:        "https://discourse.example.com/t/ga4/123",
		Author:     "course_ta",
		Category:   CategoryAssignment,
		Text:       "GA4 deadline moved to Friday",
		Chunk:      0,
		ChunkCount: 1,
		Timestamp:  time.Now().Add(-time.Hour),
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr error
	}{
		{
			name:    "valid document",
			mutate:  func(*Document) {},
			wantErr: nil,
		},
		{
			name:    "valid without vector",
			mutate:  func(d *Document) { d.Vector = nil },
			wantErr: nil,
		},
		{
			name:    "unknown category is valid",
			mutate:  func(d *Document) { d.Category = CategoryUnknown },
			wantErr: nil,
		},
		{
			name:    "empty text",
			mutate:  func(d *Document) { d.Text = "" },
			wantErr: ErrEmptyText,
		},
		{
			name:    "empty URL",
			mutate:  func(d *Document) { d.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "invalid source type",
			mutate:  func(d *Document) { d.Source = SourceType(99) },
			wantErr: ErrInvalidSourceType,
		},
		{
			name:    "invalid category",
			mutate:  func(d *Document) { d.Category = Category(99) },
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "future timestamp",
			mutate:  func(d *Document) { d.Timestamp = time.Now().Add(time.Hour) },
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "negative chunk",
			mutate:  func(d *Document) { d.Chunk = -1 },
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "chunk beyond count",
			mutate:  func(d *Document) { d.Chunk = 3; d.ChunkCount = 3 },
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "zero chunk count",
			mutate:  func(d *Document) { d.ChunkCount = 0 },
			wantErr: ErrInvalidChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)

			err := ValidateDocument(doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("ValidateDocument() error = %v, want wrapped %v", err, ErrInvalidDocument)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want wrapped %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocument_Nil(t *testing.T) {
	if err := ValidateDocument(nil); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("ValidateDocument(nil) error = %v, want %v", err, ErrInvalidDocument)
	}
}
