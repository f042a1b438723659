package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "disk full\x1fclear disk",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "java.lang.OutOfMemoryError: GC overhead limit exceeded while compacting the heap",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestPhraseRecord_ContentID(t *testing.T) {
	a := &PhraseRecord{Phrase: "disk full", Resolution: "clear disk"}
	b := &PhraseRecord{Phrase: "disk full", Resolution: "clear disk", Id: 99}
	c := &PhraseRecord{Phrase: "disk", Resolution: "full clear disk"}

	if a.ContentID() != b.ContentID() {
		t.Errorf("ContentID() should ignore the stored Id")
	}
	if a.ContentID() == c.ContentID() {
		t.Errorf("ContentID() should separate phrase and resolution boundaries")
	}
}
