package core

import (
	"errors"
	"testing"
)

func TestValidatePhraseRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *PhraseRecord
		wantErr error
	}{
		{
			name: "valid record",
			record: &PhraseRecord{
				Phrase:     "disk full",
				Resolution: "clear disk",
			},
			wantErr: nil,
		},
		{
			name: "valid record with ID 0",
			record: &PhraseRecord{
				Id:         0,
				Phrase:     "network down",
				Resolution: "restart router",
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidPhraseRecord,
		},
		{
			name: "empty phrase",
			record: &PhraseRecord{
				Phrase:     "",
				Resolution: "clear disk",
			},
			wantErr: ErrEmptyPhrase,
		},
		{
			name: "whitespace phrase",
			record: &PhraseRecord{
				Phrase:     "  \t ",
				Resolution: "clear disk",
			},
			wantErr: ErrEmptyPhrase,
		},
		{
			name: "empty resolution",
			record: &PhraseRecord{
				Phrase:     "disk full",
				Resolution: "",
			},
			wantErr: ErrEmptyResolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhraseRecord(tt.record)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePhraseRecord() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidatePhraseRecord() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePhraseRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidPhraseRecord) {
				t.Errorf("ValidatePhraseRecord() error = %v, should wrap ErrInvalidPhraseRecord", err)
			}
		})
	}
}
