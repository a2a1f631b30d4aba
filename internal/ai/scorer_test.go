package ai

import "testing"

func TestValidateScores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		scores  []JobScore
		wantErr bool
	}{
		{
			name: "valid scores",
			scores: []JobScore{
				{JobPostingID: "1", Score: 0, Comment: "poor match"},
				{JobPostingID: "2", Score: 100, Comment: "perfect match"},
			},
		},
		{
			name:    "empty id",
			scores:  []JobScore{{JobPostingID: "  ", Score: 50}},
			wantErr: true,
		},
		{
			name:    "score above range",
			scores:  []JobScore{{JobPostingID: "1", Score: 101}},
			wantErr: true,
		},
		{
			name:    "score below range",
			scores:  []JobScore{{JobPostingID: "1", Score: -1}},
			wantErr: true,
		},
		{
			name:   "empty slice",
			scores: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateScores(tt.scores)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
