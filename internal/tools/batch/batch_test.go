package batch

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    []string
		wantErr bool
	}{
		{
			name:  "single day",
			input: "2030-03-05",
			want:  []string{"2030-03-05"},
		},
		{
			name:  "comma separated",
			input: "2030-03-05, 2030-03-06,,2030-03-07",
			want:  []string{"2030-03-05", "2030-03-06", "2030-03-07"},
		},
		{
			name:  "array of days",
			input: []any{"2030-03-05", " 2030-03-06 "},
			want:  []string{"2030-03-05", "2030-03-06"},
		},
		{
			name:  "duplicates dropped",
			input: []any{"2030-03-05", "2030-03-06", "2030-03-05"},
			want:  []string{"2030-03-05", "2030-03-06"},
		},
		{
			name:    "nil input",
			input:   nil,
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "  ",
			wantErr: true,
		},
		{
			name:    "only commas",
			input:   ", ,",
			wantErr: true,
		},
		{
			name:    "empty array",
			input:   []any{},
			wantErr: true,
		},
		{
			name:    "array with non-string",
			input:   []any{"2030-03-05", 5},
			wantErr: true,
		},
		{
			name:    "array with empty string",
			input:   []any{"2030-03-05", ""},
			wantErr: true,
		},
		{
			name:    "wrong type",
			input:   42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDays(tt.input, "days")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDays() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDays() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	days := []string{"2030-03-05", "bad", "2030-03-06"}

	results := Process(days, func(day string) (string, error) {
		if day == "bad" {
			return "", errors.New("invalid day")
		}
		return "text for " + day, nil
	})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Status != StatusSuccess || results[0].Text != "text for 2030-03-05" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Status != StatusError || results[1].Error != "invalid day" || results[1].Text != "" {
		t.Errorf("unexpected second result: %+v", results[1])
	}
	if results[2].Day != "2030-03-06" || results[2].Status != StatusSuccess {
		t.Errorf("unexpected third result: %+v", results[2])
	}
}

func TestFormat(t *testing.T) {
	results := []Result{
		{Day: "2030-03-05", Status: StatusSuccess, Text: "Day Tuesday"},
		{Day: "bad", Status: StatusError, Error: "invalid day"},
	}

	out, err := Format(results)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var br BatchResult
	if err := json.Unmarshal([]byte(out), &br); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if br.Total != 2 || br.Successful != 1 || br.Failed != 1 {
		t.Errorf("unexpected counts: %+v", br)
	}
	if !reflect.DeepEqual(br.Results, results) {
		t.Errorf("results = %+v, want %+v", br.Results, results)
	}
}
