package answer

import (
	"testing"

	"github.com/abhisek/iroquiz/internal/dataset"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		entry     dataset.ColorEntry
		subName   string
		subSystem string
		want      Result
	}{
		{
			name:      "both exact",
			entry:     dataset.ColorEntry{Name: "赤", SystemColorName: "赤"},
			subName:   "赤",
			subSystem: "赤",
			want:      Result{NameCorrect: true, SystemCorrect: true, AllCorrect: true},
		},
		{
			name:      "name substring, wrong system",
			entry:     dataset.ColorEntry{Name: "赤系", SystemColorName: "赤"},
			subName:   "赤",
			subSystem: "青",
			want:      Result{NameCorrect: true},
		},
		{
			name:      "wrong name, right system",
			entry:     dataset.ColorEntry{Name: "赤", SystemColorName: "赤"},
			subName:   "青",
			subSystem: "赤",
			want:      Result{SystemCorrect: true},
		},
		{
			name:      "inputs trimmed",
			entry:     dataset.ColorEntry{Name: "藍色", SystemColorName: "暗い青"},
			subName:   "  藍 ",
			subSystem: "\t暗い青\n",
			want:      Result{NameCorrect: true, SystemCorrect: true, AllCorrect: true},
		},
		{
			name:      "system is not a substring match",
			entry:     dataset.ColorEntry{Name: "藍色", SystemColorName: "暗い青"},
			subName:   "藍色",
			subSystem: "青",
			want:      Result{NameCorrect: true},
		},
		{
			name:      "case sensitive",
			entry:     dataset.ColorEntry{Name: "Navy Blue", SystemColorName: "dark blue"},
			subName:   "navy",
			subSystem: "Dark Blue",
			want:      Result{},
		},
		{
			name:      "blank name never matches",
			entry:     dataset.ColorEntry{Name: "赤", SystemColorName: ""},
			subName:   "   ",
			subSystem: "",
			want:      Result{SystemCorrect: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.entry, tt.subName, tt.subSystem)
			if got != tt.want {
				t.Errorf("Evaluate(%q, %q) = %+v, want %+v", tt.subName, tt.subSystem, got, tt.want)
			}
		})
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		r    Result
		want Verdict
	}{
		{Result{NameCorrect: true, SystemCorrect: true, AllCorrect: true}, VerdictCorrect},
		{Result{NameCorrect: true}, VerdictNameOnly},
		{Result{SystemCorrect: true}, VerdictSystemOnly},
		{Result{}, VerdictWrong},
	}
	for _, tt := range tests {
		if got := tt.r.Verdict(); got != tt.want {
			t.Errorf("%+v.Verdict() = %v, want %v", tt.r, got, tt.want)
		}
		if tt.want.Title() == "" || tt.want.Mark() == "" {
			t.Errorf("verdict %v has empty title or mark", tt.want)
		}
	}
}
