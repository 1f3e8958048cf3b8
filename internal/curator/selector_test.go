package curator

import (
	"testing"

	"github.com/nichidict/curator/internal/domain"
)

// cand builds a candidate for the 猫/ねこ entry.
func cand(id int64, sentence string, score int) domain.Candidate {
	return domain.Candidate{
		SourceID: id,
		Sentence: sentence,
		Score:    score,
		Headword: "猫",
		Reading:  "ねこ",
	}
}

func TestSelector_Select_Empty(t *testing.T) {
	if got := (Selector{K: 3}).Select(nil); len(got) != 0 {
		t.Fatalf("Select(nil) = %v, want empty", got)
	}
}

func TestSelector_Select_SingleCandidateNeverPadded(t *testing.T) {
	in := []domain.Candidate{cand(1, "猫が好きです。", 156)}

	got := Selector{K: 3}.Select(in)
	if len(got) != 1 {
		t.Fatalf("Select returned %d picks, want exactly 1", len(got))
	}
	if got[0].SourceID != 1 {
		t.Errorf("pick = %+v, want candidate 1", got[0])
	}
}

func TestSelector_Select_CapsAtK(t *testing.T) {
	in := []domain.Candidate{
		cand(1, "猫が好きです。", 156),
		cand(2, "猫を飼っています。", 145),
		cand(3, "あの猫は大きい。", 140),
		cand(4, "猫と遊ぶ。", 135),
		cand(5, "猫が走る。", 130),
	}

	got := Selector{K: 3}.Select(in)
	if len(got) != 3 {
		t.Fatalf("Select returned %d picks, want 3", len(got))
	}

	// First pick always keeps the quality rank.
	if got[0].SourceID != 1 {
		t.Errorf("first pick = %d, want highest-scored candidate 1", got[0].SourceID)
	}
}

func TestSelector_Select_IdenticalPatternExcluded(t *testing.T) {
	// Sentences 1 and 2 differ only in headword vs reading, so their
	// normalized patterns are identical; the 1000-point penalty must push
	// candidate 2 below any non-identical alternative.
	in := []domain.Candidate{
		cand(1, "猫が好きです。", 156),
		cand(2, "ねこが好きです。", 155),
		cand(3, "あの猫は小さい。", 20),
	}

	got := Selector{K: 2}.Select(in)
	if len(got) != 2 {
		t.Fatalf("Select returned %d picks, want 2", len(got))
	}
	if got[0].SourceID != 1 || got[1].SourceID != 3 {
		t.Errorf("picks = [%d %d], want [1 3]", got[0].SourceID, got[1].SourceID)
	}
}

func TestSelector_Select_NoTwoPicksShareAPattern(t *testing.T) {
	in := []domain.Candidate{
		cand(1, "猫が好きです。", 156),
		cand(2, "ねこが好きです。", 155),
		cand(3, "猫が好きです。", 154),
		cand(4, "猫はよく眠る。", 80),
		cand(5, "うちに猫がいる。", 75),
	}

	got := Selector{K: 3}.Select(in)
	if len(got) != 3 {
		t.Fatalf("Select returned %d picks, want 3", len(got))
	}

	seen := make(map[string]int64, len(got))
	for _, c := range got {
		p := pattern(c.Sentence, c.Headword, c.Reading)
		if prev, ok := seen[p]; ok {
			t.Errorf("picks %d and %d share pattern %q", prev, c.SourceID, p)
		}
		seen[p] = c.SourceID
	}
}

func TestSelector_Select_TieBreaksToEarliestPoolPosition(t *testing.T) {
	// Candidates 2 and 3 have equal scores and equal penalties against the
	// first pick; the earlier pool position must win.
	in := []domain.Candidate{
		cand(1, "猫が好きです。", 156),
		cand(2, "猫はよく眠る。", 100),
		cand(3, "猫を見ている。", 100),
	}

	got := Selector{K: 2}.Select(in)
	if len(got) != 2 {
		t.Fatalf("Select returned %d picks, want 2", len(got))
	}
	if got[1].SourceID != 2 {
		t.Errorf("second pick = %d, want earliest tied candidate 2", got[1].SourceID)
	}
}

func TestSelector_Select_DefaultK(t *testing.T) {
	in := []domain.Candidate{
		cand(1, "猫が好きです。", 156),
		cand(2, "猫はよく眠る。", 100),
		cand(3, "猫を見ている。", 99),
		cand(4, "猫と遊んだよ。", 98),
	}

	got := Selector{}.Select(in)
	if len(got) != DefaultMaxPerSense {
		t.Fatalf("Select with zero K returned %d picks, want %d", len(got), DefaultMaxPerSense)
	}
}

func TestSimilarityPenalty(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Candidate
		want int
	}{
		{
			name: "identical pattern via headword and reading",
			a:    cand(1, "猫が好きです。", 0),
			b:    cand(2, "ねこが好きです。", 0),
			want: 1000,
		},
		{
			name: "same polite ending",
			a:    cand(1, "猫が好きです。", 0),
			b:    cand(2, "犬は立派です。", 0),
			want: 50,
		},
		{
			name: "different endings",
			a:    cand(1, "猫が好きです。", 0),
			b:    cand(2, "猫と遊びます。", 0),
			want: 0,
		},
		{
			name: "three shared structure words",
			a:    cand(1, "猫は家で魚を食べた。", 0),
			b:    cand(2, "犬は庭で骨を噛んだ。", 0),
			want: 30,
		},
		{
			name: "same stripped prefix",
			a:    cand(1, "昨日の夜、猫が来た。", 0),
			b:    cand(2, "昨日の朝、猫が鳴いた。", 0),
			want: 40,
		},
		{
			name: "ending and structure penalties stack",
			a:    cand(1, "猫は魚を箸で食べます。", 0),
			b:    cand(2, "犬は骨を庭で噛みます。", 0),
			want: 80,
		},
		{
			name: "nothing in common",
			a:    cand(1, "猫が好きです。", 0),
			b:    cand(2, "走れ！", 0),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := similarityPenalty(tt.a, tt.b); got != tt.want {
				t.Fatalf("similarityPenalty = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSimilarityPenalty_EmptyReadingIsSafe(t *testing.T) {
	a := domain.Candidate{Sentence: "水を飲む。", Headword: "水", Reading: ""}
	b := domain.Candidate{Sentence: "水が冷たい。", Headword: "水", Reading: ""}

	// Must not blow up on empty-needle replacement; the two sentences share
	// no rule, so the penalty is zero.
	if got := similarityPenalty(a, b); got != 0 {
		t.Fatalf("similarityPenalty = %d, want 0", got)
	}
}
