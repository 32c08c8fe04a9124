package questionnaire

import (
	"errors"
	"testing"

	"github.com/MiguesFerreira/NexusDev/internal/catalog"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		name    string
		answers Answers
		want    string
	}{
		{
			name: "direct sales wins",
			answers: Answers{
				KeyHasSite:   "Não, quero um do zero",
				KeyObjective: "Vendas Diretas",
				KeyIdentity:  "Apenas a logo",
				KeyDeadline:  "15 a 30 dias",
				KeyPain:      "Dificuldade em captar leads",
			},
			want: catalog.React,
		},
		{
			name:    "slow site beats portfolio",
			answers: Answers{KeyObjective: ObjectivePortfolio, KeyPain: PainSlowSite},
			want:    catalog.React,
		},
		{
			name:    "portfolio",
			answers: Answers{KeyObjective: ObjectivePortfolio, KeyPain: "Pouca visibilidade"},
			want:    catalog.Complete,
		},
		{
			name:    "institutional",
			answers: Answers{KeyObjective: ObjectiveInstitutional},
			want:    catalog.Complete,
		},
		{
			name:    "authority",
			answers: Answers{KeyObjective: ObjectiveAuthority, KeyPain: "Não consigo passar confiança"},
			want:    catalog.Professional,
		},
		{
			name:    "other objective",
			answers: Answers{KeyObjective: "Outros"},
			want:    catalog.Basic,
		},
		{
			name:    "empty",
			answers: nil,
			want:    catalog.Basic,
		},
		{
			name:    "ignores other answers",
			answers: Answers{KeyObjective: "Outros", KeyHasSite: "Sim, quero melhorar", KeyDeadline: "O mais rápido possível"},
			want:    catalog.Basic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.answers)
			if got != tt.want {
				t.Errorf("Recommend() = %q, want %q", got, tt.want)
			}
			if again := Recommend(tt.answers); again != got {
				t.Errorf("Recommend is not stable: %q then %q", got, again)
			}
		})
	}
}

func TestRecommend_AlwaysABasePackage(t *testing.T) {
	c := catalog.Default()
	qs := Questions()
	objective, pain := qs[1], qs[4]

	for _, o := range objective.Options {
		for _, p := range pain.Options {
			name := Recommend(Answers{KeyObjective: o, KeyPain: p})
			pkg, err := c.Get(name)
			if err != nil {
				t.Fatalf("Recommend(%q, %q) = %q, not in catalog", o, p, name)
			}
			if pkg.AddOn {
				t.Fatalf("Recommend(%q, %q) returned the add-on", o, p)
			}
		}
	}
}

func TestStepper_WalksToCompletion(t *testing.T) {
	var got Answers
	calls := 0
	s := NewStepper(func(a Answers) {
		calls++
		got = a
	})

	if s.Total() != 5 {
		t.Fatalf("expected 5 questions, got %d", s.Total())
	}

	for i := 0; i < s.Total(); i++ {
		if s.Index() != i {
			t.Fatalf("expected index %d, got %d", i, s.Index())
		}
		q := s.Current()
		done, err := s.Select(q.Options[0])
		if err != nil {
			t.Fatalf("Select at %d: %v", i, err)
		}
		if done != (i == s.Total()-1) {
			t.Fatalf("Select at %d: done = %v", i, done)
		}
	}

	if calls != 1 {
		t.Fatalf("expected completion callback once, got %d", calls)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 answers, got %d", len(got))
	}
	if got[KeyHasSite] != "Sim, quero melhorar" {
		t.Errorf("unexpected answer for %s: %q", KeyHasSite, got[KeyHasSite])
	}
	if !s.Done() {
		t.Error("expected stepper done")
	}

	if _, err := s.Select("anything"); !errors.Is(err, ErrCompleted) {
		t.Errorf("expected ErrCompleted, got %v", err)
	}
	if calls != 1 {
		t.Errorf("callback fired again after completion")
	}
}

func TestStepper_RejectsUnknownOption(t *testing.T) {
	s := NewStepper(nil)
	if _, err := s.Select("Talvez"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if s.Index() != 0 {
		t.Errorf("index moved on invalid option: %d", s.Index())
	}
	if len(s.Answers()) != 0 {
		t.Errorf("invalid option was recorded")
	}
}

func TestStepper_BackKeepsAndOverwritesAnswers(t *testing.T) {
	s := NewStepper(nil)

	if s.Back() {
		t.Fatal("Back at first question must be refused")
	}

	s.Select("Não, quero um do zero")
	s.Select(ObjectiveAuthority)

	if !s.Back() {
		t.Fatal("expected Back to succeed")
	}
	if s.Index() != 1 {
		t.Fatalf("expected index 1, got %d", s.Index())
	}
	if v, ok := s.Selected(); !ok || v != ObjectiveAuthority {
		t.Fatalf("expected previous answer kept, got %q %v", v, ok)
	}

	s.Select(ObjectiveDirectSales)
	a := s.Answers()
	if a[KeyObjective] != ObjectiveDirectSales {
		t.Errorf("expected overwrite, got %q", a[KeyObjective])
	}
	if a[KeyHasSite] != "Não, quero um do zero" {
		t.Errorf("first answer lost: %q", a[KeyHasSite])
	}
	if len(a) != 2 {
		t.Errorf("expected 2 answers, got %d", len(a))
	}
}

func TestStepper_Progress(t *testing.T) {
	s := NewStepper(nil)
	if p := s.Progress(); p != 0.2 {
		t.Errorf("expected 0.2, got %v", p)
	}
	s.Select(s.Current().Options[1])
	if p := s.Progress(); p != 0.4 {
		t.Errorf("expected 0.4, got %v", p)
	}
}

func TestAnswers_BulletsInQuestionOrder(t *testing.T) {
	a := Answers{
		KeyPain:      "Pouca visibilidade",
		KeyHasSite:   "Sim, quero melhorar",
		"unknown":    "ignored",
		KeyObjective: "Outros",
	}
	got := a.Bullets()
	want := []string{
		"• Possui site: Sim, quero melhorar",
		"• Objetivo: Outros",
		"• Maior dor: Pouca visibilidade",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d bullets, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bullet %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAnswers_Validate(t *testing.T) {
	tests := []struct {
		name    string
		answers Answers
		want    error
	}{
		{"nil", nil, nil},
		{"partial", Answers{KeyObjective: ObjectiveDirectSales}, nil},
		{"complete", Answers{
			KeyHasSite:   "Sim, quero melhorar",
			KeyObjective: "Outros",
			KeyIdentity:  "Apenas a logo",
			KeyDeadline:  "Mais de 30 dias",
			KeyPain:      PainSlowSite,
		}, nil},
		{"free text value", Answers{KeyPain: "qualquer coisa"}, ErrInvalidOption},
		{"option of another question", Answers{KeyHasSite: ObjectiveDirectSales}, ErrInvalidOption},
		{"unknown key", Answers{"cor": "azul"}, ErrUnknownKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.answers.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
