package analysis

import (
	"strings"
	"testing"
)

func TestParseSmartGoals(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"plain array", `[{"area":"A","goal":"g1"},{"area":"B","goal":"g2"}]`, 2, false},
		{"fenced", "```json\n[{\"area\":\"A\",\"goal\":\"g\"}]\n```", 1, false},
		{"empty", "", 0, false},
		{"wrapped", `{"metas":[{"area":"A","goal":"g"}]}`, 1, false},
		{"single object", `{"area":"A","goal":"g"}`, 1, false},
		{"trailing comma", `[{"area":"A","goal":"g"},]`, 1, false},
		{"blank goals dropped", `[{"area":"A","goal":" "},{"area":"B","goal":"g"}]`, 1, false},
		{"wrong shape", `{"foo": 1}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSmartGoals(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSmartGoals error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("Expected %d goals, got %d (%v)", tt.want, len(got), got)
			}
		})
	}
}

func TestBuildNarrativePrompt(t *testing.T) {
	p := BuildNarrativePrompt([]string{"A", "B"}, map[string]int{"A": 3, "B": 10}, "cansado")
	want := "Aqui estão minhas notas de hoje:\n\nA: 3/10\nB: 10/10\n\n\nNotas do momento: cansado\n\nMe diz:"
	if !strings.Contains(p, want) {
		t.Errorf("Unexpected prompt:\n%s", p)
	}
	if !strings.HasSuffix(p, "- Uma frase dura se eu estiver me sabotando") {
		t.Error("Expected prompt to end with the last instruction")
	}
}

func TestBuildSmartGoalsPrompt(t *testing.T) {
	p := BuildSmartGoalsPrompt([]string{"X"}, map[string]int{"X": 0}, "")
	for _, want := range []string{"X: 0/10\n\nNotas do usuário: Nenhuma nota fornecida.", "SAÍDA OBRIGATÓRIA (JSON ARRAY)"} {
		if !strings.Contains(p, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}
