package enhance

import (
	"strings"
	"testing"
)

func TestBuildInstructionLanguageHandling(t *testing.T) {
	tests := []struct {
		name        string
		req         Request
		wantContain []string
		wantOmit    []string
	}{
		{
			name:        "Translate includes target language",
			req:         Request{Type: TypeTranslate, Language: "영어"},
			wantContain: []string{"영어", "번역"},
		},
		{
			name:        "Translate defaults to Korean",
			req:         Request{Type: TypeTranslate},
			wantContain: []string{"한국어"},
		},
		{
			name:        "Summarize omits the language token",
			req:         Request{Type: TypeSummarize, Language: "영어"},
			wantContain: []string{"요약"},
			wantOmit:    []string{"영어"},
		},
		{
			name:        "Improve expand translate includes language",
			req:         Request{Type: TypeImproveExpandTranslate, Language: "일본어"},
			wantContain: []string{"일본어", "확장"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instruction := BuildInstruction(tt.req)
			for _, token := range tt.wantContain {
				if !strings.Contains(instruction, token) {
					t.Errorf("instruction missing %q:\n%s", token, instruction)
				}
			}
			for _, token := range tt.wantOmit {
				if strings.Contains(instruction, token) {
					t.Errorf("instruction should not contain %q:\n%s", token, instruction)
				}
			}
		})
	}
}

func TestBuildInstructionUserPrompt(t *testing.T) {
	req := Request{Type: TypeSummarize, UserPrompt: "  존댓말로 작성해주세요  "}
	instruction := BuildInstruction(req)

	if !strings.Contains(instruction, "추가 요청사항: 존댓말로 작성해주세요") {
		t.Errorf("user prompt not appended as trailing clause:\n%s", instruction)
	}
	if !strings.HasSuffix(instruction, "존댓말로 작성해주세요") {
		t.Errorf("user prompt must be the trailing clause:\n%s", instruction)
	}

	if instruction := BuildInstruction(Request{Type: TypeSummarize, UserPrompt: "   "}); strings.Contains(instruction, "추가 요청사항") {
		t.Error("whitespace-only user prompt must not be appended")
	}
}

func TestBuildInstructionAnalysisMetadata(t *testing.T) {
	req := Request{
		Type:          TypeAnalyzeStructure,
		VideoTitle:    "고양이 브이로그",
		VideoCategory: "Pets & Animals",
	}
	instruction := BuildInstruction(req)

	if !strings.Contains(instruction, "영상 제목: 고양이 브이로그") {
		t.Errorf("video title line missing:\n%s", instruction)
	}
	if !strings.Contains(instruction, "카테고리: Pets & Animals") {
		t.Errorf("category line missing:\n%s", instruction)
	}

	bare := BuildInstruction(Request{Type: TypeAnalyzeStructure})
	if strings.Contains(bare, "영상 제목:") || strings.Contains(bare, "카테고리:") {
		t.Errorf("metadata lines must be omitted when absent:\n%s", bare)
	}
}

func TestBuildInstructionCoversAllTypes(t *testing.T) {
	types := []EnhancementType{
		TypeSummarize, TypeExpand, TypeImprove, TypeImproveCreative,
		TypeImproveCreative1MinNovel, TypeImproveCreative1MinFact,
		TypeTranslate, TypeImproveExpand, TypeImproveExpandTranslate,
		TypeAnalyzeStructure, TypeGenerateIdeas, TypeImproveHooks,
		TypeCompetitiveScript,
	}

	seen := make(map[string]EnhancementType)
	for _, typ := range types {
		instruction := BuildInstruction(Request{Type: typ})
		if instruction == "" {
			t.Errorf("type %s produced an empty instruction", typ)
		}
		if prev, ok := seen[instruction]; ok {
			t.Errorf("types %s and %s share the same instruction", prev, typ)
		}
		seen[instruction] = typ
	}
}

func TestBuildInstructionUnknownTypeFallsBack(t *testing.T) {
	got := BuildInstruction(Request{Type: EnhancementType("mystery")})
	want := BuildInstruction(Request{Type: TypeImprove})
	if got != want {
		t.Errorf("unknown type should fall back to the improve instruction")
	}
}
