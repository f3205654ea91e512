package enhance

import (
	"fmt"
	"strings"
)

const defaultLanguage = "한국어"

// BuildInstruction generates the provider-agnostic instruction for a
// request. The templates are the dashboard's original Korean prompts;
// translate-family types interpolate the target language, the analysis
// family interpolates the video title and category, and a user-supplied
// prompt is appended verbatim as a trailing clause.
func BuildInstruction(req Request) string {
	language := req.Language
	if language == "" {
		language = defaultLanguage
	}

	var instruction string
	switch req.Type {
	case TypeSummarize:
		instruction = "다음 텍스트를 간결하고 명확하게 요약해주세요. 핵심 내용만 포함하여 2-3문장으로 정리해주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요."
	case TypeExpand:
		instruction = "다음 텍스트를 더 자세하고 풍부하게 확장해주세요. 배경 정보, 예시, 설명을 추가하여 이해하기 쉽게 만들어주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요."
	case TypeImproveCreative:
		instruction = "다음 텍스트를 특색있고 창의적으로 개선해주세요. 원문의 의미는 유지하면서 더 매력적이고 독창적인 표현으로 바꿔주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요."
	case TypeImproveCreative1MinNovel:
		instruction = "다음 텍스트를 1분 소설 형식으로 특색있게 개선해주세요. 소설적 요소를 추가하여 흥미롭고 몰입감 있는 스토리로 만들어주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요."
	case TypeImproveCreative1MinFact:
		instruction = "다음 텍스트를 1분 사실구성 형식으로 특색있게 개선해주세요. 길이는 15에서 20줄이 좋을 것 같아요.  사실에 기반하여 논리적이고 체계적으로 구성해주세요. 번호 필요 없이 사람이 말해주는 듯하게 표현해주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요."
	case TypeTranslate:
		instruction = fmt.Sprintf("다음 텍스트를 %s로 번역해주세요. 원문의 의미와 뉘앙스를 최대한 살려서 번역해주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요.", language)
	case TypeImproveExpand:
		instruction = "다음 텍스트를 개선하고 확장해주세요. 먼저 문법, 어조, 표현을 개선한 후, 배경 정보, 예시, 설명을 추가하여 더 풍부하고 이해하기 쉬운 텍스트로 만들어주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요."
	case TypeImproveExpandTranslate:
		instruction = fmt.Sprintf("다음 텍스트를 개선하고 확장해주세요. 먼저 문법, 어조, 표현을 개선한 후, 배경 정보, 예시, 설명을 추가하여 더 풍부하고 이해하기 쉬운 텍스트로 만들어주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요. 그리고 마지막으로 %s로 번역해주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요.", language)
	case TypeAnalyzeStructure:
		instruction = fmt.Sprintf(`다음 YouTube 영상 대본을 분석해주세요.
%s%s
분석 항목:
1. 핵심 주제와 메시지
2. 스토리텔링 구조 (도입-전개-클라이맥스-결론)
3. 시청자 참여 유도 기법
4. 감정적 훅(hook) 포인트
5. 정보 전달 방식의 특징
6. 처음 15초의 훅 분석
7. 시청 지속률을 높이는 구성 요소
8. 감정적 연결 포인트
9. 타겟 오디언스 특성
10. 댓글/참여 유도 기법`, videoLine("영상 제목", req.VideoTitle), videoLine("카테고리", req.VideoCategory))
	case TypeGenerateIdeas:
		instruction = fmt.Sprintf(`이 영상을 기반으로 5개의 새로운 영상 아이디어를 제안해주세요.
%s%s
각 아이디어마다 포함해주세요:
1. 클릭을 유도하는 제목 (2-3개 옵션)
2. 타겟 시청자
3. 예상 영상 길이
4. 핵심 차별화 포인트
5. 썸네일 컨셉
6. 예상 조회수 범위
7. 제작 난이도 (상/중/하)`, videoLine("원본 영상 제목", req.VideoTitle), videoLine("카테고리", req.VideoCategory))
	case TypeImproveHooks:
		instruction = `이 영상의 장점을 유지하면서 다음 관점에서 개선된 버전을 제안해주세요:

1. 더 강력한 도입부 (첫 15초) - 3가지 버전 제시
2. 시청 지속률을 높일 수 있는 구성 변경안
3. 추가할 수 있는 시각적 요소
4. 대상 시청자층 확대 방안
5. 트렌드 키워드 자연스럽게 포함시키기
6. 알고리즘 친화적 요소 추가
7. 공유하고 싶게 만드는 요소`
	case TypeCompetitiveScript:
		instruction = fmt.Sprintf(`다음 요소를 포함한 경쟁력 있는 영상 대본을 작성해주세요.
%s%s
필수 포함 요소:
1. 강력한 훅 (0-15초) - 시청자를 즉시 사로잡는 오프닝
2. 스토리텔링 요소 - 개인적 경험이나 사례
3. 데이터/통계 활용 - 신뢰성 있는 정보
4. 시청자 질문/참여 유도 - 댓글 유도 전략
5. 명확한 CTA (Call to Action)
6. 예상 시청 시간: 8-12분
7. 중간 중간 시청 유지 포인트
8. SEO 최적화된 설명문 초안`, videoLine("주제", req.VideoTitle), videoLine("카테고리", req.VideoCategory))
	case TypeImprove:
		instruction = improveInstruction
	default:
		// Unknown types get the plain improvement prompt, matching the
		// dashboard's historical behavior.
		instruction = improveInstruction
	}

	if userPrompt := strings.TrimSpace(req.UserPrompt); userPrompt != "" {
		instruction += "\n\n추가 요청사항: " + userPrompt
	}

	return instruction
}

const improveInstruction = "다음 텍스트를 더 자연스럽고 읽기 쉽게 개선해주세요. 문법, 어조, 표현을 수정하여 완성도 높은 텍스트로 만들어주세요. 부가 설명은 필요 없고 작업된 내용만 알려주세요."

func videoLine(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s\n", label, value)
}
